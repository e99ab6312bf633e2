package vector

import (
	"sort"
	"strconv"
	"strings"
)

const (
	primaryWeight   = 1.0
	secondaryWeight = 0.3

	// DefaultDimension covers the identity coordinate mapping used when no
	// taxonomy is loaded.
	DefaultDimension = 600
)

// Encoder maps a company's CNAE codes onto a fixed-size taxonomy vector.
// Codes are truncated to their first 5 characters (category granularity)
// before coordinate lookup. The primary code weighs 1.0, each secondary
// 0.3, and a coordinate shared between the two keeps the larger weight.
// Codes outside the taxonomy contribute nothing, which keeps the output
// dimension uniform across the dataset.
//
// With a taxonomy the coordinate is the code's position in the sorted
// category list; without one it is the numeric value of the truncation.
type Encoder struct {
	dimension int
	coords    map[string]int
}

// NewEncoder creates an encoder with the identity coordinate mapping over
// a taxonomy of the given size.
func NewEncoder(dimension int) *Encoder {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &Encoder{dimension: dimension}
}

// NewEncoderFromCodes creates an encoder whose taxonomy is the sorted,
// deduplicated 5-character truncations of codes. The official CNAE class
// list is static, so the mapping covers codes never observed in the
// company data.
func NewEncoderFromCodes(codes []string) *Encoder {
	seen := make(map[string]bool, len(codes))
	var cats []string
	for _, code := range codes {
		cat := truncate(code)
		if cat == "" || seen[cat] {
			continue
		}
		seen[cat] = true
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	coords := make(map[string]int, len(cats))
	for i, cat := range cats {
		coords[cat] = i
	}
	return &Encoder{dimension: len(cats), coords: coords}
}

// Dimension returns the fixed output vector size.
func (e *Encoder) Dimension() int {
	return e.dimension
}

// Encode builds the vector for one company. primary is a single code,
// secondary a comma-separated list; either may be empty.
func (e *Encoder) Encode(primary, secondary string) []float32 {
	vec := make([]float32, e.dimension)

	if idx, ok := e.coordinate(primary); ok {
		vec[idx] = primaryWeight
	}

	for _, code := range strings.Split(secondary, ",") {
		idx, ok := e.coordinate(code)
		if !ok {
			continue
		}
		if vec[idx] < secondaryWeight {
			vec[idx] = secondaryWeight
		}
	}

	return vec
}

// coordinate maps a raw code to its vector index. Returns false for empty
// codes and codes outside the taxonomy.
func (e *Encoder) coordinate(code string) (int, bool) {
	cat := truncate(code)
	if cat == "" {
		return 0, false
	}
	if e.coords != nil {
		idx, ok := e.coords[cat]
		return idx, ok
	}
	idx, err := strconv.Atoi(cat)
	if err != nil || idx < 0 || idx >= e.dimension {
		return 0, false
	}
	return idx, true
}

func truncate(code string) string {
	code = strings.TrimSpace(code)
	if len(code) > 5 {
		code = code[:5]
	}
	return code
}
