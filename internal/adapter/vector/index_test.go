package vector

import (
	"testing"

	"cnpjchat/internal/port"
)

func seedIndex(t *testing.T, dim int, items map[string][]float32) *MemoryIndex {
	t.Helper()
	idx := NewMemoryIndex(dim)
	batch := make([]port.VectorItem, 0, len(items))
	for id, vec := range items {
		batch = append(batch, port.VectorItem{ID: id, Vector: vec})
	}
	if err := idx.Upsert(batch); err != nil {
		t.Fatal(err)
	}
	return idx
}

func TestSearchExcludesSelf(t *testing.T) {
	idx := seedIndex(t, 3, map[string][]float32{
		"0001": {1, 0, 0},
		"0002": {1, 0, 0},
		"0003": {0, 1, 0},
	})

	results, err := idx.Search([]float32{1, 0, 0}, 10, "0001")
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if r.ID == "0001" {
			t.Error("query company must not appear in its own ranking")
		}
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
}

func TestSearchScoreBoundsAndOrder(t *testing.T) {
	idx := seedIndex(t, 3, map[string][]float32{
		"0001": {1, 0, 0},
		"0002": {1, 0.3, 0},
		"0003": {0, 1, 0},
		"0004": {0.5, 0.5, 0},
	})

	results, err := idx.Search([]float32{1, 0, 0}, 10, "")
	if err != nil {
		t.Fatal(err)
	}

	prev := 1.1
	for _, r := range results {
		if r.Score < 0 || r.Score > 1 {
			t.Errorf("score out of [0,1]: %f", r.Score)
		}
		if r.Score > prev {
			t.Errorf("results not in descending order: %f after %f", r.Score, prev)
		}
		prev = r.Score
	}
	if results[0].ID != "0001" {
		t.Errorf("expected identical vector first, got %s", results[0].ID)
	}
}

func TestSearchTieBreakByID(t *testing.T) {
	idx := seedIndex(t, 2, map[string][]float32{
		"0005": {1, 0},
		"0002": {1, 0},
		"0009": {1, 0},
	})

	results, err := idx.Search([]float32{1, 0}, 3, "")
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"0002", "0005", "0009"}
	for i, id := range want {
		if results[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, results[i].ID)
		}
	}
}

func TestSearchTopKCap(t *testing.T) {
	items := make(map[string][]float32)
	for i := 0; i < 25; i++ {
		items[string(rune('a'+i))] = []float32{float32(i), 1}
	}
	idx := seedIndex(t, 2, items)

	results, err := idx.Search([]float32{1, 1}, 10, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) > 10 {
		t.Errorf("expected at most 10 results, got %d", len(results))
	}
}

func TestSearchFewerThanK(t *testing.T) {
	idx := seedIndex(t, 2, map[string][]float32{
		"0001": {1, 0},
		"0002": {0, 1},
	})

	results, err := idx.Search([]float32{1, 0}, 10, "0001")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
	}
}

func TestSearchRejectsBadInput(t *testing.T) {
	idx := seedIndex(t, 2, map[string][]float32{"0001": {1, 0}})

	if _, err := idx.Search([]float32{1, 0, 0}, 10, ""); err == nil {
		t.Error("expected dimension mismatch error")
	}
	if _, err := idx.Search([]float32{1, 0}, 0, ""); err == nil {
		t.Error("expected error for non-positive k")
	}
}

func TestUpsertDimensionMismatch(t *testing.T) {
	idx := NewMemoryIndex(3)
	err := idx.Upsert([]port.VectorItem{{ID: "x", Vector: []float32{1, 2}}})
	if err == nil {
		t.Error("expected dimension mismatch error")
	}
	if idx.Count() != 0 {
		t.Errorf("expected empty index, got %d", idx.Count())
	}
}
