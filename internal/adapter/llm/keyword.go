package llm

import (
	"context"
	"strings"
	"unicode"

	"cnpjchat/internal/domain"
)

// KeywordClassifier is the deterministic intent matcher, used when no
// model is configured and as the swappable baseline for tests. Intent is
// decided by keyword groups; the company name is the longest run of
// capitalized words outside the question's opening word.
type KeywordClassifier struct{}

// NewKeywordClassifier creates the deterministic classifier.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

var intentKeywords = []struct {
	intent domain.Intent
	words  []string
}{
	{domain.IntentBranches, []string{"filial", "filiais"}},
	{domain.IntentSimilarity, []string{"parecida", "parecidas", "semelhante", "semelhantes", "similar", "similares"}},
	{domain.IntentAddress, []string{"endereço", "endereco", "onde fica", "onde está", "onde esta", "localiza"}},
}

// Classify decides the intent from keyword groups, in priority order.
func (k *KeywordClassifier) Classify(_ context.Context, question string) (domain.Classification, error) {
	lower := strings.ToLower(question)

	result := domain.Classification{
		Intent:  domain.IntentFallback,
		Company: extractName(question),
	}
	for _, group := range intentKeywords {
		for _, w := range group.words {
			if strings.Contains(lower, w) {
				result.Intent = group.intent
				return result, nil
			}
		}
	}
	return result, nil
}

// extractName returns the longest run of capitalized words, skipping the
// question's first word (sentence capitalization carries no signal).
func extractName(question string) string {
	words := strings.Fields(question)

	var best, current []string
	for i, w := range words {
		trimmed := strings.TrimFunc(w, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if i > 0 && trimmed != "" && beginsUpper(trimmed) {
			current = append(current, trimmed)
			if len(current) > len(best) {
				best = current
			}
			continue
		}
		current = nil
	}
	return strings.Join(best, " ")
}

func beginsUpper(w string) bool {
	for _, r := range w {
		return unicode.IsUpper(r)
	}
	return false
}
