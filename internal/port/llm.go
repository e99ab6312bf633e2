package port

import (
	"context"

	"cnpjchat/internal/domain"
)

// Classifier detects the intent of a question and extracts the company
// name, when one is present. Implementations may be model-backed or
// deterministic; the dispatcher treats any error as a fallback trigger.
type Classifier interface {
	Classify(ctx context.Context, question string) (domain.Classification, error)
}

// QueryGenerator translates a free-text question into one SQL statement
// against the provided schema summary.
type QueryGenerator interface {
	GenerateSQL(ctx context.Context, question, schema string) (string, error)
}

// Summarizer turns a rendered result table into a short prose answer.
type Summarizer interface {
	Summarize(ctx context.Context, table string) (string, error)
}
