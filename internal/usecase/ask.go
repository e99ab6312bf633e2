package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cnpjchat/internal/domain"
	"cnpjchat/internal/log"
	"cnpjchat/internal/port"
)

// AskUseCase is the entry point for one natural-language question. It
// classifies the question, routes it to the matching structured handler,
// and falls back to delegated SQL generation for everything else.
//
// Classification failures never fail a question: they degrade to the
// fallback route.
type AskUseCase struct {
	classifier port.Classifier
	resolver   *ResolveUseCase
	facts      *FactsUseCase
	similar    *SimilarUseCase
	runner     port.QueryRunner
	generator  port.QueryGenerator
	summarizer port.Summarizer
	maxRows    int
	timeout    time.Duration
}

// NewAskUseCase creates a new ask use case. generator and summarizer may
// be nil, in which case fallback questions return domain.ErrLLMUnavailable.
func NewAskUseCase(
	classifier port.Classifier,
	resolver *ResolveUseCase,
	facts *FactsUseCase,
	similar *SimilarUseCase,
	runner port.QueryRunner,
	generator port.QueryGenerator,
	summarizer port.Summarizer,
	maxRows int,
	timeout time.Duration,
) *AskUseCase {
	if maxRows <= 0 {
		maxRows = 15
	}
	return &AskUseCase{
		classifier: classifier,
		resolver:   resolver,
		facts:      facts,
		similar:    similar,
		runner:     runner,
		generator:  generator,
		summarizer: summarizer,
		maxRows:    maxRows,
		timeout:    timeout,
	}
}

// Ask answers one question. The Answer's Kind records which route served
// it; exactly one payload field is populated.
func (u *AskUseCase) Ask(ctx context.Context, question string) (domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Answer{}, domain.ErrInvalidInput
	}

	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}

	cls, err := u.classifier.Classify(ctx, question)
	if err != nil {
		log.Warnf("classification failed, degrading to fallback: %v", err)
		cls = domain.Classification{Intent: domain.IntentFallback}
	}
	log.Debugf("question classified as %q (empresa=%q)", cls.Intent, cls.Company)

	// When no name was extracted, the whole question is the lookup target.
	target := cls.Company
	if target == "" {
		target = question
	}

	switch cls.Intent {
	case domain.IntentAddress:
		return u.answerAddress(ctx, target)
	case domain.IntentBranches:
		return u.answerBranches(ctx, target)
	case domain.IntentSimilarity:
		return u.answerSimilar(ctx, target)
	default:
		return u.answerDelegated(ctx, question)
	}
}

func (u *AskUseCase) answerAddress(ctx context.Context, name string) (domain.Answer, error) {
	cnpj, err := u.resolver.Resolve(ctx, name)
	if err != nil {
		return domain.Answer{}, err
	}
	addr, err := u.facts.Address(ctx, cnpj)
	if err != nil {
		return domain.Answer{}, err
	}
	return domain.Answer{Kind: domain.IntentAddress, Address: &addr}, nil
}

func (u *AskUseCase) answerBranches(ctx context.Context, name string) (domain.Answer, error) {
	cnpj, err := u.resolver.Resolve(ctx, name)
	if err != nil {
		return domain.Answer{}, err
	}
	count, err := u.facts.Branches(ctx, cnpj)
	if err != nil {
		return domain.Answer{}, err
	}
	return domain.Answer{Kind: domain.IntentBranches, Branches: &count}, nil
}

func (u *AskUseCase) answerSimilar(ctx context.Context, name string) (domain.Answer, error) {
	cnpj, err := u.resolver.Resolve(ctx, name)
	if err != nil {
		return domain.Answer{}, err
	}
	similar, err := u.similar.Similar(ctx, cnpj, 0)
	if err != nil {
		return domain.Answer{}, err
	}
	return domain.Answer{Kind: domain.IntentSimilarity, Similar: similar}, nil
}

// answerDelegated serves the fallback route: generate a SELECT against the
// schema summary, run it under the guard, and summarize the result.
func (u *AskUseCase) answerDelegated(ctx context.Context, question string) (domain.Answer, error) {
	if u.generator == nil || u.summarizer == nil {
		return domain.Answer{}, domain.ErrLLMUnavailable
	}

	schema, err := u.runner.SchemaText(ctx)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("schema summary: %w", err)
	}

	query, err := u.generator.GenerateSQL(ctx, question, schema)
	if err != nil {
		return domain.Answer{}, err
	}
	log.Debugf("generated query: %s", query)

	table, err := u.runner.RunReadOnly(ctx, query, u.maxRows)
	if err != nil {
		return domain.Answer{}, err
	}

	text, err := u.summarizer.Summarize(ctx, RenderTable(table))
	if err != nil {
		return domain.Answer{}, err
	}

	return domain.Answer{Kind: domain.IntentFallback, SQL: query, Text: text}, nil
}

// RenderTable formats a query result as a pipe-delimited text table for
// the summarization prompt.
func RenderTable(t port.Table) string {
	if len(t.Columns) == 0 {
		return "(sem resultados)"
	}

	var b strings.Builder
	b.WriteString("| ")
	b.WriteString(strings.Join(t.Columns, " | "))
	b.WriteString(" |\n|")
	for range t.Columns {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range t.Rows {
		b.WriteString("| ")
		b.WriteString(strings.Join(row, " | "))
		b.WriteString(" |\n")
	}
	if len(t.Rows) == 0 {
		b.WriteString("(0 linhas)\n")
	}
	return b.String()
}
