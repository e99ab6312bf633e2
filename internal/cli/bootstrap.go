package cli

import (
	"context"
	"fmt"

	"cnpjchat/internal/adapter/cache"
	"cnpjchat/internal/adapter/history"
	"cnpjchat/internal/adapter/llm"
	"cnpjchat/internal/adapter/store/sqlite"
	"cnpjchat/internal/adapter/vector"
	"cnpjchat/internal/log"
	"cnpjchat/internal/port"
	"cnpjchat/internal/usecase"
)

// pipeline bundles the wired question-answering stack shared by the ask
// and serve commands.
type pipeline struct {
	store   *sqlite.Store
	history port.HistoryStore
	ask     *usecase.AskUseCase
	facts   *usecase.FactsUseCase
}

func (p *pipeline) close() {
	if p.history != nil {
		p.history.Close()
	}
	p.store.Close()
}

// openStore opens the registry database at the configured path.
func openStore() (*sqlite.Store, error) {
	st, err := sqlite.Open(cfg.DatabasePath(rootDir))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// buildPipeline opens the store, loads the vector index and assembles the
// use cases. The LLM adapter is optional: without it the deterministic
// keyword classifier routes questions and the fallback route reports
// unavailability.
func buildPipeline(ctx context.Context, withHistory bool) (*pipeline, error) {
	st, err := sqlite.Open(cfg.DatabasePath(rootDir))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	resolveCache := cache.NewResolveCache(cfg.Retrieve.ResolveCache, cfg.Retrieve.ResolveTTL)
	idx := vector.NewMemoryIndex(0)

	indexUC := usecase.NewIndexUseCase(st, idx, resolveCache, cfg.Database.VectorDimension)
	if err := indexUC.Load(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("load vector index: %w", err)
	}
	if idx.Count() == 0 {
		log.Warnf("no vectors loaded; run 'cnpjchat index' to enable similarity queries")
	}

	var classifier port.Classifier = llm.NewKeywordClassifier()
	var generator port.QueryGenerator
	var summarizer port.Summarizer
	if cfg.LLM.Enabled {
		client, err := llm.NewOpenAIClient(cfg.LLM)
		if err != nil {
			log.Warnf("llm disabled: %v", err)
		} else {
			classifier = client
			generator = client
			summarizer = client
			log.Infof("llm enabled, model %s", client.ModelName())
		}
	}

	resolver := usecase.NewResolveUseCase(st, st, resolveCache)
	facts := usecase.NewFactsUseCase(st)
	similar := usecase.NewSimilarUseCase(st, idx, st, cfg.Retrieve.TopK)
	askUC := usecase.NewAskUseCase(classifier, resolver, facts, similar,
		st, generator, summarizer, cfg.LLM.MaxRows, cfg.Server.RequestTimeout)

	p := &pipeline{store: st, ask: askUC, facts: facts}
	if withHistory {
		h, err := history.NewBoltHistory(cfg.HistoryPath(rootDir))
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("open history: %w", err)
		}
		p.history = h
	}
	return p, nil
}
