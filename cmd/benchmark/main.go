package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"cnpjchat/config"
	"cnpjchat/internal/adapter/store/sqlite"
	"cnpjchat/internal/adapter/vector"
	"cnpjchat/internal/port"
	"cnpjchat/internal/usecase"
)

func main() {
	dir := flag.String("dir", ".", "Directory holding cnpjchat.yaml and the database")
	name := flag.String("name", "", "Company name to query")
	topK := flag.Int("k", 10, "Number of results")
	flag.Parse()

	if *name == "" {
		fmt.Println("Usage: go run cmd/benchmark/main.go -dir . -name \"empresa\"")
		fmt.Println("\nTests:")
		fmt.Println("  1. Name resolution (full-text index + substring fallback)")
		fmt.Println("  2. Vector index load time and size")
		fmt.Println("  3. Similarity query latency")
		os.Exit(1)
	}

	cfg, err := config.LoadFromDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	st, err := sqlite.Open(cfg.DatabasePath(*dir))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	ctx := context.Background()

	fmt.Println("SIMILARITY SEARCH BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))

	loadStart := time.Now()
	idx := vector.NewMemoryIndex(0)
	var items []port.VectorItem
	err = st.AllVectors(ctx, func(cnpj string, vec []float32) error {
		items = append(items, port.VectorItem{ID: cnpj, Vector: vec})
		return nil
	})
	if err == nil {
		err = idx.Upsert(items)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading vectors: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Vectors loaded: %d in %s\n", idx.Count(), time.Since(loadStart).Round(time.Millisecond))

	resolver := usecase.NewResolveUseCase(st, st, nil)
	resolveStart := time.Now()
	cnpj, err := resolver.Resolve(ctx, *name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Resolution failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Resolved %q -> %s in %s\n", *name, cnpj, time.Since(resolveStart).Round(time.Microsecond))

	similar := usecase.NewSimilarUseCase(st, idx, st, *topK)
	queryStart := time.Now()
	results, err := similar.Similar(ctx, cnpj, *topK)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Similarity query failed: %v\n", err)
		os.Exit(1)
	}
	elapsed := time.Since(queryStart)

	fmt.Printf("Query: %q (top %d)\n", *name, *topK)
	fmt.Println(strings.Repeat("-", 70))
	for i, r := range results {
		fmt.Printf("%2d. %-50s %.4f\n", i+1, r.RazaoSocial, r.Score)
	}
	fmt.Println(strings.Repeat("-", 70))
	fmt.Printf("Latency: %s for %d vectors\n", elapsed.Round(time.Microsecond), idx.Count())
}
