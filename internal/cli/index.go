package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cnpjchat/internal/adapter/vector"
	"cnpjchat/internal/usecase"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the search indexes from the ingested registry",
	Long: `Rebuild the full-text index over company legal names and
rematerialize every company's CNAE vector. Run after 'cnpjchat ingest'.`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	start := time.Now()
	idx := vector.NewMemoryIndex(0)
	stats, err := usecase.NewIndexUseCase(st, idx, nil, cfg.Database.VectorDimension).Rebuild(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Indexed %d companies (%d vectors, dimension %d) in %s\n",
		stats.Companies, stats.Vectors, stats.Dimension, time.Since(start).Round(time.Millisecond))
	return nil
}
