package cli

import (
	"fmt"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"cnpjchat/internal/usecase"
)

var ingestDataDir string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load the registry CSV exports into the database",
	Long: `Load the Receita Federal CSV exports (empresas, estabelecimentos,
simples, socios, naturezas, cnaes) into the local database. File selection
uses the glob patterns from the config's ingest section.

Examples:
  cnpjchat ingest --data ./dados
  cnpjchat ingest              # data_dir from cnpjchat.yaml`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringVar(&ingestDataDir, "data", "", "directory holding the CSV exports (default from config)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ingestCfg := cfg.Ingest
	if ingestDataDir != "" {
		ingestCfg.DataDir = ingestDataDir
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var initialized bool
	startTime := time.Now()

	progress := func(processed, total int, currentFile string) {
		barMu.Lock()
		defer barMu.Unlock()

		if !initialized {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Ingesting[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
			initialized = true
		}
		bar.Set(processed)
	}

	result, err := usecase.NewIngestUseCase(st, ingestCfg).Ingest(cmd.Context(), progress)
	if err != nil {
		return err
	}

	fmt.Printf("Loaded %d rows from %d files in %s\n",
		result.Rows, result.Files, time.Since(startTime).Round(time.Millisecond))
	for _, e := range result.Errors {
		fmt.Printf("  warning: %s\n", e)
	}
	return nil
}
