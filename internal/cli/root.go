package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cnpjchat/config"
	"cnpjchat/internal/log"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "cnpjchat",
	Short: "Natural-language questions over the CNPJ company registry",
	Long: `cnpjchat answers natural-language questions about Brazilian companies:
headquarters address, branch counts and CNAE-profile similarity, with an
optional LLM fallback that delegates free-form questions to generated SQL.

Example usage:
  cnpjchat ingest                       # Load the registry CSV exports
  cnpjchat index                        # Build the search indexes
  cnpjchat ask -q "Onde fica a Acme?"   # One-shot question
  cnpjchat serve                        # HTTP API`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		log.SetLevel(cfg.Logging.Level)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./cnpjchat.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "working directory (default is current directory)")
}
