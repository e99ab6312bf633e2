package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cnpjchat/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the question-answering HTTP API",
	Long: `Start the HTTP API. Endpoints:

  POST /ask                one question, routed by intent
  GET  /healthz            liveness probe
  GET  /history/{session}  recorded turns of one chat session`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, err := buildPipeline(ctx, true)
	if err != nil {
		return err
	}
	defer p.close()

	serverCfg := cfg.Server
	if serveAddr != "" {
		serverCfg.Addr = serveAddr
	}

	srv := server.New(serverCfg, p.ask, p.facts, p.history)
	return srv.ListenAndServe(ctx)
}
