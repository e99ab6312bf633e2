package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cnpjchat/internal/domain"
)

var askQuestion string

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer one question from the command line",
	Long: `Run one question through the full pipeline without the HTTP layer.
Output is the same JSON the /ask endpoint returns.

Examples:
  cnpjchat ask -q "Onde fica a empresa Scoras Tecnologia?"
  cnpjchat ask -q "Quantas filiais tem a Vaccinar?"`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askQuestion, "question", "q", "", "question to answer (required)")
	askCmd.MarkFlagRequired("question")
}

func runAsk(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer p.close()

	answer, err := p.ask.Ask(cmd.Context(), askQuestion)
	if err != nil {
		if recoverable(err) {
			return printJSON(map[string]string{"erro": err.Error()})
		}
		return err
	}
	return printJSON(answerBody(answer))
}

// answerBody mirrors the HTTP wire shapes.
func answerBody(a domain.Answer) any {
	switch a.Kind {
	case domain.IntentAddress:
		return a.Address
	case domain.IntentBranches:
		return a.Branches
	case domain.IntentSimilarity:
		return a.Similar
	default:
		return map[string]string{"sql": a.SQL, "answer": a.Text}
	}
}

func recoverable(err error) bool {
	return errors.Is(err, domain.ErrCompanyNotFound) ||
		errors.Is(err, domain.ErrAddressNotFound) ||
		errors.Is(err, domain.ErrVectorMissing) ||
		errors.Is(err, domain.ErrQueryRejected) ||
		errors.Is(err, domain.ErrLLMUnavailable)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
