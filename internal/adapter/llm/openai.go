// Package llm implements the delegated language-model roles: intent
// classification, natural-language-to-SQL translation, and result
// summarization. The deterministic retrieval core never depends on a
// specific provider; everything goes through the port interfaces.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"cnpjchat/config"
	"cnpjchat/internal/domain"
)

const classifySystemPrompt = `Você é um classificador de consultas sobre empresas CNPJ.
Analise a pergunta e devolva JSON no formato:
{"intent":"<local|filial|cnae_sim|rag>", "empresa":"<nome ou vazio>"}
• 'local'  → usuário quer o endereço/matriz.
• 'filial' → quantas filiais tem.
• 'cnae_sim' → empresas semelhantes pelo CNAE.
• 'rag'    → qualquer outra pergunta.
Extraia o nome da empresa da frase (se houver).`

const sqlSystemPrompt = `Você gera consultas **SQL SQLite**. Use EXCLUSIVAMENTE o schema abaixo e NÃO invente tabelas ou colunas. Gere apenas consultas SELECT.

%s

Retorne apenas JSON no formato {"sql": "..."}`

const summarizeSystemPrompt = `Resuma a tabela em português, de forma concisa e clara.`

// OpenAIClient implements the Classifier, QueryGenerator and Summarizer
// ports over any OpenAI-compatible chat-completions endpoint.
type OpenAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAIClient builds the client from configuration. Returns
// domain.ErrLLMUnavailable when no API key is present, so callers can
// run with the deterministic classifier only.
func NewOpenAIClient(cfg config.LLM) (*OpenAIClient, error) {
	apiKey := strings.TrimSpace(os.Getenv(cfg.APIKeyEnv))
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s not set", domain.ErrLLMUnavailable, cfg.APIKeyEnv)
	}

	opts := []openaiopt.RequestOption{openaiopt.WithAPIKey(apiKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, openaiopt.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, openaiopt.WithRequestTimeout(cfg.Timeout))
	}

	return &OpenAIClient{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}, nil
}

// ModelName returns the configured model.
func (c *OpenAIClient) ModelName() string {
	return c.model
}

// Classify detects the question's intent and extracts a company name.
func (c *OpenAIClient) Classify(ctx context.Context, question string) (domain.Classification, error) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"intent": map[string]any{
				"type": "string",
				"enum": []string{"local", "filial", "cnae_sim", "rag"},
			},
			"empresa": map[string]any{"type": "string"},
		},
		"required":             []string{"intent", "empresa"},
		"additionalProperties": false,
	}

	content, err := c.complete(ctx, classifySystemPrompt, question, &shared.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:   "intent_result",
		Schema: schema,
		Strict: openai.Bool(true),
	})
	if err != nil {
		return domain.Classification{}, err
	}

	var result domain.Classification
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return domain.Classification{}, fmt.Errorf("parsing classification: %w", err)
	}

	switch result.Intent {
	case domain.IntentAddress, domain.IntentBranches, domain.IntentSimilarity, domain.IntentFallback:
	default:
		result.Intent = domain.IntentFallback
	}
	return result, nil
}

// GenerateSQL translates the question into one SELECT statement against
// the provided schema summary.
func (c *OpenAIClient) GenerateSQL(ctx context.Context, question, schema string) (string, error) {
	jsonSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"sql": map[string]any{"type": "string"},
		},
		"required":             []string{"sql"},
		"additionalProperties": false,
	}

	content, err := c.complete(ctx, fmt.Sprintf(sqlSystemPrompt, schema), question, &shared.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:   "sql_query",
		Schema: jsonSchema,
		Strict: openai.Bool(true),
	})
	if err != nil {
		return "", err
	}

	var result struct {
		SQL string `json:"sql"`
	}
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return "", fmt.Errorf("parsing generated sql: %w", err)
	}
	return result.SQL, nil
}

// Summarize turns a rendered result table into short prose.
func (c *OpenAIClient) Summarize(ctx context.Context, table string) (string, error) {
	return c.complete(ctx, summarizeSystemPrompt, "Tabela:\n"+table, nil)
}

func (c *OpenAIClient) complete(ctx context.Context, system, user string, jsonSchema *shared.ResponseFormatJSONSchemaJSONSchemaParam) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	}
	if jsonSchema != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: *jsonSchema,
			},
		}
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
