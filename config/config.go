package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the CNPJ chat service.
type Config struct {
	Database Database `yaml:"database"`
	Server   Server   `yaml:"server"`
	LLM      LLM      `yaml:"llm"`
	Retrieve Retrieve `yaml:"retrieve"`
	Ingest   Ingest   `yaml:"ingest"`
	Logging  Logging  `yaml:"logging"`
}

// Database holds storage configuration.
type Database struct {
	Path        string `yaml:"path"`         // SQLite database file
	HistoryPath string `yaml:"history_path"` // BoltDB chat history file
	// Dimension of the CNAE taxonomy vector. Must be uniform across the
	// whole dataset; changing it requires re-running `cnpjchat index`.
	VectorDimension int `yaml:"vector_dimension"`
}

// Server holds HTTP API configuration.
type Server struct {
	Addr           string        `yaml:"addr"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// LLM holds language-model delegation configuration.
type LLM struct {
	Enabled   bool          `yaml:"enabled"`
	Model     string        `yaml:"model"`
	APIKeyEnv string        `yaml:"api_key_env"` // Environment variable for API key
	BaseURL   string        `yaml:"base_url"`    // Empty uses the provider default
	Timeout   time.Duration `yaml:"timeout"`
	MaxRows   int           `yaml:"max_rows"` // Result rows fed to the summarizer
}

// Retrieve holds retrieval configuration.
type Retrieve struct {
	TopK         int           `yaml:"top_k"`
	ResolveCache int           `yaml:"resolve_cache"`
	ResolveTTL   time.Duration `yaml:"resolve_ttl"`
}

// Ingest holds dataset ingestion configuration. The Receita Federal
// exports arrive split across numbered CSV parts, hence glob patterns.
type Ingest struct {
	DataDir          string   `yaml:"data_dir"`
	Empresas         []string `yaml:"empresas"`
	Estabelecimentos []string `yaml:"estabelecimentos"`
	Simples          []string `yaml:"simples"`
	Socios           []string `yaml:"socios"`
	Naturezas        []string `yaml:"naturezas"`
	CNAEs            []string `yaml:"cnaes"`
	BatchSize        int      `yaml:"batch_size"`
}

// Logging holds logging configuration.
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Database: Database{
			Path:            "cnpj.db",
			HistoryPath:     "history.db",
			VectorDimension: 600,
		},
		Server: Server{
			Addr:           ":8000",
			RequestTimeout: 30 * time.Second,
		},
		LLM: LLM{
			Enabled:   true,
			Model:     "gpt-4o-mini",
			APIKeyEnv: "OPENAI_API_KEY",
			Timeout:   15 * time.Second,
			MaxRows:   15,
		},
		Retrieve: Retrieve{
			TopK:         10,
			ResolveCache: 256,
			ResolveTTL:   5 * time.Minute,
		},
		Ingest: Ingest{
			DataDir:          ".",
			Empresas:         []string{"*Empresas*.csv", "empresas*.csv"},
			Estabelecimentos: []string{"*Estabelecimentos*.csv", "estabelecimentos*.csv"},
			Simples:          []string{"*Simples*.csv", "simples*.csv"},
			Socios:           []string{"*Socios*.csv", "socios*.csv"},
			Naturezas:        []string{"*Naturezas*.csv", "naturezas*.csv"},
			CNAEs:            []string{"*Cnaes*.csv", "cnaes*.csv"},
			BatchSize:        5000,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for cnpjchat.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "cnpjchat.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".cnpjchat", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DatabasePath resolves the database file relative to dir unless absolute.
func (c *Config) DatabasePath(dir string) string {
	if filepath.IsAbs(c.Database.Path) {
		return c.Database.Path
	}
	return filepath.Join(dir, c.Database.Path)
}

// HistoryPath resolves the chat history file relative to dir unless absolute.
func (c *Config) HistoryPath(dir string) string {
	if filepath.IsAbs(c.Database.HistoryPath) {
		return c.Database.HistoryPath
	}
	return filepath.Join(dir, c.Database.HistoryPath)
}
