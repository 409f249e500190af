package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// AppInfoConfig names the running service.
type AppInfoConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr                string `yaml:"addr"`
	PathPrefix          string `yaml:"path_prefix"`
	ReadTimeoutSecs     int    `yaml:"read_timeout_secs"`
	WriteTimeoutSecs    int    `yaml:"write_timeout_secs"`
	ShutdownTimeoutSecs int    `yaml:"shutdown_timeout_secs"`
}

// LLMConfig holds configuration for the OpenAI-compatible chat-completion endpoint.
type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	TimeoutSecs int     `yaml:"timeout_secs"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL           string `yaml:"base_url"`
	APIKeyEnv         string `yaml:"api_key_env"`
	Model             string `yaml:"model"`
	TimeoutSecs       int    `yaml:"timeout_secs"`
	MaxRetries        int    `yaml:"max_retries"`
	RequestDimensions bool   `yaml:"request_dimensions"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// IndexConfig configures the document store and where its snapshot lives.
type IndexConfig struct {
	Dir             string `yaml:"dir"`
	Dimension       int    `yaml:"dimension"`
	Backend         string `yaml:"backend"`
	LockTimeoutSecs int    `yaml:"lock_timeout_secs"`
}

// SummarizerConfig selects the summarization engine.
type SummarizerConfig struct {
	Type string `yaml:"type"`
}

// ChunkerConfig configures how ingested files are split into documents.
type ChunkerConfig struct {
	Type              string `yaml:"type"`
	SentencesPerChunk int    `yaml:"sentences_per_chunk"`
	OverlapSentences  int    `yaml:"overlap_sentences"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Format    string `yaml:"format"`
	Verbosity int    `yaml:"verbosity"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	App        AppInfoConfig    `yaml:"app"`
	Server     ServerConfig     `yaml:"server"`
	LLM        LLMConfig        `yaml:"llm"`
	Embedder   EmbedderConfig   `yaml:"embedder"`
	Index      IndexConfig      `yaml:"index"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Chunker    ChunkerConfig    `yaml:"chunker"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(cfg)
	applyEnv(cfg)
	return cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/textintel/config.yaml.
// If neither exists, it writes defaults to ~/.config/textintel/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnv(cfg)
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Seconds converts a config field expressed in seconds to a duration.
func Seconds(n int) time.Duration { return time.Duration(n) * time.Second }

func defaultUserConfigPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "textintel", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "textintel", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		App: AppInfoConfig{Name: "AI Text Intelligence API", Version: "1.0.0", Environment: "development"},
		Server: ServerConfig{
			Addr:                "0.0.0.0:8000",
			PathPrefix:          "/api/v1",
			ReadTimeoutSecs:     30,
			WriteTimeoutSecs:    120,
			ShutdownTimeoutSecs: 10,
		},
		LLM: LLMConfig{
			BaseURL:     "https://api.groq.com/openai/v1",
			APIKeyEnv:   "GROQ_API_KEY",
			Model:       "openai/gpt-oss-120b",
			MaxTokens:   1024,
			Temperature: 0.7,
			TimeoutSecs: 30,
		},
		Embedder:   EmbedderConfig{Type: "hashing"},
		Index:      IndexConfig{Dir: "vector_index", Dimension: 384, Backend: "file", LockTimeoutSecs: 5},
		Summarizer: SummarizerConfig{Type: "llm"},
		Chunker:    ChunkerConfig{Type: "sentence", SentencesPerChunk: 5, OverlapSentences: 1},
		Logging:    LoggingConfig{Format: "text"},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.App.Name == "" {
		cfg.App.Name = def.App.Name
	}
	if cfg.App.Version == "" {
		cfg.App.Version = def.App.Version
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = def.LLM.MaxTokens
	}
	if cfg.LLM.TimeoutSecs == 0 {
		cfg.LLM.TimeoutSecs = def.LLM.TimeoutSecs
	}
	if cfg.Index.Dimension == 0 {
		cfg.Index.Dimension = def.Index.Dimension
	}
	if cfg.Index.Dir == "" {
		cfg.Index.Dir = def.Index.Dir
	}
	if cfg.Index.Backend == "" {
		cfg.Index.Backend = def.Index.Backend
	}
	if cfg.Chunker.SentencesPerChunk == 0 {
		cfg.Chunker.SentencesPerChunk = def.Chunker.SentencesPerChunk
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIEmbedderConfig{}
		}
		if cfg.Embedder.OpenAI.BaseURL == "" {
			cfg.Embedder.OpenAI.BaseURL = "http://localhost:11434/v1"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "all-minilm"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
	}
}

func applyEnv(cfg *AppConfig) {
	if v := os.Getenv("TEXTINTEL_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("TEXTINTEL_INDEX_DIR"); v != "" {
		cfg.Index.Dir = v
	}
	if v := os.Getenv("TEXTINTEL_ENV"); v != "" {
		cfg.App.Environment = v
	}
}
