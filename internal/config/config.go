package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for AskLaw
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Admin       AdminConfig       `mapstructure:"admin"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Transcripts TranscriptsConfig `mapstructure:"transcripts"`
	LLM         LLMConfig         `mapstructure:"llm"`
	Embedding   EmbeddingConfig   `mapstructure:"embedding"`
	Retrieval   RetrievalConfig   `mapstructure:"retrieval"`
	Ingest      IngestConfig      `mapstructure:"ingest"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// AdminConfig holds admin authentication configuration
type AdminConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// DatabaseConfig holds the statute corpus store configuration
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// TranscriptsConfig holds the session transcript store configuration
type TranscriptsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LLMConfig holds language model provider configuration.
// The endpoint is OpenAI-compatible (Typhoon by default).
type LLMConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// EmbeddingConfig holds embedding model configuration
type EmbeddingConfig struct {
	Host  string `mapstructure:"host"`
	Model string `mapstructure:"model"`
}

// RetrievalConfig holds similarity-search tunables. These are deployment
// configuration, not per-request input.
type RetrievalConfig struct {
	MatchThreshold float64 `mapstructure:"match_threshold"`
	MatchCount     int     `mapstructure:"match_count"`
	HistoryWindow  int     `mapstructure:"history_window"`
}

// IngestConfig holds the batch embedding job configuration
type IngestConfig struct {
	BatchSize int           `mapstructure:"batch_size"`
	Pause     time.Duration `mapstructure:"pause"`
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file if specified
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("ASKLAW")
	v.AutomaticEnv()

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	v.SetDefault("admin.api_key", "")

	v.SetDefault("database.url", "postgres://localhost:5432/asklaw")

	v.SetDefault("transcripts.enabled", true)
	v.SetDefault("transcripts.path", "./data/transcripts.db")

	v.SetDefault("llm.base_url", "https://api.opentyphoon.ai/v1")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "typhoon-v2.5-30b-a3b-instruct")
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.max_tokens", 4096)

	v.SetDefault("embedding.host", "http://localhost:11434")
	v.SetDefault("embedding.model", "bge-m3")

	v.SetDefault("retrieval.match_threshold", 0.4)
	v.SetDefault("retrieval.match_count", 5)
	v.SetDefault("retrieval.history_window", 4)

	v.SetDefault("ingest.batch_size", 10)
	v.SetDefault("ingest.pause", 500*time.Millisecond)
}

// Address returns the server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
