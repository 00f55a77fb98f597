// Package config provides configuration loading for statuted.
//
// Configuration is loaded from a YAML file, then overridden by
// environment variables, with hardcoded defaults below both.
package config

import (
	"fmt"
	"time"
)

// Config holds the complete statuted configuration.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Logging     LoggingConfig     `koanf:"logging"`
	Session     SessionConfig     `koanf:"session"`
	Detector    DetectorConfig    `koanf:"detector"`
	Answer      AnswerConfig      `koanf:"answer"`
	Embeddings  EmbeddingsConfig  `koanf:"embeddings"`
	VectorStore VectorStoreConfig `koanf:"vectorstore"`
	Audit       AuditConfig       `koanf:"audit"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"port"`
	RateLimit       float64  `koanf:"rate_limit"`
	RateBurst       int      `koanf:"rate_burst"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig holds logger configuration.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is "json" or "console".
	Format string `koanf:"format"`
}

// SessionConfig holds clarification session configuration.
type SessionConfig struct {
	// TTL is how long an idle session (and its pending clarification)
	// stays valid. Default: 5m.
	TTL Duration `koanf:"ttl"`
}

// DetectorConfig holds ambiguity detector configuration.
type DetectorConfig struct {
	// Mode selects the detector: "heuristic" (corpus lookup, no model
	// call) or "draft" (generate a draft answer and scan it).
	Mode string `koanf:"mode"`

	// Timeout bounds a single detection. Default: 10s.
	Timeout Duration `koanf:"timeout"`

	// Collection searched for candidates. Empty uses the store default.
	Collection string `koanf:"collection"`

	// TopK candidate passages per detection. Default: 8.
	TopK int `koanf:"top_k"`
}

// AnswerConfig holds answer engine configuration.
type AnswerConfig struct {
	BaseURL     string  `koanf:"base_url"`
	Model       string  `koanf:"model"`
	APIKey      Secret  `koanf:"api_key"`
	Collection  string  `koanf:"collection"`
	TopK        int     `koanf:"top_k"`
	Temperature float64 `koanf:"temperature"`
}

// EmbeddingsConfig holds embedding service configuration.
type EmbeddingsConfig struct {
	BaseURL string `koanf:"base_url"`
	Model   string `koanf:"model"`
	APIKey  Secret `koanf:"api_key"`
}

// VectorStoreConfig holds vector store configuration.
type VectorStoreConfig struct {
	// Provider is "chromem" (embedded, default) or "qdrant".
	Provider string        `koanf:"provider"`
	Chromem  ChromemConfig `koanf:"chromem"`
	Qdrant   QdrantConfig  `koanf:"qdrant"`
}

// ChromemConfig holds embedded chromem-go settings.
type ChromemConfig struct {
	Path       string `koanf:"path"`
	Compress   bool   `koanf:"compress"`
	Collection string `koanf:"collection"`
	VectorSize int    `koanf:"vector_size"`
}

// QdrantConfig holds Qdrant client settings.
type QdrantConfig struct {
	Host       string `koanf:"host"`
	Port       int    `koanf:"port"`
	APIKey     Secret `koanf:"api_key"`
	UseTLS     bool   `koanf:"use_tls"`
	Collection string `koanf:"collection"`
	VectorSize int    `koanf:"vector_size"`
}

// AuditConfig holds audit log publishing configuration.
type AuditConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"`
	Subject string `koanf:"subject"`
}

// applyDefaults sets default values for missing configuration fields.
// Component packages apply their own defaults too; the values here keep
// a freshly rendered config file complete and self-describing.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = Duration(10 * time.Second)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = Duration(5 * time.Minute)
	}

	if cfg.Detector.Mode == "" {
		cfg.Detector.Mode = "heuristic"
	}
	if cfg.Detector.Timeout == 0 {
		cfg.Detector.Timeout = Duration(10 * time.Second)
	}
	if cfg.Detector.TopK == 0 {
		cfg.Detector.TopK = 8
	}

	if cfg.Answer.BaseURL == "" {
		cfg.Answer.BaseURL = "http://localhost:11434/v1"
	}
	if cfg.Answer.Model == "" {
		cfg.Answer.Model = "llama3.1:8b"
	}
	if cfg.Answer.TopK == 0 {
		cfg.Answer.TopK = 4
	}

	if cfg.Embeddings.BaseURL == "" {
		cfg.Embeddings.BaseURL = "http://localhost:8081/v1"
	}
	if cfg.Embeddings.Model == "" {
		cfg.Embeddings.Model = "BAAI/bge-small-en-v1.5"
	}

	if cfg.VectorStore.Provider == "" {
		cfg.VectorStore.Provider = "chromem"
	}
	if cfg.VectorStore.Chromem.Path == "" {
		cfg.VectorStore.Chromem.Path = "~/.config/statuted/vectorstore"
	}
	if cfg.VectorStore.Chromem.Collection == "" {
		cfg.VectorStore.Chromem.Collection = "statuted_corpus"
	}
	if cfg.VectorStore.Chromem.VectorSize == 0 {
		cfg.VectorStore.Chromem.VectorSize = 384
	}
	if cfg.VectorStore.Qdrant.Host == "" {
		cfg.VectorStore.Qdrant.Host = "localhost"
	}
	if cfg.VectorStore.Qdrant.Port == 0 {
		cfg.VectorStore.Qdrant.Port = 6334
	}
	if cfg.VectorStore.Qdrant.Collection == "" {
		cfg.VectorStore.Qdrant.Collection = "statuted_corpus"
	}
	if cfg.VectorStore.Qdrant.VectorSize == 0 {
		cfg.VectorStore.Qdrant.VectorSize = 384
	}

	if cfg.Audit.URL == "" {
		cfg.Audit.URL = "nats://localhost:4222"
	}
	if cfg.Audit.Subject == "" {
		cfg.Audit.Subject = "statuted.queries"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout.Duration() <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %q", c.Logging.Format)
	}

	if c.Session.TTL.Duration() <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}

	switch c.Detector.Mode {
	case "heuristic", "draft":
	default:
		return fmt.Errorf("invalid detector mode: %q (expected heuristic or draft)", c.Detector.Mode)
	}

	switch c.VectorStore.Provider {
	case "chromem", "qdrant":
	default:
		return fmt.Errorf("invalid vector store provider: %q (expected chromem or qdrant)", c.VectorStore.Provider)
	}

	return nil
}
