package vectorstore

import (
	"fmt"

	"go.uber.org/zap"
)

// Provider identifies a vector store implementation.
type Provider string

const (
	// ProviderChromem is the embedded chromem-go store (default).
	ProviderChromem Provider = "chromem"

	// ProviderQdrant is the external Qdrant gRPC store.
	ProviderQdrant Provider = "qdrant"
)

// Config selects and configures a vector store provider.
type Config struct {
	// Provider is the store implementation to use. Default: chromem.
	Provider Provider

	// Chromem configures the embedded store (used when Provider == chromem).
	Chromem ChromemConfig

	// Qdrant configures the external store (used when Provider == qdrant).
	Qdrant QdrantConfig
}

// NewStore creates a Store for the configured provider.
func NewStore(cfg Config, embedder Embedder, logger *zap.Logger) (Store, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = ProviderChromem
	}

	switch provider {
	case ProviderChromem:
		return NewChromemStore(cfg.Chromem, embedder, logger)
	case ProviderQdrant:
		return NewQdrantStore(cfg.Qdrant, embedder, logger)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q (want %q or %q)",
			ErrInvalidConfig, provider, ProviderChromem, ProviderQdrant)
	}
}
