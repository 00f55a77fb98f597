package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"github.com/statutelabs/statuted/internal/clarify"
	"github.com/statutelabs/statuted/internal/vectorstore"
)

// Config holds configuration for the answer engine.
type Config struct {
	// BaseURL is the OpenAI-compatible chat completion endpoint.
	BaseURL string `koanf:"base_url"`

	// Model is the chat model name.
	Model string `koanf:"model"`

	// APIKey authenticates against the endpoint. Local servers accept
	// any non-empty value.
	APIKey string `koanf:"api_key"`

	// Collection is the corpus collection searched for context. Empty
	// uses the store's default collection.
	Collection string `koanf:"collection"`

	// TopK is how many passages to retrieve per question. Default: 4.
	TopK int `koanf:"top_k"`

	// Temperature for generation. Statute answering wants it low.
	Temperature float64 `koanf:"temperature"`
}

// ApplyDefaults fills zero values with sane defaults.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:11434/v1"
	}
	if c.Model == "" {
		c.Model = "llama3.1:8b"
	}
	if c.APIKey == "" {
		c.APIKey = "statuted"
	}
	if c.TopK <= 0 {
		c.TopK = 4
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.TopK < 0 {
		return fmt.Errorf("top_k must be positive")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	return nil
}

// Engine answers resolved questions from the statute corpus. It retrieves
// the closest passages, grounds the prompt on them, and attributes the
// answer back to the source documents.
type Engine struct {
	llm    llms.Model
	store  vectorstore.Store
	config Config
	logger *zap.Logger
}

// NewEngine creates an Engine over an OpenAI-compatible chat endpoint.
func NewEngine(store vectorstore.Store, cfg Config, logger *zap.Logger) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("vector store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid answer config: %w", err)
	}

	llm, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithModel(cfg.Model),
		openai.WithToken(cfg.APIKey),
	)
	if err != nil {
		return nil, fmt.Errorf("creating chat client: %w", err)
	}

	logger.Info("answer engine initialized",
		zap.String("base_url", cfg.BaseURL),
		zap.String("model", cfg.Model),
		zap.Int("top_k", cfg.TopK),
	)

	return &Engine{llm: llm, store: store, config: cfg, logger: logger}, nil
}

// NewEngineWithModel creates an Engine over an existing model, used by
// tests and by callers that share a client.
func NewEngineWithModel(llm llms.Model, store vectorstore.Store, cfg Config, logger *zap.Logger) (*Engine, error) {
	if llm == nil {
		return nil, fmt.Errorf("chat model is required")
	}
	if store == nil {
		return nil, fmt.Errorf("vector store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid answer config: %w", err)
	}
	return &Engine{llm: llm, store: store, config: cfg, logger: logger}, nil
}

// Answer retrieves context for the question and generates a grounded
// answer. Sources maps each contributing document to its passage count.
func (e *Engine) Answer(ctx context.Context, question string) (*clarify.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question is empty")
	}

	results, err := e.search(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("retrieving context: %w", err)
	}

	prompt := systemPrompt + "\n\n" + buildUserPrompt(results, question)

	text, err := llms.GenerateFromSinglePrompt(ctx, e.llm, prompt,
		llms.WithTemperature(e.config.Temperature),
	)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	e.logger.Debug("answer generated",
		zap.Int("passages", len(results)),
		zap.Int("answer_len", len(text)),
	)

	return &clarify.Answer{
		Text:    strings.TrimSpace(text),
		Sources: sourceCounts(results),
	}, nil
}

func (e *Engine) search(ctx context.Context, question string) ([]vectorstore.SearchResult, error) {
	if e.config.Collection != "" {
		return e.store.SearchInCollection(ctx, e.config.Collection, question, e.config.TopK)
	}
	return e.store.Search(ctx, question, e.config.TopK)
}

// sourceCounts tallies retrieved passages per source document.
func sourceCounts(results []vectorstore.SearchResult) map[string]int {
	counts := make(map[string]int, len(results))
	for _, r := range results {
		src := r.Source()
		if src == "" {
			src = r.Act()
		}
		if src == "" {
			continue
		}
		counts[src]++
	}
	return counts
}

// Ensure Engine implements clarify.Answerer.
var _ clarify.Answerer = (*Engine)(nil)
