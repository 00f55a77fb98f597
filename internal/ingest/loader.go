package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"
	"go.uber.org/zap"

	"github.com/statutelabs/statuted/internal/vectorstore"
)

// Config holds ingestion configuration.
type Config struct {
	// ChunkSize is the target chunk length in characters. Default: 1000.
	ChunkSize int `koanf:"chunk_size"`

	// ChunkOverlap is the overlap between adjacent chunks. Default: 200.
	ChunkOverlap int `koanf:"chunk_overlap"`

	// Collection receives the chunks. Empty uses the store default.
	Collection string `koanf:"collection"`

	// BatchSize is how many chunks to write per store call. Default: 32.
	BatchSize int `koanf:"batch_size"`
}

// ApplyDefaults fills zero values with sane defaults.
func (c *Config) ApplyDefaults() {
	if c.ChunkSize == 0 {
		c.ChunkSize = 1000
	}
	if c.ChunkOverlap == 0 {
		c.ChunkOverlap = 200
	}
	if c.BatchSize == 0 {
		c.BatchSize = 32
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive")
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk overlap must be non-negative and smaller than chunk size")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}
	return nil
}

// Result summarizes one ingestion run.
type Result struct {
	Files  int
	Chunks int
}

// Loader ingests statute files into the vector store.
type Loader struct {
	store    vectorstore.Store
	splitter textsplitter.RecursiveCharacter
	config   Config
	logger   *zap.Logger
}

// NewLoader creates a Loader writing to the given store.
func NewLoader(store vectorstore.Store, cfg Config, logger *zap.Logger) (*Loader, error) {
	if store == nil {
		return nil, fmt.Errorf("vector store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ingest config: %w", err)
	}

	splitter := textsplitter.NewRecursiveCharacter()
	splitter.ChunkSize = cfg.ChunkSize
	splitter.ChunkOverlap = cfg.ChunkOverlap
	splitter.Separators = []string{"\n\n", "\n", " ", ""}

	return &Loader{
		store:    store,
		splitter: splitter,
		config:   cfg,
		logger:   logger,
	}, nil
}

// IngestDir walks dir recursively and ingests every .txt and .md file.
func (l *Loader) IngestDir(ctx context.Context, dir string) (*Result, error) {
	var result Result

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".txt", ".md":
		default:
			return nil
		}

		chunks, err := l.IngestFile(ctx, path)
		if err != nil {
			return fmt.Errorf("ingesting %s: %w", path, err)
		}
		result.Files++
		result.Chunks += chunks
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Files == 0 {
		return nil, fmt.Errorf("no .txt or .md files found under %s", dir)
	}

	l.logger.Info("corpus ingested",
		zap.String("dir", dir),
		zap.Int("files", result.Files),
		zap.Int("chunks", result.Chunks),
	)

	return &result, nil
}

// IngestFile chunks one statute file and writes it to the store. Returns
// the number of chunks written.
func (l *Loader) IngestFile(ctx context.Context, path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading file: %w", err)
	}

	text := strings.TrimSpace(string(content))
	if text == "" {
		l.logger.Warn("skipping empty file", zap.String("path", path))
		return 0, nil
	}

	chunks, err := l.splitter.SplitText(text)
	if err != nil {
		return 0, fmt.Errorf("splitting text: %w", err)
	}

	source := filepath.Base(path)
	act := ActFromFilename(source)
	docs := make([]vectorstore.Document, 0, len(chunks))
	for i, chunk := range chunks {
		meta := map[string]any{
			"source": source,
			"chunk":  i,
		}
		if act != "" {
			meta["act"] = act
		}
		docs = append(docs, vectorstore.Document{
			ID:         uuid.New().String(),
			Content:    chunk,
			Metadata:   meta,
			Collection: l.config.Collection,
		})
	}

	for start := 0; start < len(docs); start += l.config.BatchSize {
		end := start + l.config.BatchSize
		if end > len(docs) {
			end = len(docs)
		}
		if _, err := l.store.AddDocuments(ctx, docs[start:end]); err != nil {
			return 0, fmt.Errorf("storing chunks %d-%d: %w", start, end, err)
		}
	}

	l.logger.Debug("file ingested",
		zap.String("source", source),
		zap.String("act", act),
		zap.Int("chunks", len(docs)),
	)

	return len(docs), nil
}

// ActFromFilename derives the Act a statute file belongs to from its
// name, e.g. "cgst_act_2017.txt" is the CGST Act. Empty when the name
// carries no recognizable Act.
func ActFromFilename(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "utgst") || strings.Contains(lower, "union_territory") || strings.Contains(lower, "union-territory"):
		return "UTGST Act"
	case strings.Contains(lower, "cgst") || strings.Contains(lower, "central"):
		return "CGST Act"
	case strings.Contains(lower, "igst") || strings.Contains(lower, "integrated"):
		return "IGST Act"
	case strings.Contains(lower, "sgst"):
		return "SGST Act"
	case strings.Contains(lower, "compensation"):
		return "GST Compensation Act"
	default:
		return ""
	}
}
