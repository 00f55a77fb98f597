package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/statutelabs/statuted/internal/config"
	"github.com/statutelabs/statuted/internal/embeddings"
	"github.com/statutelabs/statuted/internal/ingest"
	"github.com/statutelabs/statuted/internal/logging"
	"github.com/statutelabs/statuted/internal/vectorstore"
)

var (
	ingestConfigPath string
	ingestCollection string
	chunkSize        int
	chunkOverlap     int
)

// ingestCmd loads a statute corpus into the vector store
var ingestCmd = &cobra.Command{
	Use:   "ingest <dir>",
	Short: "Ingest statute text files into the vector store",
	Long: `Ingest a directory of statute text files (.txt, .md) into the
vector store the daemon queries.

Act attribution is derived from filenames: cgst_act_2017.txt is tagged
as the CGST Act, igst-act.md as the IGST Act, and so on. That tag is how
the daemon detects that a bare section number exists in several Acts.

Ingestion talks to the vector store directly using the same config file
as the daemon, so run it on the daemon host (or against the same Qdrant
instance).

Examples:
  # Ingest a corpus directory
  statutectl ingest ./corpus

  # Ingest into a separate collection with larger chunks
  statutectl ingest --collection gst_circulars --chunk-size 2000 ./circulars`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestConfigPath, "config", "", "path to config file (default ~/.config/statuted/config.yaml)")
	ingestCmd.Flags().StringVar(&ingestCollection, "collection", "", "target collection (default from config)")
	ingestCmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "chunk size in characters (default 1000)")
	ingestCmd.Flags().IntVar(&chunkOverlap, "chunk-overlap", 0, "overlap between chunks (default 200)")
}

// runIngest handles the ingest command
func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithFile(ingestConfigPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Level, "console")
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() {
		_ = logging.Sync(logger)
	}()

	embedSvc, err := embeddings.NewService(embeddings.Config{
		BaseURL: cfg.Embeddings.BaseURL,
		Model:   cfg.Embeddings.Model,
		APIKey:  cfg.Embeddings.APIKey.Value(),
	})
	if err != nil {
		return fmt.Errorf("initializing embeddings: %w", err)
	}

	store, err := vectorstore.NewStore(vectorstore.Config{
		Provider: vectorstore.Provider(cfg.VectorStore.Provider),
		Chromem: vectorstore.ChromemConfig{
			Path:              cfg.VectorStore.Chromem.Path,
			Compress:          cfg.VectorStore.Chromem.Compress,
			DefaultCollection: cfg.VectorStore.Chromem.Collection,
			VectorSize:        cfg.VectorStore.Chromem.VectorSize,
		},
		Qdrant: vectorstore.QdrantConfig{
			Host:           cfg.VectorStore.Qdrant.Host,
			Port:           cfg.VectorStore.Qdrant.Port,
			APIKey:         cfg.VectorStore.Qdrant.APIKey.Value(),
			UseTLS:         cfg.VectorStore.Qdrant.UseTLS,
			CollectionName: cfg.VectorStore.Qdrant.Collection,
			VectorSize:     uint64(cfg.VectorStore.Qdrant.VectorSize),
		},
	}, embedSvc, logger)
	if err != nil {
		return fmt.Errorf("initializing vector store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing vector store", zap.Error(err))
		}
	}()

	ctx := context.Background()

	collection := ingestCollection
	if collection != "" {
		vectorSize := cfg.VectorStore.Chromem.VectorSize
		if cfg.VectorStore.Provider == "qdrant" {
			vectorSize = cfg.VectorStore.Qdrant.VectorSize
		}
		if err := store.EnsureCollection(ctx, collection, vectorSize); err != nil {
			return fmt.Errorf("ensuring collection %s: %w", collection, err)
		}
	}

	loader, err := ingest.NewLoader(store, ingest.Config{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		Collection:   collection,
	}, logger)
	if err != nil {
		return fmt.Errorf("initializing loader: %w", err)
	}

	result, err := loader.IngestDir(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Ingested %d files (%d chunks)\n", result.Files, result.Chunks)
	return nil
}
