// Statuted is a question-answering daemon for Indian GST statutes.
//
// This binary starts the statuted HTTP server with full service
// initialization: vector store, embeddings, ambiguity detection,
// clarification sessions, the answer engine, and audit publishing.
//
// Configuration is loaded from ~/.config/statuted/config.yaml, overridden
// by environment variables. See internal/config for details.
//
// Usage:
//
//	# Start server with defaults
//	statuted
//
//	# Configure via environment
//	SERVER_PORT=8080 VECTORSTORE_PROVIDER=qdrant statuted
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/statutelabs/statuted/internal/answer"
	"github.com/statutelabs/statuted/internal/auditlog"
	"github.com/statutelabs/statuted/internal/clarify"
	"github.com/statutelabs/statuted/internal/config"
	"github.com/statutelabs/statuted/internal/detector"
	"github.com/statutelabs/statuted/internal/embeddings"
	httpapi "github.com/statutelabs/statuted/internal/http"
	"github.com/statutelabs/statuted/internal/logging"
	"github.com/statutelabs/statuted/internal/session"
	"github.com/statutelabs/statuted/internal/vectorstore"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ~/.config/statuted/config.yaml)")
	flag.Parse()

	if args := flag.Args(); len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  statuted           Start the statuted daemon\n")
			fmt.Fprintf(os.Stderr, "  statuted version   Show version information\n")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

func printVersion() {
	fmt.Printf("statuted by Statute Labs\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run starts the statuted server and blocks until context cancellation.
//
// Initialization order:
//  1. Load and validate configuration
//  2. Build logger
//  3. Create embedding service and vector store
//  4. Create session store, detector, and answer engine
//  5. Wire the clarification manager and metrics
//  6. Connect the audit publisher
//  7. Start the HTTP server
func run(ctx context.Context, configPath string) error {
	if err := config.EnsureConfigDir(); err != nil {
		return err
	}

	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() {
		_ = logging.Sync(logger)
	}()

	logger.Info("Starting statuted",
		zap.String("version", version),
		zap.Int("port", cfg.Server.Port),
		zap.String("vectorstore", cfg.VectorStore.Provider),
		zap.String("detector", cfg.Detector.Mode),
	)

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

	sessions := session.NewStore(cfg.Session.TTL.Duration(), logger)

	engine, err := answer.NewEngine(store, answer.Config{
		BaseURL:     cfg.Answer.BaseURL,
		Model:       cfg.Answer.Model,
		APIKey:      cfg.Answer.APIKey.Value(),
		Collection:  cfg.Answer.Collection,
		TopK:        cfg.Answer.TopK,
		Temperature: cfg.Answer.Temperature,
	}, logger)
	if err != nil {
		return fmt.Errorf("initializing answer engine: %w", err)
	}

	det, err := buildDetector(cfg, store, engine, logger)
	if err != nil {
		return fmt.Errorf("initializing detector: %w", err)
	}

	manager, err := clarify.NewManager(sessions, det, engine, logger, clarify.Config{
		DetectorTimeout: cfg.Detector.Timeout.Duration(),
	})
	if err != nil {
		return fmt.Errorf("initializing clarification manager: %w", err)
	}
	manager.SetMetrics(clarify.NewMetrics(prometheus.DefaultRegisterer))

	audit, err := buildAudit(cfg, logger)
	if err != nil {
		// Audit publishing is best-effort; the daemon serves without it.
		logger.Warn("audit log unavailable, continuing without it", zap.Error(err))
		audit = auditlog.Nop{}
	}
	defer audit.Close()

	srv, err := httpapi.NewServer(manager, sessions, audit, logger, httpapi.Config{
		Host:      cfg.Server.Host,
		Port:      cfg.Server.Port,
		RateLimit: cfg.Server.RateLimit,
		RateBurst: cfg.Server.RateBurst,
	})
	if err != nil {
		return fmt.Errorf("initializing http server: %w", err)
	}
	srv.SetVersion(version)
	srv.SetMetrics(httpapi.NewMetrics(prometheus.DefaultRegisterer))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// buildDetector constructs the configured ambiguity detector.
func buildDetector(cfg *config.Config, store vectorstore.Store, engine *answer.Engine, logger *zap.Logger) (clarify.Detector, error) {
	switch cfg.Detector.Mode {
	case "draft":
		return detector.NewDraft(engine, logger)
	default:
		return detector.NewHeuristic(store, detector.HeuristicConfig{
			Collection: cfg.Detector.Collection,
			TopK:       cfg.Detector.TopK,
		}, logger)
	}
}

// buildAudit constructs the audit recorder, or a Nop when disabled.
func buildAudit(cfg *config.Config, logger *zap.Logger) (auditlog.Recorder, error) {
	if !cfg.Audit.Enabled {
		return auditlog.Nop{}, nil
	}
	return auditlog.NewNATSRecorder(auditlog.Config{
		URL:     cfg.Audit.URL,
		Subject: cfg.Audit.Subject,
		Enabled: true,
	}, logger)
}
