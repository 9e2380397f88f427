// Command indexer consumes document indexing jobs from NATS and runs them
// through the extraction, chunking, and embedding pipeline.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"github.com/windlabs/wind-engine/engine/docstore"
	"github.com/windlabs/wind-engine/engine/domain"
	"github.com/windlabs/wind-engine/engine/embed"
	"github.com/windlabs/wind-engine/engine/ingest"
	"github.com/windlabs/wind-engine/engine/semantic"
	"github.com/windlabs/wind-engine/pkg/metrics"
)

func main() {
	_ = godotenv.Load()

	var (
		natsURL     = flag.String("nats", envOr("NATS_URL", nats.DefaultURL), "NATS server URL")
		dbPath      = flag.String("db", envOr("DB_PATH", "wind.db"), "SQLite database path")
		qdrantAddr  = flag.String("qdrant", os.Getenv("QDRANT_URL"), "Qdrant gRPC address (empty disables mirroring)")
		collection  = flag.String("collection", envOr("QDRANT_COLLECTION", "wind-chunks"), "Qdrant collection name")
		ollamaURL   = flag.String("ollama", os.Getenv("OLLAMA_URL"), "Ollama base URL (empty disables embeddings)")
		embedModel  = flag.String("model", envOr("EMBED_MODEL", "all-minilm"), "Ollama embedding model")
		embedDim    = flag.Int("dim", embed.DefaultDimension, "embedding vector dimension")
		metricsPort = flag.Int("metrics-port", 9091, "metrics server port")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	met := metrics.New()
	met.ServeAsync(*metricsPort)

	store, err := docstore.OpenSQLite(*dbPath)
	if err != nil {
		logger.Error("open store failed", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	var chunkStore domain.DocumentStore = store
	if *qdrantAddr != "" {
		mirror, err := semantic.NewMirror(*qdrantAddr, *collection)
		if err != nil {
			logger.Error("qdrant connect failed", "error", err)
			os.Exit(1)
		}
		defer mirror.Close()
		if err := mirror.EnsureCollection(ctx, *embedDim); err != nil {
			logger.Error("qdrant ensure collection failed", "error", err)
			os.Exit(1)
		}
		chunkStore = semantic.NewMirroredStore(store, mirror)
		logger.Info("connected to Qdrant", "collection", *collection, "dims", *embedDim)
	}

	var provider embed.Provider = embed.Null{}
	if *ollamaURL != "" {
		provider = embed.NewOllamaProvider(*ollamaURL, *embedModel, *embedDim, logger)
		logger.Info("using Ollama embeddings", "model", *embedModel)
	}

	nc, err := nats.Connect(*natsURL)
	if err != nil {
		logger.Error("nats connect failed", "error", err)
		os.Exit(1)
	}
	defer nc.Drain()

	indexer := ingest.NewIndexer(chunkStore, provider, logger)
	sub, err := ingest.StartConsumer(nc, indexer, logger)
	if err != nil {
		logger.Error("subscribe failed", "error", err)
		os.Exit(1)
	}
	defer sub.Unsubscribe()

	logger.Info("indexer started", "subject", ingest.IndexSubject, "nats_url", *natsURL)
	<-ctx.Done()
	logger.Info("shutdown signal received")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
