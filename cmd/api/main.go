// Package main implements the Wind guest-assistant API server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"github.com/windlabs/wind-engine/engine/assist"
	"github.com/windlabs/wind-engine/engine/docstore"
	"github.com/windlabs/wind-engine/engine/domain"
	"github.com/windlabs/wind-engine/engine/embed"
	"github.com/windlabs/wind-engine/engine/guest"
	"github.com/windlabs/wind-engine/engine/ingest"
	"github.com/windlabs/wind-engine/engine/retrieval"
	"github.com/windlabs/wind-engine/engine/semantic"
	"github.com/windlabs/wind-engine/pkg/metrics"
	"github.com/windlabs/wind-engine/pkg/mid"
	"github.com/windlabs/wind-engine/pkg/resilience"
)

// Config holds all environment-based configuration.
type Config struct {
	Port          string
	DBPath        string
	NATSURL       string
	QdrantURL     string
	Collection    string
	OllamaURL     string
	EmbedModel    string
	EmbedDim      int
	GenerateModel string
	CORSOrigin    string
	RatePerSec    float64
	RateBurst     int
	HotelName     string
	HotelPhone    string
	HotelEmail    string
	HotelAddress  string
}

func loadConfig() Config {
	return Config{
		Port:          envOr("PORT", "8080"),
		DBPath:        envOr("DB_PATH", "wind.db"),
		NATSURL:       os.Getenv("NATS_URL"),
		QdrantURL:     os.Getenv("QDRANT_URL"),
		Collection:    envOr("QDRANT_COLLECTION", "wind-chunks"),
		OllamaURL:     os.Getenv("OLLAMA_URL"),
		EmbedModel:    envOr("EMBED_MODEL", "all-minilm"),
		EmbedDim:      envInt("EMBED_DIM", embed.DefaultDimension),
		GenerateModel: os.Getenv("GENERATE_MODEL"),
		CORSOrigin:    envOr("CORS_ORIGIN", "*"),
		RatePerSec:    envFloat("RATE_PER_SEC", 20),
		RateBurst:     envInt("RATE_BURST", 40),
		HotelName:     envOr("HOTEL_NAME", "Wind Hotel"),
		HotelPhone:    os.Getenv("HOTEL_PHONE"),
		HotelEmail:    os.Getenv("HOTEL_EMAIL"),
		HotelAddress:  os.Getenv("HOTEL_ADDRESS"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := loadConfig()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Open document store ---
	store, err := docstore.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	// --- Optional Qdrant chunk mirror ---
	var chunkStore domain.DocumentStore = store
	if cfg.QdrantURL != "" {
		mirror, err := semantic.NewMirror(cfg.QdrantURL, cfg.Collection)
		if err != nil {
			return fmt.Errorf("qdrant connect: %w", err)
		}
		defer mirror.Close()
		if err := mirror.EnsureCollection(ctx, cfg.EmbedDim); err != nil {
			return fmt.Errorf("qdrant ensure collection: %w", err)
		}
		chunkStore = semantic.NewMirroredStore(store, mirror)
		logger.Info("chunk mirror enabled", "collection", cfg.Collection)
	}

	// --- Embedding provider and generator ---
	var provider embed.Provider = embed.Null{}
	var generator assist.Generator
	if cfg.OllamaURL != "" {
		provider = embed.NewOllamaProvider(cfg.OllamaURL, cfg.EmbedModel, cfg.EmbedDim, logger)
		if cfg.GenerateModel != "" {
			generator = assist.NewOllamaGenerator(cfg.OllamaURL, cfg.GenerateModel)
		}
		logger.Info("ollama backend enabled", "embed_model", cfg.EmbedModel, "generate_model", cfg.GenerateModel)
	}

	// --- Optional NATS for async indexing ---
	var nc *nats.Conn
	if cfg.NATSURL != "" {
		nc, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			return fmt.Errorf("nats connect: %w", err)
		}
		defer nc.Drain()
		logger.Info("async indexing enabled", "nats_url", cfg.NATSURL)
	}

	// --- Build services ---
	met := metrics.New()
	indexer := ingest.NewIndexer(chunkStore, provider, logger)
	retrievalSvc := retrieval.NewService(chunkStore, provider, logger)
	extractor := guest.NewExtractor(store, logger)
	assistSvc := assist.NewService(retrievalSvc, extractor, store, generator, assist.HotelInfo{
		Name:    cfg.HotelName,
		Phone:   cfg.HotelPhone,
		Email:   cfg.HotelEmail,
		Address: cfg.HotelAddress,
	}, met, logger)

	api := &apiServer{
		store:     store,
		assist:    assistSvc,
		retrieval: retrievalSvc,
		indexer:   indexer,
		nc:        nc,
		log:       logger,
	}

	// --- Build HTTP server ---
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("POST /api/chat", api.handleChat)
	mux.HandleFunc("POST /api/search", api.handleSearch)
	mux.HandleFunc("POST /api/documents", api.handleCreateDocument)
	mux.HandleFunc("GET /api/documents/{id}", api.handleGetDocument)
	mux.Handle("GET /metrics", met.Handler())

	limiter := resilience.NewLimiter(resilience.LimiterOpts{Rate: cfg.RatePerSec, Burst: cfg.RateBurst})
	handler := mid.Chain(mux,
		mid.Recover(logger),
		mid.Logger(logger),
		mid.CORS(cfg.CORSOrigin),
		mid.RateLimit(limiter),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful shutdown ---
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

// --- Handlers ---

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type apiServer struct {
	store     *docstore.SQLite
	assist    *assist.Service
	retrieval *retrieval.Service
	indexer   *ingest.Indexer
	nc        *nats.Conn
	log       *slog.Logger
}

// ChatRequest is the JSON body for POST /api/chat.
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id,omitempty"`
	Name           string `json:"name,omitempty"`
	RoomNumber     string `json:"room_number,omitempty"`
	GuestType      string `json:"guest_type,omitempty"`
}

func (s *apiServer) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, `{"error":"message is required"}`, http.StatusBadRequest)
		return
	}

	reply := s.assist.Reply(r.Context(), req.Message, assist.GuestContext{
		ConversationID: req.ConversationID,
		UserID:         req.UserID,
		Name:           req.Name,
		RoomNumber:     req.RoomNumber,
		GuestType:      req.GuestType,
	})

	if req.ConversationID != "" {
		s.appendTurn(r.Context(), req.ConversationID, "user", req.Message)
		s.appendTurn(r.Context(), req.ConversationID, "assistant", reply.Text)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reply)
}

func (s *apiServer) appendTurn(ctx context.Context, conversationID, role, content string) {
	if err := s.store.AppendMessage(ctx, conversationID, domain.Message{Role: role, Content: content}); err != nil {
		s.log.Warn("conversation turn not saved", "error", err, "conversation_id", conversationID)
	}
}

// SearchRequest is the JSON body for POST /api/search.
type SearchRequest struct {
	Query    string `json:"query"`
	Category string `json:"category,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// SearchResponse is the JSON response for POST /api/search.
type SearchResponse struct {
	Results []retrieval.Hit `json:"results"`
	Count   int             `json:"count"`
}

func (s *apiServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	hits, err := s.retrieval.Search(r.Context(), req.Query, req.Category, req.Limit)
	if err != nil {
		s.log.Error("search failed", "err", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SearchResponse{Results: hits, Count: len(hits)})
}

// CreateDocumentRequest is the JSON body for POST /api/documents.
type CreateDocumentRequest struct {
	Title       string `json:"title"`
	Category    string `json:"category,omitempty"`
	FilePath    string `json:"file_path,omitempty"`
	ContentText string `json:"content_text,omitempty"`
	UploadedBy  string `json:"uploaded_by,omitempty"`
}

// CreateDocumentResponse is the JSON response for POST /api/documents.
type CreateDocumentResponse struct {
	ID       string `json:"id"`
	Indexing string `json:"indexing"` // "queued" or "done"
}

func (s *apiServer) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, `{"error":"title is required"}`, http.StatusBadRequest)
		return
	}
	if req.FilePath == "" && req.ContentText == "" {
		http.Error(w, `{"error":"file_path or content_text is required"}`, http.StatusBadRequest)
		return
	}

	id, err := s.store.CreateDocument(r.Context(), domain.Document{
		Title:       req.Title,
		Category:    req.Category,
		FilePath:    req.FilePath,
		ContentText: req.ContentText,
		UploadedBy:  req.UploadedBy,
		Active:      true,
	})
	if err != nil {
		s.log.Error("create document failed", "err", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	// Hand off to the indexer workers when NATS is wired, otherwise index
	// inline before responding.
	indexing := "done"
	if s.nc != nil {
		if err := ingest.Enqueue(r.Context(), s.nc, id); err != nil {
			s.log.Error("enqueue indexing failed", "err", err, "document_id", id)
			http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
			return
		}
		indexing = "queued"
	} else if err := s.indexer.Process(r.Context(), id); err != nil {
		s.log.Error("inline indexing failed", "err", err, "document_id", id)
		http.Error(w, `{"error":"document saved but indexing failed"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(CreateDocumentResponse{ID: id, Indexing: indexing})
}

func (s *apiServer) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Document(r.Context(), r.PathValue("id"))
	if errors.Is(err, domain.ErrUnknownDocument) {
		http.Error(w, `{"error":"document not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("document lookup failed", "err", err, "document_id", r.PathValue("id"))
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}
