package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/windlabs/wind-engine/pkg/resilience"
)

// OllamaProvider produces embeddings through Ollama's HTTP API. Backend
// failures are absorbed: the affected batch comes back all-absent, and a
// circuit breaker keeps a dead backend from stalling every call.
type OllamaProvider struct {
	baseURL string
	model   string
	dim     int
	client  *http.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	log     *slog.Logger
}

// NewOllamaProvider creates a provider for the given Ollama base URL and
// embedding model. dim is the model's fixed vector width; pass 0 for
// DefaultDimension.
func NewOllamaProvider(baseURL, model string, dim int, log *slog.Logger) *OllamaProvider {
	if dim <= 0 {
		dim = DefaultDimension
	}
	if log == nil {
		log = slog.Default()
	}
	return &OllamaProvider{
		baseURL: baseURL,
		model:   model,
		dim:     dim,
		client:  &http.Client{},
		limiter: rate.NewLimiter(rate.Every(50*time.Millisecond), 10),
		breaker: resilience.NewBreaker(resilience.DefaultBreakerOpts),
		log:     log,
	}
}

// Dimension returns the provider-fixed vector width.
func (p *OllamaProvider) Dimension() int { return p.dim }

// Embed returns one vector per input text. On any backend failure the whole
// batch is reported absent rather than failing the caller.
func (p *OllamaProvider) Embed(ctx context.Context, texts []string) [][]float32 {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := p.embedOne(ctx, text)
		if err != nil {
			if !errors.Is(err, resilience.ErrCircuitOpen) {
				p.log.Warn("embedding unavailable", "error", err)
			}
			return make([][]float32, len(texts))
		}
		out[i] = vec
	}
	return out
}

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float64 `json:"embedding"`
}

func (p *OllamaProvider) embedOne(ctx context.Context, text string) ([]float32, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var vec []float32
	err := p.breaker.Call(ctx, func(ctx context.Context) error {
		body, _ := json.Marshal(ollamaEmbedRequest{Model: p.model, Prompt: text})
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/embeddings", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := p.client.Do(req)
		if err != nil {
			return fmt.Errorf("embed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("embed: status %d", resp.StatusCode)
		}

		var result ollamaEmbedResponse
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("embed decode: %w", err)
		}

		vec = make([]float32, len(result.Embedding))
		for i, v := range result.Embedding {
			vec[i] = float32(v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vec, nil
}
