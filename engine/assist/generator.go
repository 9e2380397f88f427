package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/windlabs/wind-engine/engine/domain"
	"github.com/windlabs/wind-engine/pkg/resilience"
)

// Prompt is the input to a generative backend: the standing system prompt,
// per-conversation context, recent history, and the guest's message.
type Prompt struct {
	System  string
	Context string
	History []domain.Message
	Message string
}

// Generator abstracts an optional generative text backend. When it is absent
// or failing, the reply pipeline uses the rule-based composer instead.
type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}

// OllamaGenerator produces replies through Ollama's chat API.
type OllamaGenerator struct {
	baseURL string
	model   string
	client  *http.Client
	breaker *resilience.Breaker
}

// NewOllamaGenerator creates a Generator for the given Ollama base URL and
// chat model.
func NewOllamaGenerator(baseURL, model string) *OllamaGenerator {
	return &OllamaGenerator{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{},
		breaker: resilience.NewBreaker(resilience.DefaultBreakerOpts),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

// Generate implements Generator.
func (g *OllamaGenerator) Generate(ctx context.Context, p Prompt) (string, error) {
	system := p.System
	if p.Context != "" {
		system += "\n\nCURRENT CONTEXT:\n" + p.Context
	}

	messages := make([]chatMessage, 0, len(p.History)+2)
	messages = append(messages, chatMessage{Role: "system", Content: system})
	for _, m := range p.History {
		messages = append(messages, chatMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, chatMessage{Role: "user", Content: p.Message})

	var reply string
	err := g.breaker.Call(ctx, func(ctx context.Context) error {
		body, _ := json.Marshal(chatRequest{Model: g.model, Messages: messages})
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/chat", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := g.client.Do(req)
		if err != nil {
			return fmt.Errorf("chat: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("chat: status %d", resp.StatusCode)
		}

		var result chatResponse
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("chat decode: %w", err)
		}
		reply = result.Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}
	return reply, nil
}
