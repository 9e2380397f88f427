// Package assist orchestrates the guest reply pipeline: intent and sentiment
// classification, document retrieval, guest request extraction, response
// generation, and escalation.
package assist

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/windlabs/wind-engine/engine/classify"
	"github.com/windlabs/wind-engine/engine/domain"
	"github.com/windlabs/wind-engine/engine/guest"
	"github.com/windlabs/wind-engine/engine/respond"
	"github.com/windlabs/wind-engine/engine/retrieval"
	"github.com/windlabs/wind-engine/pkg/metrics"
)

const (
	// historyLimit caps how many past messages are replayed to the generator.
	historyLimit = 10
	// searchLimit caps how many document hits feed the reply context.
	searchLimit = 3
	// contextSnippet caps how much of each hit is quoted in the context.
	contextSnippet = 300
)

// fallbackReply is returned when the pipeline fails outright.
const fallbackReply = "I apologize, but I'm experiencing technical difficulties. " +
	"Please contact our front desk for immediate assistance."

// IntentError marks a reply produced by the failure path rather than
// classification.
const IntentError = classify.Intent("error")

// HotelInfo carries the property details woven into the system prompt.
type HotelInfo struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

// GuestContext identifies the guest behind a conversation.
type GuestContext struct {
	ConversationID string
	UserID         string
	Name           string
	RoomNumber     string
	GuestType      string
}

// Reply is the pipeline output for a single guest message.
type Reply struct {
	Text           string             `json:"response"`
	Intent         classify.Intent    `json:"intent"`
	Confidence     float64            `json:"confidence"`
	Sentiment      classify.Sentiment `json:"sentiment"`
	Escalate       bool               `json:"requires_escalation"`
	Suggestions    []string           `json:"suggestions,omitempty"`
	ProcessingTime time.Duration      `json:"-"`
}

// Service runs the reply pipeline. The generator and history store are
// optional; retrieval and request extraction degrade to empty context when
// their collaborators fail.
type Service struct {
	retrieval *retrieval.Service
	requests  *guest.Extractor
	history   domain.HistoryStore
	generator Generator
	hotel     HotelInfo
	met       *metrics.Registry
	log       *slog.Logger
}

// NewService wires the reply pipeline.
func NewService(ret *retrieval.Service, req *guest.Extractor, hist domain.HistoryStore, gen Generator, hotel HotelInfo, met *metrics.Registry, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		retrieval: ret,
		requests:  req,
		history:   hist,
		generator: gen,
		hotel:     hotel,
		met:       met,
		log:       log,
	}
}

// Reply processes one guest message end to end. Any panic or unexpected fault
// inside the pipeline degrades to an apologetic reply flagged for escalation,
// never an error to the caller.
func (s *Service) Reply(ctx context.Context, message string, gc GuestContext) (out Reply) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("reply pipeline panic", "panic", r, "conversation_id", gc.ConversationID)
			out = Reply{
				Text:           fallbackReply,
				Intent:         IntentError,
				Confidence:     0,
				Sentiment:      classify.SentimentNeutral,
				Escalate:       true,
				ProcessingTime: time.Since(start),
			}
		}
	}()

	intent := classify.ClassifyIntent(message)
	sentiment := classify.AnalyzeSentiment(message)

	docContext := s.documentContext(ctx, message)
	confirmation := s.recordRequest(ctx, message, intent.Intent, gc)

	text := s.generate(ctx, message, gc, docContext)
	if text == "" {
		text = respond.Compose(message, docContext, confirmation)
	} else if confirmation != "" {
		text += "\n\n" + confirmation
	}

	escalate := guest.ShouldEscalate(message, intent.Intent, sentiment)
	elapsed := time.Since(start)

	if s.met != nil {
		s.met.Histogram(
			metrics.WithLabels("wind_reply_duration_seconds", "intent", string(intent.Intent)),
			"Reply pipeline latency by intent", nil,
		).Observe(elapsed.Seconds())
		if escalate {
			s.met.Counter("wind_reply_escalations_total", "Replies flagged for escalation").Inc()
		}
	}

	s.log.Info("reply produced",
		"conversation_id", gc.ConversationID,
		"intent", intent.Intent,
		"sentiment", sentiment,
		"escalate", escalate,
		"duration_ms", elapsed.Milliseconds(),
	)

	return Reply{
		Text:           text,
		Intent:         intent.Intent,
		Confidence:     intent.Confidence,
		Sentiment:      sentiment,
		Escalate:       escalate,
		Suggestions:    respond.Suggestions(intent.Intent),
		ProcessingTime: elapsed,
	}
}

// documentContext searches hotel documents for the message and formats the
// top hits as a context block, or returns "" when nothing matches.
func (s *Service) documentContext(ctx context.Context, message string) string {
	if s.retrieval == nil {
		return ""
	}
	hits, err := s.retrieval.Search(ctx, message, "", searchLimit)
	if err != nil {
		s.log.Warn("document search failed", "error", err)
		return ""
	}
	if len(hits) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Based on hotel documents:\n")
	for _, h := range hits {
		snippet := truncateSnippet(h.Content, contextSnippet)
		b.WriteString("\n- ")
		b.WriteString(snippet)
		b.WriteString("...")
	}
	return b.String()
}

// truncateSnippet cuts s to at most max bytes, backing up so the cut never
// lands inside a multi-byte rune.
func truncateSnippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// recordRequest extracts and persists a trackable guest request when the
// intent calls for one. Failures are logged and the reply proceeds without a
// confirmation.
func (s *Service) recordRequest(ctx context.Context, message string, intent classify.Intent, gc GuestContext) string {
	if s.requests == nil {
		return ""
	}
	confirmation, _, err := s.requests.MaybeExtract(ctx, message, intent, guest.RequestContext{
		ConversationID: gc.ConversationID,
		UserID:         gc.UserID,
		RoomNumber:     gc.RoomNumber,
	})
	if err != nil {
		s.log.Warn("guest request not recorded", "error", err, "conversation_id", gc.ConversationID)
		return ""
	}
	return confirmation
}

// generate asks the generative backend for a reply, or returns "" so the
// rule-based composer takes over.
func (s *Service) generate(ctx context.Context, message string, gc GuestContext, docContext string) string {
	if s.generator == nil {
		return ""
	}
	text, err := s.generator.Generate(ctx, Prompt{
		System:  s.systemPrompt(),
		Context: s.guestContext(gc, docContext),
		History: s.recentHistory(ctx, gc.ConversationID),
		Message: message,
	})
	if err != nil {
		s.log.Warn("generator unavailable, using composer", "error", err)
		return ""
	}
	return strings.TrimSpace(text)
}

func (s *Service) recentHistory(ctx context.Context, conversationID string) []domain.Message {
	if s.history == nil || conversationID == "" {
		return nil
	}
	msgs, err := s.history.RecentMessages(ctx, conversationID, historyLimit)
	if err != nil {
		s.log.Warn("history unavailable", "error", err, "conversation_id", conversationID)
		return nil
	}
	return msgs
}

func (s *Service) systemPrompt() string {
	name := s.hotel.Name
	if name == "" {
		name = "the hotel"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "You are a helpful and professional guest assistant for %s. ", name)
	b.WriteString("Answer questions about hotel services, amenities, and policies. " +
		"Be warm, concise, and accurate. When you do not know something, say so " +
		"and offer to connect the guest with the front desk.")
	if s.hotel.Phone != "" {
		fmt.Fprintf(&b, " Front desk phone: %s.", s.hotel.Phone)
	}
	if s.hotel.Email != "" {
		fmt.Fprintf(&b, " Contact email: %s.", s.hotel.Email)
	}
	if s.hotel.Address != "" {
		fmt.Fprintf(&b, " Address: %s.", s.hotel.Address)
	}
	return b.String()
}

func (s *Service) guestContext(gc GuestContext, docContext string) string {
	var parts []string
	if gc.Name != "" {
		parts = append(parts, "Guest name: "+gc.Name)
	}
	if gc.RoomNumber != "" {
		parts = append(parts, "Room number: "+gc.RoomNumber)
	}
	if gc.GuestType != "" {
		parts = append(parts, "Guest type: "+gc.GuestType)
	}
	if docContext != "" {
		parts = append(parts, docContext)
	}
	return strings.Join(parts, "\n")
}
