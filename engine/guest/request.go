package guest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/windlabs/wind-engine/engine/classify"
	"github.com/windlabs/wind-engine/engine/domain"
)

// recordable maps the intents that produce a guest request to their request
// type. Intents outside this map never create a request.
var recordable = map[classify.Intent]domain.RequestType{
	classify.IntentServiceRequest:   domain.RequestRoomService,
	classify.IntentGuestRequest:     domain.RequestConcierge,
	classify.IntentConciergeRequest: domain.RequestConcierge,
}

var urgentKeywords = []string{"urgent", "emergency", "asap", "immediately", "now"}
var highKeywords = []string{"important", "soon", "quickly", "priority"}

// titleWords is how many leading tokens of the message become the title.
const titleWords = 8

// RequestContext carries the conversation identity a request is filed under.
type RequestContext struct {
	ConversationID string
	UserID         string
	RoomNumber     string
}

// Extractor converts classified messages into guest requests through the
// request sink.
type Extractor struct {
	sink domain.RequestSink
	log  *slog.Logger
}

// NewExtractor creates an Extractor writing through sink.
func NewExtractor(sink domain.RequestSink, log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{sink: sink, log: log}
}

// MaybeExtract files a guest request when the intent belongs to the
// recordable subset, issuing exactly one create per invocation. It returns
// the created request and a confirmation line for the guest, or ("", nil)
// when the intent does not qualify.
func (e *Extractor) MaybeExtract(ctx context.Context, message string, intent classify.Intent, rc RequestContext) (string, *domain.GuestRequest, error) {
	reqType, ok := recordable[intent]
	if !ok {
		return "", nil, nil
	}

	req := domain.GuestRequest{
		ConversationID: rc.ConversationID,
		UserID:         rc.UserID,
		Type:           reqType,
		Title:          RequestTitle(message),
		Description:    message,
		RoomNumber:     rc.RoomNumber,
		Priority:       RequestPriority(message),
		Status:         "pending",
	}

	id, err := e.sink.CreateRequest(ctx, req)
	if err != nil {
		return "", nil, fmt.Errorf("guest: create request: %w", err)
	}
	req.ID = id

	e.log.Info("guest request recorded",
		"request_id", id,
		"type", string(reqType),
		"priority", string(req.Priority),
	)

	return confirmation(id), &req, nil
}

// RequestTitle extracts a short title: the first eight whitespace-delimited
// tokens rejoined with single spaces.
func RequestTitle(message string) string {
	words := strings.Fields(message)
	if len(words) > titleWords {
		words = words[:titleWords]
	}
	return strings.Join(words, " ")
}

// RequestPriority derives urgency from the message: urgent keywords beat high
// keywords, and everything else is medium.
func RequestPriority(message string) domain.Priority {
	lower := strings.ToLower(message)
	for _, kw := range urgentKeywords {
		if strings.Contains(lower, kw) {
			return domain.PriorityUrgent
		}
	}
	for _, kw := range highKeywords {
		if strings.Contains(lower, kw) {
			return domain.PriorityHigh
		}
	}
	return domain.PriorityMedium
}

// confirmation is the guest-facing acknowledgement line.
func confirmation(id string) string {
	short := id
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("Request #%s has been recorded and will be processed.", short)
}
