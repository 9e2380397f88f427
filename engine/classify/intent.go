// Package classify provides rule-based classification of guest messages:
// intent against a fixed keyword taxonomy and a small positive/negative
// sentiment tally. Both are pure functions of the message text so results
// are deterministic and inspectable.
package classify

import "strings"

// Intent is a coarse category of guest message purpose.
type Intent string

const (
	IntentBooking          Intent = "booking"
	IntentComplaint        Intent = "complaint"
	IntentInquiry          Intent = "inquiry"
	IntentServiceRequest   Intent = "service_request"
	IntentCheckout         Intent = "checkout"
	IntentAmenities        Intent = "amenities"
	IntentEmergency        Intent = "emergency"
	IntentPolicyInquiry    Intent = "policy_inquiry"
	IntentConciergeRequest Intent = "concierge_request"
	IntentGuestRequest     Intent = "guest_request"
)

// intentEntry pairs an intent with its trigger keywords. The slice order is
// the tie-break between equal scores: earlier entries win.
type intentEntry struct {
	intent   Intent
	keywords []string
}

// taxonomy is the closed intent set, fixed at build time.
var taxonomy = []intentEntry{
	{IntentBooking, []string{"book", "reserve", "reservation", "availability", "room"}},
	{IntentComplaint, []string{"complain", "problem", "issue", "wrong", "bad", "terrible"}},
	{IntentInquiry, []string{"information", "help", "question", "what", "how", "when"}},
	{IntentServiceRequest, []string{"service", "housekeeping", "maintenance", "room service"}},
	{IntentCheckout, []string{"checkout", "check out", "leaving", "bill", "payment"}},
	{IntentAmenities, []string{"pool", "gym", "spa", "restaurant", "wifi", "parking"}},
	{IntentEmergency, []string{"emergency", "urgent", "help", "fire", "medical"}},
	{IntentPolicyInquiry, []string{"policy", "rule", "regulation", "allowed", "permitted", "procedure"}},
	{IntentConciergeRequest, []string{"recommend", "suggest", "where", "restaurant", "attraction", "tour"}},
	{IntentGuestRequest, []string{"need", "want", "request", "arrange", "schedule", "order"}},
}

// Result is a classified intent with its confidence in [0, 1].
type Result struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// DefaultResult is returned when no taxonomy keyword matches.
var DefaultResult = Result{Intent: IntentInquiry, Confidence: 0.5}

// ClassifyIntent scores the message against every taxonomy entry. A keyword
// matches by case-insensitive substring containment; each entry scores
// matched/total. The highest score wins, with declaration order breaking
// ties. No match at all yields (inquiry, 0.5).
func ClassifyIntent(message string) Result {
	lower := strings.ToLower(message)

	best := Result{}
	found := false
	for _, entry := range taxonomy {
		matched := 0
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		score := float64(matched) / float64(len(entry.keywords))
		if !found || score > best.Confidence {
			best = Result{Intent: entry.intent, Confidence: score}
			found = true
		}
	}

	if !found {
		return DefaultResult
	}
	return best
}
