// Package guest decides when a conversation must reach a human responder and
// turns qualifying messages into structured, trackable guest requests.
package guest

import (
	"strings"

	"github.com/windlabs/wind-engine/engine/classify"
)

// severityWords mark a negative message as escalation-worthy.
var severityWords = []string{"manager", "supervisor", "complaint", "refund"}

// ShouldEscalate reports whether the conversation should be handed to a human.
// The triggers are independent and combined by plain OR: an emergency intent,
// a negative message naming a severity word, an explicit ask for a human or
// agent, or the phrase "speak to someone".
func ShouldEscalate(message string, intent classify.Intent, sentiment classify.Sentiment) bool {
	lower := strings.ToLower(message)

	if intent == classify.IntentEmergency {
		return true
	}
	if sentiment == classify.SentimentNegative {
		for _, w := range severityWords {
			if strings.Contains(lower, w) {
				return true
			}
		}
	}
	if strings.Contains(lower, "human") || strings.Contains(lower, "agent") {
		return true
	}
	return strings.Contains(lower, "speak to someone")
}
