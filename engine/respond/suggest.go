package respond

import "github.com/windlabs/wind-engine/engine/classify"

// suggestions are quick-reply candidates a staff console can offer per intent.
var suggestions = map[classify.Intent][]string{
	classify.IntentBooking: {
		"I'd be happy to help you with your reservation. What dates are you looking for?",
		"Let me check our availability for you.",
		"Would you like to modify an existing reservation?",
	},
	classify.IntentComplaint: {
		"I sincerely apologize for the inconvenience. Let me help resolve this immediately.",
		"I understand your concern. Can you provide more details so I can assist you better?",
		"I'd like to escalate this to our manager for immediate attention.",
	},
	classify.IntentInquiry: {
		"I'm here to help! What would you like to know?",
		"I can provide information about our services and amenities.",
		"How can I assist you today?",
	},
	classify.IntentServiceRequest: {
		"I'll arrange that service for you right away.",
		"Let me connect you with the appropriate department.",
		"What room number should I send the service to?",
	},
}

// Suggestions returns quick-reply candidates for the intent, with a generic
// fallback for intents without a dedicated list.
func Suggestions(intent classify.Intent) []string {
	if s, ok := suggestions[intent]; ok {
		return s
	}
	return []string{"How can I help you today?"}
}
