// Package respond builds guest-facing reply text when no generative backend
// is reachable. Topics are matched in a fixed order against keyword groups;
// the first hit wins and several groups answer differently for an
// "I want/need X" phrasing versus an informational question.
package respond

import "strings"

// topic is one canned-answer branch. When wantKeywords is non-empty and any
// of them appear in the message, wantAnswer is used instead of answer.
type topic struct {
	keywords     []string
	wantKeywords []string
	answer       string
	wantAnswer   string
}

// topics are evaluated in order; the first matching group answers.
var topics = []topic{
	{
		keywords:     []string{"breakfast", "dining", "restaurant", "food", "dinner", "lunch", "eat"},
		wantKeywords: []string{"want", "need", "order", "get"},
		answer:       "Our main restaurant serves breakfast from 6:30 AM to 10:30 AM, lunch from 12:00 PM to 3:00 PM, and dinner from 6:00 PM to 10:00 PM. We also have 24-hour room service available. Our breakfast buffet features fresh pastries, eggs made to order, and local specialties.",
		wantAnswer:   "I'd be happy to help you with dining! Are you looking for room service or would you prefer to dine in our restaurant? For room service, I can help you place an order - what type of cuisine are you in the mood for? Also, could you please let me know your room number and any dietary preferences or allergies I should be aware of?",
	},
	{
		keywords: []string{"gym", "fitness", "workout", "exercise"},
		answer:   "Our fitness center is open 24/7 and features modern cardio equipment, free weights, and strength training machines. We also have yoga mats and towels available. The gym is located on the 2nd floor.",
	},
	{
		keywords: []string{"pool", "swimming", "swim"},
		answer:   "Our outdoor pool is open from 6:00 AM to 10:00 PM daily. We have poolside service available and comfortable lounge chairs. The pool area also includes a hot tub that's perfect for relaxation.",
	},
	{
		keywords: []string{"wifi", "internet", "connection"},
		answer:   "Complimentary high-speed WiFi is available throughout the hotel. The network name is 'GrandHotel_Guest' and no password is required. If you experience any connectivity issues, please let me know.",
	},
	{
		keywords: []string{"parking", "car", "valet"},
		answer:   "We offer both self-parking ($15/night) and valet parking ($25/night). Valet service is available from 6:00 AM to midnight. Our parking garage is secure and covered.",
	},
	{
		keywords: []string{"spa", "massage", "wellness"},
		answer:   "Our spa offers a full range of services including massages, facials, and body treatments. We're open daily from 9:00 AM to 8:00 PM. I'd recommend booking in advance as we tend to fill up quickly.",
	},
	{
		keywords: []string{"checkout", "check out", "leaving"},
		answer:   "Checkout time is 11:00 AM. You can check out using the TV in your room, at the front desk, or through our mobile app. Late checkout until 2:00 PM is available for $50, subject to availability.",
	},
	{
		keywords:     []string{"towels", "housekeeping", "cleaning"},
		wantKeywords: []string{"want", "need", "get", "extra"},
		answer:       "Housekeeping services are available daily. For extra towels, linens, or amenities, you can call housekeeping directly or request them through the phone in your room. We're happy to accommodate any special requests.",
		wantAnswer:   "I'll be happy to arrange that for you! Could you please let me know your room number and how many extra towels you'd like? Also, would you prefer bath towels, hand towels, or both? I'll have housekeeping bring them to your room right away.",
	},
	{
		keywords: []string{"nearby", "attractions", "things to do", "recommendations"},
		answer:   "There's plenty to explore nearby! The historic downtown area is just 10 minutes away with great shopping and dining. The art museum is 15 minutes by car, and we're only 5 minutes from the beautiful riverside park. I can provide more specific recommendations based on your interests.",
	},
	{
		keywords:     []string{"room service", "food delivery"},
		wantKeywords: []string{"want", "need", "order", "get"},
		answer:       "Room service is available 24/7. You can order using the phone in your room or through our mobile app. Delivery typically takes 30-45 minutes. We have a full menu including appetizers, entrees, desserts, and beverages.",
		wantAnswer:   "I'd love to help you with room service! What would you like to order today? We have appetizers, main courses, desserts, and beverages available. Could you also please provide your room number and let me know if you have any dietary restrictions or allergies I should be aware of?",
	},
	{
		keywords: []string{"concierge", "tickets", "reservations"},
		answer:   "Our concierge team can help with restaurant reservations, show tickets, transportation arrangements, and local recommendations. We're here from 7:00 AM to 10:00 PM daily and would be happy to assist with any special requests.",
	},
	{
		keywords: []string{"want", "need", "get", "order", "request"},
		answer:   "I'd be delighted to help you with that! To make sure I assist you properly, could you please provide a few more details? What specifically would you like, and what's your room number? This will help me arrange everything perfectly for you.",
	},
}

// defaultAnswer greets the guest when no topic matches.
const defaultAnswer = "Hello! I'm here to assist you with anything you need during your stay. What can I help you with today? Whether it's information about our amenities, making a request, or getting recommendations, I'm happy to help!"

// Compose produces the rule-based reply for a guest message, then appends
// retrieved document context and the request confirmation, when present, each
// as its own paragraph in that order.
func Compose(message string, documentContext, requestConfirmation string) string {
	reply := topicAnswer(message)
	if documentContext != "" {
		reply += "\n\n" + documentContext
	}
	if requestConfirmation != "" {
		reply += "\n\n" + requestConfirmation
	}
	return reply
}

func topicAnswer(message string) string {
	lower := strings.ToLower(message)
	for _, t := range topics {
		if !containsAny(lower, t.keywords) {
			continue
		}
		if len(t.wantKeywords) > 0 && containsAny(lower, t.wantKeywords) {
			return t.wantAnswer
		}
		return t.answer
	}
	return defaultAnswer
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
