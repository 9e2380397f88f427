package classify

import "testing"

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		wantIntent Intent
	}{
		{"booking", "I want to book a room for two nights", IntentBooking},
		{"complaint", "There is a problem with the terrible noise", IntentComplaint},
		{"checkout", "Can I get the bill, we are leaving at noon", IntentCheckout},
		{"amenities", "What time does the pool and gym open", IntentAmenities},
		{"emergency", "This is an emergency, there is a fire", IntentEmergency},
		{"policy", "What is your pet policy and procedure", IntentPolicyInquiry},
		{"concierge", "Can you recommend a good attraction or tour", IntentConciergeRequest},
		{"guest request", "I need to arrange and schedule an airport pickup", IntentGuestRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyIntent(tt.message)
			if got.Intent != tt.wantIntent {
				t.Errorf("ClassifyIntent(%q) = %s (%.2f), want %s", tt.message, got.Intent, got.Confidence, tt.wantIntent)
			}
			if got.Confidence <= 0 || got.Confidence > 1 {
				t.Errorf("confidence out of range: %f", got.Confidence)
			}
		})
	}
}

func TestClassifyIntent_NoMatchDefaults(t *testing.T) {
	for _, msg := range []string{"", "zzz qqq xyzzy"} {
		got := ClassifyIntent(msg)
		if got.Intent != IntentInquiry {
			t.Errorf("ClassifyIntent(%q) = %s, want inquiry", msg, got.Intent)
		}
		if got.Confidence != 0.5 {
			t.Errorf("ClassifyIntent(%q) confidence = %f, want 0.5", msg, got.Confidence)
		}
	}
}

func TestClassifyIntent_ConfidenceIsMatchedFraction(t *testing.T) {
	// "book" and "room" hit 2 of the 5 booking keywords.
	got := ClassifyIntent("book a room")
	if got.Intent != IntentBooking {
		t.Fatalf("expected booking, got %s", got.Intent)
	}
	if got.Confidence != 0.4 {
		t.Errorf("expected confidence 0.4, got %f", got.Confidence)
	}
}

func TestClassifyIntent_TieKeepsEarlierEntry(t *testing.T) {
	// "book" scores 1/5 for booking and "checkout" scores 1/5 for checkout.
	got := ClassifyIntent("book the checkout")
	if got.Intent != IntentBooking {
		t.Errorf("equal scores should keep the earlier entry, got %s", got.Intent)
	}
}
