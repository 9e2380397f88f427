package classify

import "strings"

// Sentiment is the coarse emotional tone of a message.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

var positiveWords = []string{
	"good", "great", "excellent", "amazing", "wonderful", "perfect", "love", "happy",
}

var negativeWords = []string{
	"bad", "terrible", "awful", "horrible", "hate", "angry", "frustrated", "disappointed",
}

// AnalyzeSentiment tallies fixed positive and negative keyword lists against
// the lower-cased message. Negative wins only when it strictly outnumbers
// positive, and vice versa; everything else (including 0-0) is neutral.
func AnalyzeSentiment(message string) Sentiment {
	lower := strings.ToLower(message)

	positive := 0
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			positive++
		}
	}
	negative := 0
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			negative++
		}
	}

	switch {
	case negative > positive:
		return SentimentNegative
	case positive > negative:
		return SentimentPositive
	default:
		return SentimentNeutral
	}
}
