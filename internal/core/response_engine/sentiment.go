package response_engine

import "strings"

// AnalyzeSentiment counts how many positive and negative words occur in the message.
// Each word counts at most once. Ties, including zero hits, are neutral.
func AnalyzeSentiment(message string) Sentiment {
	lower := strings.ToLower(message)

	var pos, neg int
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			pos++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			neg++
		}
	}

	switch {
	case pos > neg:
		return SentimentPositive
	case neg > pos:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
