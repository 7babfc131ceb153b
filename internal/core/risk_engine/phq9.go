package risk_engine

// PHQ-9 bounds.
const (
	PHQ9Items    = 9
	PHQ9ItemMax  = 3
	PHQ9TotalMax = PHQ9Items * PHQ9ItemMax
)

// Severity maps a PHQ-9 total to its clinical band.
func Severity(total int) string {
	switch {
	case total <= 4:
		return "Minimal"
	case total <= 9:
		return "Mild"
	case total <= 14:
		return "Moderate"
	case total <= 19:
		return "Moderately Severe"
	default:
		return "Severe"
	}
}

// ValidItems reports whether exactly nine answers were given, each in [0,3].
func ValidItems(items []int) bool {
	if len(items) != PHQ9Items {
		return false
	}
	for _, v := range items {
		if v < 0 || v > PHQ9ItemMax {
			return false
		}
	}
	return true
}

// Total sums the item scores.
func Total(items []int) int {
	total := 0
	for _, v := range items {
		total += v
	}
	return total
}
