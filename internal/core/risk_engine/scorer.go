package risk_engine

import (
	"fmt"
	"math"
)

// PHQ9 is the part of a screening result the scorer reads.
type PHQ9 struct {
	TotalScore int `json:"total_score"`
	Q9         int `json:"q9"` // suicidality item, 0-3
}

// MoodEntry is one logged mood, 1-10.
type MoodEntry struct {
	MoodScore int `json:"mood_score"`
}

// UserSignal bundles the engagement and clinical history the scorer works from.
// MoodTrend is chronological: the last element is the most recent entry.
type UserSignal struct {
	DaysSinceLastActive int         `json:"daysSinceLastActive"`
	Streak              int         `json:"streak"`
	LatestPHQ9          *PHQ9       `json:"latestPHQ9,omitempty"`
	MoodTrend           []MoodEntry `json:"moodTrend"`
	TotalMessages       int         `json:"totalMessages"`
	AssessmentCount     int         `json:"assessmentCount"`
}

// RiskScores is a point-in-time snapshot. Every score is in [0,1] with two decimals.
type RiskScores struct {
	AttritionRisk   float64  `json:"attritionRisk"`
	RelapseRisk     float64  `json:"relapseRisk"`
	CrisisRisk      float64  `json:"crisisRisk"`
	EngagementScore float64  `json:"engagementScore"`
	Factors         []string `json:"factors"`
}

const neutralMood = 5

// Score derives the four risk heuristics and the explanatory factors from a signal.
func Score(s UserSignal) RiskScores {
	return RiskScores{
		AttritionRisk:   finalize(attritionRisk(s)),
		RelapseRisk:     finalize(relapseRisk(s)),
		CrisisRisk:      finalize(crisisRisk(s)),
		EngagementScore: finalize(engagementScore(s)),
		Factors:         factors(s),
	}
}

func attritionRisk(s UserSignal) float64 {
	risk := 0.0
	if s.DaysSinceLastActive > 7 {
		risk += 0.4
	} else if s.DaysSinceLastActive > 3 {
		risk += 0.2
	}
	if s.Streak < 3 {
		risk += 0.2
	}
	if s.TotalMessages < 5 {
		risk += 0.2
	}
	if s.AssessmentCount == 0 {
		risk += 0.2
	}
	return risk
}

func relapseRisk(s UserSignal) float64 {
	risk := 0.1
	if s.LatestPHQ9 != nil {
		switch total := s.LatestPHQ9.TotalScore; {
		case total >= 20:
			risk += 0.5
		case total >= 15:
			risk += 0.35
		case total >= 10:
			risk += 0.2
		}
	}
	if avg, ok := recentMoodAverage(s.MoodTrend); ok {
		if avg < 4 {
			risk += 0.3
		} else if avg < 6 {
			risk += 0.1
		}
	}
	return risk
}

func crisisRisk(s UserSignal) float64 {
	risk := 0.0
	if s.LatestPHQ9 != nil {
		if s.LatestPHQ9.Q9 >= 2 {
			risk += 0.6
		} else if s.LatestPHQ9.Q9 == 1 {
			risk += 0.3
		}
	}
	if n := len(s.MoodTrend); n > 0 {
		last := s.MoodTrend[n-1].MoodScore
		if last == 0 {
			last = neutralMood
		}
		if last <= 2 {
			risk += 0.3
		}
	}
	return risk
}

func engagementScore(s UserSignal) float64 {
	score := 0.5
	if s.Streak >= 7 {
		score += 0.3
	} else if s.Streak >= 3 {
		score += 0.2
	}
	if s.TotalMessages >= 20 {
		score += 0.1
	}
	if s.AssessmentCount >= 2 {
		score += 0.1
	}
	if s.DaysSinceLastActive == 0 {
		score += 0.1
	}
	return score
}

// factors re-checks its own conditions; it never reads the computed scores.
func factors(s UserSignal) []string {
	out := []string{}
	if s.DaysSinceLastActive > 3 {
		out = append(out, fmt.Sprintf("%d days since last login", s.DaysSinceLastActive))
	}
	if s.Streak < 3 {
		out = append(out, "Low engagement streak")
	}
	if s.LatestPHQ9 != nil && s.LatestPHQ9.TotalScore >= 15 {
		out = append(out, "High severity (PHQ-9)")
	}
	if avg, ok := recentMoodAverage(s.MoodTrend); ok && avg < 5 {
		out = append(out, "Declining clinical trend")
	}
	return out
}

// recentMoodAverage averages the last three entries. ok is false with fewer than three.
func recentMoodAverage(trend []MoodEntry) (avg float64, ok bool) {
	if len(trend) < 3 {
		return 0, false
	}
	sum := 0
	for _, m := range trend[len(trend)-3:] {
		sum += m.MoodScore
	}
	return float64(sum) / 3, true
}

// finalize clamps to [0,1] and rounds to two decimals.
func finalize(v float64) float64 {
	v = math.Max(0, math.Min(1, v))
	return math.Round(v*100) / 100
}
