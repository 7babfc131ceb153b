package risk_engine

import (
	"reflect"
	"testing"
)

func moods(scores ...int) []MoodEntry {
	out := make([]MoodEntry, len(scores))
	for i, s := range scores {
		out[i] = MoodEntry{MoodScore: s}
	}
	return out
}

func TestScore(t *testing.T) {
	tests := []struct {
		name   string
		signal UserSignal
		want   RiskScores
	}{
		{
			name:   "inactive newcomer",
			signal: UserSignal{DaysSinceLastActive: 10, Streak: 1, TotalMessages: 2, AssessmentCount: 0},
			want: RiskScores{
				AttritionRisk: 1, RelapseRisk: 0.1, CrisisRisk: 0, EngagementScore: 0.5,
				Factors: []string{"10 days since last login", "Low engagement streak"},
			},
		},
		{
			name:   "zero value signal",
			signal: UserSignal{},
			want: RiskScores{
				AttritionRisk: 0.6, RelapseRisk: 0.1, CrisisRisk: 0, EngagementScore: 0.6,
				Factors: []string{"Low engagement streak"},
			},
		},
		{
			name:   "suicidality item without mood history",
			signal: UserSignal{Streak: 3, TotalMessages: 5, AssessmentCount: 1, LatestPHQ9: &PHQ9{TotalScore: 8, Q9: 2}},
			want: RiskScores{
				AttritionRisk: 0, RelapseRisk: 0.1, CrisisRisk: 0.6, EngagementScore: 0.8,
				Factors: []string{},
			},
		},
		{
			name: "engaged but severe and declining",
			signal: UserSignal{
				Streak: 10, TotalMessages: 25, AssessmentCount: 3,
				LatestPHQ9: &PHQ9{TotalScore: 22, Q9: 1},
				MoodTrend:  moods(8, 3, 2, 1),
			},
			want: RiskScores{
				AttritionRisk: 0, RelapseRisk: 0.9, CrisisRisk: 0.6, EngagementScore: 1,
				Factors: []string{"High severity (PHQ-9)", "Declining clinical trend"},
			},
		},
		{
			name: "moderate history",
			signal: UserSignal{
				DaysSinceLastActive: 5, Streak: 3, TotalMessages: 5, AssessmentCount: 1,
				LatestPHQ9: &PHQ9{TotalScore: 15},
				MoodTrend:  moods(5, 5, 5),
			},
			want: RiskScores{
				AttritionRisk: 0.2, RelapseRisk: 0.55, CrisisRisk: 0, EngagementScore: 0.7,
				Factors: []string{"5 days since last login", "High severity (PHQ-9)"},
			},
		},
		{
			name:   "short trend skips the average but not the last entry",
			signal: UserSignal{Streak: 3, TotalMessages: 5, AssessmentCount: 1, MoodTrend: moods(1, 1)},
			want: RiskScores{
				AttritionRisk: 0, RelapseRisk: 0.1, CrisisRisk: 0.3, EngagementScore: 0.8,
				Factors: []string{},
			},
		},
		{
			name:   "missing last mood counts as neutral",
			signal: UserSignal{Streak: 3, TotalMessages: 5, AssessmentCount: 1, MoodTrend: moods(0)},
			want: RiskScores{
				AttritionRisk: 0, RelapseRisk: 0.1, CrisisRisk: 0, EngagementScore: 0.8,
				Factors: []string{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.signal)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Score() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestScoreBoundedForOutOfRangeInput(t *testing.T) {
	signals := []UserSignal{
		{DaysSinceLastActive: -3, Streak: -5, TotalMessages: -1, AssessmentCount: -2},
		{DaysSinceLastActive: 1000, LatestPHQ9: &PHQ9{TotalScore: 100, Q9: 9}, MoodTrend: moods(-100, -50, -1)},
		{Streak: 1 << 30, TotalMessages: 1 << 30, AssessmentCount: 1 << 30, MoodTrend: moods(50, 60, 70)},
		{LatestPHQ9: &PHQ9{TotalScore: -4, Q9: -1}, MoodTrend: moods(0, 0, 0)},
	}
	for i, s := range signals {
		got := Score(s)
		for name, v := range map[string]float64{
			"attrition":  got.AttritionRisk,
			"relapse":    got.RelapseRisk,
			"crisis":     got.CrisisRisk,
			"engagement": got.EngagementScore,
		} {
			if v < 0 || v > 1 {
				t.Errorf("signal %d: %s = %v, want within [0,1]", i, name, v)
			}
		}
	}
}

func TestScoreIsIdempotent(t *testing.T) {
	s := UserSignal{
		DaysSinceLastActive: 4, Streak: 2, TotalMessages: 7, AssessmentCount: 1,
		LatestPHQ9: &PHQ9{TotalScore: 17, Q9: 1},
		MoodTrend:  moods(6, 4, 3, 2),
	}
	first := Score(s)
	second := Score(s)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Score() not idempotent: %+v vs %+v", first, second)
	}
	if len(s.MoodTrend) != 4 || s.MoodTrend[3].MoodScore != 2 {
		t.Errorf("Score() mutated its input: %+v", s.MoodTrend)
	}
}

func TestSeverity(t *testing.T) {
	tests := []struct {
		total int
		want  string
	}{
		{0, "Minimal"}, {4, "Minimal"},
		{5, "Mild"}, {9, "Mild"},
		{10, "Moderate"}, {14, "Moderate"},
		{15, "Moderately Severe"}, {19, "Moderately Severe"},
		{20, "Severe"}, {27, "Severe"},
	}
	for _, tt := range tests {
		if got := Severity(tt.total); got != tt.want {
			t.Errorf("Severity(%d) = %q, want %q", tt.total, got, tt.want)
		}
	}
}

func TestValidItems(t *testing.T) {
	tests := []struct {
		name  string
		items []int
		want  bool
	}{
		{"all zero", []int{0, 0, 0, 0, 0, 0, 0, 0, 0}, true},
		{"all max", []int{3, 3, 3, 3, 3, 3, 3, 3, 3}, true},
		{"too few", []int{1, 1, 1}, false},
		{"too high", []int{0, 0, 0, 0, 4, 0, 0, 0, 0}, false},
		{"negative", []int{0, 0, 0, 0, 0, 0, 0, 0, -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidItems(tt.items); got != tt.want {
				t.Errorf("ValidItems(%v) = %v, want %v", tt.items, got, tt.want)
			}
		})
	}
	if got := Total([]int{3, 3, 3, 3, 3, 3, 3, 3, 3}); got != PHQ9TotalMax {
		t.Errorf("Total() = %d, want %d", got, PHQ9TotalMax)
	}
}
