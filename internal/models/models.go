package models

import (
	"time"
)

// Chat roles and the sentiment label stored on assistant turns.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	SentimentBot  = "bot"
)

// User represents an authenticated user of the system.
type User struct {
	ID               string    `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	Email            string    `db:"email" json:"email"`
	PasswordHash     string    `db:"password_hash" json:"-"`
	Age              *int      `db:"age" json:"age"`
	Gender           string    `db:"gender" json:"gender,omitempty"`
	Diagnosis        string    `db:"diagnosis" json:"diagnosis"`
	TherapistName    string    `db:"therapist_name" json:"therapist_name,omitempty"`
	EmergencyContact string    `db:"emergency_contact" json:"emergency_contact,omitempty"`
	Streak           int       `db:"streak" json:"streak"`
	TotalSessions    int       `db:"total_sessions" json:"total_sessions"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	LastActive       time.Time `db:"last_active" json:"last_active"`
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Name             string `json:"name"`
	Age              *int   `json:"age"`
	Gender           string `json:"gender"`
	Diagnosis        string `json:"diagnosis"`
	TherapistName    string `json:"therapist_name"`
	EmergencyContact string `json:"emergency_contact"`
}

// MoodLog is one self-reported mood entry.
type MoodLog struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"-"`
	MoodScore    int       `db:"mood_score" json:"mood_score"` // 1-10
	EnergyLevel  *int      `db:"energy_level" json:"energy_level"`
	AnxietyLevel *int      `db:"anxiety_level" json:"anxiety_level"`
	SleepHours   *float64  `db:"sleep_hours" json:"sleep_hours"`
	Notes        string    `db:"notes" json:"notes,omitempty"`
	Activities   []string  `db:"activities" json:"activities"` // stored as JSON text
	LoggedAt     time.Time `db:"logged_at" json:"logged_at"`
}

// MoodStats aggregates mood logs over a window. Averages are nil when there are no logs.
type MoodStats struct {
	AvgMood    *float64 `json:"avg_mood"`
	AvgEnergy  *float64 `json:"avg_energy"`
	AvgAnxiety *float64 `json:"avg_anxiety"`
	AvgSleep   *float64 `json:"avg_sleep"`
	MinMood    *int     `json:"min_mood"`
	MaxMood    *int     `json:"max_mood"`
	TotalLogs  int      `json:"total_logs"`
}

// MoodTrendPoint is the per-day average used by the analytics chart.
type MoodTrendPoint struct {
	Date       string   `json:"date"`
	AvgMood    float64  `json:"avg_mood"`
	AvgEnergy  *float64 `json:"avg_energy"`
	AvgAnxiety *float64 `json:"avg_anxiety"`
}

// PHQ9Assessment is one completed depression screening.
type PHQ9Assessment struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"-"`
	Answers    [9]int    `db:"q1..q9" json:"answers"`
	TotalScore int       `db:"total_score" json:"total_score"`
	Severity   string    `db:"severity" json:"severity"`
	TakenAt    time.Time `db:"taken_at" json:"taken_at"`
}

// Q9 is the suicidality item.
func (a *PHQ9Assessment) Q9() int {
	return a.Answers[8]
}

// ChatMessage represents an individual chat message (user or assistant).
type ChatMessage struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"-"`
	SessionID  string    `db:"session_id" json:"session_id"`
	Role       string    `db:"role" json:"role"`
	Content    string    `db:"content" json:"content"`
	Sentiment  string    `db:"sentiment" json:"sentiment"`
	CrisisFlag bool      `db:"crisis_flag" json:"crisis_flag"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ChatSession summarizes one conversation.
type ChatSession struct {
	SessionID    string    `json:"session_id"`
	StartedAt    time.Time `json:"started_at"`
	MessageCount int       `json:"message_count"`
}

// RiskSnapshot is an append-only record of computed risk scores.
type RiskSnapshot struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"-"`
	AttritionRisk   float64   `db:"attrition_risk" json:"attritionRisk"`
	RelapseRisk     float64   `db:"relapse_risk" json:"relapseRisk"`
	CrisisRisk      float64   `db:"crisis_risk" json:"crisisRisk"`
	EngagementScore float64   `db:"engagement_score" json:"engagementScore"`
	Factors         []string  `db:"factors" json:"factors"` // stored as JSON text
	ComputedAt      time.Time `db:"computed_at" json:"computed_at"`
}

// Reminder is a medication reminder. Deleting one only deactivates it.
type Reminder struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"-"`
	MedicineName string    `db:"medicine_name" json:"medicine_name"`
	Dosage       string    `db:"dosage" json:"dosage,omitempty"`
	ReminderTime string    `db:"reminder_time" json:"reminder_time"`
	Frequency    string    `db:"frequency" json:"frequency"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserStats is the engagement context returned with a risk computation.
type UserStats struct {
	Streak          int `json:"streak"`
	TotalSessions   int `json:"total_sessions"`
	DaysSinceActive int `json:"days_since_active"`
}

// RiskReport is a freshly computed snapshot plus the user stats it was derived from.
type RiskReport struct {
	AttritionRisk   float64   `json:"attritionRisk"`
	RelapseRisk     float64   `json:"relapseRisk"`
	CrisisRisk      float64   `json:"crisisRisk"`
	EngagementScore float64   `json:"engagementScore"`
	Factors         []string  `json:"factors"`
	UserStats       UserStats `json:"user_stats"`
}

// SummaryUser is the slice of the profile shown on the dashboard.
type SummaryUser struct {
	Name          string `json:"name"`
	Streak        int    `json:"streak"`
	TotalSessions int    `json:"total_sessions"`
}

// AnalyticsSummary is the dashboard overview for one user.
type AnalyticsSummary struct {
	User             SummaryUser     `json:"user"`
	LatestMood       *MoodLog        `json:"latest_mood"`
	LatestPHQ9       *PHQ9Assessment `json:"latest_phq9"`
	LatestRisk       *RiskSnapshot   `json:"latest_risk"`
	ChatMessageCount int             `json:"chat_message_count"`
	CrisisAlerts     int             `json:"crisis_alerts"`
}

// PHQ9TrendPoint is one assessment on the severity chart.
type PHQ9TrendPoint struct {
	Date       string `json:"date"`
	TotalScore int    `json:"total_score"`
	Severity   string `json:"severity"`
}

// UserExport is everything stored about a user, as written to object storage.
type UserExport struct {
	ExportedAt  time.Time        `json:"exported_at"`
	Profile     *User            `json:"profile"`
	MoodLogs    []MoodLog        `json:"mood_logs"`
	Assessments []PHQ9Assessment `json:"assessments"`
	Messages    []ChatMessage    `json:"messages"`
	Reminders   []Reminder       `json:"reminders"`
}
