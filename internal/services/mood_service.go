package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/markdave123-py/artintx/internal/core"
	"github.com/markdave123-py/artintx/internal/core/cache"
	db "github.com/markdave123-py/artintx/internal/core/database"
	"github.com/markdave123-py/artintx/internal/logging"
	"github.com/markdave123-py/artintx/internal/models"
)

const (
	defaultMoodHistoryDays = 30
	moodStatsDays          = 30
	maxWindowDays          = 365
)

type MoodService struct {
	db       db.DbClient
	activity core.ActivityTracker
	cache    cache.InsightCache
	now      func() time.Time
}

func NewMoodService(db db.DbClient, activity core.ActivityTracker, cache cache.InsightCache) *MoodService {
	return &MoodService{db: db, activity: activity, cache: cache, now: time.Now}
}

type MoodInput struct {
	MoodScore    int      `json:"mood_score"`
	EnergyLevel  *int     `json:"energy_level"`
	AnxietyLevel *int     `json:"anxiety_level"`
	SleepHours   *float64 `json:"sleep_hours"`
	Notes        string   `json:"notes"`
	Activities   []string `json:"activities"`
}

func (s *MoodService) Log(ctx context.Context, userID string, in MoodInput) (string, error) {
	if in.MoodScore < 1 || in.MoodScore > 10 {
		return "", invalid("Mood score must be between 1 and 10.")
	}
	if outOfRange(in.EnergyLevel, 1, 10) || outOfRange(in.AnxietyLevel, 1, 10) {
		return "", invalid("Energy and anxiety levels must be between 1 and 10.")
	}
	if in.SleepHours != nil && (*in.SleepHours < 0 || *in.SleepHours > 24) {
		return "", invalid("Sleep hours must be between 0 and 24.")
	}

	m := &models.MoodLog{
		ID:           uuid.NewString(),
		UserID:       userID,
		MoodScore:    in.MoodScore,
		EnergyLevel:  in.EnergyLevel,
		AnxietyLevel: in.AnxietyLevel,
		SleepHours:   in.SleepHours,
		Notes:        in.Notes,
		Activities:   in.Activities,
		LoggedAt:     s.now().UTC(),
	}
	if err := s.db.CreateMoodLog(ctx, m); err != nil {
		return "", err
	}

	s.activity.Enqueue(userID)
	if err := s.cache.InvalidateSummary(ctx, userID); err != nil {
		logging.FromContext(ctx).Warn("summary invalidation failed", "user_id", userID, "err", err)
	}
	return m.ID, nil
}

func (s *MoodService) History(ctx context.Context, userID string, days int) ([]models.MoodLog, error) {
	days = clampDays(days, defaultMoodHistoryDays)
	return s.db.ListMoodLogsSince(ctx, userID, s.since(days))
}

func (s *MoodService) Stats(ctx context.Context, userID string) (*models.MoodStats, error) {
	return s.db.MoodStatsSince(ctx, userID, s.since(moodStatsDays))
}

func (s *MoodService) since(days int) time.Time {
	return s.now().UTC().AddDate(0, 0, -days)
}

func outOfRange(v *int, lo, hi int) bool {
	return v != nil && (*v < lo || *v > hi)
}

func clampDays(days, def int) int {
	if days <= 0 {
		return def
	}
	if days > maxWindowDays {
		return maxWindowDays
	}
	return days
}
