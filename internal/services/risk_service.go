package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/artintx/internal/core/activity_engine"
	"github.com/markdave123-py/artintx/internal/core/cache"
	db "github.com/markdave123-py/artintx/internal/core/database"
	"github.com/markdave123-py/artintx/internal/core/risk_engine"
	"github.com/markdave123-py/artintx/internal/logging"
	"github.com/markdave123-py/artintx/internal/models"
)

const moodTrendWindow = 7

type RiskService struct {
	db    db.DbClient
	cache cache.InsightCache
	now   func() time.Time
}

func NewRiskService(db db.DbClient, cache cache.InsightCache) *RiskService {
	return &RiskService{db: db, cache: cache, now: time.Now}
}

// Compute gathers the user's signal, scores it and appends a snapshot.
func (s *RiskService) Compute(ctx context.Context, userID string) (*models.RiskReport, error) {
	var (
		user        *models.User
		moodScores  []int
		latestPHQ9  *models.PHQ9Assessment
		msgCount    int
		assessCount int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		user, err = s.db.GetUserByID(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		moodScores, err = s.db.RecentMoodScores(gctx, userID, moodTrendWindow)
		return err
	})
	g.Go(func() (err error) {
		latestPHQ9, err = s.db.LatestPHQ9(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		msgCount, err = s.db.CountChatMessages(gctx, userID, models.RoleUser)
		return err
	})
	g.Go(func() (err error) {
		assessCount, err = s.db.CountPHQ9(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("gather risk signal: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	now := s.now().UTC()
	signal := risk_engine.UserSignal{
		DaysSinceLastActive: activity_engine.DaysBetween(user.LastActive, now),
		Streak:              user.Streak,
		MoodTrend:           make([]risk_engine.MoodEntry, 0, len(moodScores)),
		TotalMessages:       msgCount,
		AssessmentCount:     assessCount,
	}
	for _, m := range moodScores {
		signal.MoodTrend = append(signal.MoodTrend, risk_engine.MoodEntry{MoodScore: m})
	}
	if latestPHQ9 != nil {
		signal.LatestPHQ9 = &risk_engine.PHQ9{TotalScore: latestPHQ9.TotalScore, Q9: latestPHQ9.Q9()}
	}

	scores := risk_engine.Score(signal)

	snap := &models.RiskSnapshot{
		ID:              uuid.NewString(),
		UserID:          userID,
		AttritionRisk:   scores.AttritionRisk,
		RelapseRisk:     scores.RelapseRisk,
		CrisisRisk:      scores.CrisisRisk,
		EngagementScore: scores.EngagementScore,
		Factors:         scores.Factors,
		ComputedAt:      now,
	}
	if err := s.db.InsertRiskSnapshot(ctx, snap); err != nil {
		return nil, fmt.Errorf("store risk snapshot: %w", err)
	}
	if err := s.cache.SetRiskSnapshot(ctx, snap); err != nil {
		logging.FromContext(ctx).Warn("risk snapshot cache write failed", "user_id", userID, "err", err)
	}
	// The summary embeds latest_risk.
	if err := s.cache.InvalidateSummary(ctx, userID); err != nil {
		logging.FromContext(ctx).Warn("summary cache invalidate failed", "user_id", userID, "err", err)
	}

	return &models.RiskReport{
		AttritionRisk:   scores.AttritionRisk,
		RelapseRisk:     scores.RelapseRisk,
		CrisisRisk:      scores.CrisisRisk,
		EngagementScore: scores.EngagementScore,
		Factors:         scores.Factors,
		UserStats: models.UserStats{
			Streak:          user.Streak,
			TotalSessions:   user.TotalSessions,
			DaysSinceActive: signal.DaysSinceLastActive,
		},
	}, nil
}

// Latest returns the most recent snapshot, preferring the cache.
func (s *RiskService) Latest(ctx context.Context, userID string) (*models.RiskSnapshot, error) {
	if snap, err := s.cache.GetRiskSnapshot(ctx, userID); err != nil {
		logging.FromContext(ctx).Warn("risk snapshot cache read failed", "user_id", userID, "err", err)
	} else if snap != nil {
		return snap, nil
	}
	return s.db.LatestRiskSnapshot(ctx, userID)
}
