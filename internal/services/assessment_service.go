package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/markdave123-py/artintx/internal/core"
	"github.com/markdave123-py/artintx/internal/core/cache"
	db "github.com/markdave123-py/artintx/internal/core/database"
	"github.com/markdave123-py/artintx/internal/core/risk_engine"
	"github.com/markdave123-py/artintx/internal/logging"
	"github.com/markdave123-py/artintx/internal/models"
)

const assessmentHistoryLimit = 20

type AssessmentService struct {
	db       db.DbClient
	activity core.ActivityTracker
	cache    cache.InsightCache
}

func NewAssessmentService(db db.DbClient, activity core.ActivityTracker, cache cache.InsightCache) *AssessmentService {
	return &AssessmentService{db: db, activity: activity, cache: cache}
}

// SubmitPHQ9 scores and stores one screening. answers must hold nine items, each 0-3.
func (s *AssessmentService) SubmitPHQ9(ctx context.Context, userID string, answers []int) (*models.PHQ9Assessment, error) {
	if !risk_engine.ValidItems(answers) {
		return nil, invalid("All 9 questions must have scores 0–3.")
	}

	total := risk_engine.Total(answers)
	a := &models.PHQ9Assessment{
		ID:         uuid.NewString(),
		UserID:     userID,
		TotalScore: total,
		Severity:   risk_engine.Severity(total),
		TakenAt:    time.Now().UTC(),
	}
	copy(a.Answers[:], answers)

	if err := s.db.CreatePHQ9(ctx, a); err != nil {
		return nil, err
	}

	s.activity.Enqueue(userID)
	if err := s.cache.InvalidateSummary(ctx, userID); err != nil {
		logging.FromContext(ctx).Warn("summary invalidation failed", "user_id", userID, "err", err)
	}
	if a.Q9() > 0 {
		logging.FromContext(ctx).Warn("phq9 self-harm item endorsed", "user_id", userID, "q9", a.Q9(), "total", total)
	}
	return a, nil
}

// History returns the latest assessments, newest first.
func (s *AssessmentService) History(ctx context.Context, userID string) ([]models.PHQ9Assessment, error) {
	return s.db.ListPHQ9(ctx, userID, assessmentHistoryLimit, false)
}
