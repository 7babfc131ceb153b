package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/artintx/internal/core/cache"
	db "github.com/markdave123-py/artintx/internal/core/database"
	"github.com/markdave123-py/artintx/internal/logging"
	"github.com/markdave123-py/artintx/internal/models"
)

const (
	defaultTrendDays = 14
	phq9TrendLimit   = 10
)

type AnalyticsService struct {
	db    db.DbClient
	risk  *RiskService
	cache cache.InsightCache
	now   func() time.Time
}

func NewAnalyticsService(db db.DbClient, risk *RiskService, cache cache.InsightCache) *AnalyticsService {
	return &AnalyticsService{db: db, risk: risk, cache: cache, now: time.Now}
}

// Summary builds the dashboard overview. Results are cached briefly and dropped on every write.
func (s *AnalyticsService) Summary(ctx context.Context, userID string) (*models.AnalyticsSummary, error) {
	if cached, err := s.cache.GetSummary(ctx, userID); err != nil {
		logging.FromContext(ctx).Warn("summary cache read failed", "user_id", userID, "err", err)
	} else if cached != nil {
		return cached, nil
	}

	var (
		user *models.User
		sum  models.AnalyticsSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		user, err = s.db.GetUserByID(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		sum.LatestMood, err = s.db.LatestMoodLog(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		sum.LatestPHQ9, err = s.db.LatestPHQ9(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		sum.LatestRisk, err = s.risk.Latest(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		sum.ChatMessageCount, err = s.db.CountChatMessages(gctx, userID, models.RoleUser)
		return err
	})
	g.Go(func() (err error) {
		sum.CrisisAlerts, err = s.db.CountCrisisMessages(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("gather summary: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	sum.User = models.SummaryUser{Name: user.Name, Streak: user.Streak, TotalSessions: user.TotalSessions}

	if err := s.cache.SetSummary(ctx, userID, &sum); err != nil {
		logging.FromContext(ctx).Warn("summary cache write failed", "user_id", userID, "err", err)
	}
	return &sum, nil
}

// MoodTrend averages mood logs per UTC calendar day, oldest day first.
func (s *AnalyticsService) MoodTrend(ctx context.Context, userID string, days int) ([]models.MoodTrendPoint, error) {
	days = clampDays(days, defaultTrendDays)
	logs, err := s.db.ListMoodLogsSince(ctx, userID, s.now().UTC().AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}
	return dailyMoodAverages(logs), nil
}

// PHQ9Trend returns the latest assessments in chronological order.
func (s *AnalyticsService) PHQ9Trend(ctx context.Context, userID string) ([]models.PHQ9TrendPoint, error) {
	list, err := s.db.ListPHQ9(ctx, userID, phq9TrendLimit, true)
	if err != nil {
		return nil, err
	}
	out := make([]models.PHQ9TrendPoint, 0, len(list))
	for _, a := range list {
		out = append(out, models.PHQ9TrendPoint{
			Date:       a.TakenAt.UTC().Format(time.DateOnly),
			TotalScore: a.TotalScore,
			Severity:   a.Severity,
		})
	}
	return out, nil
}

type dayAccumulator struct {
	mood, energy, anxiety    float64
	moodN, energyN, anxietyN int
}

func dailyMoodAverages(logs []models.MoodLog) []models.MoodTrendPoint {
	byDay := map[string]*dayAccumulator{}
	for _, l := range logs {
		day := l.LoggedAt.UTC().Format(time.DateOnly)
		acc, ok := byDay[day]
		if !ok {
			acc = &dayAccumulator{}
			byDay[day] = acc
		}
		acc.mood += float64(l.MoodScore)
		acc.moodN++
		if l.EnergyLevel != nil {
			acc.energy += float64(*l.EnergyLevel)
			acc.energyN++
		}
		if l.AnxietyLevel != nil {
			acc.anxiety += float64(*l.AnxietyLevel)
			acc.anxietyN++
		}
	}

	out := make([]models.MoodTrendPoint, 0, len(byDay))
	for day, acc := range byDay {
		p := models.MoodTrendPoint{Date: day, AvgMood: acc.mood / float64(acc.moodN)}
		if acc.energyN > 0 {
			v := acc.energy / float64(acc.energyN)
			p.AvgEnergy = &v
		}
		if acc.anxietyN > 0 {
			v := acc.anxiety / float64(acc.anxietyN)
			p.AvgAnxiety = &v
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
