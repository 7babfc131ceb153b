package activity_engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/markdave123-py/artintx/internal/core"
)

var (
	_ Tracker              = (*ActivityTracker)(nil)
	_ core.ActivityTracker = (*ActivityTracker)(nil)
)

// NewActivityTracker constructs the tracker with a bounded job queue (64 by default).
func NewActivityTracker(db ActivityStore, cfg TrackerConfig) *ActivityTracker {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 10 * time.Second
	}
	return &ActivityTracker{
		db:   db,
		cfg:  cfg,
		now:  func() time.Time { return time.Now().UTC() },
		jobs: make(chan string, cfg.QueueSize),
	}
}

// Start runs numWorkers goroutines reading from the jobs channel until ctx is done.
func (t *ActivityTracker) Start(ctx context.Context, numWorkers int) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	for w := 1; w <= numWorkers; w++ {
		t.wg.Add(1)
		go func(w int) {
			defer t.wg.Done()
			for {
				select {
				case <-ctx.Done():
					slog.Debug("activity worker shutting down", "worker", w)
					return
				case userID := <-t.jobs:
					if err := t.processOne(userID); err != nil {
						slog.Error("activity update failed", "worker", w, "user_id", userID, "err", err)
					}
				}
			}
		}(w)
	}
}

// Wait blocks until every worker has returned.
func (t *ActivityTracker) Wait() {
	t.wg.Wait()
}

// Enqueue schedules an activity update. A full queue drops the job instead of blocking the request.
func (t *ActivityTracker) Enqueue(userID string) {
	select {
	case t.jobs <- userID:
	default:
		slog.Warn("activity queue full, dropping update", "user_id", userID)
	}
}

// TrackNow applies the update synchronously.
func (t *ActivityTracker) TrackNow(ctx context.Context, userID string) error {
	return t.track(ctx, userID)
}

func (t *ActivityTracker) processOne(userID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), t.cfg.JobTimeout)
	defer cancel()
	return t.track(ctx, userID)
}

func (t *ActivityTracker) track(ctx context.Context, userID string) error {
	u, err := t.db.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil
	}

	now := t.now()
	streak := NextStreak(u.Streak, DaysBetween(u.LastActive, now))
	if err := t.db.UpdateUserActivity(ctx, userID, now, streak); err != nil {
		return fmt.Errorf("update activity: %w", err)
	}
	return nil
}

// DaysBetween is the number of whole 24h periods from then to now, never negative.
func DaysBetween(then, now time.Time) int {
	if then.IsZero() || now.Before(then) {
		return 0
	}
	return int(now.Sub(then) / (24 * time.Hour))
}

// NextStreak extends the streak after exactly one idle day and restarts it after a longer gap.
// Same-day activity leaves it alone.
func NextStreak(streak, daysIdle int) int {
	switch {
	case daysIdle == 1:
		return streak + 1
	case daysIdle > 1:
		return 1
	default:
		return streak
	}
}
