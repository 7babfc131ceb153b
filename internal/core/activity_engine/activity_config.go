package activity_engine

import (
	"context"
	"sync"
	"time"

	"github.com/markdave123-py/artintx/internal/models"
)

// ActivityStore is the slice of persistence the tracker needs.
type ActivityStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUserActivity(ctx context.Context, id string, lastActive time.Time, streak int) error
}

// TrackerConfig tunes the background queue.
//
// QueueSize:  buffered jobs before Enqueue starts dropping.
// JobTimeout: upper bound for a single user update.
type TrackerConfig struct {
	QueueSize  int
	JobTimeout time.Duration
}

// ActivityTracker keeps users' streak and last-active time current:
//
// db:   user rows.
// now:  clock, replaceable in tests.
// jobs: in-memory queue of user IDs to update.
type ActivityTracker struct {
	db   ActivityStore
	cfg  TrackerConfig
	now  func() time.Time
	jobs chan string
	wg   sync.WaitGroup
}
