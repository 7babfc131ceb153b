package activity_engine

import "context"

type Tracker interface {
	Start(ctx context.Context, numWorkers int)
	Enqueue(userID string)
	TrackNow(ctx context.Context, userID string) error
	Wait()
}
