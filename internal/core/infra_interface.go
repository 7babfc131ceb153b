package core

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned when the requested key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// Translator converts text into the target language.
// Callers treat any error as "keep the input text".
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// ObjectClient stores user exports. An empty bucket means the client's default.
type ObjectClient interface {
	UploadFile(ctx context.Context, bucket, key string, data []byte, contentType string) (url string, err error)
	// GetObjectReader fails with ErrObjectNotFound for a missing key.
	GetObjectReader(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, bucket, key string) error
}

// ActivityTracker records that a user did something today.
type ActivityTracker interface {
	Enqueue(userID string)
	TrackNow(ctx context.Context, userID string) error
}
