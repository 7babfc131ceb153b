package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/markdave123-py/artintx/internal/core"
	"github.com/markdave123-py/artintx/internal/core/cache"
	db "github.com/markdave123-py/artintx/internal/core/database"
	re "github.com/markdave123-py/artintx/internal/core/response_engine"
	"github.com/markdave123-py/artintx/internal/models"
)

func newTestDB(t *testing.T) *db.DatabaseClient {
	t.Helper()
	c, err := db.Open(context.Background(), db.SQLite, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func seedUser(t *testing.T, store db.DbClient, mutate func(*models.User)) *models.User {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	now := time.Now().UTC()
	u := &models.User{
		ID:           uuid.NewString(),
		Name:         "Priya Sharma",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: string(hash),
		CreatedAt:    now,
		LastActive:   now,
	}
	if mutate != nil {
		mutate(u)
	}
	if err := store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func testResponder() *re.Responder {
	return re.NewResponder(re.DefaultCrisisContacts(), re.WithPicker(func(int) int { return 0 }))
}

type fakeTracker struct {
	mu       sync.Mutex
	enqueued []string
	tracked  []string
	err      error
}

func (f *fakeTracker) Enqueue(userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enqueued = append(f.enqueued, userID)
}

func (f *fakeTracker) TrackNow(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tracked = append(f.tracked, userID)
	return f.err
}

// prefixTranslator tags text with the target language so calls are visible in results.
type prefixTranslator struct {
	calls []string
	fail  bool
}

func (p *prefixTranslator) Translate(_ context.Context, text, lang string) (string, error) {
	p.calls = append(p.calls, lang)
	if p.fail {
		return "", errors.New("translator down")
	}
	return "[" + lang + "]" + text, nil
}

type memCache struct {
	mu          sync.Mutex
	risk        map[string]*models.RiskSnapshot
	summaries   map[string]*models.AnalyticsSummary
	invalidated []string
}

func newMemCache() *memCache {
	return &memCache{risk: map[string]*models.RiskSnapshot{}, summaries: map[string]*models.AnalyticsSummary{}}
}

var _ cache.InsightCache = (*memCache)(nil)

func (m *memCache) GetRiskSnapshot(_ context.Context, userID string) (*models.RiskSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.risk[userID], nil
}

func (m *memCache) SetRiskSnapshot(_ context.Context, s *models.RiskSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.risk[s.UserID] = s
	return nil
}

func (m *memCache) GetSummary(_ context.Context, userID string) (*models.AnalyticsSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.summaries[userID], nil
}

func (m *memCache) SetSummary(_ context.Context, userID string, s *models.AnalyticsSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries[userID] = s
	return nil
}

func (m *memCache) InvalidateSummary(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.summaries, userID)
	m.invalidated = append(m.invalidated, userID)
	return nil
}

type fakeObjects struct {
	bucket, key, contentType string
	data                     []byte
	err                      error
	objects                  map[string][]byte
	deleted                  []string
}

func (f *fakeObjects) UploadFile(_ context.Context, bucket, key string, data []byte, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.bucket, f.key, f.data, f.contentType = bucket, key, data, contentType
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[key] = data
	return "https://" + bucket + ".example/" + key, nil
}

func (f *fakeObjects) GetObjectReader(_ context.Context, _, key string) (io.ReadCloser, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.objects[key]
	if !ok {
		return nil, core.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeObjects) DeleteFile(_ context.Context, _, key string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func isValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
