package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/markdave123-py/artintx/internal/models"
)

// InsightCache holds derived per-user views that are expensive to rebuild.
// Misses return (nil, nil).
type InsightCache interface {
	GetRiskSnapshot(ctx context.Context, userID string) (*models.RiskSnapshot, error)
	SetRiskSnapshot(ctx context.Context, s *models.RiskSnapshot) error

	GetSummary(ctx context.Context, userID string) (*models.AnalyticsSummary, error)
	SetSummary(ctx context.Context, userID string, s *models.AnalyticsSummary) error
	InvalidateSummary(ctx context.Context, userID string) error
}

type insightCache struct {
	client     *redis.Client
	riskTTL    time.Duration
	summaryTTL time.Duration
}

// NewInsightCache wraps a connected redis client.
func NewInsightCache(client *redis.Client) InsightCache {
	return &insightCache{
		client:     client,
		riskTTL:    24 * time.Hour,
		summaryTTL: 2 * time.Minute,
	}
}

// Connect parses a redis:// URL (a bare host:port also works) and pings the server.
func Connect(ctx context.Context, rawURL string) (*redis.Client, error) {
	if !strings.Contains(rawURL, "://") {
		rawURL = "redis://" + rawURL
	}
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Key helpers
func riskKey(userID string) string {
	return fmt.Sprintf("user:%s:risk:latest", userID)
}

func summaryKey(userID string) string {
	return fmt.Sprintf("user:%s:analytics:summary", userID)
}

func (c *insightCache) GetRiskSnapshot(ctx context.Context, userID string) (*models.RiskSnapshot, error) {
	var s models.RiskSnapshot
	ok, err := c.getJSON(ctx, riskKey(userID), &s)
	if err != nil || !ok {
		return nil, err
	}
	return &s, nil
}

func (c *insightCache) SetRiskSnapshot(ctx context.Context, s *models.RiskSnapshot) error {
	return c.setJSON(ctx, riskKey(s.UserID), s, c.riskTTL)
}

func (c *insightCache) GetSummary(ctx context.Context, userID string) (*models.AnalyticsSummary, error) {
	var s models.AnalyticsSummary
	ok, err := c.getJSON(ctx, summaryKey(userID), &s)
	if err != nil || !ok {
		return nil, err
	}
	return &s, nil
}

func (c *insightCache) SetSummary(ctx context.Context, userID string, s *models.AnalyticsSummary) error {
	return c.setJSON(ctx, summaryKey(userID), s, c.summaryTTL)
}

func (c *insightCache) InvalidateSummary(ctx context.Context, userID string) error {
	return c.client.Del(ctx, summaryKey(userID)).Err()
}

func (c *insightCache) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (c *insightCache) setJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}
