package cache

import (
	"context"

	"github.com/markdave123-py/artintx/internal/models"
)

// Noop is used when REDIS_URL is unset. Every read misses.
type Noop struct{}

var _ InsightCache = Noop{}

func (Noop) GetRiskSnapshot(context.Context, string) (*models.RiskSnapshot, error) { return nil, nil }
func (Noop) SetRiskSnapshot(context.Context, *models.RiskSnapshot) error          { return nil }

func (Noop) GetSummary(context.Context, string) (*models.AnalyticsSummary, error) { return nil, nil }
func (Noop) SetSummary(context.Context, string, *models.AnalyticsSummary) error   { return nil }
func (Noop) InvalidateSummary(context.Context, string) error                      { return nil }
