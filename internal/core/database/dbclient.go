package db

import (
	"context"
	"time"

	"github.com/markdave123-py/artintx/internal/models"
)

// DbClient defines all persistence operations your services will need.
// It abstracts Postgres/SQLite so higher layers never depend on a specific DB.
// Lookups of a single row return (nil, nil) when nothing matches.
type DbClient interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, id string, p models.ProfileUpdate) error
	UpdateUserActivity(ctx context.Context, id string, lastActive time.Time, streak int) error
	IncrementUserSessions(ctx context.Context, id string) error

	CreateMoodLog(ctx context.Context, log *models.MoodLog) error
	ListMoodLogsSince(ctx context.Context, userID string, since time.Time) ([]models.MoodLog, error)
	LatestMoodLog(ctx context.Context, userID string) (*models.MoodLog, error)
	RecentMoodScores(ctx context.Context, userID string, limit int) ([]int, error)
	MoodStatsSince(ctx context.Context, userID string, since time.Time) (*models.MoodStats, error)

	CreatePHQ9(ctx context.Context, a *models.PHQ9Assessment) error
	LatestPHQ9(ctx context.Context, userID string) (*models.PHQ9Assessment, error)
	ListPHQ9(ctx context.Context, userID string, limit int, ascending bool) ([]models.PHQ9Assessment, error)
	CountPHQ9(ctx context.Context, userID string) (int, error)

	AddChatMessages(ctx context.Context, msgs ...models.ChatMessage) error
	ListChatMessages(ctx context.Context, userID string, limit int) ([]models.ChatMessage, error)
	ListChatSessions(ctx context.Context, userID string, limit int) ([]models.ChatSession, error)
	CountChatMessages(ctx context.Context, userID, role string) (int, error)
	CountCrisisMessages(ctx context.Context, userID string) (int, error)

	InsertRiskSnapshot(ctx context.Context, s *models.RiskSnapshot) error
	LatestRiskSnapshot(ctx context.Context, userID string) (*models.RiskSnapshot, error)

	CreateReminder(ctx context.Context, r *models.Reminder) error
	ListActiveReminders(ctx context.Context, userID string) ([]models.Reminder, error)
	DeactivateReminder(ctx context.Context, userID, id string) (bool, error)

	Close() error
}
