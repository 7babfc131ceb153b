package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	db "github.com/markdave123-py/artintx/internal/core/database"
	"github.com/markdave123-py/artintx/internal/models"
)

type ReminderService struct {
	db db.DbClient
}

func NewReminderService(db db.DbClient) *ReminderService {
	return &ReminderService{db: db}
}

type ReminderInput struct {
	MedicineName string `json:"medicine_name"`
	Dosage       string `json:"dosage"`
	ReminderTime string `json:"reminder_time"`
	Frequency    string `json:"frequency"`
}

func (s *ReminderService) Create(ctx context.Context, userID string, in ReminderInput) (*models.Reminder, error) {
	in.MedicineName = strings.TrimSpace(in.MedicineName)
	in.ReminderTime = strings.TrimSpace(in.ReminderTime)
	if in.MedicineName == "" || in.ReminderTime == "" {
		return nil, invalid("Medicine name and time are required.")
	}
	if _, err := time.Parse("15:04", in.ReminderTime); err != nil {
		return nil, invalid("Reminder time must be HH:MM.")
	}
	if in.Frequency == "" {
		in.Frequency = "daily"
	}

	r := &models.Reminder{
		ID:           uuid.NewString(),
		UserID:       userID,
		MedicineName: in.MedicineName,
		Dosage:       in.Dosage,
		ReminderTime: in.ReminderTime,
		Frequency:    in.Frequency,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.db.CreateReminder(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ReminderService) List(ctx context.Context, userID string) ([]models.Reminder, error) {
	return s.db.ListActiveReminders(ctx, userID)
}

// Delete deactivates the reminder. Reminders owned by someone else look missing.
func (s *ReminderService) Delete(ctx context.Context, userID, id string) error {
	ok, err := s.db.DeactivateReminder(ctx, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
