package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/markdave123-py/artintx/internal/core"
	db "github.com/markdave123-py/artintx/internal/core/database"
	"github.com/markdave123-py/artintx/internal/models"
)

const passwordCost = 12

type UserService struct {
	db       db.DbClient
	activity core.ActivityTracker
	cost     int
}

func NewUserService(db db.DbClient, activity core.ActivityTracker) *UserService {
	return &UserService{db: db, activity: activity, cost: passwordCost}
}

type RegisterInput struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	Age              *int   `json:"age"`
	Gender           string `json:"gender"`
	Diagnosis        string `json:"diagnosis"`
	TherapistName    string `json:"therapist_name"`
	EmergencyContact string `json:"emergency_contact"`
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, invalid("Name, email, and password are required.")
	}

	existing, err := s.db.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	u := &models.User{
		ID:               uuid.NewString(),
		Name:             in.Name,
		Email:            in.Email,
		PasswordHash:     string(hash),
		Age:              in.Age,
		Gender:           in.Gender,
		Diagnosis:        in.Diagnosis,
		TherapistName:    in.TherapistName,
		EmergencyContact: in.EmergencyContact,
		CreatedAt:        now,
		LastActive:       now,
	}
	if err := s.db.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Login checks the password, then records the visit before returning the refreshed user.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, invalid("Email and password are required.")
	}

	u, err := s.db.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("compare password: %w", err)
	}

	if err := s.activity.TrackNow(ctx, u.ID); err != nil {
		return nil, err
	}
	refreshed, err := s.db.GetUserByID(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if refreshed == nil {
		return nil, ErrInvalidCredentials
	}
	return refreshed, nil
}

func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.db.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, p models.ProfileUpdate) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return invalid("Name is required.")
	}
	if p.Age != nil && (*p.Age < 0 || *p.Age > 150) {
		return invalid("Age must be between 0 and 150.")
	}
	if _, err := s.Profile(ctx, userID); err != nil {
		return err
	}
	return s.db.UpdateUserProfile(ctx, userID, p)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
