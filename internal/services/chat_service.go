package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/markdave123-py/artintx/internal/core"
	"github.com/markdave123-py/artintx/internal/core/cache"
	db "github.com/markdave123-py/artintx/internal/core/database"
	"github.com/markdave123-py/artintx/internal/core/llm"
	re "github.com/markdave123-py/artintx/internal/core/response_engine"
	"github.com/markdave123-py/artintx/internal/logging"
	"github.com/markdave123-py/artintx/internal/models"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
	sessionListLimit    = 20
)

type ChatService struct {
	db         db.DbClient
	responder  *re.Responder
	translator core.Translator
	activity   core.ActivityTracker
	cache      cache.InsightCache
	baseLang   string
}

func NewChatService(
	db db.DbClient,
	responder *re.Responder,
	translator core.Translator,
	activity core.ActivityTracker,
	cache cache.InsightCache,
	baseLang string,
) *ChatService {
	if baseLang == "" {
		baseLang = "en"
	}
	return &ChatService{
		db: db, responder: responder, translator: translator,
		activity: activity, cache: cache, baseLang: baseLang,
	}
}

type SendMessageInput struct {
	Content   string `json:"content"`
	SessionID string `json:"session_id"`
	Lang      string `json:"lang"`
}

type ChatReply struct {
	Response   string       `json:"response"`
	Sentiment  re.Sentiment `json:"sentiment"`
	CrisisFlag bool         `json:"crisisFlag"`
	SessionID  string       `json:"session_id"`
}

// SendMessage runs one chat turn: translate in, respond, translate out, persist both sides.
func (s *ChatService) SendMessage(ctx context.Context, userID string, in SendMessageInput) (*ChatReply, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, invalid("Message cannot be empty.")
	}

	sessionID := in.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	lang := llm.NormalizeLang(in.Lang, s.baseLang)

	u, err := s.db.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, ErrNotFound
	}

	processed := s.translate(ctx, in.Content, lang, s.baseLang)
	payload := s.responder.Respond(processed, re.UserContext{Name: u.Name})
	reply := s.translate(ctx, payload.Response, s.baseLang, lang)

	now := time.Now().UTC()
	err = s.db.AddChatMessages(ctx,
		models.ChatMessage{
			ID:        uuid.NewString(),
			UserID:    userID,
			SessionID: sessionID,
			Role:      models.RoleUser,
			Content:   in.Content,
			Sentiment: string(payload.Sentiment),
			CreatedAt: now,
		},
		models.ChatMessage{
			ID:         uuid.NewString(),
			UserID:     userID,
			SessionID:  sessionID,
			Role:       models.RoleAssistant,
			Content:    reply,
			Sentiment:  models.SentimentBot,
			CrisisFlag: payload.CrisisFlag,
			CreatedAt:  now.Add(time.Millisecond),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("store messages: %w", err)
	}

	if err := s.db.IncrementUserSessions(ctx, userID); err != nil {
		return nil, fmt.Errorf("count session: %w", err)
	}
	s.activity.Enqueue(userID)
	if err := s.cache.InvalidateSummary(ctx, userID); err != nil {
		logging.FromContext(ctx).Warn("summary invalidation failed", "user_id", userID, "err", err)
	}

	if payload.CrisisFlag {
		logging.FromContext(ctx).Warn("crisis message detected", "user_id", userID, "session_id", sessionID, "sentiment", payload.Sentiment)
	}

	return &ChatReply{
		Response:   reply,
		Sentiment:  payload.Sentiment,
		CrisisFlag: payload.CrisisFlag,
		SessionID:  sessionID,
	}, nil
}

// translate moves text from one language to another, keeping the input on any failure.
func (s *ChatService) translate(ctx context.Context, text, from, to string) string {
	if from == to {
		return text
	}
	out, err := s.translator.Translate(ctx, text, to)
	if err != nil || strings.TrimSpace(out) == "" {
		logging.FromContext(ctx).Warn("translation failed, using original text", "target", to, "err", err)
		return text
	}
	return out
}

func (s *ChatService) History(ctx context.Context, userID string, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.db.ListChatMessages(ctx, userID, limit)
}

func (s *ChatService) Sessions(ctx context.Context, userID string) ([]models.ChatSession, error) {
	return s.db.ListChatSessions(ctx, userID, sessionListLimit)
}
