package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/artintx/internal/core"
	db "github.com/markdave123-py/artintx/internal/core/database"
	"github.com/markdave123-py/artintx/internal/logging"
	"github.com/markdave123-py/artintx/internal/models"
)

const exportRowLimit = 10000

var exportNamePattern = regexp.MustCompile(`^\d{8}T\d{6}Z\.json$`)

type ExportService struct {
	db      db.DbClient
	storage core.ObjectClient
	bucket  string
	now     func() time.Time
}

// NewExportService accepts a nil storage; Export then reports ErrExportUnavailable.
func NewExportService(db db.DbClient, storage core.ObjectClient, bucket string) *ExportService {
	return &ExportService{db: db, storage: storage, bucket: bucket, now: time.Now}
}

type ExportResult struct {
	URL        string    `json:"url"`
	Key        string    `json:"key"`
	ExportedAt time.Time `json:"exported_at"`
}

// Export writes everything stored about the user as one JSON document.
func (s *ExportService) Export(ctx context.Context, userID string) (*ExportResult, error) {
	if s.storage == nil {
		return nil, ErrExportUnavailable
	}

	doc := models.UserExport{ExportedAt: s.now().UTC()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		doc.Profile, err = s.db.GetUserByID(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		doc.MoodLogs, err = s.db.ListMoodLogsSince(gctx, userID, time.Time{})
		return err
	})
	g.Go(func() (err error) {
		doc.Assessments, err = s.db.ListPHQ9(gctx, userID, exportRowLimit, true)
		return err
	})
	g.Go(func() (err error) {
		doc.Messages, err = s.db.ListChatMessages(gctx, userID, exportRowLimit)
		return err
	})
	g.Go(func() (err error) {
		doc.Reminders, err = s.db.ListActiveReminders(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("gather export: %w", err)
	}
	if doc.Profile == nil {
		return nil, ErrNotFound
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	key := exportKey(userID, doc.ExportedAt)
	url, err := s.storage.UploadFile(ctx, s.bucket, key, data, "application/json")
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("user export uploaded", "user_id", userID, "key", key, "bytes", len(data))

	return &ExportResult{URL: url, Key: key, ExportedAt: doc.ExportedAt}, nil
}

// Open streams one of the user's earlier exports by file name. The caller closes the reader.
func (s *ExportService) Open(ctx context.Context, userID, name string) (io.ReadCloser, error) {
	key, err := s.ownedKey(userID, name)
	if err != nil {
		return nil, err
	}
	rc, err := s.storage.GetObjectReader(ctx, s.bucket, key)
	if errors.Is(err, core.ErrObjectNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rc, nil
}

// Delete removes one of the user's exports by file name.
func (s *ExportService) Delete(ctx context.Context, userID, name string) error {
	key, err := s.ownedKey(userID, name)
	if err != nil {
		return err
	}
	if err := s.storage.DeleteFile(ctx, s.bucket, key); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("user export deleted", "user_id", userID, "key", key)
	return nil
}

// ownedKey resolves a bare export file name under the user's prefix, so one user
// can never address another's objects.
func (s *ExportService) ownedKey(userID, name string) (string, error) {
	if s.storage == nil {
		return "", ErrExportUnavailable
	}
	if !exportNamePattern.MatchString(name) {
		return "", ErrNotFound
	}
	return path.Join("users", userID, "exports", name), nil
}

func exportKey(userID string, at time.Time) string {
	return path.Join("users", userID, "exports", at.Format("20060102T150405Z")+".json")
}
