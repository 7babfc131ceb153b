// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/markdave123-py/artintx/internal/config"
	"github.com/markdave123-py/artintx/internal/core"
	ae "github.com/markdave123-py/artintx/internal/core/activity_engine"
	"github.com/markdave123-py/artintx/internal/core/cache"
	db "github.com/markdave123-py/artintx/internal/core/database"
	"github.com/markdave123-py/artintx/internal/core/llm"
	objectclient "github.com/markdave123-py/artintx/internal/core/object-client"
	re "github.com/markdave123-py/artintx/internal/core/response_engine"
	"github.com/markdave123-py/artintx/internal/services"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Users       *services.UserService
	Chat        *services.ChatService
	Moods       *services.MoodService
	Assessments *services.AssessmentService
	Risk        *services.RiskService
	Analytics   *services.AnalyticsService
	Reminders   *services.ReminderService
	Export      *services.ExportService
}

// Deps are the infrastructure pieces the services are built from.
type Deps struct {
	DB         db.DbClient
	Translator core.Translator
	Cache      cache.InsightCache
	Storage    core.ObjectClient
	Bucket     string
	Activity   core.ActivityTracker
	Responder  *re.Responder
	BaseLang   string
}

// NewServices wires the service layer.
func NewServices(d Deps) *Services {
	risk := services.NewRiskService(d.DB, d.Cache)
	return &Services{
		Users:       services.NewUserService(d.DB, d.Activity),
		Chat:        services.NewChatService(d.DB, d.Responder, d.Translator, d.Activity, d.Cache, d.BaseLang),
		Moods:       services.NewMoodService(d.DB, d.Activity, d.Cache),
		Assessments: services.NewAssessmentService(d.DB, d.Activity, d.Cache),
		Risk:        risk,
		Analytics:   services.NewAnalyticsService(d.DB, risk, d.Cache),
		Reminders:   services.NewReminderService(d.DB),
		Export:      services.NewExportService(d.DB, d.Storage, d.Bucket),
	}
}

type App struct {
	DBClient   *db.DatabaseClient
	Tracker    *ae.ActivityTracker
	Server     *Server
	redis      *redis.Client
	translator core.Translator
	stop       context.CancelFunc
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	initCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(initCtx, cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("database initialized and ready", "driver", cfg.DatabaseDriver)

	a := &App{DBClient: dbClient}

	a.translator, err = llm.NewTranslator(initCtx, cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("couldn't initialize the translator: %w", err)
	}

	var insights cache.InsightCache = cache.Noop{}
	if cfg.RedisURL != "" {
		a.redis, err = cache.Connect(initCtx, cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		insights = cache.NewInsightCache(a.redis)
		slog.Info("insight cache connected")
	}

	var storage core.ObjectClient
	bucket := cfg.BucketName
	if cfg.StorageEnabled() {
		s3c, err := objectclient.NewS3Client(initCtx, cfg)
		if err != nil {
			a.Close()
			return nil, err
		}
		storage, bucket = s3c, s3c.Bucket()
		slog.Info("object client initialized and ready", "bucket", bucket)
	} else {
		slog.Warn("object storage not configured; data export disabled")
	}

	// Workers outlive the init timeout; they stop when Close cancels them.
	workerCtx, stop := context.WithCancel(context.WithoutCancel(ctx))
	a.stop = stop
	a.Tracker = ae.NewActivityTracker(dbClient, ae.TrackerConfig{})
	a.Tracker.Start(workerCtx, cfg.ActivityWorkers)

	contacts := re.CrisisContacts{
		Helplines:       re.ParseHelplines(cfg.CrisisHelplines),
		EmergencyNumber: cfg.EmergencyNumber,
	}

	svc := NewServices(Deps{
		DB:         dbClient,
		Translator: a.translator,
		Cache:      insights,
		Storage:    storage,
		Bucket:     bucket,
		Activity:   a.Tracker,
		Responder:  re.NewResponder(contacts),
		BaseLang:   cfg.BaseLang,
	})

	a.Server = NewServer(cfg, svc)
	return a, nil
}

// Close stops workers and releases connections. Safe on a partially built App.
func (a *App) Close() {
	if a.stop != nil {
		a.stop()
		a.Tracker.Wait()
	}
	if c, ok := a.translator.(io.Closer); ok {
		_ = c.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
