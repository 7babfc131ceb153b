package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/markdave123-py/artintx/internal/models"
)

func TestRiskCompute(t *testing.T) {
	ctx := context.Background()
	store := newTestDB(t)
	c := newMemCache()
	s := NewRiskService(store, c)

	now := time.Now().UTC()
	u := seedUser(t, store, func(u *models.User) {
		u.LastActive = now.Add(-5 * 24 * time.Hour)
		u.Streak = 1
		u.TotalSessions = 3
	})

	for i, score := range []int{8, 7, 3, 2, 2} {
		err := store.CreateMoodLog(ctx, &models.MoodLog{
			ID: uuid.NewString(), UserID: u.ID, MoodScore: score, LoggedAt: now.Add(time.Duration(i-10) * time.Hour),
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	err := store.CreatePHQ9(ctx, &models.PHQ9Assessment{
		ID: uuid.NewString(), UserID: u.ID, Answers: [9]int{2, 2, 2, 2, 2, 2, 2, 2, 1}, TotalScore: 17, Severity: "Moderately Severe",
	})
	if err != nil {
		t.Fatal(err)
	}

	report, err := s.Compute(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}

	if report.UserStats.DaysSinceActive != 5 || report.UserStats.Streak != 1 || report.UserStats.TotalSessions != 3 {
		t.Errorf("user stats = %+v", report.UserStats)
	}
	// The last three moods (3, 2, 2) are the most recent entries.
	wantFactors := []string{"5 days since last login", "Low engagement streak", "High severity (PHQ-9)", "Declining clinical trend"}
	if strings.Join(report.Factors, "|") != strings.Join(wantFactors, "|") {
		t.Errorf("factors = %q, want %q", report.Factors, wantFactors)
	}
	for _, v := range []float64{report.AttritionRisk, report.RelapseRisk, report.CrisisRisk, report.EngagementScore} {
		if v < 0 || v > 1 {
			t.Errorf("score %v out of range", v)
		}
	}

	stored, err := store.LatestRiskSnapshot(ctx, u.ID)
	if err != nil || stored == nil {
		t.Fatalf("snapshot not stored: %v", err)
	}
	if stored.CrisisRisk != report.CrisisRisk || len(stored.Factors) != 4 {
		t.Errorf("stored = %+v", stored)
	}
	if c.risk[u.ID] == nil {
		t.Error("snapshot not cached")
	}
	if len(c.invalidated) != 1 || c.invalidated[0] != u.ID {
		t.Errorf("summary not invalidated after compute: %v", c.invalidated)
	}

	latest, err := s.Latest(ctx, u.ID)
	if err != nil || latest.ID != stored.ID {
		t.Errorf("Latest = %+v, %v", latest, err)
	}
}

func TestRiskComputeUnknownUser(t *testing.T) {
	s := NewRiskService(newTestDB(t), newMemCache())
	if _, err := s.Compute(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRiskLatestFallsBackToDB(t *testing.T) {
	ctx := context.Background()
	store := newTestDB(t)
	u := seedUser(t, store, nil)
	snap := &models.RiskSnapshot{ID: uuid.NewString(), UserID: u.ID, RelapseRisk: 0.4}
	if err := store.InsertRiskSnapshot(ctx, snap); err != nil {
		t.Fatal(err)
	}

	s := NewRiskService(store, newMemCache())
	got, err := s.Latest(ctx, u.ID)
	if err != nil || got == nil || got.ID != snap.ID {
		t.Errorf("Latest = %+v, %v", got, err)
	}
}

func TestAnalyticsSummary(t *testing.T) {
	ctx := context.Background()
	store := newTestDB(t)
	c := newMemCache()
	chat := NewChatService(store, testResponder(), &prefixTranslator{}, &fakeTracker{}, c, "en")
	s := NewAnalyticsService(store, NewRiskService(store, c), c)
	u := seedUser(t, store, func(u *models.User) { u.Streak = 6 })

	if _, err := s.Summary(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ghost summary err = %v", err)
	}

	for _, msg := range []string{"hello", "I want to die"} {
		if _, err := chat.SendMessage(ctx, u.ID, SendMessageInput{Content: msg}); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.CreateMoodLog(ctx, &models.MoodLog{ID: uuid.NewString(), UserID: u.ID, MoodScore: 6}); err != nil {
		t.Fatal(err)
	}

	sum, err := s.Summary(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if sum.User.Name != u.Name || sum.User.Streak != 6 || sum.User.TotalSessions != 2 {
		t.Errorf("user = %+v", sum.User)
	}
	if sum.ChatMessageCount != 2 || sum.CrisisAlerts != 1 {
		t.Errorf("counts = %d messages, %d alerts", sum.ChatMessageCount, sum.CrisisAlerts)
	}
	if sum.LatestMood == nil || sum.LatestMood.MoodScore != 6 || sum.LatestPHQ9 != nil || sum.LatestRisk != nil {
		t.Errorf("latest fields = %+v %+v %+v", sum.LatestMood, sum.LatestPHQ9, sum.LatestRisk)
	}
	if c.summaries[u.ID] == nil {
		t.Fatal("summary not cached")
	}

	c.summaries[u.ID].CrisisAlerts = 99
	cached, _ := s.Summary(ctx, u.ID)
	if cached.CrisisAlerts != 99 {
		t.Error("second call should be served from cache")
	}
}

func TestAnalyticsTrends(t *testing.T) {
	ctx := context.Background()
	store := newTestDB(t)
	s := NewAnalyticsService(store, NewRiskService(store, newMemCache()), newMemCache())
	u := seedUser(t, store, nil)

	now := time.Now().UTC()
	for _, l := range []struct {
		score int
		at    time.Time
	}{
		{9, now.AddDate(0, 0, -20)},
		{4, now.AddDate(0, 0, -2)},
		{6, now.AddDate(0, 0, -1)},
	} {
		if err := store.CreateMoodLog(ctx, &models.MoodLog{ID: uuid.NewString(), UserID: u.ID, MoodScore: l.score, LoggedAt: l.at}); err != nil {
			t.Fatal(err)
		}
	}
	trend, err := s.MoodTrend(ctx, u.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(trend) != 2 || trend[0].AvgMood != 4 || trend[1].AvgMood != 6 {
		t.Errorf("14-day trend = %+v", trend)
	}

	for i := 0; i < 12; i++ {
		err := store.CreatePHQ9(ctx, &models.PHQ9Assessment{
			ID: uuid.NewString(), UserID: u.ID, TotalScore: i, Severity: "x", TakenAt: now.Add(time.Duration(i-12) * time.Hour),
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	phq, err := s.PHQ9Trend(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(phq) != phq9TrendLimit || phq[0].TotalScore != 2 || phq[9].TotalScore != 11 {
		t.Errorf("phq9 trend should be the latest ten, oldest first: %+v", phq)
	}
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	store := newTestDB(t)
	u := seedUser(t, store, nil)
	if err := store.CreateMoodLog(ctx, &models.MoodLog{ID: uuid.NewString(), UserID: u.ID, MoodScore: 7}); err != nil {
		t.Fatal(err)
	}

	if _, err := NewExportService(store, nil, "b").Export(ctx, u.ID); !errors.Is(err, ErrExportUnavailable) {
		t.Errorf("nil storage err = %v", err)
	}

	objects := &fakeObjects{}
	s := NewExportService(store, objects, "exports")
	s.now = func() time.Time { return time.Date(2024, 7, 1, 10, 30, 0, 0, time.UTC) }

	res, err := s.Export(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	wantKey := "users/" + u.ID + "/exports/20240701T103000Z.json"
	if res.Key != wantKey || objects.key != wantKey || objects.bucket != "exports" {
		t.Errorf("key = %q, uploaded to %s/%s", res.Key, objects.bucket, objects.key)
	}
	if objects.contentType != "application/json" || !strings.HasSuffix(res.URL, wantKey) {
		t.Errorf("upload = %s %s", objects.contentType, res.URL)
	}

	var doc models.UserExport
	if err := json.Unmarshal(objects.data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Profile == nil || doc.Profile.ID != u.ID || len(doc.MoodLogs) != 1 {
		t.Errorf("export doc = %+v", doc)
	}
	if strings.Contains(string(objects.data), u.PasswordHash) {
		t.Error("export leaks the password hash")
	}

	if _, err := s.Export(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ghost export err = %v", err)
	}

	objects.err = errors.New("s3 down")
	if _, err := s.Export(ctx, u.ID); err == nil {
		t.Error("expected upload error")
	}
}

func TestExportOpenAndDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestDB(t)
	u := seedUser(t, store, nil)
	other := seedUser(t, store, func(o *models.User) { o.Email = "other@example.com" })

	if _, err := NewExportService(store, nil, "b").Open(ctx, u.ID, "20240701T103000Z.json"); !errors.Is(err, ErrExportUnavailable) {
		t.Errorf("nil storage err = %v", err)
	}

	objects := &fakeObjects{}
	s := NewExportService(store, objects, "exports")
	s.now = func() time.Time { return time.Date(2024, 7, 1, 10, 30, 0, 0, time.UTC) }
	res, err := s.Export(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	name := path.Base(res.Key)

	rc, err := s.Open(ctx, u.ID, name)
	if err != nil {
		t.Fatal(err)
	}
	body, err := io.ReadAll(rc)
	rc.Close()
	if err != nil || !bytes.Equal(body, objects.data) {
		t.Errorf("Open body = %d bytes, err %v", len(body), err)
	}

	tests := []struct {
		name   string
		userID string
		file   string
	}{
		{"another user's export", other.ID, name},
		{"path traversal", u.ID, "../../" + other.ID + "/exports/" + name},
		{"unexpected name", u.ID, "profile.json"},
		{"missing object", u.ID, "20200101T000000Z.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Open(ctx, tt.userID, tt.file); !errors.Is(err, ErrNotFound) {
				t.Errorf("Open err = %v, want ErrNotFound", err)
			}
		})
	}

	if err := s.Delete(ctx, u.ID, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete bad name err = %v", err)
	}
	if err := s.Delete(ctx, u.ID, name); err != nil {
		t.Fatal(err)
	}
	if len(objects.deleted) != 1 || objects.deleted[0] != res.Key {
		t.Errorf("deleted = %v, want [%s]", objects.deleted, res.Key)
	}
	if _, err := s.Open(ctx, u.ID, name); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open after delete err = %v", err)
	}
}
