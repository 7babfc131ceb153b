package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/markdave123-py/artintx/internal/config"
	"github.com/markdave123-py/artintx/internal/models"
)

type DatabaseClient struct {
	db      *sql.DB
	dialect Dialect
	sb      sq.StatementBuilderType
}

var _ DbClient = (*DatabaseClient)(nil)

// NewDatabaseClient opens the configured database, checks connectivity and bootstraps the schema.
func NewDatabaseClient(ctx context.Context, cfg *config.Config) (*DatabaseClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	dialect, err := DialectFor(cfg.DatabaseDriver)
	if err != nil {
		return nil, err
	}
	return Open(ctx, dialect, cfg.DatabaseURL)
}

// Open connects with an explicit dialect and DSN.
func Open(ctx context.Context, dialect Dialect, dsn string) (*DatabaseClient, error) {
	if dialect.Name == SQLite.Name {
		dsn = sqliteDSN(dsn)
	}

	db, err := sql.Open(dialect.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if dialect.Name == SQLite.Name {
		// One connection: SQLite serializes writers, and ":memory:" is per connection.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
		db.SetConnMaxIdleTime(10 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: db, dialect: dialect, sb: dialect.builder()}, nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *DatabaseClient) exec(ctx context.Context, b sq.Sqlizer) (sql.Result, error) {
	q, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return c.db.ExecContext(ctx, q, args...)
}

func (c *DatabaseClient) queryRow(ctx context.Context, b sq.Sqlizer) (*sql.Row, error) {
	q, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return c.db.QueryRowContext(ctx, q, args...), nil
}

func (c *DatabaseClient) query(ctx context.Context, b sq.Sqlizer) (*sql.Rows, error) {
	q, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return c.db.QueryContext(ctx, q, args...)
}

func (c *DatabaseClient) count(ctx context.Context, b sq.SelectBuilder) (int, error) {
	row, err := c.queryRow(ctx, b)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func nowIfZero(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

// Users

var userColumns = []string{
	"id", "name", "email", "password_hash", "age", "gender", "diagnosis",
	"therapist_name", "emergency_contact", "streak", "total_sessions", "created_at", "last_active",
}

func scanUser(row scanner) (*models.User, error) {
	var (
		u   models.User
		age sql.NullInt64
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &age, &u.Gender, &u.Diagnosis,
		&u.TherapistName, &u.EmergencyContact, &u.Streak, &u.TotalSessions, &u.CreatedAt, &u.LastActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if age.Valid {
		a := int(age.Int64)
		u.Age = &a
	}
	return &u, nil
}

func (c *DatabaseClient) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	if user.Diagnosis == "" {
		user.Diagnosis = "unspecified"
	}
	user.CreatedAt = nowIfZero(user.CreatedAt)
	user.LastActive = nowIfZero(user.LastActive)

	_, err := c.exec(ctx, c.sb.Insert("users").Columns(userColumns...).Values(
		user.ID, user.Name, user.Email, user.PasswordHash, user.Age, user.Gender, user.Diagnosis,
		user.TherapistName, user.EmergencyContact, user.Streak, user.TotalSessions, user.CreatedAt, user.LastActive,
	))
	return err
}

func (c *DatabaseClient) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row, err := c.queryRow(ctx, c.sb.Select(userColumns...).From("users").Where(sq.Eq{"email": email}))
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

func (c *DatabaseClient) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	row, err := c.queryRow(ctx, c.sb.Select(userColumns...).From("users").Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

func (c *DatabaseClient) UpdateUserProfile(ctx context.Context, id string, p models.ProfileUpdate) error {
	diagnosis := p.Diagnosis
	if diagnosis == "" {
		diagnosis = "unspecified"
	}
	_, err := c.exec(ctx, c.sb.Update("users").SetMap(map[string]any{
		"name":              p.Name,
		"age":               p.Age,
		"gender":            p.Gender,
		"diagnosis":         diagnosis,
		"therapist_name":    p.TherapistName,
		"emergency_contact": p.EmergencyContact,
	}).Where(sq.Eq{"id": id}))
	return err
}

func (c *DatabaseClient) UpdateUserActivity(ctx context.Context, id string, lastActive time.Time, streak int) error {
	_, err := c.exec(ctx, c.sb.Update("users").
		Set("last_active", lastActive.UTC()).
		Set("streak", streak).
		Where(sq.Eq{"id": id}))
	return err
}

func (c *DatabaseClient) IncrementUserSessions(ctx context.Context, id string) error {
	_, err := c.exec(ctx, c.sb.Update("users").
		Set("total_sessions", sq.Expr("total_sessions + 1")).
		Where(sq.Eq{"id": id}))
	return err
}

// Mood logs

var moodColumns = []string{
	"id", "user_id", "mood_score", "energy_level", "anxiety_level", "sleep_hours", "notes", "activities", "logged_at",
}

func scanMoodLog(row scanner) (models.MoodLog, error) {
	var (
		m          models.MoodLog
		energy     sql.NullInt64
		anxiety    sql.NullInt64
		sleep      sql.NullFloat64
		activities string
	)
	if err := row.Scan(&m.ID, &m.UserID, &m.MoodScore, &energy, &anxiety, &sleep, &m.Notes, &activities, &m.LoggedAt); err != nil {
		return m, err
	}
	if energy.Valid {
		v := int(energy.Int64)
		m.EnergyLevel = &v
	}
	if anxiety.Valid {
		v := int(anxiety.Int64)
		m.AnxietyLevel = &v
	}
	if sleep.Valid {
		v := sleep.Float64
		m.SleepHours = &v
	}
	m.Activities = []string{}
	if activities != "" {
		if err := json.Unmarshal([]byte(activities), &m.Activities); err != nil {
			return m, fmt.Errorf("decode activities: %w", err)
		}
	}
	return m, nil
}

func (c *DatabaseClient) CreateMoodLog(ctx context.Context, log *models.MoodLog) error {
	if log == nil {
		return errors.New("nil mood log")
	}
	if log.Activities == nil {
		log.Activities = []string{}
	}
	activities, err := json.Marshal(log.Activities)
	if err != nil {
		return fmt.Errorf("encode activities: %w", err)
	}
	log.LoggedAt = nowIfZero(log.LoggedAt)

	_, err = c.exec(ctx, c.sb.Insert("mood_logs").Columns(moodColumns...).Values(
		log.ID, log.UserID, log.MoodScore, log.EnergyLevel, log.AnxietyLevel, log.SleepHours, log.Notes, string(activities), log.LoggedAt,
	))
	return err
}

func (c *DatabaseClient) ListMoodLogsSince(ctx context.Context, userID string, since time.Time) ([]models.MoodLog, error) {
	rows, err := c.query(ctx, c.sb.Select(moodColumns...).From("mood_logs").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.GtOrEq{"logged_at": since.UTC()}).
		OrderBy("logged_at ASC"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.MoodLog{}
	for rows.Next() {
		m, err := scanMoodLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) LatestMoodLog(ctx context.Context, userID string) (*models.MoodLog, error) {
	row, err := c.queryRow(ctx, c.sb.Select(moodColumns...).From("mood_logs").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("logged_at DESC").
		Limit(1))
	if err != nil {
		return nil, err
	}
	m, err := scanMoodLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// RecentMoodScores returns up to limit of the newest scores, oldest first.
func (c *DatabaseClient) RecentMoodScores(ctx context.Context, userID string, limit int) ([]int, error) {
	rows, err := c.query(ctx, c.sb.Select("mood_score").From("mood_logs").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("logged_at DESC").
		Limit(uint64(limit)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var newestFirst []int
	for rows.Next() {
		var s int
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		newestFirst = append(newestFirst, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]int, len(newestFirst))
	for i, s := range newestFirst {
		out[len(newestFirst)-1-i] = s
	}
	return out, nil
}

func (c *DatabaseClient) MoodStatsSince(ctx context.Context, userID string, since time.Time) (*models.MoodStats, error) {
	row, err := c.queryRow(ctx, c.sb.Select(
		"AVG(mood_score)", "AVG(energy_level)", "AVG(anxiety_level)", "AVG(sleep_hours)",
		"MIN(mood_score)", "MAX(mood_score)", "COUNT(*)",
	).From("mood_logs").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.GtOrEq{"logged_at": since.UTC()}))
	if err != nil {
		return nil, err
	}

	var (
		avgMood, avgEnergy, avgAnxiety, avgSleep sql.NullFloat64
		minMood, maxMood                         sql.NullInt64
		stats                                    models.MoodStats
	)
	if err := row.Scan(&avgMood, &avgEnergy, &avgAnxiety, &avgSleep, &minMood, &maxMood, &stats.TotalLogs); err != nil {
		return nil, err
	}
	stats.AvgMood = nullFloat(avgMood)
	stats.AvgEnergy = nullFloat(avgEnergy)
	stats.AvgAnxiety = nullFloat(avgAnxiety)
	stats.AvgSleep = nullFloat(avgSleep)
	stats.MinMood = nullInt(minMood)
	stats.MaxMood = nullInt(maxMood)
	return &stats, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

// PHQ-9

var phq9Columns = []string{
	"id", "user_id", "q1", "q2", "q3", "q4", "q5", "q6", "q7", "q8", "q9", "total_score", "severity", "taken_at",
}

func scanPHQ9(row scanner) (models.PHQ9Assessment, error) {
	var a models.PHQ9Assessment
	q := &a.Answers
	err := row.Scan(&a.ID, &a.UserID, &q[0], &q[1], &q[2], &q[3], &q[4], &q[5], &q[6], &q[7], &q[8],
		&a.TotalScore, &a.Severity, &a.TakenAt)
	return a, err
}

func (c *DatabaseClient) CreatePHQ9(ctx context.Context, a *models.PHQ9Assessment) error {
	if a == nil {
		return errors.New("nil assessment")
	}
	a.TakenAt = nowIfZero(a.TakenAt)
	q := a.Answers
	_, err := c.exec(ctx, c.sb.Insert("phq9_assessments").Columns(phq9Columns...).Values(
		a.ID, a.UserID, q[0], q[1], q[2], q[3], q[4], q[5], q[6], q[7], q[8], a.TotalScore, a.Severity, a.TakenAt,
	))
	return err
}

func (c *DatabaseClient) LatestPHQ9(ctx context.Context, userID string) (*models.PHQ9Assessment, error) {
	row, err := c.queryRow(ctx, c.sb.Select(phq9Columns...).From("phq9_assessments").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("taken_at DESC").
		Limit(1))
	if err != nil {
		return nil, err
	}
	a, err := scanPHQ9(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListPHQ9 returns the newest limit assessments, sorted oldest first when ascending is set.
func (c *DatabaseClient) ListPHQ9(ctx context.Context, userID string, limit int, ascending bool) ([]models.PHQ9Assessment, error) {
	rows, err := c.query(ctx, c.sb.Select(phq9Columns...).From("phq9_assessments").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("taken_at DESC").
		Limit(uint64(limit)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.PHQ9Assessment{}
	for rows.Next() {
		a, err := scanPHQ9(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if ascending {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

func (c *DatabaseClient) CountPHQ9(ctx context.Context, userID string) (int, error) {
	return c.count(ctx, c.sb.Select("COUNT(*)").From("phq9_assessments").Where(sq.Eq{"user_id": userID}))
}

// Chat

var chatColumns = []string{"id", "user_id", "session_id", "role", "content", "sentiment", "crisis_flag", "created_at"}

// AddChatMessages inserts all messages in a single transaction.
func (c *DatabaseClient) AddChatMessages(ctx context.Context, msgs ...models.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	for i := range msgs {
		m := &msgs[i]
		q, args, err := c.sb.Insert("chat_messages").Columns(chatColumns...).Values(
			m.ID, m.UserID, m.SessionID, m.Role, m.Content, m.Sentiment, m.CrisisFlag, nowIfZero(m.CreatedAt),
		).ToSql()
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("build query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// ListChatMessages returns the newest limit messages in chronological order.
func (c *DatabaseClient) ListChatMessages(ctx context.Context, userID string, limit int) ([]models.ChatMessage, error) {
	rows, err := c.query(ctx, c.sb.Select(chatColumns...).From("chat_messages").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var newestFirst []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.SessionID, &m.Role, &m.Content, &m.Sentiment, &m.CrisisFlag, &m.CreatedAt); err != nil {
			return nil, err
		}
		newestFirst = append(newestFirst, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]models.ChatMessage, len(newestFirst))
	for i, m := range newestFirst {
		out[len(newestFirst)-1-i] = m
	}
	return out, nil
}

func (c *DatabaseClient) ListChatSessions(ctx context.Context, userID string, limit int) ([]models.ChatSession, error) {
	rows, err := c.query(ctx, c.sb.Select("session_id", "MIN(created_at) AS started_at", "COUNT(*) AS message_count").
		From("chat_messages").
		Where(sq.Eq{"user_id": userID}).
		GroupBy("session_id").
		OrderBy("started_at DESC").
		Limit(uint64(limit)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ChatSession{}
	for rows.Next() {
		var (
			s       models.ChatSession
			started flexTime
		)
		if err := rows.Scan(&s.SessionID, &started, &s.MessageCount); err != nil {
			return nil, err
		}
		s.StartedAt = started.Time
		out = append(out, s)
	}
	return out, rows.Err()
}

// CountChatMessages counts a user's messages, optionally restricted to one role.
func (c *DatabaseClient) CountChatMessages(ctx context.Context, userID, role string) (int, error) {
	b := c.sb.Select("COUNT(*)").From("chat_messages").Where(sq.Eq{"user_id": userID})
	if role != "" {
		b = b.Where(sq.Eq{"role": role})
	}
	return c.count(ctx, b)
}

func (c *DatabaseClient) CountCrisisMessages(ctx context.Context, userID string) (int, error) {
	return c.count(ctx, c.sb.Select("COUNT(*)").From("chat_messages").
		Where(sq.Eq{"user_id": userID, "crisis_flag": true}))
}

// Risk snapshots

var riskColumns = []string{
	"id", "user_id", "attrition_risk", "relapse_risk", "crisis_risk", "engagement_score", "factors", "computed_at",
}

func (c *DatabaseClient) InsertRiskSnapshot(ctx context.Context, s *models.RiskSnapshot) error {
	if s == nil {
		return errors.New("nil risk snapshot")
	}
	if s.Factors == nil {
		s.Factors = []string{}
	}
	factors, err := json.Marshal(s.Factors)
	if err != nil {
		return fmt.Errorf("encode factors: %w", err)
	}
	s.ComputedAt = nowIfZero(s.ComputedAt)

	_, err = c.exec(ctx, c.sb.Insert("risk_scores").Columns(riskColumns...).Values(
		s.ID, s.UserID, s.AttritionRisk, s.RelapseRisk, s.CrisisRisk, s.EngagementScore, string(factors), s.ComputedAt,
	))
	return err
}

func (c *DatabaseClient) LatestRiskSnapshot(ctx context.Context, userID string) (*models.RiskSnapshot, error) {
	row, err := c.queryRow(ctx, c.sb.Select(riskColumns...).From("risk_scores").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("computed_at DESC").
		Limit(1))
	if err != nil {
		return nil, err
	}

	var (
		s       models.RiskSnapshot
		factors string
	)
	err = row.Scan(&s.ID, &s.UserID, &s.AttritionRisk, &s.RelapseRisk, &s.CrisisRisk, &s.EngagementScore, &factors, &s.ComputedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(factors), &s.Factors); err != nil {
		return nil, fmt.Errorf("decode factors: %w", err)
	}
	return &s, nil
}

// Reminders

var reminderColumns = []string{
	"id", "user_id", "medicine_name", "dosage", "reminder_time", "frequency", "is_active", "created_at",
}

func (c *DatabaseClient) CreateReminder(ctx context.Context, r *models.Reminder) error {
	if r == nil {
		return errors.New("nil reminder")
	}
	r.CreatedAt = nowIfZero(r.CreatedAt)
	_, err := c.exec(ctx, c.sb.Insert("reminders").Columns(reminderColumns...).Values(
		r.ID, r.UserID, r.MedicineName, r.Dosage, r.ReminderTime, r.Frequency, r.IsActive, r.CreatedAt,
	))
	return err
}

func (c *DatabaseClient) ListActiveReminders(ctx context.Context, userID string) ([]models.Reminder, error) {
	rows, err := c.query(ctx, c.sb.Select(reminderColumns...).From("reminders").
		Where(sq.Eq{"user_id": userID, "is_active": true}).
		OrderBy("reminder_time ASC"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Reminder{}
	for rows.Next() {
		var r models.Reminder
		if err := rows.Scan(&r.ID, &r.UserID, &r.MedicineName, &r.Dosage, &r.ReminderTime, &r.Frequency, &r.IsActive, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeactivateReminder soft-deletes a reminder. It reports false when the user owns no such active reminder.
func (c *DatabaseClient) DeactivateReminder(ctx context.Context, userID, id string) (bool, error) {
	res, err := c.exec(ctx, c.sb.Update("reminders").
		Set("is_active", false).
		Where(sq.Eq{"id": id, "user_id": userID, "is_active": true}))
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
