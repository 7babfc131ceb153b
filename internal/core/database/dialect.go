package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect pairs a database/sql driver with its placeholder style.
type Dialect struct {
	Name        string
	DriverName  string
	Placeholder sq.PlaceholderFormat
}

var (
	Postgres = Dialect{Name: "postgres", DriverName: "pgx", Placeholder: sq.Dollar}
	SQLite   = Dialect{Name: "sqlite", DriverName: "sqlite", Placeholder: sq.Question}
)

// DialectFor resolves a DATABASE_DRIVER value.
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "sqlite", "sqlite3", "":
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver %q", name)
	}
}

func (d Dialect) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(d.Placeholder)
}

// sqliteDSN adds the pragmas every connection needs. _time_format=sqlite makes the driver write
// time.Time as "2006-01-02 15:04:05.999999999-07:00", which sorts as text and reads back from
// aggregates like MIN(created_at).
func sqliteDSN(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	dsn += sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if !strings.Contains(dsn, "_time_format=") {
		dsn += "&_time_format=sqlite"
	}
	return dsn
}

// flexTime scans timestamps that SQLite hands back as text from aggregate expressions.
type flexTime struct {
	Time time.Time
}

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	// time.Time.String(), the driver default for rows written without _time_format
	"2006-01-02 15:04:05.999999999 -0700 MST",
}

func (f *flexTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		f.Time = time.Time{}
		return nil
	case time.Time:
		f.Time = v
		return nil
	case []byte:
		return f.parse(string(v))
	case string:
		return f.parse(v)
	default:
		return fmt.Errorf("flexTime: unsupported type %T", src)
	}
}

func (f *flexTime) parse(s string) error {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			f.Time = t
			return nil
		}
	}
	return fmt.Errorf("flexTime: cannot parse %q", s)
}

var _ sql.Scanner = (*flexTime)(nil)
