package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DatabaseDriver string
	DatabaseURL    string
	JWTSecret      string
	JWTTTLHours    int

	BaseLang     string
	Translator   string
	TranslateURL string
	AIAPIKey     string
	GenModel     string

	RedisURL string

	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	BucketName   string

	CrisisHelplines string
	EmergencyNumber string

	ActivityWorkers int
	CORSOrigins     []string
	StaticDir       string

	LogLevel  string
	LogFormat string
}

// LoadConfig loads the environment variables and return config
func LoadConfig() *Config {

	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "5000"),
		DatabaseDriver: getEnv("DATABASE_DRIVER", "sqlite"),
		DatabaseURL:    getEnv("DATABASE_URL", "artintx.db"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		JWTTTLHours:    getEnvInt("JWT_TTL_HOURS", 168),

		BaseLang:     getEnv("BASE_LANG", "en"),
		Translator:   getEnv("TRANSLATOR", "gtx"),
		TranslateURL: getEnv("TRANSLATE_URL", "https://translate.googleapis.com/translate_a/single"),
		AIAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GenModel:     getEnv("GEN_MODEL", "gemini-1.5-flash"),

		RedisURL: getEnv("REDIS_URL", ""),

		AwsAccessKey: getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey: getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:    getEnv("AWS_REGION", "us-east-2"),
		BucketName:   getEnv("BUCKET_NAME", "artintx-exports"),

		CrisisHelplines: getEnv("CRISIS_HELPLINES", "9999 666 555:Vandrevala Foundation,9820 466 726:AASRA"),
		EmergencyNumber: getEnv("EMERGENCY_NUMBER", "112"),

		ActivityWorkers: getEnvInt("ACTIVITY_WORKERS", 2),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
		StaticDir:       getEnv("STATIC_DIR", "./web"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

// Validate reports settings the service cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET not set"))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL not set"))
	}
	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, errors.New("DATABASE_DRIVER must be sqlite or postgres"))
	}
	switch c.Translator {
	case "gtx", "gemini", "none":
	default:
		errs = append(errs, errors.New("TRANSLATOR must be gtx, gemini or none"))
	}
	return errors.Join(errs...)
}

// StorageEnabled reports whether object storage credentials are configured.
func (c *Config) StorageEnabled() bool {
	return c.AwsAccessKey != "" && c.AwsSecretKey != ""
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("env value is not an int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
