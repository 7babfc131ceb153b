package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestSetupWriter(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	if err := SetupWriter(&buf, "warn", "json"); err != nil {
		t.Fatalf("SetupWriter() error = %v", err)
	}

	slog.Info("hidden")
	slog.Warn("shown", "user_id", "u1")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"user_id":"u1"`) {
		t.Errorf("warn record missing or not JSON: %s", out)
	}
}

func TestSetupWriterRejectsBadInput(t *testing.T) {
	var buf bytes.Buffer
	if err := SetupWriter(&buf, "loud", "text"); err == nil {
		t.Errorf("SetupWriter(level=loud) = nil, want error")
	}
	if err := SetupWriter(&buf, "info", "xml"); err == nil {
		t.Errorf("SetupWriter(format=xml) = nil, want error")
	}
}

func TestContextLogger(t *testing.T) {
	if FromContext(context.Background()) != slog.Default() {
		t.Errorf("FromContext() without logger should return the default logger")
	}

	l := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := WithContext(context.Background(), l)
	if FromContext(ctx) != l {
		t.Errorf("FromContext() did not return the attached logger")
	}
}
