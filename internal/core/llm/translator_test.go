package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/markdave123-py/artintx/internal/config"
)

func TestGtxTranslate(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{"client": q.Get("client"), "sl": q.Get("sl"), "tl": q.Get("tl"), "dt": q.Get("dt"), "q": q.Get("q")}
		_, _ = w.Write([]byte(`[[["नमस्ते ","Hello ",null,null,10],["दोस्त","friend",null,null,10]],null,"en"]`))
	}))
	defer srv.Close()

	tr := NewGtxTranslator(srv.URL, srv.Client())
	got, err := tr.Translate(context.Background(), "Hello friend", "hi")
	if err != nil {
		t.Fatal(err)
	}
	if got != "नमस्ते दोस्त" {
		t.Errorf("Translate = %q", got)
	}
	want := map[string]string{"client": "gtx", "sl": "auto", "tl": "hi", "dt": "t", "q": "Hello friend"}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("query %s = %q, want %q", k, gotQuery[k], v)
		}
	}
}

func TestGtxTranslateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusTooManyRequests, ``},
		{"not json", http.StatusOK, `<html>`},
		{"empty array", http.StatusOK, `[]`},
		{"no segments", http.StatusOK, `[null]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			if _, err := NewGtxTranslator(srv.URL, srv.Client()).Translate(context.Background(), "hi", "ta"); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestGtxSkipsBlankText(t *testing.T) {
	tr := NewGtxTranslator("http://127.0.0.1:0", nil)
	got, err := tr.Translate(context.Background(), "  ", "hi")
	if err != nil || got != "  " {
		t.Errorf("Translate(blank) = %q, %v", got, err)
	}
}

func TestNewTranslator(t *testing.T) {
	tests := []struct {
		translator string
		wantType   string
		wantErr    bool
	}{
		{"gtx", "*llm.GtxTranslator", false},
		{"none", "llm.NopTranslator", false},
		{"gemini", "", true}, // no API key
		{"deepl", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.translator, func(t *testing.T) {
			tr, err := NewTranslator(context.Background(), &config.Config{Translator: tt.translator})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v", err)
			}
			if err == nil {
				if got := typeName(tr); got != tt.wantType {
					t.Errorf("type = %s, want %s", got, tt.wantType)
				}
			}
		})
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *GtxTranslator:
		return "*llm.GtxTranslator"
	case NopTranslator:
		return "llm.NopTranslator"
	case *GeminiTranslator:
		return "*llm.GeminiTranslator"
	}
	return "unknown"
}

func TestNormalizeLang(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", "en"},
		{"hi", "hi"},
		{"hi-IN", "hi"},
		{"TA", "ta"},
		{"pt_BR", "pt"},
		{"!!", "en"},
	}
	for _, tt := range tests {
		if got := NormalizeLang(tt.in, "en"); got != tt.want {
			t.Errorf("NormalizeLang(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
