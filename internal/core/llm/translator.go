package llm

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/markdave123-py/artintx/internal/config"
	"github.com/markdave123-py/artintx/internal/core"
)

// NopTranslator returns its input unchanged.
type NopTranslator struct{}

func (NopTranslator) Translate(_ context.Context, text, _ string) (string, error) {
	return text, nil
}

// NewTranslator builds the translator selected by TRANSLATOR.
func NewTranslator(ctx context.Context, cfg *config.Config) (core.Translator, error) {
	switch cfg.Translator {
	case "gtx":
		return NewGtxTranslator(cfg.TranslateURL, nil), nil
	case "gemini":
		return NewGeminiTranslator(ctx, cfg.AIAPIKey, cfg.GenModel)
	case "none", "":
		return NopTranslator{}, nil
	default:
		return nil, fmt.Errorf("unknown translator %q", cfg.Translator)
	}
}

// NormalizeLang reduces a client supplied locale ("hi-IN", "ta") to its base language code.
// An empty or unparseable value yields fallback.
func NormalizeLang(lang, fallback string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return fallback
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return fallback
	}
	base, _ := tag.Base()
	return base.String()
}
