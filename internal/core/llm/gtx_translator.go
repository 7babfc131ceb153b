package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/markdave123-py/artintx/internal/core"
)

// GtxTranslator calls the public Google translate "gtx" endpoint.
type GtxTranslator struct {
	baseURL string
	client  *http.Client
}

var _ core.Translator = (*GtxTranslator)(nil)

func NewGtxTranslator(baseURL string, client *http.Client) *GtxTranslator {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &GtxTranslator{baseURL: baseURL, client: client}
}

func (g *GtxTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", "auto")
	q.Set("tl", targetLang)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build gtx request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gtx request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gtx status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read gtx body: %w", err)
	}
	return parseGtx(body)
}

// parseGtx concatenates the first element of every segment in the response's first array.
func parseGtx(body []byte) (string, error) {
	var parsed []any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode gtx body: %w", err)
	}
	if len(parsed) == 0 {
		return "", fmt.Errorf("gtx: empty response")
	}
	segments, ok := parsed[0].([]any)
	if !ok {
		return "", fmt.Errorf("gtx: no segments")
	}

	var b strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if s, ok := parts[0].(string); ok {
			b.WriteString(s)
		}
	}
	return b.String(), nil
}
