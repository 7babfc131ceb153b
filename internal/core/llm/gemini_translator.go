package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/markdave123-py/artintx/internal/core"
)

const translatePrompt = "You are a translation engine. Translate the user's text into the language with " +
	"ISO 639-1 code %q. Keep markdown, emoji, line breaks and phone numbers exactly as they are. " +
	"Reply with the translation only."

// GeminiTranslator translates through a Gemini model.
type GeminiTranslator struct {
	client    *genai.Client
	modelName string
}

var _ core.Translator = (*GeminiTranslator)(nil)

func NewGeminiTranslator(ctx context.Context, apiKey, modelName string) (*GeminiTranslator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &GeminiTranslator{client: cl, modelName: modelName}, nil
}

func (g *GeminiTranslator) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func (g *GeminiTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	m := g.client.GenerativeModel(g.modelName)
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(fmt.Sprintf(translatePrompt, targetLang))},
	}

	resp, err := m.GenerateContent(ctx, genai.Text(text))
	if err != nil {
		return "", fmt.Errorf("gemini translate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini translate: empty response")
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("gemini translate: no text parts")
	}
	return b.String(), nil
}
