package ai

import (
	"context"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GenParams are the generation knobs the gateway applies per call. They are
// fixed per capability family, never user-configurable.
type GenParams struct {
	Temperature     float32
	MaxOutputTokens int32
}

var (
	// free-text capabilities (general suggestion)
	freeTextParams = GenParams{Temperature: 0.4, MaxOutputTokens: 600}
	// strict-JSON capabilities; larger cap so objects don't truncate mid-brace
	structuredParams = GenParams{Temperature: 0.2, MaxOutputTokens: 1024}
)

// TextGenerator is the single "generate text from prompt" boundary the
// capability handlers depend on. ok=false covers every failure: missing
// credential, transport error, empty reply. Never an error value, so the
// fallback path stays uniform.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, p GenParams) (text string, ok bool)
}

// Gateway talks to Gemini. The credential is resolved once at construction;
// with no key the gateway is permanently disabled and every Generate call
// returns ok=false without a network round trip.
type Gateway struct {
	client *genai.Client
	model  string
}

func NewGateway(ctx context.Context, apiKey, model string) *Gateway {
	g := &Gateway{model: model}
	if apiKey == "" {
		log.Println("AI: no API key configured, running with mock fallbacks")
		return g
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		log.Printf("AI: client init failed, running with mock fallbacks: %v", err)
		return g
	}
	g.client = client
	return g
}

// Model returns the configured model name, used as source provenance.
func (g *Gateway) Model() string { return g.model }

func (g *Gateway) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Generate issues a single model call. No retry, no backoff: any failure is
// logged and reported as ok=false.
func (g *Gateway) Generate(ctx context.Context, prompt string, p GenParams) (string, bool) {
	if g.client == nil {
		return "", false
	}

	m := g.client.GenerativeModel(g.model)
	m.SetTemperature(p.Temperature)
	m.SetMaxOutputTokens(p.MaxOutputTokens)

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Printf("AI: %s call failed: %v", g.model, err)
		return "", false
	}

	text := extractText(resp)
	if text == "" {
		log.Printf("AI: %s returned an empty response", g.model)
		return "", false
	}
	return text, true
}

// extractText pulls the first usable text span out of the response
// envelope: the first candidate's parts, then the remaining candidates.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		if s := strings.TrimSpace(b.String()); s != "" {
			return s
		}
	}
	return ""
}
