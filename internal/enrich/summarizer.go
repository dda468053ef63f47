package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"

	radar "radar-austral/internal/radar/domain"
)

const systemPrompt = `Eres un analista de actualidad chilena. Recibes los titulares
y extractos mas recientes y produces un resumen estructurado: conclusiones
puntuales y una lectura breve del pulso nacional. Responde solo JSON valido.`

// summarySchema constrains the structured response.
const summarySchema = `{
  "name": "narrative_summary",
  "description": "Structured reading of the latest chronicle items",
  "schema": {
    "type": "object",
    "properties": {
      "conclusions": {
        "type": "array",
        "items": {
          "type": "object",
          "properties": {
            "point": {"type": "string"},
            "explanation": {"type": "string"}
          },
          "required": ["point", "explanation"]
        }
      },
      "national_pulse": {"type": "string"}
    },
    "required": ["conclusions", "national_pulse"]
  }
}`

// completer is the model call boundary, swappable in tests.
type completer interface {
	Complete(system, user, schema string, settings types.RequestSettings) (string, error)
}

type anthropicCompleter struct {
	apiKey string
}

func (c anthropicCompleter) Complete(system, user, schema string, settings types.RequestSettings) (string, error) {
	response, err := anthropic.PromptWithSettings(system, user, schema, c.apiKey, settings)
	if err != nil {
		return "", err
	}
	if len(response.Content) == 0 {
		return "", errors.New("no content in response")
	}
	return response.Content[0].Text, nil
}

// AnthropicSummarizer turns the newest chronicle items into a narrative
// summary through the Anthropic API with structured output.
type AnthropicSummarizer struct {
	model    string
	maxTok   int
	now      func() time.Time
	complete completer
}

// SummarizerOption customizes an AnthropicSummarizer.
type SummarizerOption func(*AnthropicSummarizer)

// WithModel overrides the model id.
func WithModel(model string) SummarizerOption {
	return func(s *AnthropicSummarizer) {
		if model != "" {
			s.model = model
		}
	}
}

// WithMaxTokens overrides the completion budget.
func WithMaxTokens(max int) SummarizerOption {
	return func(s *AnthropicSummarizer) {
		if max > 0 {
			s.maxTok = max
		}
	}
}

// NewAnthropicSummarizer constructs the summarizer.
func NewAnthropicSummarizer(apiKey string, opts ...SummarizerOption) (*AnthropicSummarizer, error) {
	if apiKey == "" {
		return nil, errors.New("enrich: api key is required")
	}
	s := &AnthropicSummarizer{
		model:    "claude-sonnet-4-20250514",
		maxTok:   1024,
		now:      func() time.Time { return time.Now().UTC() },
		complete: anthropicCompleter{apiKey: apiKey},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Summarize produces a narrative summary from the given items.
func (s *AnthropicSummarizer) Summarize(ctx context.Context, items []radar.ContentItem) (radar.Summary, error) {
	if len(items) == 0 {
		return radar.Summary{}, errors.New("enrich: no items to summarize")
	}
	if err := ctx.Err(); err != nil {
		return radar.Summary{}, err
	}

	settings := types.RequestSettings{
		Model:     s.model,
		MaxTokens: s.maxTok,
	}
	text, err := s.complete.Complete(systemPrompt, buildUserPrompt(items), summarySchema, settings)
	if err != nil {
		return radar.Summary{}, fmt.Errorf("enrich: completion failed: %w", err)
	}

	var parsed struct {
		Conclusions []struct {
			Point       string `json:"point"`
			Explanation string `json:"explanation"`
		} `json:"conclusions"`
		NationalPulse string `json:"national_pulse"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return radar.Summary{}, fmt.Errorf("enrich: parsing structured response: %w", err)
	}

	summary := radar.Summary{
		NationalPulse: strings.TrimSpace(parsed.NationalPulse),
		GeneratedAt:   s.now(),
	}
	for _, c := range parsed.Conclusions {
		point := strings.TrimSpace(c.Point)
		if point == "" {
			continue
		}
		summary.Conclusions = append(summary.Conclusions, radar.Conclusion{
			Point:       point,
			Explanation: strings.TrimSpace(c.Explanation),
		})
	}
	return summary, nil
}

// buildUserPrompt lists one headline block per item, truncating long bodies.
func buildUserPrompt(items []radar.ContentItem) string {
	var b strings.Builder
	b.WriteString("Titulares recientes:\n")
	for i, item := range items {
		fmt.Fprintf(&b, "\n%d. %s", i+1, item.Headline)
		if body := truncate(item.Body, 400); body != "" {
			fmt.Fprintf(&b, "\n%s", body)
		}
	}
	b.WriteString("\n\nEntrega conclusiones y el pulso nacional.")
	return b.String()
}

func truncate(text string, max int) string {
	text = strings.TrimSpace(text)
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
