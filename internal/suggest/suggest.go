// Package suggest proposes short aliases for URLs using a generative model.
// Suggest never fails: every error path yields a random fallback slug.
package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"

	"go.uber.org/zap"
)

const (
	base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

	// maxAliasLen matches the alias input limit of the creation form.
	maxAliasLen = 30
)

// Generator produces the model's raw text answer for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Suggester struct {
	gen    Generator
	logger *zap.Logger
}

// New creates a Suggester. A nil gen makes every call fall back, which is how
// a missing API key behaves.
func New(gen Generator, logger *zap.Logger) *Suggester {
	return &Suggester{
		gen:    gen,
		logger: logger,
	}
}

// Suggest returns an alias for url. When the model answers without a slug
// the result is "link-" plus 5 random base36 characters; when the call or
// the parse fails it is "u-" plus 6.
func (s *Suggester) Suggest(ctx context.Context, url string) string {
	if s.gen == nil {
		s.logger.Warn("Error generating alias", zap.Error(ErrMissingAPIKey))
		return "u-" + randomBase36(6)
	}

	text, err := s.gen.Generate(ctx, Prompt(url))
	if err != nil {
		s.logger.Warn("Error generating alias", zap.String("url", url), zap.Error(err))
		return "u-" + randomBase36(6)
	}

	if strings.TrimSpace(text) == "" {
		text = "{}"
	}

	var payload struct {
		Slug string `json:"slug"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		s.logger.Warn("Error generating alias", zap.String("url", url), zap.Error(err))
		return "u-" + randomBase36(6)
	}

	if slug := Sanitize(strings.ToLower(payload.Slug)); slug != "" {
		return slug
	}
	return "link-" + randomBase36(5)
}

// Prompt builds the instruction sent to the model.
func Prompt(url string) string {
	return fmt.Sprintf(`
Analyze the following URL and generate a short, catchy, UNIQUE, and URL-safe alias (slug) for it.
URL: %s

Constraints:
- Max 20 characters.
- Use alphanumeric characters and hyphens.
- No spaces.
- To ensure uniqueness, consider combining 2 relevant words or appending a short number (e.g. 'cool-pizza-23' or 'react-docs-v2').
- Do NOT use very common single words like 'news' or 'shop' as they will be taken.
- Return ONLY the slug string.
`, url)
}

// Sanitize drops every character that is not an ASCII letter, digit or
// hyphen and caps the result at the alias length limit.
func Sanitize(alias string) string {
	var b strings.Builder
	for _, r := range alias {
		if r == '-' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}

	out := b.String()
	if len(out) > maxAliasLen {
		out = out[:maxAliasLen]
	}
	return out
}

func randomBase36(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36[rand.IntN(len(base36))]
	}
	return string(b)
}
