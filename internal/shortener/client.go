// Package shortener talks to the external URL shortening service.
//
// The service answers a GET carrying url and an optional alias with a plain
// text body: either the short URL or the literal sentinel "Error".
package shortener

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultEndpoint is TinyURL's anonymous creation API.
const DefaultEndpoint = "https://tinyurl.com/api-create.php"

const (
	errorSentinel  = "Error"
	unknownAlias   = "unknown"
	maxBodyBytes   = 64 << 10
	defaultTimeout = 10 * time.Second
)

// Result is what the service granted, which may differ from what was asked for.
type Result struct {
	ShortURL string
	Alias    string
}

type Client struct {
	endpoint string
	http     *http.Client
	logger   *zap.Logger
}

// New creates a client for endpoint. A zero timeout uses ten seconds.
func New(endpoint string, timeout time.Duration, logger *zap.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// Shorten asks the service for a short link to longURL. A non-blank alias is
// trimmed and sent along. Failures are always *Error; an unusable endpoint
// counts as the service being unreachable.
func (c *Client) Shorten(ctx context.Context, longURL, alias string) (Result, error) {
	alias = strings.TrimSpace(alias)

	u, err := url.Parse(c.endpoint)
	if err != nil {
		c.logger.Error("Invalid shortener endpoint", zap.String("endpoint", c.endpoint), zap.Error(err))
		return Result{}, unreachable(alias, fmt.Errorf("parse shortener endpoint: %w", err))
	}
	params := u.Query()
	params.Set("url", longURL)
	if alias != "" {
		params.Set("alias", alias)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Result{}, unreachable(alias, fmt.Errorf("build shorten request: %w", err))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("Shortener API Error", zap.String("url", longURL), zap.Error(err))
		return Result{}, unreachable(alias, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.logger.Error("Shortener API Error", zap.String("url", longURL), zap.Error(err))
		return Result{}, unreachable(alias, err)
	}
	text := strings.TrimSpace(string(body))

	if resp.StatusCode < 200 || resp.StatusCode > 299 || text == errorSentinel {
		c.logger.Info("Shortener rejected request",
			zap.String("url", longURL),
			zap.String("alias", alias),
			zap.Int("status", resp.StatusCode),
		)
		return Result{}, rejected(alias)
	}

	return Result{
		ShortURL: text,
		Alias:    grantedAlias(text, alias),
	}, nil
}

// grantedAlias reads the alias from the last path segment of the short URL,
// falling back to the requested alias and then to "unknown".
func grantedAlias(shortURL, requested string) string {
	if u, err := url.Parse(shortURL); err == nil {
		p := strings.Trim(u.Path, "/")
		if i := strings.LastIndex(p, "/"); i >= 0 {
			p = p[i+1:]
		}
		if p != "" {
			return p
		}
	}
	if requested != "" {
		return requested
	}
	return unknownAlias
}
