package shortener

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestShorten(t *testing.T) {
	tests := []struct {
		name       string
		alias      string
		status     int
		body       string
		wantQuery  map[string]string
		wantResult Result
		wantKind   Kind
	}{
		{
			name:       "no alias",
			status:     http.StatusOK,
			body:       "https://tinyurl.com/abc123",
			wantQuery:  map[string]string{"url": "https://example.com/page"},
			wantResult: Result{ShortURL: "https://tinyurl.com/abc123", Alias: "abc123"},
		},
		{
			name:       "alias is trimmed and sent",
			alias:      "  cool-pizza-23 ",
			status:     http.StatusOK,
			body:       "https://tinyurl.com/cool-pizza-23\n",
			wantQuery:  map[string]string{"url": "https://example.com/page", "alias": "cool-pizza-23"},
			wantResult: Result{ShortURL: "https://tinyurl.com/cool-pizza-23", Alias: "cool-pizza-23"},
		},
		{
			name:       "blank alias is not sent",
			alias:      "   ",
			status:     http.StatusOK,
			body:       "https://tinyurl.com/xyz",
			wantQuery:  map[string]string{"url": "https://example.com/page", "alias": ""},
			wantResult: Result{ShortURL: "https://tinyurl.com/xyz", Alias: "xyz"},
		},
		{
			name:       "no path falls back to requested alias",
			alias:      "mine",
			status:     http.StatusOK,
			body:       "https://tinyurl.com/",
			wantResult: Result{ShortURL: "https://tinyurl.com/", Alias: "mine"},
		},
		{
			name:       "no path and no alias is unknown",
			status:     http.StatusOK,
			body:       "https://tinyurl.com",
			wantResult: Result{ShortURL: "https://tinyurl.com", Alias: "unknown"},
		},
		{
			name:     "sentinel with alias",
			alias:    "news",
			status:   http.StatusOK,
			body:     " Error ",
			wantKind: KindAliasTaken,
		},
		{
			name:     "sentinel without alias",
			status:   http.StatusOK,
			body:     "Error",
			wantKind: KindInvalidURL,
		},
		{
			name:     "http failure with alias",
			alias:    "shop",
			status:   http.StatusUnprocessableEntity,
			body:     "https://tinyurl.com/shop",
			wantKind: KindAliasTaken,
		},
		{
			name:     "http failure without alias",
			status:   http.StatusBadRequest,
			body:     "",
			wantKind: KindInvalidURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				for k, v := range tt.wantQuery {
					assert.Equal(t, v, r.URL.Query().Get(k), "query param %s", k)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := New(srv.URL, time.Second, zap.NewNop())
			got, err := c.Shorten(context.Background(), "https://example.com/page", tt.alias)

			if tt.wantKind == 0 {
				require.NoError(t, err)
				assert.Equal(t, tt.wantResult, got)
				return
			}

			var se *Error
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.wantKind, se.Kind)
			assert.NotEmpty(t, se.Error())
		})
	}
}

func TestShorten_AliasTakenMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Error"))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second, zap.NewNop()).Shorten(context.Background(), "https://example.com", "react-docs")

	require.ErrorIs(t, err, ErrAliasTaken)
	assert.NotErrorIs(t, err, ErrInvalidURL)
	assert.Contains(t, err.Error(), `"react-docs"`)
	assert.Contains(t, err.Error(), "already taken")
}

func TestShorten_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	_, err := New(endpoint, time.Second, zap.NewNop()).Shorten(context.Background(), "https://example.com", "x")

	require.ErrorIs(t, err, ErrNetwork)
	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "x", se.Alias)
	assert.NotNil(t, errors.Unwrap(err))
	assert.Equal(t, "Network error. Please check your connection.", err.Error())
}

func TestShorten_BadEndpoint(t *testing.T) {
	_, err := New("http://[::1", time.Second, zap.NewNop()).Shorten(context.Background(), "https://example.com", "docs")

	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KindNetwork, se.Kind)
	assert.Equal(t, "docs", se.Alias)
	assert.ErrorContains(t, errors.Unwrap(err), "parse shortener endpoint")
}

func TestShorten_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("https://tinyurl.com/late"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(srv.URL, time.Second, zap.NewNop()).Shorten(ctx, "https://example.com", "")

	assert.ErrorIs(t, err, ErrNetwork)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestShorten_EndpointQueryIsKept(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "v1", r.URL.Query().Get("format"))
		assert.Equal(t, "https://example.com", r.URL.Query().Get("url"))
		_, _ = w.Write([]byte("https://tinyurl.com/q"))
	}))
	defer srv.Close()

	got, err := New(srv.URL+"/api-create.php?format=v1", time.Second, zap.NewNop()).
		Shorten(context.Background(), "https://example.com", "")

	require.NoError(t, err)
	assert.Equal(t, "q", got.Alias)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "AliasTakenOrInvalid", KindAliasTaken.String())
	assert.Equal(t, "InvalidUrl", KindInvalidURL.String())
	assert.Equal(t, "NetworkError", KindNetwork.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}

func TestNew_Defaults(t *testing.T) {
	c := New("", 0, zap.NewNop())

	assert.Equal(t, DefaultEndpoint, c.endpoint)
	assert.Equal(t, defaultTimeout, c.http.Timeout)
}
