package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/atinyakov/shortify/internal/app/service"
	"github.com/atinyakov/shortify/internal/mocks"
	"github.com/atinyakov/shortify/internal/models"
	"github.com/atinyakov/shortify/internal/shortener"
	"github.com/atinyakov/shortify/internal/storage"
)

var fixedNow = time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

type fixture struct {
	svc       *service.LinkService
	store     *storage.LinkStore
	shortener *mocks.MockShortener
	suggester *mocks.MockSuggester
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	store := storage.NewLinkStore(storage.CreateMemoryMedium(), "", zap.NewNop())
	sh := mocks.NewMockShortener(ctrl)
	sg := mocks.NewMockSuggester(ctrl)

	svc := service.NewLinkService(store, sh, sg, zap.NewNop(),
		service.WithClock(func() time.Time { return fixedNow }),
	)
	return fixture{svc: svc, store: store, shortener: sh, suggester: sg}
}

func aliasTaken(alias string) error {
	return &shortener.Error{Kind: shortener.KindAliasTaken, Alias: alias, Msg: "The alias \"" + alias + "\" is already taken. Please choose another."}
}

func TestCreate_NoAlias(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.shortener.EXPECT().
		Shorten(gomock.Any(), "https://example.com/page", "").
		Return(shortener.Result{ShortURL: "https://tinyurl.com/abc123", Alias: "abc123"}, nil)

	out := f.svc.Create(ctx, models.CreateRequest{URL: "example.com/page"})

	success, ok := out.(service.Success)
	require.True(t, ok, "got %#v", out)
	rec := success.Record
	assert.Equal(t, "https://example.com/page", rec.OriginalURL)
	assert.Equal(t, "abc123", rec.Alias)
	assert.Equal(t, "https://tinyurl.com/abc123", rec.ShortURL)
	assert.False(t, rec.AIGenerated)
	assert.Equal(t, 0, rec.Clicks)
	assert.Equal(t, fixedNow.UnixMilli(), rec.CreatedAt)
	assert.NotEmpty(t, rec.ID)

	stored := f.store.List(ctx)
	require.Len(t, stored, 1)
	assert.Equal(t, rec, stored[0])
}

func TestCreate_InvalidURLFormat(t *testing.T) {
	f := setup(t)

	// no Shorten expectation: any external call fails the test
	for _, in := range []string{"", "   ", "exa mple.com", "https://"} {
		out := f.svc.Create(context.Background(), models.CreateRequest{URL: in, Alias: "x"})

		failure, ok := out.(service.Failure)
		require.True(t, ok, in)
		assert.Equal(t, service.FailureInvalidURLFormat, failure.Kind)
		assert.Equal(t, "Please enter a valid URL.", failure.Message)
	}
	assert.Empty(t, f.store.List(context.Background()))
}

func TestCreate_AIAliasTakenRetriesWithoutAlias(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	gomock.InOrder(
		f.shortener.EXPECT().
			Shorten(gomock.Any(), "https://react.dev", "react-docs-v2").
			Return(shortener.Result{}, aliasTaken("react-docs-v2")),
		f.shortener.EXPECT().
			Shorten(gomock.Any(), "https://react.dev", "").
			Return(shortener.Result{ShortURL: "https://tinyurl.com/y7k2m", Alias: "y7k2m"}, nil),
	)

	out := f.svc.Create(ctx, models.CreateRequest{URL: "react.dev", Alias: "react-docs-v2", AIGenerated: true})

	withNotice, ok := out.(service.SuccessWithNotice)
	require.True(t, ok, "got %#v", out)
	assert.False(t, withNotice.Record.AIGenerated)
	assert.Equal(t, "y7k2m", withNotice.Record.Alias)
	assert.Contains(t, withNotice.Notice, "react-docs-v2")
	assert.NotEmpty(t, withNotice.Notice)
	assert.Len(t, f.store.List(ctx), 1)
}

func TestCreate_AIAliasRetryFails(t *testing.T) {
	f := setup(t)

	gomock.InOrder(
		f.shortener.EXPECT().Shorten(gomock.Any(), gomock.Any(), "cool-pizza-23").
			Return(shortener.Result{}, aliasTaken("cool-pizza-23")),
		f.shortener.EXPECT().Shorten(gomock.Any(), gomock.Any(), "").
			Return(shortener.Result{}, &shortener.Error{Kind: shortener.KindInvalidURL, Msg: "Invalid URL."}),
	)

	out := f.svc.Create(context.Background(), models.CreateRequest{URL: "https://pizza.example", Alias: "cool-pizza-23", AIGenerated: true})

	failure, ok := out.(service.Failure)
	require.True(t, ok)
	assert.Equal(t, service.FailureInvalidURL, failure.Kind)
	assert.Empty(t, f.store.List(context.Background()))
}

func TestCreate_UserAliasTakenIsSurfaced(t *testing.T) {
	f := setup(t)

	f.shortener.EXPECT().
		Shorten(gomock.Any(), "https://example.com", "news").
		Return(shortener.Result{}, aliasTaken("news")).
		Times(1)

	out := f.svc.Create(context.Background(), models.CreateRequest{URL: "https://example.com", Alias: "news"})

	failure, ok := out.(service.Failure)
	require.True(t, ok)
	assert.Equal(t, service.FailureAliasTaken, failure.Kind)
	assert.Contains(t, failure.Message, "already taken")
	assert.ErrorIs(t, failure, shortener.ErrAliasTaken)
	assert.Empty(t, f.store.List(context.Background()))
}

func TestCreate_NetworkErrorIsNeverRetried(t *testing.T) {
	f := setup(t)

	f.shortener.EXPECT().
		Shorten(gomock.Any(), "https://example.com", "ai-pick").
		Return(shortener.Result{}, &shortener.Error{Kind: shortener.KindNetwork, Msg: "Network error. Please check your connection."}).
		Times(1)

	out := f.svc.Create(context.Background(), models.CreateRequest{URL: "example.com", Alias: "ai-pick", AIGenerated: true})

	failure, ok := out.(service.Failure)
	require.True(t, ok)
	assert.Equal(t, service.FailureNetwork, failure.Kind)
	assert.Equal(t, "Network error. Please check your connection.", failure.Error())
}

func TestCreate_InvalidURLWithoutAlias(t *testing.T) {
	f := setup(t)

	f.shortener.EXPECT().
		Shorten(gomock.Any(), "https://localhost", "").
		Return(shortener.Result{}, &shortener.Error{Kind: shortener.KindInvalidURL, Msg: "Invalid URL."})

	out := f.svc.Create(context.Background(), models.CreateRequest{URL: "localhost", AIGenerated: true})

	failure, ok := out.(service.Failure)
	require.True(t, ok)
	assert.Equal(t, service.FailureInvalidURL, failure.Kind)
}

func TestCreate_AIAliasAccepted(t *testing.T) {
	f := setup(t)

	f.shortener.EXPECT().
		Shorten(gomock.Any(), "https://go.dev", "go-home-7").
		Return(shortener.Result{ShortURL: "https://tinyurl.com/go-home-7", Alias: "go-home-7"}, nil)

	out := f.svc.Create(context.Background(), models.CreateRequest{URL: "go.dev", Alias: "go-home-7", AIGenerated: true})

	success, ok := out.(service.Success)
	require.True(t, ok)
	assert.True(t, success.Record.AIGenerated)
}

func TestCreate_AliasIsSanitized(t *testing.T) {
	f := setup(t)

	f.shortener.EXPECT().
		Shorten(gomock.Any(), "https://go.dev", "my-link").
		Return(shortener.Result{ShortURL: "https://tinyurl.com/my-link", Alias: "my-link"}, nil)

	out := f.svc.Create(context.Background(), models.CreateRequest{URL: "go.dev", Alias: " my-link!/ "})

	_, ok := out.(service.Success)
	assert.True(t, ok)
}

func TestCreate_UnexpectedError(t *testing.T) {
	f := setup(t)

	f.shortener.EXPECT().Shorten(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(shortener.Result{}, errors.New("boom"))

	out := f.svc.Create(context.Background(), models.CreateRequest{URL: "go.dev"})

	failure, ok := out.(service.Failure)
	require.True(t, ok)
	assert.Equal(t, service.FailureUnexpected, failure.Kind)
	assert.Equal(t, "Failed to shorten link.", failure.Message)
}

func TestCreate_StorageFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	sh := mocks.NewMockShortener(ctrl)
	svc := service.NewLinkService(store, sh, mocks.NewMockSuggester(ctrl), zap.NewNop(),
		service.WithIDGenerator(func() string { return "fixed-id" }),
	)

	sh.EXPECT().Shorten(gomock.Any(), gomock.Any(), "").
		Return(shortener.Result{ShortURL: "https://tinyurl.com/a", Alias: "a"}, nil)
	store.EXPECT().Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r models.LinkRecord) error {
			assert.Equal(t, "fixed-id", r.ID)
			return errors.New("disk full")
		})

	out := svc.Create(context.Background(), models.CreateRequest{URL: "go.dev"})

	failure, ok := out.(service.Failure)
	require.True(t, ok)
	assert.Equal(t, service.FailureStorage, failure.Kind)
	assert.EqualError(t, errors.Unwrap(failure), "disk full")
}

func TestCreate_IDsAreUnique(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.shortener.EXPECT().Shorten(gomock.Any(), gomock.Any(), "").
		Return(shortener.Result{ShortURL: "https://tinyurl.com/same", Alias: "same"}, nil).
		Times(20)

	for i := 0; i < 20; i++ {
		_, ok := f.svc.Create(ctx, models.CreateRequest{URL: "go.dev"}).(service.Success)
		require.True(t, ok)
	}

	seen := make(map[string]bool)
	for _, l := range f.store.List(ctx) {
		assert.False(t, seen[l.ID], "duplicate id %s", l.ID)
		seen[l.ID] = true
	}
	assert.Len(t, seen, 20)
}

func TestSuggest(t *testing.T) {
	f := setup(t)

	f.suggester.EXPECT().Suggest(gomock.Any(), "https://react.dev/learn").Return("react-learn-1")

	alias, err := f.svc.Suggest(context.Background(), " react.dev/learn ")

	require.NoError(t, err)
	assert.Equal(t, "react-learn-1", alias)
}

func TestSuggest_EmptyURL(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Suggest(context.Background(), "  ")

	var failure service.Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, service.FailureInvalidURLFormat, failure.Kind)
	assert.Equal(t, "Please enter a URL first.", failure.Message)
}

func TestDeleteAndList(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.store.Insert(ctx, models.LinkRecord{ID: "1", Alias: "a"}))
	require.NoError(t, f.store.Insert(ctx, models.LinkRecord{ID: "2", Alias: "b"}))

	remaining, err := f.svc.Delete(ctx, "1")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "2", remaining[0].ID)
	assert.Equal(t, remaining, f.svc.List(ctx))

	remaining, err = f.svc.Delete(ctx, "missing")
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestResolve(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.store.Insert(ctx, models.LinkRecord{ID: "1", Alias: "docs", OriginalURL: "https://go.dev/doc"}))

	link, err := f.svc.Resolve(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, "https://go.dev/doc", link.OriginalURL)
	assert.Equal(t, 0, link.Clicks)

	_, err = f.svc.Resolve(ctx, "nope")
	assert.ErrorIs(t, err, service.ErrLinkNotFound)
	assert.EqualError(t, err, "link /nope not found")

	_, err = f.svc.Resolve(ctx, "")
	assert.ErrorIs(t, err, service.ErrNoAlias)
}

func TestPingContext(t *testing.T) {
	f := setup(t)

	assert.NoError(t, f.svc.PingContext(context.Background()))
}

func TestFailureKindString(t *testing.T) {
	assert.Equal(t, "InvalidUrlFormat", service.FailureInvalidURLFormat.String())
	assert.Equal(t, "AliasTakenOrInvalid", service.FailureAliasTaken.String())
	assert.Equal(t, "InvalidUrl", service.FailureInvalidURL.String())
	assert.Equal(t, "NetworkError", service.FailureNetwork.String())
	assert.Equal(t, "StorageError", service.FailureStorage.String())
	assert.Equal(t, "Unexpected", service.FailureUnexpected.String())
}
