// Package service creates, lists, deletes and resolves short links. Create
// carries the alias negotiation: an AI-suggested alias that the shortening
// service rejects is silently dropped once, a user-typed one is not.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/shortify/internal/models"
	"github.com/atinyakov/shortify/internal/shortener"
)

var (
	// ErrNoAlias is returned by Resolve for an empty alias.
	ErrNoAlias = errors.New("no alias provided")
	// ErrLinkNotFound is returned by Resolve when no stored record has the alias.
	ErrLinkNotFound = errors.New("not found")
)

type LinkService struct {
	store     Store
	shortener Shortener
	suggester Suggester
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// Option customizes a LinkService.
type Option func(*LinkService)

// WithClock overrides the creation-time source.
func WithClock(now func() time.Time) Option {
	return func(s *LinkService) { s.now = now }
}

// WithIDGenerator overrides record id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *LinkService) { s.newID = newID }
}

func NewLinkService(store Store, sh Shortener, sg Suggester, logger *zap.Logger, opts ...Option) *LinkService {
	s := &LinkService{
		store:     store,
		shortener: sh,
		suggester: sg,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

type decisionKey struct {
	hadAlias    bool
	aiGenerated bool
	kind        FailureKind
}

// retryWithoutAlias lists the failures that are remedied by one more call
// with no alias. Every other combination is surfaced to the caller as is.
var retryWithoutAlias = map[decisionKey]bool{
	{hadAlias: true, aiGenerated: true, kind: FailureAliasTaken}: true,
}

// Create normalizes and validates req.URL, shortens it and stores the record.
func (s *LinkService) Create(ctx context.Context, req models.CreateRequest) Outcome {
	target := NormalizeURL(req.URL)
	if !ValidateURL(target) {
		return Failure{Kind: FailureInvalidURLFormat, Message: "Please enter a valid URL."}
	}

	alias := SanitizeAlias(req.Alias)
	aiGenerated := req.AIGenerated && alias != ""

	res, err := s.shortener.Shorten(ctx, target, alias)
	if err == nil {
		return s.persist(ctx, target, res, aiGenerated, "")
	}

	failure := classify(err)
	if !retryWithoutAlias[decisionKey{hadAlias: alias != "", aiGenerated: aiGenerated, kind: failure.Kind}] {
		s.logger.Info("link creation failed",
			zap.String("url", target),
			zap.String("alias", alias),
			zap.Stringer("kind", failure.Kind),
		)
		return failure
	}

	s.logger.Info("AI alias taken, retrying with random", zap.String("alias", alias))
	res, err = s.shortener.Shorten(ctx, target, "")
	if err != nil {
		return classify(err)
	}

	notice := fmt.Sprintf("Note: The AI alias '%s' was taken, so we assigned a random one.", alias)
	return s.persist(ctx, target, res, false, notice)
}

func (s *LinkService) persist(ctx context.Context, target string, res shortener.Result, aiGenerated bool, notice string) Outcome {
	record := models.LinkRecord{
		ID:          s.newID(),
		OriginalURL: target,
		Alias:       res.Alias,
		ShortURL:    res.ShortURL,
		CreatedAt:   s.now().UnixMilli(),
		Clicks:      0,
		AIGenerated: aiGenerated,
	}

	if err := s.store.Insert(ctx, record); err != nil {
		s.logger.Error("unable to save link", zap.String("id", record.ID), zap.Error(err))
		return Failure{Kind: FailureStorage, Message: "The link was created but could not be saved.", Err: err}
	}

	s.logger.Info("link created",
		zap.String("id", record.ID),
		zap.String("shortUrl", record.ShortURL),
		zap.Bool("aiGenerated", record.AIGenerated),
	)

	if notice != "" {
		return SuccessWithNotice{Record: record, Notice: notice}
	}
	return Success{Record: record}
}

func classify(err error) Failure {
	var se *shortener.Error
	if !errors.As(err, &se) {
		return Failure{Kind: FailureUnexpected, Message: "Failed to shorten link.", Err: err}
	}

	kind := FailureUnexpected
	switch se.Kind {
	case shortener.KindAliasTaken:
		kind = FailureAliasTaken
	case shortener.KindInvalidURL:
		kind = FailureInvalidURL
	case shortener.KindNetwork:
		kind = FailureNetwork
	}
	return Failure{Kind: kind, Message: se.Error(), Err: err}
}

// Suggest proposes an alias for raw. It only fails when raw is blank.
func (s *LinkService) Suggest(ctx context.Context, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", Failure{Kind: FailureInvalidURLFormat, Message: "Please enter a URL first."}
	}
	return s.suggester.Suggest(ctx, NormalizeURL(raw)), nil
}

func (s *LinkService) List(ctx context.Context) []models.LinkRecord {
	return s.store.List(ctx)
}

// Delete removes the record with id and returns the remaining records.
func (s *LinkService) Delete(ctx context.Context, id string) ([]models.LinkRecord, error) {
	links, err := s.store.Remove(ctx, id)
	if err != nil {
		s.logger.Error("unable to delete link", zap.String("id", id), zap.Error(err))
		return links, err
	}
	s.logger.Info("link deleted", zap.String("id", id))
	return links, nil
}

// Resolve looks alias up in the local store.
func (s *LinkService) Resolve(ctx context.Context, alias string) (models.LinkRecord, error) {
	if alias == "" {
		return models.LinkRecord{}, ErrNoAlias
	}

	link, ok := s.store.FindByAlias(ctx, alias)
	if !ok {
		return models.LinkRecord{}, fmt.Errorf("link /%s %w", alias, ErrLinkNotFound)
	}

	s.IncrementClicks(ctx, alias)
	return link, nil
}

// IncrementClicks is a no-op: the shortening service tracks clicks, and the
// stored counter stays at zero.
func (s *LinkService) IncrementClicks(_ context.Context, _ string) {}

func (s *LinkService) PingContext(ctx context.Context) error {
	return s.store.PingContext(ctx)
}
