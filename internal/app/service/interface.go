package service

import (
	"context"

	"github.com/atinyakov/shortify/internal/models"
	"github.com/atinyakov/shortify/internal/shortener"
)

// Store is the local record list.
type Store interface {
	List(context.Context) []models.LinkRecord
	Insert(context.Context, models.LinkRecord) error
	Remove(context.Context, string) ([]models.LinkRecord, error)
	FindByAlias(context.Context, string) (models.LinkRecord, bool)
	PingContext(context.Context) error
}

// Shortener is the external shortening service.
type Shortener interface {
	Shorten(ctx context.Context, longURL, alias string) (shortener.Result, error)
}

// Suggester proposes an alias for a URL and never fails.
type Suggester interface {
	Suggest(ctx context.Context, url string) string
}

// LinkServiceIface is what the presentation layer needs from LinkService.
type LinkServiceIface interface {
	Create(context.Context, models.CreateRequest) Outcome
	Suggest(context.Context, string) (string, error)
	List(context.Context) []models.LinkRecord
	Delete(context.Context, string) ([]models.LinkRecord, error)
	Resolve(context.Context, string) (models.LinkRecord, error)
	PingContext(context.Context) error
}
