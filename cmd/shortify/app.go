package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/atinyakov/shortify/internal/app/service"
	"github.com/atinyakov/shortify/internal/config"
	"github.com/atinyakov/shortify/internal/logger"
	"github.com/atinyakov/shortify/internal/shortener"
	"github.com/atinyakov/shortify/internal/storage"
	"github.com/atinyakov/shortify/internal/suggest"
)

// app is the wired dependency graph shared by every command.
type app struct {
	opts    *config.Options
	log     *logger.Logger
	medium  storage.Medium
	service *service.LinkService
}

// newApp opens the configured medium and builds the link service. Server
// logs are JSON; CLI commands log human-readable lines to stderr.
func newApp(ctx context.Context, opts *config.Options, console bool) (*app, error) {
	log := logger.New()

	var err error
	if console {
		err = log.InitConsole(opts.LogLevel)
	} else {
		err = log.Init(opts.LogLevel)
	}
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	zapLogger := log.Log

	medium, err := storage.Open(ctx, opts.StorageOptions(), zapLogger)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("open %s storage: %w", opts.StorageBackend, err)
	}

	var gen suggest.Generator
	if opts.APIKey != "" {
		g, err := suggest.NewGenAIGenerator(ctx, opts.APIKey, opts.Model, "")
		if err != nil {
			zapLogger.Warn("alias suggestions disabled", zap.Error(err))
		} else {
			gen = g
		}
	} else {
		zapLogger.Debug("no API key, alias suggestions fall back to random aliases")
	}

	store := storage.NewLinkStore(medium, opts.StorageKey, zapLogger)
	sh := shortener.New(opts.ShortenerEndpoint, opts.HTTPTimeout, zapLogger)

	return &app{
		opts:    opts,
		log:     log,
		medium:  medium,
		service: service.NewLinkService(store, sh, suggest.New(gen, zapLogger), zapLogger),
	}, nil
}

func (a *app) Close() {
	if err := a.medium.Close(); err != nil {
		a.log.Log.Warn("unable to close storage", zap.Error(err))
	}
	a.log.Sync()
}
