package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"
	"golang.org/x/sync/errgroup"

	"github.com/atinyakov/shortify/internal/app/server"
	grpcserver "github.com/atinyakov/shortify/internal/app/server/grpc"
	"github.com/atinyakov/shortify/internal/config"

	_ "net/http/pprof"
)

const (
	pprofAddr       = "localhost:6060"
	shutdownTimeout = 5 * time.Second
)

func newServeCmd(opts *config.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web interface and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *config.Options) error {
	a, err := newApp(ctx, opts, false)
	if err != nil {
		return err
	}
	defer a.Close()
	zapLogger := a.log.Log

	zapLogger.Info("Starting shortify",
		zap.String("version", valueOrNA(buildVersion)),
		zap.String("date", valueOrNA(buildDate)),
		zap.String("commit", valueOrNA(buildCommit)),
	)

	r := server.Init(a.service, zapLogger, server.Options{
		BaseURL:        opts.BaseURL,
		RedirectDelay:  opts.RedirectDelay,
		RequestTimeout: opts.HTTPTimeout,
	})

	srv := &http.Server{
		Addr:              opts.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	if opts.EnablePprof {
		pprofSrv := &http.Server{Addr: pprofAddr, Handler: http.DefaultServeMux, ReadHeaderTimeout: 10 * time.Second}
		g.Go(func() error {
			zapLogger.Info("Starting pprof server", zap.String("addr", pprofAddr))
			if err := pprofSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				zapLogger.Error("pprof server error", zap.Error(err))
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			return pprofSrv.Close()
		})
	}

	if opts.GRPCAddress != "" {
		grpcSrv := grpcserver.New(a.service, zapLogger, opts.GRPCAddress)
		g.Go(grpcSrv.Start)
		g.Go(func() error {
			<-gctx.Done()
			grpcSrv.GracefulStop()
			return nil
		})
	}

	g.Go(func() error {
		var err error
		if opts.EnableHTTPS {
			manager := &autocert.Manager{
				Cache:      autocert.DirCache("cache-dir"),
				Prompt:     autocert.AcceptTOS,
				HostPolicy: autocert.HostWhitelist(opts.TLSHosts...),
			}
			srv.Addr = ":443"
			srv.TLSConfig = manager.TLSConfig()

			zapLogger.Info("Server is running with TLS", zap.Strings("hosts", opts.TLSHosts))
			err = srv.ListenAndServeTLS("", "")
		} else {
			zapLogger.Info("Server is running", zap.String("address", opts.ServerAddress), zap.String("baseUrl", opts.BaseURL))
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		zapLogger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
