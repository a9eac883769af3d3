package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/paperhound/paperhound/internal/api"
	"github.com/paperhound/paperhound/internal/config"
	"github.com/paperhound/paperhound/internal/logging"
	"github.com/paperhound/paperhound/internal/resolver"
	"github.com/paperhound/paperhound/internal/sources"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP resolution service.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// One outbound client shared by every provider adapter and the
	// verifier, so connection pools and the timeout are common.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout()}

	client := sources.NewClient(httpClient, sources.Config{
		COREAPIKey:        cfg.Providers.COREAPIKey,
		UnpaywallEmail:    cfg.Providers.UnpaywallEmail,
		GoogleBooksAPIKey: cfg.Providers.GoogleBooksAPIKey,
		BASEEnabled:       cfg.Providers.BASEEnabled,
		UserAgent:         cfg.HTTP.UserAgent,
	})
	registry := sources.DefaultRegistry(client)

	limiter := resolver.NewSourceLimiter(cfg.DefaultInterval(), cfg.SourceIntervals())
	governor := resolver.NewGovernor(cfg.Resolver.MaxConcurrent)
	verifier := resolver.NewVerifier(httpClient, logger.Named("verify"))

	res := resolver.New(registry, limiter, governor, verifier, resolver.Config{
		WavePDFFound: time.Duration(cfg.Resolver.WavePDFFoundMs) * time.Millisecond,
		WaveInitial:  time.Duration(cfg.Resolver.WaveInitialMs) * time.Millisecond,
		WaveSecond:   time.Duration(cfg.Resolver.WaveSecondMs) * time.Millisecond,
	}, logger.Named("resolver"))

	apiServer := api.NewServer(res, logger.Named("api"), cfg)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
