package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/vivekdev/portfolio/backend/internal/config"
	"github.com/vivekdev/portfolio/backend/internal/handler"
	"github.com/vivekdev/portfolio/backend/internal/logger"
	"github.com/vivekdev/portfolio/backend/internal/model/profile"
	"github.com/vivekdev/portfolio/backend/internal/service/ai"
	"github.com/vivekdev/portfolio/backend/internal/service/contact"
	"github.com/vivekdev/portfolio/backend/internal/service/relay"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Setup(cfg.Log)

	if envErr != nil {
		log.Warn().Err(envErr).Msg("failed to load .env file, continuing with system environment variables only")
	}

	profileStore := profile.NewMemoryStore(profile.Seed())

	// Initialize AI relay
	var relaySvc *relay.Service
	if cfg.AI.Enabled() {
		generator, err := ai.NewGenerator(ctx, cfg.AI)
		if err != nil {
			log.Warn().Err(err).Str("provider", cfg.AI.Provider).Msg("failed to initialize generator, continuing without AI functionality")
		} else {
			if closer, ok := generator.(io.Closer); ok {
				defer closer.Close()
			}
			relaySvc = relay.NewService(generator, profileStore.Get())
			log.Info().Str("provider", cfg.AI.Provider).Str("model", cfg.AI.Model).Msg("AI relay initialized")
		}
	} else {
		log.Warn().Str("provider", cfg.AI.Provider).Msg("AI credentials not configured, chat relay disabled")
	}

	var contactSvc *contact.Service
	if cfg.Contact.Enabled() {
		contactSvc = contact.NewService(cfg.Contact.URL(), cfg.Contact.Timeout)
		log.Info().Msg("contact forwarding enabled")
	} else {
		log.Warn().Msg("CONTACT_FORM_ID not set, contact form disabled")
	}

	router := handler.NewRouter(profileStore, relaySvc, contactSvc, cfg.Server.AllowedOrigins)

	if err := startServer(ctx, cfg.Server, router); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) error {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", serverCfg.Addr).Msg("portfolio backend listening")
	return runServer(ctx, srv)
}

func runServer(ctx context.Context, srv *http.Server) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
