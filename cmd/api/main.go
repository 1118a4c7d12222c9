package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/secondbrain/secondbrain-go/internal/config"
	"github.com/secondbrain/secondbrain-go/internal/crypto"
	"github.com/secondbrain/secondbrain-go/internal/handler"
	"github.com/secondbrain/secondbrain-go/internal/middleware"
	"github.com/secondbrain/secondbrain-go/internal/repository"
	"github.com/secondbrain/secondbrain-go/internal/repository/memory"
	"github.com/secondbrain/secondbrain-go/internal/service"
	"github.com/secondbrain/secondbrain-go/internal/validation"
)

type stores struct {
	users    service.UserStore
	contents service.ContentStore
	shares   service.ShareStore
	close    func() error
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		slog.Error("storage unavailable", "error", err)
		os.Exit(1)
	}
	defer st.close()

	tokens := crypto.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)
	if !tokens.Configured() {
		slog.Error("configuration error: JWT_SECRET is not set, signin is disabled and every bearer token is rejected")
	} else {
		slog.Info("token service ready", "ttl", tokens.TTL())
	}

	links, err := crypto.NewShareLinkGenerator(cfg.ShareLinkLength)
	if err != nil {
		slog.Error("invalid share link length", "length", cfg.ShareLinkLength, "error", err)
		os.Exit(1)
	}

	v := validation.New()
	hasher := crypto.NewPasswordHasher(crypto.DefaultHashParams())

	authService := service.NewAuthService(st.users, hasher, tokens, v)
	contentService := service.NewContentService(st.contents, st.shares, st.users, v)
	shareService := service.NewShareService(st.shares, links)

	router := handler.NewRouter(handler.RouterDeps{
		Auth:        handler.NewAuthHandler(authService),
		Content:     handler.NewContentHandler(contentService),
		Share:       handler.NewShareHandler(shareService, v),
		Verifier:    tokens,
		RateLimiter: middleware.NewRateLimiter(ctx, cfg.AuthRateRPS, cfg.AuthRateBurst),
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func setupLogger(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var h slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.IsProduction() {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}

// openStores connects to MySQL when a DSN is configured and falls back to
// the in-memory store otherwise.
func openStores(ctx context.Context, cfg config.Config) (stores, error) {
	if cfg.DatabaseDSN == "" {
		slog.Warn("DATABASE_DSN is empty, using in-memory store; data is lost on restart")
		mem := memory.NewStore()
		return stores{
			users:    mem.Users(),
			contents: mem.Contents(),
			shares:   mem.Shares(),
			close:    func() error { return nil },
		}, nil
	}

	db, err := repository.NewDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return stores{}, err
	}

	if cfg.AutoMigrate {
		if err := repository.Migrate(ctx, db); err != nil {
			db.Close()
			return stores{}, err
		}
		slog.Info("migrations applied")
	}

	return stores{
		users:    repository.NewUserRepository(db),
		contents: repository.NewContentRepository(db),
		shares:   repository.NewShareRepository(db),
		close:    db.Close,
	}, nil
}
