package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stringart_backend/internal/auth"
	"stringart_backend/internal/config"
	"stringart_backend/internal/http_server/handlers/changepassword"
	"stringart_backend/internal/http_server/handlers/forgotpassword"
	"stringart_backend/internal/http_server/handlers/profile"
	"stringart_backend/internal/http_server/handlers/projects"
	"stringart_backend/internal/http_server/handlers/refresh"
	"stringart_backend/internal/http_server/handlers/resend"
	"stringart_backend/internal/http_server/handlers/resetpassword"
	"stringart_backend/internal/http_server/handlers/signin"
	"stringart_backend/internal/http_server/handlers/signout"
	"stringart_backend/internal/http_server/handlers/signup"
	"stringart_backend/internal/http_server/handlers/verify"
	"stringart_backend/internal/http_server/middleware/authn"
	sl "stringart_backend/internal/lib/logger"
	"stringart_backend/internal/middleware/ratelimit"
	"stringart_backend/internal/project"
	"stringart_backend/internal/rabbitmq"
	"stringart_backend/internal/storage/postgres"
	"stringart_backend/internal/user"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator/v10"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad("./config/config.yaml")

	log := setupLogger(cfg.Env)

	log.Info("starting stringart backend", slog.String("env", cfg.Env))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info("shutdown signal received")
		cancel()
	}()

	storage, err := postgres.New(ctx, cfg)
	if err != nil {
		log.Error("failed to connect postgres", sl.Err(err))
		os.Exit(1)
	}
	defer storage.Close()

	msgBroker, err := rabbitmq.New(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName)
	if err != nil {
		log.Error("failed to connect rabbitmq", sl.Err(err))
		os.Exit(1)
	}
	defer msgBroker.Close()

	authService := auth.New(
		log,
		storage, storage, storage, storage,
		msgBroker,
		cfg.Tokens.SessionTTL,
		cfg.Tokens.VerificationTTL,
		cfg.Tokens.ResetTTL,
		cfg.FrontendURL,
	)
	userService := user.New(log, storage)
	projectService := project.New(log, storage)

	go runSessionSweeper(ctx, log, authService, cfg.Sweeper.Interval)

	router := setupRouter(log, authService, userService, projectService)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server is running", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", sl.Err(err))
			cancel()
		}
	}()

	<-ctx.Done()

	log.Info("shutting down HTTP server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", sl.Err(err))
	} else {
		log.Info("server stopped gracefully")
	}
}

func setupRouter(
	log *slog.Logger,
	authService *auth.Auth,
	userService *user.Service,
	projectService *project.Service,
) *chi.Mux {
	validate := validator.New()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(ratelimit.SignUp()).Post("/sign_up", signup.New(log, validate, authService))
			r.With(ratelimit.SignIn()).Post("/sign_in", signin.New(log, validate, authService))
			r.Post("/sign_out", signout.New(log, authService))
			r.Post("/refresh_session", refresh.New(log, authService))
			r.With(ratelimit.Verify()).Post("/verify_email", verify.New(log, validate, authService))
			r.With(ratelimit.ResendVerificationEmail()).Post("/resend_verification", resend.New(log, validate, authService))
			r.With(ratelimit.PasswordRecovery()).Post("/forgot_password", forgotpassword.New(log, validate, authService))
			r.With(ratelimit.PasswordRecovery()).Post("/reset_password", resetpassword.New(log, validate, authService))
			r.With(authn.Required(authService)).Post("/change_password", changepassword.New(log, validate, authService))
		})

		r.Get("/users/{uid}", profile.Get(log, userService))
		r.With(authn.Required(authService)).Put("/users/{uid}", profile.Update(log, validate, userService))

		r.Route("/projects", func(r chi.Router) {
			r.Use(authn.Required(authService))

			r.Get("/", projects.List(log, projectService))
			r.Post("/", projects.Create(log, validate, projectService))
			r.Get("/{id}", projects.Get(log, projectService))
			r.Patch("/{id}", projects.Update(log, projectService))
			r.Put("/{id}", projects.Update(log, projectService))
			r.Delete("/{id}", projects.Delete(log, projectService))
		})
	})

	return r
}

// runSessionSweeper deletes expired sessions on a schedule, off the request
// path.
func runSessionSweeper(ctx context.Context, log *slog.Logger, authService *auth.Auth, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := authService.SweepExpiredSessions(ctx); err != nil {
				log.Error("session sweep failed", sl.Err(err))
			}
		}
	}
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
