package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riverqueue/river"
	"github.com/rs/zerolog"

	"github.com/openseat/server/internal/api/handlers"
	"github.com/openseat/server/internal/api/middleware"
	"github.com/openseat/server/internal/config"
	"github.com/openseat/server/internal/domain/event"
	"github.com/openseat/server/internal/domain/registration"
	"github.com/openseat/server/internal/email"
	"github.com/openseat/server/internal/jobs"
	"github.com/openseat/server/internal/metrics"
	"github.com/openseat/server/internal/storage/postgres"
)

// Router bundles the HTTP handler with the background job client so the
// serve command can manage the worker lifecycle.
type Router struct {
	Handler     http.Handler
	RiverClient *river.Client[pgx.Tx]
}

func NewRouter(cfg config.Config, logger zerolog.Logger, pool *pgxpool.Pool, version, gitCommit string) (*Router, error) {
	repo, err := postgres.NewRepository(pool)
	if err != nil {
		return nil, fmt.Errorf("repository init failed: %w", err)
	}

	emailService, err := email.NewService(cfg.Email, logger)
	if err != nil {
		return nil, fmt.Errorf("email service init failed: %w", err)
	}

	jobLogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	workers := jobs.NewWorkers(emailService, repo.OTPs(), jobLogger)
	riverClient, err := jobs.NewClient(pool, workers, jobLogger, jobs.NewPeriodicJobs())
	if err != nil {
		return nil, fmt.Errorf("job client init failed: %w", err)
	}

	eventService := event.NewService(repo.Events(), logger)
	regService := registration.NewService(
		repo.Registrations(),
		repo.OTPs(),
		repo.Events(),
		emailService,
		jobs.NewEnqueuer(riverClient),
		registration.Config{
			AllowedDomain: cfg.Registration.AllowedDomain,
			OTPExpiry:     cfg.Registration.OTPExpiry,
		},
		logger,
	)

	eventHandler := handlers.NewEventHandler(eventService, cfg.Environment)
	otpHandler := handlers.NewOTPHandler(regService, cfg.Registration.OTPExpiry, cfg.Environment)
	regHandler := handlers.NewRegistrationHandler(regService, cfg.Environment)
	adminHandler := handlers.NewAdminHandler(regService, eventService, cfg.Admin.SecretKey, cfg.Environment)
	healthChecker := handlers.NewHealthChecker(pool, riverClient, version, gitCommit)

	adminAuth := middleware.AdminAuth(cfg.Admin.SecretKey, cfg.Environment)

	// The tier wrapper must run before the limiter so the limiter sees the
	// tier in context; one limiter store is shared across routes.
	rateLimit := middleware.RateLimit(cfg.RateLimit)
	limit := func(tier middleware.RateLimitTier, h http.Handler) http.Handler {
		return middleware.WithRateLimitTierHandler(tier)(rateLimit(h))
	}

	mux := http.NewServeMux()
	mux.Handle("/healthz", handlers.Healthz())
	mux.Handle("/readyz", handlers.Readyz(pool))
	mux.Handle("/health", healthChecker.Health())
	mux.Handle("/metrics", methodMux(map[string]http.Handler{
		http.MethodGet: promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
	}))

	mux.Handle("/event", methodMux(map[string]http.Handler{
		http.MethodGet: limit(middleware.TierPublic, http.HandlerFunc(eventHandler.Get)),
	}))
	mux.Handle("/send-otp", methodMux(map[string]http.Handler{
		http.MethodPost: limit(middleware.TierOTP, http.HandlerFunc(otpHandler.Send)),
	}))
	mux.Handle("/verify-otp", methodMux(map[string]http.Handler{
		http.MethodPost: limit(middleware.TierOTP, http.HandlerFunc(otpHandler.Verify)),
	}))
	mux.Handle("/register", methodMux(map[string]http.Handler{
		http.MethodPost: limit(middleware.TierPublic, http.HandlerFunc(regHandler.Register)),
	}))

	mux.Handle("/admin/login", methodMux(map[string]http.Handler{
		http.MethodPost: limit(middleware.TierAdmin, http.HandlerFunc(adminHandler.Login)),
	}))
	mux.Handle("/admin/stats", methodMux(map[string]http.Handler{
		http.MethodGet: limit(middleware.TierAdmin, adminAuth(http.HandlerFunc(adminHandler.Stats))),
	}))
	mux.Handle("/admin/registrations", methodMux(map[string]http.Handler{
		http.MethodGet: limit(middleware.TierAdmin, adminAuth(http.HandlerFunc(adminHandler.ListRegistrations))),
	}))
	mux.Handle("/admin/registrations/{id}", methodMux(map[string]http.Handler{
		http.MethodDelete: limit(middleware.TierAdmin, adminAuth(http.HandlerFunc(adminHandler.DeleteRegistration))),
	}))
	mux.Handle("/admin/event", methodMux(map[string]http.Handler{
		http.MethodGet: limit(middleware.TierAdmin, adminAuth(http.HandlerFunc(eventHandler.Get))),
		http.MethodPut: limit(middleware.TierAdmin, adminAuth(http.HandlerFunc(eventHandler.Update))),
	}))

	var handler http.Handler = mux
	handler = middleware.CORS(cfg.CORS, logger)(handler)
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CorrelationID(logger)(handler)

	return &Router{
		Handler:     handler,
		RiverClient: riverClient,
	}, nil
}

func methodMux(byMethod map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := byMethod[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(byMethod))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(byMethod map[string]http.Handler) string {
	methods := make([]string, 0, len(byMethod))
	for method := range byMethod {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
