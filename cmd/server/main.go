package main

import (
	"context"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/spf13/pflag"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/paesprep/backend/internal/api"
	"github.com/paesprep/backend/internal/auth"
	"github.com/paesprep/backend/internal/countdown"
	"github.com/paesprep/backend/internal/domain/subscription"
	"github.com/paesprep/backend/internal/explainer"
	"github.com/paesprep/backend/internal/infrastructure/config"
	"github.com/paesprep/backend/internal/infrastructure/logging"
	"github.com/paesprep/backend/internal/payment"
	"github.com/paesprep/backend/internal/ratelimit"
	"github.com/paesprep/backend/internal/service"
	"github.com/paesprep/backend/internal/store"

	_ "github.com/paesprep/backend/docs" // swagger docs
)

// @title           PAES Prep API
// @version         1.0
// @description     Timed practice exams for the PAES university admission test: compose exams, take attempts, review results and progress.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	policyPath := pflag.StringP("config", "c", "", "path to a YAML policy file")
	pflag.Parse()

	cfg := config.Load(*policyPath)
	logger, err := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		slog.Error("invalid logging config", "error", err)
		os.Exit(1)
	}

	// ── Dependencies ────────────────────────────────────────────────
	dialect, err := store.ParseDialect(cfg.DBDriver)
	if err != nil {
		logger.Error("invalid database driver", "error", err)
		os.Exit(1)
	}
	dsn := cfg.SQLitePath
	if dialect == store.DialectPostgres {
		dsn = cfg.DatabaseURL
	}

	openCtx, cancelOpen := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := store.Open(openCtx, dialect, dsn)
	cancelOpen()
	if err != nil {
		logger.Error("failed to open database", "error", err, "driver", dialect)
		os.Exit(1)
	}
	defer db.Close()

	loc, err := time.LoadLocation(cfg.Policy.StreakTimezone)
	if err != nil {
		logger.Error("invalid streak timezone", "error", err)
		os.Exit(1)
	}

	prices := service.Prices{}
	for plan, amount := range cfg.Policy.Prices {
		p, err := subscription.ParsePlan(plan)
		if err != nil {
			logger.Error("invalid plan in prices", "error", err)
			os.Exit(1)
		}
		prices[p] = amount
	}

	seed := time.Now().UnixNano()
	timers := countdown.NewScheduler(time.Second, nil)
	llm := explainer.NewOpenAIClient(cfg.LLMURL, cfg.LLMAPIKey, cfg.LLMModel)
	gateway := payment.NewWebpayFromEnvironment(cfg.TBKEnvironment, cfg.TBKCommerceCode, cfg.TBKAPIKey)
	limiter := ratelimit.NewSlidingWindow(cfg.Policy.ExplainDailyLimit, 24*time.Hour, nil)

	attempts := service.NewAttemptService(db, db, db, timers, rand.New(rand.NewSource(seed)), logger.With("component", "attempts"))
	svc := api.Services{
		Bank:         service.NewBankService(db, logger),
		Exams:        service.NewExamService(db, db, cfg.Policy.Exam, rand.New(rand.NewSource(seed+1)), logger),
		Attempts:     attempts,
		Dashboard:    service.NewDashboardService(db, db, loc, logger),
		Explanations: service.NewExplanationService(db, llm, limiter, cfg.Policy.ExplainWorkers, logger.With("component", "explanations")),
		Payments:     service.NewPaymentService(db, gateway, prices, cfg.PublicURL+"/payments/confirm", logger.With("component", "payments")),
	}

	// Attempts left running by a previous process get their timers back.
	n, err := attempts.Recover(context.Background())
	if err != nil {
		logger.Error("failed to recover attempts", "error", err)
		os.Exit(1)
	}
	logger.Info("recovered in-progress attempts", "count", n)

	handler := api.NewHandler(svc, cfg.AppURL, logger)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()
	authn := auth.Middleware(auth.NewVerifier(cfg.JWTSecret, cfg.JWTAudience))
	api.RegisterRoutes(mux, handler, authn)

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	logged := api.Logging(logger)(api.CORS(mux))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
		attempts.Shutdown()
	}()

	logger.Info("starting server", "address", cfg.ServerAddress, "driver", dialect)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
	<-done
}
