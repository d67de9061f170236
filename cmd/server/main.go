package main

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"echoverse/internal/ai"
	"echoverse/internal/db"
	"echoverse/internal/engine"
	"echoverse/internal/handlers"
	mw "echoverse/internal/middleware"
	"echoverse/internal/services"
	"echoverse/internal/store"
)

func mustGetenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

// loadEncryptionService builds the at-rest encryption layer from
// ENCRYPTION_KEY and BLIND_INDEX_KEY (base64, 32 bytes each). Both unset
// means plaintext storage; anything else invalid is fatal.
func loadEncryptionService() *services.EncryptionService {
	encKey := os.Getenv("ENCRYPTION_KEY")
	idxKey := os.Getenv("BLIND_INDEX_KEY")
	if encKey == "" && idxKey == "" {
		slog.Warn("ENCRYPTION_KEY not set; data will be stored in plaintext")
		return nil
	}
	rawEnc, err := base64.StdEncoding.DecodeString(encKey)
	if err != nil {
		slog.Error("ENCRYPTION_KEY is not valid base64", slog.Any("err", err))
		os.Exit(1)
	}
	rawIdx, err := base64.StdEncoding.DecodeString(idxKey)
	if err != nil {
		slog.Error("BLIND_INDEX_KEY is not valid base64", slog.Any("err", err))
		os.Exit(1)
	}
	svc, err := services.NewEncryptionService(rawEnc, rawIdx)
	if err != nil {
		slog.Error("failed to init encryption", slog.Any("err", err))
		os.Exit(1)
	}
	return svc
}

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		slog.Warn("DATABASE_URL not set; falling back to in-memory storage")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	port := mustGetenv("PORT", "8080")
	aiProxyURL := os.Getenv("AI_PROXY_URL")
	aiAPIKey := os.Getenv("AI_API_KEY")
	liveUpstreamURL := os.Getenv("LIVE_UPSTREAM_URL")

	encSvc := loadEncryptionService()

	var dbConn *sqlx.DB
	var err error
	if databaseURL != "" {
		dbConn, err = sqlx.Open("pgx", databaseURL)
		if err != nil {
			slog.Error("failed to open db", slog.Any("err", err))
			os.Exit(1)
		}
		dbConn.SetMaxOpenConns(10)
		dbConn.SetConnMaxLifetime(2 * time.Hour)
		if err = dbConn.Ping(); err != nil {
			slog.Error("failed to ping db", slog.Any("err", err))
			os.Exit(1)
		}
		if err := db.RunMigrations(dbConn); err != nil {
			slog.Error("failed migrations", slog.Any("err", err))
			os.Exit(1)
		}
	}

	zlog, err := zap.NewProduction()
	if err != nil {
		slog.Error("failed to init zap", slog.Any("err", err))
		os.Exit(1)
	}
	defer func() { _ = zlog.Sync() }()

	var kv store.KV
	if dbConn != nil {
		kv = store.NewPostgresKV(dbConn)
	} else {
		kv = store.NewMemoryKV()
	}
	entries := store.NewEntryStore(kv, encSvc)

	aiClient := ai.NewClient(aiProxyURL, aiAPIKey, zlog)
	sched := engine.NewScheduler(engine.LogNotifier{Log: zlog}, zlog)
	defer sched.Shutdown()

	authHandler := handlers.NewAuthHandler(dbConn, encSvc, []byte(jwtSecret))
	journalHandler := handlers.NewJournalHandler(entries, aiClient, sched)
	progressHandler := handlers.NewProgressHandler(entries)
	insightsHandler := handlers.NewInsightsHandler(entries, aiClient)
	remindersHandler := handlers.NewRemindersHandler(entries, sched)
	statusHandler := handlers.NewStatusHandler(aiClient)
	liveTokenHandler := handlers.NewLiveTokenHandler([]byte(jwtSecret), liveUpstreamURL)
	settingsHandler := handlers.NewSettingsHandler(kv)
	authMW := mw.NewAuthMiddleware([]byte(jwtSecret))

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(mw.ZapRequestLogger(zlog))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/signup", authHandler.Signup)
		api.Post("/auth/login", authHandler.Login)
		api.Get("/status/ai", statusHandler.AI)
		api.Group(func(pr chi.Router) {
			pr.Use(authMW.RequireAuth)
			pr.Post("/journal", journalHandler.Save)
			pr.Get("/journal", journalHandler.List)
			pr.Delete("/journal", journalHandler.Reset)
			pr.Get("/progress", progressHandler.Get)
			pr.Post("/insights", insightsHandler.Connections)
			pr.Post("/reminders", remindersHandler.Arm)
			pr.Delete("/reminders", remindersHandler.Disarm)
			pr.Post("/reminders/test", remindersHandler.Test)
			pr.Post("/live/token", liveTokenHandler.Mint)
			pr.Get("/settings", settingsHandler.Get)
			pr.Put("/settings", settingsHandler.Update)
		})
	})

	srv := &http.Server{Addr: ":" + port, Handler: r}
	go func() {
		slog.Info("server starting", slog.String("addr", ":"+port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.Any("err", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutdown initiated")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	slog.Info("server stopped")
}
