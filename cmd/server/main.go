package main

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"healthmate/internal/config"
	"healthmate/internal/diagnosis"
	"healthmate/internal/knowledge"
	"healthmate/internal/platform/telegram"
	"healthmate/internal/report"
	"healthmate/internal/session"
	"healthmate/internal/triage"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	// Static decision tables. A malformed table must stop the process here.
	assessor, err := diagnosis.NewAssessor()
	if err != nil {
		logger.Fatal("loading question trees", zap.Error(err))
	}
	detector := triage.NewDetector(cfg.Scoring.EmergencyPainThreshold)
	scorer := triage.NewScorer(cfg.Scoring)
	engine := triage.NewEngine(detector, assessor, scorer, cfg.Conversation, logger)
	retriever := knowledge.NewMemoryRetriever(knowledge.Corpus())

	// Live-session store.
	var store triage.Store
	switch cfg.Session.Driver {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.Session.RedisAddr})
		store = session.NewRedisStore(client, cfg.Session.TTL)
		logger.Info("using redis session store", zap.String("addr", cfg.Session.RedisAddr))
	default:
		store = session.NewMemoryStore(cfg.Session.TTL)
		logger.Info("using in-memory session store")
	}

	// Optional Postgres archive of completed sessions.
	var archive triage.Archive
	if cfg.Database.DSN != "" {
		db, err := connectDB(cfg.Database.DSN, logger)
		if err != nil {
			logger.Warn("could not connect to database, continuing without archive", zap.Error(err))
		} else {
			runMigrations(cfg, logger)
			archive = triage.NewArchive(db)
			logger.Info("session archive enabled")
		}
	}

	// Optional report collaborators.
	var narrative report.NarrativeClient
	if cfg.OpenAI.APIKey != "" {
		narrative = report.NewOpenAINarrative(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	}
	var notifier report.Notifier
	if cfg.Telegram.BotToken != "" {
		notifier = telegram.NewClient(cfg.Telegram.BotToken)
		if cfg.Telegram.OnCallChatID == 0 {
			logger.Warn("telegram on_call_chat_id not set, red-tier reports will not be dispatched")
		}
	}
	reportSvc := report.NewService(narrative, notifier, cfg.Telegram.OnCallChatID, logger)

	svc := triage.NewService(store, archive, engine, retriever, reportSvc, cfg.Retrieval.TopK, logger)
	handler := triage.NewHandler(svc)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"healthmate"}`))
	})
	r.Route("/api", func(r chi.Router) {
		triage.RegisterRoutes(r, handler)
	})

	logger.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := http.ListenAndServe(":"+cfg.Server.Port, r); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func connectDB(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("postgres", dsn)
		if err == nil {
			err = db.Ping()
		}
		if err == nil {
			return db, nil
		}
		logger.Info("waiting for database", zap.Int("attempt", i+1))
		time.Sleep(2 * time.Second)
	}
	return nil, err
}

func runMigrations(cfg *config.Config, logger *zap.Logger) {
	m, err := migrate.New(cfg.Database.MigrationsPath, cfg.Database.DSN)
	if err != nil {
		logger.Warn("migration init failed", zap.Error(err))
		return
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		logger.Warn("migration up failed", zap.Error(err))
		return
	}
	logger.Info("migrations applied")
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")
		if r.Method == http.MethodOptions {
			return
		}
		next.ServeHTTP(w, r)
	})
}
