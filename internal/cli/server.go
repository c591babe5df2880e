package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quiz-intake-service/internal/config"
	"quiz-intake-service/internal/domain"
	"quiz-intake-service/internal/infra/memory"
	pgstore "quiz-intake-service/internal/infra/postgres"
	redisinfra "quiz-intake-service/internal/infra/redis"
	"quiz-intake-service/internal/infra/smtp"
	"quiz-intake-service/internal/quiz"
	transport "quiz-intake-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz intake server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader quiz.QuestionStore = memory.NewQuestionStore(sampleQuestions())
	if pool != nil {
		loader = pgstore.NewQuestionStore(pool)
	}

	cacheTTL := config.Duration(cfg.Quiz.CacheTTL, 10*time.Minute)
	var questions quiz.QuestionStore
	if redisClient != nil {
		questions = redisinfra.NewQuestionCache(redisClient, loader, cacheTTL)
	} else {
		questions = memory.NewCachedQuestionStore(loader, cacheTTL)
	}

	var results quiz.ResultStore = memory.NewResultStore()
	if pool != nil {
		results = pgstore.NewResultStore(pool)
	}

	var lock quiz.Locker = memory.NewLock()
	if redisClient != nil {
		lock = redisinfra.NewLock(redisClient, "quiz:submit:lock")
	}

	var notifier quiz.Notifier
	if cfg.SMTP.Host != "" {
		notifier = smtp.NewMailer(smtp.MailerConfig{
			Host:       cfg.SMTP.Host,
			Port:       cfg.SMTP.Port,
			Username:   cfg.SMTP.Username,
			Password:   cfg.SMTP.Password,
			From:       cfg.SMTP.From,
			ReplyTo:    cfg.SMTP.ReplyTo,
			SenderName: cfg.SMTP.SenderName,
		})
	}

	service := quiz.NewService(questions, results, lock, notifier, quiz.Options{
		EmailDomain:      cfg.Quiz.EmailDomain,
		QuestionsPerQuiz: cfg.Quiz.QuestionsPerQuiz,
		PointsPerCorrect: cfg.Quiz.PointsPerCorrect,
		PassScore:        cfg.Quiz.PassScore,
		LockTimeout:      config.Duration(cfg.Quiz.LockTimeout, 10*time.Second),
	})

	expiresAt := config.Time(cfg.Quiz.ExpiresAt, time.Time{})
	handler, err := transport.NewHandler(service, transport.PageConfig{
		Title:     cfg.Quiz.Title,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	handler.Routes(r)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz intake service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuestions provides a minimal dataset so the service runs without
// Postgres; swap in the database-backed store in production.
func sampleQuestions() []domain.QuestionRow {
	return []domain.QuestionRow{
		{
			ID:      1,
			Text:    "What is 2 + 2?",
			Options: [5]string{"3", "4", "5", "6", ""},
			Correct: "B",
		},
		{
			ID:      2,
			Text:    "Which planet is closest to the sun?",
			Options: [5]string{"Venus", "Earth", "Mercury", "Mars", ""},
			Correct: "C",
		},
		{
			ID:      3,
			Text:    "How many days are in a leap year?",
			Options: [5]string{"364", "365", "366", "367", ""},
			Correct: "C",
		},
	}
}
