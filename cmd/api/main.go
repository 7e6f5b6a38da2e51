package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/stackdeals/deals-api/internal/auth"
	"github.com/stackdeals/deals-api/internal/config"
	httphandler "github.com/stackdeals/deals-api/internal/delivery/http"
	"github.com/stackdeals/deals-api/internal/delivery/kafka"
	"github.com/stackdeals/deals-api/internal/domain"
	"github.com/stackdeals/deals-api/internal/notify"
	"github.com/stackdeals/deals-api/internal/repository"
	"github.com/stackdeals/deals-api/internal/usecase"
)

func main() {
	cfg := config.Load()

	pool, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := repository.RunMigrations(pool, "db/migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	store := repository.New(pool)
	if err := seedAdmin(context.Background(), store, cfg); err != nil {
		log.Printf("Warning: failed to seed admin user: %v", err)
	}
	mailer := newMailer(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var notifier usecase.Notifier
	var producerClient, workerClient, retryClient *kgo.Client

	if cfg.EventDrivenEnabled == "true" {
		brokers := strings.Split(cfg.KafkaBrokers, ",")

		producerClient, err = kgo.NewClient(
			kgo.SeedBrokers(brokers...),
			kgo.ClientID(cfg.KafkaClientID),
		)
		if err != nil {
			log.Fatalf("Failed to create kafka producer: %v", err)
		}

		if err := kafka.EnsureTopics(ctx, producerClient, cfg); err != nil {
			log.Printf("Warning: failed to ensure topics: %v", err)
		}

		notifier = kafka.NewOutbox(producerClient, cfg.BaseURL)

		workerClient, err = newConsumerClient(brokers, cfg.KafkaClientID+"-worker", cfg.KafkaGroupID, kafka.TopicEmailSend)
		if err != nil {
			log.Fatalf("Failed to create kafka worker client: %v", err)
		}
		worker := kafka.NewWorker(workerClient, mailer)
		go worker.Start(ctx)

		retryClient, err = newConsumerClient(brokers, cfg.KafkaClientID+"-retry", cfg.KafkaRetryGroupID, kafka.TopicEmailRetry)
		if err != nil {
			log.Fatalf("Failed to create kafka retry client: %v", err)
		}
		retryWorker := kafka.NewWorker(retryClient, mailer)
		go retryWorker.StartRetry(ctx)
	} else {
		notifier = kafka.NewDirectNotifier(mailer, cfg.BaseURL)
	}

	audit := usecase.NewAuditLog(store)
	sessionTTL := time.Duration(cfg.SessionTTL()) * time.Hour
	users := usecase.NewUserService(store, notifier, sessionTTL)
	deals := usecase.NewDealService(store, audit)
	claims := usecase.NewClaimService(store, notifier, audit)
	admin := usecase.NewAdminService(store, notifier, audit)

	handler := httphandler.NewHandler(users, deals, claims, admin)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	handler.Routes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("Starting server on port %s", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}

	if producerClient != nil {
		producerClient.Close()
	}
	if workerClient != nil {
		workerClient.Close()
	}
	if retryClient != nil {
		retryClient.Close()
	}

	wg.Wait()
	log.Println("Shutdown complete")
}

func initDB(cfg *config.Config) (*pgxpool.Pool, error) {
	connStr := fmt.Sprintf(
		"postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBSSLMode,
	)

	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return pool, nil
}

// seedAdmin creates the bootstrap admin account when ADMIN_EMAIL and
// ADMIN_PASSWORD are set and no account with that email exists yet.
func seedAdmin(ctx context.Context, store repository.Store, cfg *config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}
	if _, err := store.GetUserByEmail(ctx, cfg.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	admin := &domain.User{
		ID:                 uuid.NewString(),
		Email:              cfg.AdminEmail,
		PasswordHash:       hash,
		FirstName:          "Admin",
		LastName:           "User",
		Role:               domain.RoleAdmin,
		IsEmailVerified:    true,
		KYCStatus:          domain.KYCApproved,
		EmailNotifications: true,
		CreatedAt:          time.Now().UTC(),
	}
	if err := store.CreateUser(ctx, admin); err != nil {
		return err
	}
	log.Printf("Seeded admin user %s", cfg.AdminEmail)
	return nil
}

func newMailer(cfg *config.Config) notify.Mailer {
	if cfg.MailerKind == "smtp" {
		return notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
	}
	return notify.LogMailer{}
}

func newConsumerClient(brokers []string, clientID, groupID string, topics ...string) (*kgo.Client, error) {
	return kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ClientID(clientID),
		kgo.ConsumerGroup(groupID),
		kgo.ConsumeTopics(topics...),
		kgo.DisableAutoCommit(),
	)
}
