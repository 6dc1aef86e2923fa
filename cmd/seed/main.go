package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/MateusMartins/projetoPOS/config"
	"github.com/MateusMartins/projetoPOS/internal/application"
	pginfra "github.com/MateusMartins/projetoPOS/internal/infrastructure/postgres"
	"github.com/MateusMartins/projetoPOS/pkg/helpers"
)

// Seeds one account from SEED_NAME, SEED_USERNAME, SEED_EMAIL and SEED_PASSWORD.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	in := application.RegisterInput{
		Name:     os.Getenv("SEED_NAME"),
		Username: os.Getenv("SEED_USERNAME"),
		Email:    os.Getenv("SEED_EMAIL"),
		Password: os.Getenv("SEED_PASSWORD"),
	}
	in.Confirm = in.Password
	if in.Username == "" || in.Password == "" {
		logger.Fatal("SEED_USERNAME and SEED_PASSWORD must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 0, time.Minute)
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	db := pginfra.OpenDB(pool)
	defer func() { _ = db.Close() }()

	if err := pginfra.RunMigrations(db, cfg.MigrationsDir, logger); err != nil {
		logger.Fatalf("migrations: %v", err)
	}

	// Register never touches sessions or mail.
	auth := application.NewAuthService(pginfra.NewUserRepository(db), nil, nil, logger, cfg.AppName, cfg.BaseURL)
	if err := auth.Register(ctx, in); err != nil {
		var verr *application.ValidationError
		if errors.As(err, &verr) {
			logger.WithField("fields", verr.Fields).Fatal("seed user rejected")
		}
		logger.Fatalf("failed to seed user: %v", err)
	}
	logger.WithField("username", in.Username).Info("seeded user")
}
