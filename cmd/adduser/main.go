// Command adduser creates a user and prints its id and a bearer token.
//
//	adduser -email alice@example.com
package main

import (
	"flag"
	"fmt"
	"os"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/logger"
	"fintrack/internal/middleware"
	"fintrack/internal/services"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(os.Args[1:]); err != nil {
		logger.Get().Fatalf("adduser: %v", err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	email := fs.String("email", "", "email of the new user")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		fs.Usage()
		return fmt.Errorf("-email is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if cfg.RunMigrations {
		if err := dbManager.RunMigrations(); err != nil {
			return fmt.Errorf("failed to run database migrations: %w", err)
		}
	}

	user, err := services.NewUserService(dbManager.DB()).CreateUser(*email)
	if err != nil {
		return err
	}

	token, err := middleware.GenerateAccessToken(user, cfg.JWTSecret, cfg.JWTExpirationDur)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	fmt.Printf("user_id=%d\n", user.ID)
	fmt.Printf("token=%s\n", token)
	return nil
}
