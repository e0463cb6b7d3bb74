package main

import (
	"fmt"
	"os"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/events"
	"fintrack/internal/logger"
	"fintrack/internal/server"
	"fintrack/internal/validator"
)

// @title           Fintrack API
// @version         1.0
// @description     Personal finance tracker: budget categories, signed transactions and a monthly summary.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig(appConfig)
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("failed to close database: %v", err)
		}
	}()

	if appConfig.RunMigrations {
		if err := dbManager.RunMigrations(); err != nil {
			return fmt.Errorf("failed to run database migrations: %w", err)
		}
	}

	validator.Register()

	publisher, err := newPublisher(appConfig)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warnf("failed to close event publisher: %v", err)
		}
	}()

	if appConfig.HeaderAuth {
		log.Warn("user-id header identity is enabled; set HEADER_AUTH=false to require bearer tokens")
	}

	router := server.NewRouter(server.Options{
		DB:          dbManager.DB(),
		Publisher:   publisher,
		JWTSecret:   appConfig.JWTSecret,
		HeaderAuth:  appConfig.HeaderAuth,
		FrontendURL: appConfig.FrontendURL,
	})

	log.Infof("Starting fintrack server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

// newPublisher connects to the broker when AMQP_URL is set.
func newPublisher(cfg *config.Config) (events.Publisher, error) {
	if cfg.AMQPURL == "" {
		logger.Get().Info("AMQP_URL not set, audit events stay in the database only")
		return events.NopPublisher{}, nil
	}
	publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to event broker: %w", err)
	}
	logger.Get().Infow("publishing audit events", "exchange", cfg.AMQPExchange)
	return publisher, nil
}
