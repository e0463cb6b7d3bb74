package database

import (
	"fmt"

	"fintrack/internal/config"
)

// Supported store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds database configuration
type Config struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string
}

// NewConfig builds the database configuration from the application config.
func NewConfig(appConfig *config.Config) (*Config, error) {
	cfg := &Config{
		Driver:     appConfig.DBDriver,
		Host:       appConfig.DBHost,
		Port:       appConfig.DBPort,
		User:       appConfig.DBUser,
		Password:   appConfig.DBPassword,
		DBName:     appConfig.DBName,
		SSLMode:    appConfig.DBSSLMode,
		SQLitePath: appConfig.SQLitePath,
	}

	switch cfg.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (use postgres or sqlite)", cfg.Driver)
	}
	return cfg, nil
}

// DSN returns the connection string understood by the gorm driver.
func (c *Config) DSN() string {
	if c.Driver == DriverSQLite {
		return c.SQLitePath + "?_foreign_keys=on"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// MigrateURL returns the database URL understood by golang-migrate.
func (c *Config) MigrateURL() string {
	if c.Driver == DriverSQLite {
		return "sqlite://" + c.SQLitePath + "?_pragma=foreign_keys(1)"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}
