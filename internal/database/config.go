package database

import (
	"fmt"
	"time"

	"github.com/lawnchairsociety/roomforge/internal/config"
)

// Config holds database connection configuration.
type Config struct {
	// Driver is "sqlite" or "postgres"
	Driver string

	SQLitePath string

	Postgres PostgresConfig
}

// PostgresConfig holds PostgreSQL-specific configuration.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns the lib/pq connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// DefaultConfig returns a SQLite Config for the given path.
func DefaultConfig(sqlitePath string) Config {
	return Config{
		Driver:     string(DialectSQLite),
		SQLitePath: sqlitePath,
	}
}

// DefaultPostgresConfig returns PostgresConfig with recommended pool settings.
func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Host:            "localhost",
		Port:            5432,
		SSLMode:         "disable",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// ConfigFromArchive converts the archive section of the application config.
func ConfigFromArchive(ac config.ArchiveConfig) Config {
	pg := DefaultPostgresConfig()
	pg.Host = ac.Postgres.Host
	pg.Port = ac.Postgres.Port
	pg.User = ac.Postgres.User
	pg.Password = ac.Postgres.Password
	pg.Database = ac.Postgres.Database
	if ac.Postgres.SSLMode != "" {
		pg.SSLMode = ac.Postgres.SSLMode
	}
	return Config{
		Driver:     ac.Driver,
		SQLitePath: ac.SQLitePath,
		Postgres:   pg,
	}
}
