package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/orgball2608/elixir/migrations"
	"github.com/orgball2608/elixir/pkg/config"
	"github.com/pressly/goose/v3"
)

// Open returns a database/sql handle for goose, which does not speak pgx pools.
func Open(cfg *config.Config) (*sql.DB, error) {
	conn, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	if err = conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return conn, nil
}

// Migrate applies every pending migration.
func Migrate(cfg *config.Config) error {
	return Run(cfg, "up")
}

// Run executes a goose command against the embedded migrations.
func Run(cfg *config.Config, command string) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	conn, err := Open(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	switch command {
	case "up":
		return goose.Up(conn, ".")
	case "down":
		return goose.Down(conn, ".")
	case "status":
		return goose.Status(conn, ".")
	case "reset":
		return goose.Reset(conn, ".")
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
}
