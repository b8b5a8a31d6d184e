package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lineage-workers/internal/common/config"

	_ "github.com/lib/pq"
)

type PostgresClient struct {
	DB *sql.DB
}

func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// ConnectWithRetry opens the pool and pings it until it answers or attempts
// run out, doubling the wait between tries.
func ConnectWithRetry(ctx context.Context, cfg config.PostgresConfig, attempts int, backoff time.Duration) (*PostgresClient, error) {
	client, err := NewPostgres(cfg)
	if err != nil {
		return nil, err
	}

	for i := 1; ; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = client.Ping(pingCtx)
		cancel()
		if err == nil {
			return client, nil
		}
		if i >= attempts {
			_ = client.Close()
			return nil, fmt.Errorf("postgres not reachable after %d attempts: %w", attempts, err)
		}

		select {
		case <-ctx.Done():
			_ = client.Close()
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

func (c *PostgresClient) GetDB() *sql.DB {
	return c.DB
}
