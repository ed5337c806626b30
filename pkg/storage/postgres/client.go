// Package postgres provides the PostgreSQL implementation of the token log store.
//
// lib/pq uses numbered placeholders, so builder-produced queries are rebound
// from `?` to `$n` markers before execution.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/tokentrace/tokentrace-go/pkg/logquery"
	"github.com/tokentrace/tokentrace-go/pkg/storage"
)

// Client implements LogStore using PostgreSQL as the backend.
type Client struct {
	db *sql.DB
}

// Config contains PostgreSQL configuration.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// NewClient creates a new PostgreSQL log store client.
func NewClient(cfg *Config) (*Client, error) {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, sslMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("NewPostgresClient: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("NewPostgresClient: %w", err)
	}

	client := &Client{db: db}

	if err := client.initTables(context.Background()); err != nil {
		return nil, err
	}

	return client, nil
}

// initTables initializes the token_logs table and its indexes.
func (c *Client) initTables(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGINT PRIMARY KEY,
			timestamp TIMESTAMP NOT NULL,
			function_name VARCHAR(255) NOT NULL,
			prompt_tokens INTEGER NOT NULL DEFAULT 0,
			completion_tokens INTEGER NOT NULL DEFAULT 0,
			total_tokens INTEGER NOT NULL DEFAULT 0,
			cost DOUBLE PRECISION NOT NULL DEFAULT 0,
			output TEXT
		)
	`, storage.TableName)

	_, err := c.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("initTables: %w", err)
	}

	indexQuery := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS idx_%s_timestamp ON %s(timestamp)
	`, storage.TableName, storage.TableName)
	_, err = c.db.ExecContext(ctx, indexQuery)
	if err != nil {
		return fmt.Errorf("initTables: %w", err)
	}

	return nil
}

// Insert stores one token log record.
func (c *Client) Insert(ctx context.Context, rec *storage.TokenLog) error {
	query := fmt.Sprintf(`
		INSERT INTO %s
		(id, timestamp, function_name, prompt_tokens, completion_tokens, total_tokens, cost, output)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, storage.TableName)

	_, err := c.db.ExecContext(ctx, query,
		rec.ID,
		rec.Timestamp,
		rec.FunctionName,
		rec.PromptTokens,
		rec.CompletionTokens,
		rec.TotalTokens,
		rec.Cost,
		rec.Output,
	)

	if err != nil {
		return fmt.Errorf("Insert: %w", err)
	}

	return nil
}

// Query executes a builder-produced SELECT after rebinding its placeholders.
func (c *Client) Query(ctx context.Context, query string, args ...any) ([]*storage.TokenLog, error) {
	rows, err := c.db.QueryContext(ctx, logquery.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("Query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var logs []*storage.TokenLog
	for rows.Next() {
		var rec storage.TokenLog
		var output sql.NullString

		err := rows.Scan(
			&rec.Timestamp,
			&rec.FunctionName,
			&rec.PromptTokens,
			&rec.CompletionTokens,
			&rec.TotalTokens,
			&rec.Cost,
			&output,
		)
		if err != nil {
			return nil, fmt.Errorf("Query: %w", err)
		}

		if output.Valid {
			rec.Output = output.String
		}
		logs = append(logs, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Query: %w", err)
	}

	return logs, nil
}

// PurgeBefore deletes records older than cutoff.
func (c *Client) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE timestamp < $1", storage.TableName)

	result, err := c.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("PurgeBefore: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("PurgeBefore: %w", err)
	}

	return deleted, nil
}

// Close closes the database connection.
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
