// Package mysql provides the MySQL implementation of the token log store.
//
// The driver uses `?` placeholders natively, so builder-produced queries run
// unchanged.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/tokentrace/tokentrace-go/pkg/storage"
)

// Client implements LogStore using MySQL as the backend.
type Client struct {
	db *sql.DB
}

// Config contains MySQL configuration.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// NewClient creates a new MySQL log store client.
func NewClient(cfg *Config) (*Client, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("NewMySQLClient: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("NewMySQLClient: %w", err)
	}

	client := &Client{db: db}

	if err := client.initTables(context.Background()); err != nil {
		return nil, err
	}

	return client, nil
}

// initTables initializes the token_logs table.
func (c *Client) initTables(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGINT PRIMARY KEY,
			timestamp DATETIME NOT NULL,
			function_name VARCHAR(255) NOT NULL,
			prompt_tokens INT NOT NULL DEFAULT 0,
			completion_tokens INT NOT NULL DEFAULT 0,
			total_tokens INT NOT NULL DEFAULT 0,
			cost DOUBLE NOT NULL DEFAULT 0,
			output TEXT,
			INDEX idx_timestamp (timestamp),
			INDEX idx_function (function_name)
		)
	`, storage.TableName)

	_, err := c.db.ExecContext(ctx, query)
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
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
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

// Query executes a builder-produced SELECT and scans the fixed column set.
func (c *Client) Query(ctx context.Context, query string, args ...any) ([]*storage.TokenLog, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
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
	query := fmt.Sprintf("DELETE FROM %s WHERE timestamp < ?", storage.TableName)

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
