// Package sqlite provides the SQLite implementation of the token log store.
//
// SQLite is a lightweight, file-based database suitable for local development
// and single-host applications. Timestamps are stored in a DATETIME column
// and converted by the driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/tokentrace/tokentrace-go/pkg/storage"
)

// Client implements LogStore using SQLite as the backend.
type Client struct {
	db *sql.DB
}

// Config contains configuration for creating a SQLite log store.
type Config struct {
	// DBPath is the path to the SQLite database file.
	DBPath string
}

// NewClient creates a new SQLite log store client.
//
// The parent directory of the database file is created if missing, and the
// token_logs table is initialized on first use.
func NewClient(cfg *Config) (*Client, error) {
	dbDir := filepath.Dir(cfg.DBPath)
	if dbDir != "" && dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("NewSQLiteClient: failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("NewSQLiteClient: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("NewSQLiteClient: %w", err)
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
			id INTEGER PRIMARY KEY,
			timestamp DATETIME NOT NULL,
			function_name TEXT NOT NULL,
			prompt_tokens INTEGER NOT NULL DEFAULT 0,
			completion_tokens INTEGER NOT NULL DEFAULT 0,
			total_tokens INTEGER NOT NULL DEFAULT 0,
			cost REAL NOT NULL DEFAULT 0,
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

	indexQuery = fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS idx_%s_function ON %s(function_name)
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
		rec, err := scanTokenLog(rows)
		if err != nil {
			return nil, fmt.Errorf("Query: %w", err)
		}
		logs = append(logs, rec)
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

// scanTokenLog scans one record from the fixed column set
// (timestamp, function_name, prompt_tokens, completion_tokens, total_tokens, cost, output).
func scanTokenLog(rows *sql.Rows) (*storage.TokenLog, error) {
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
		return nil, err
	}

	if output.Valid {
		rec.Output = output.String
	}

	return &rec, nil
}
