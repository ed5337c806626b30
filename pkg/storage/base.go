// Package storage provides interfaces and types for token log storage backends.
//
// It defines the LogStore interface that all storage implementations must
// satisfy, along with the TokenLog record type.
package storage

import (
	"context"
	"time"
)

// TableName is the fixed table every backend stores token logs in.
const TableName = "token_logs"

// TokenLog is a single recorded LLM call.
//
// This type is defined in the storage package to avoid circular dependencies
// with the core package.
type TokenLog struct {
	// ID is the unique identifier of the record.
	ID int64

	// Timestamp is when the call happened.
	Timestamp time.Time

	// FunctionName identifies the application function that made the call.
	FunctionName string

	// PromptTokens is the number of tokens in the prompt.
	PromptTokens int

	// CompletionTokens is the number of tokens in the completion.
	CompletionTokens int

	// TotalTokens is the total token count for the call.
	TotalTokens int

	// Cost is the call cost in USD.
	Cost float64

	// Output is the model output captured for the call.
	Output string
}

// LogStore is implemented by every database backend.
//
// Query executes a SELECT produced by the logquery builder. The builder emits
// `?` placeholders; backends whose driver uses numbered placeholders rewrite
// the query before execution. Scanned records carry the builder's fixed
// column set, so ID is not populated by Query.
type LogStore interface {
	// Insert stores one token log record.
	Insert(ctx context.Context, rec *TokenLog) error

	// Query executes a builder-produced SELECT over the token_logs table.
	Query(ctx context.Context, query string, args ...any) ([]*TokenLog, error)

	// PurgeBefore deletes records older than cutoff and reports how many
	// were removed.
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases the underlying database connection.
	Close() error
}
