// Package logquery builds parameterized SQL queries over the token_logs table.
//
// A Builder accumulates validated filter conditions (date range, function
// name, token range, cost range) together with their bound parameters, and
// assembles a single SELECT statement with `?` placeholders consumed strictly
// left to right. The builder never executes queries itself; the (query, args)
// pair is handed to a storage backend.
package logquery

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// ErrInvalidArgument is wrapped by every validation failure reported by this
// package, so callers can detect them with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// baseQuery selects the fixed column set of the token_logs table.
const baseQuery = "SELECT timestamp, function_name, prompt_tokens, completion_tokens, total_tokens, cost, output FROM token_logs"

// sanitizePattern matches the characters stripped from function name filters.
var sanitizePattern = regexp.MustCompile(`['";\\]`)

// Builder incrementally assembles a filtered query over token usage logs.
//
// Conditions and parameters are parallel sequences: each Add method appends
// one condition fragment and its bound values together, or nothing at all on
// validation failure. A Builder is not safe for concurrent use.
type Builder struct {
	conditions []string
	parameters []any
	log        zerolog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used to emit the built query at debug level.
// Without it the builder logs nothing.
func WithLogger(log zerolog.Logger) Option {
	return func(b *Builder) {
		b.log = log
	}
}

// NewBuilder creates an empty Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddDateRange adds a timestamp range filter.
//
// Both bounds must be ISO-8601 date or datetime strings. The bounds are
// passed through as given; no ordering check is performed between them.
//
// Returns the builder for chaining, or an error wrapping ErrInvalidArgument
// if either bound fails to parse.
func (b *Builder) AddDateRange(startDate, endDate string) (*Builder, error) {
	if _, err := parseISODate(startDate); err != nil {
		return b, fmt.Errorf("%w: invalid date format, use ISO format (YYYY-MM-DD): %q", ErrInvalidArgument, startDate)
	}
	if _, err := parseISODate(endDate); err != nil {
		return b, fmt.Errorf("%w: invalid date format, use ISO format (YYYY-MM-DD): %q", ErrInvalidArgument, endDate)
	}

	b.conditions = append(b.conditions, "timestamp BETWEEN ? AND ?")
	b.parameters = append(b.parameters, startDate, endDate)
	return b, nil
}

// AddFunctionFilter adds an equality filter on the function name.
//
// The name is sanitized before binding: quotes, semicolons and backslashes
// are removed and surrounding whitespace trimmed. An empty result after
// sanitization is an error.
func (b *Builder) AddFunctionFilter(functionName string) (*Builder, error) {
	sanitized := sanitizeString(functionName)
	if sanitized == "" {
		return b, fmt.Errorf("%w: invalid function name", ErrInvalidArgument)
	}

	b.conditions = append(b.conditions, "function_name = ?")
	b.parameters = append(b.parameters, sanitized)
	return b, nil
}

// AddTokenRange adds a total_tokens range filter. min must not exceed max.
func (b *Builder) AddTokenRange(minTokens, maxTokens int) (*Builder, error) {
	if minTokens > maxTokens {
		return b, fmt.Errorf("%w: invalid token range: min must be less than or equal to max", ErrInvalidArgument)
	}

	b.conditions = append(b.conditions, "total_tokens BETWEEN ? AND ?")
	b.parameters = append(b.parameters, minTokens, maxTokens)
	return b, nil
}

// AddCostRange adds a cost range filter. min must not exceed max.
func (b *Builder) AddCostRange(minCost, maxCost float64) (*Builder, error) {
	if minCost > maxCost {
		return b, fmt.Errorf("%w: invalid cost range: min must be less than or equal to max", ErrInvalidArgument)
	}

	b.conditions = append(b.conditions, "cost BETWEEN ? AND ?")
	b.parameters = append(b.parameters, minCost, maxCost)
	return b, nil
}

// Build assembles the final query and returns it with the bound parameters,
// in placeholder order.
//
// A negative limit is an error. A limit of zero means no LIMIT clause at all;
// a positive limit adds "LIMIT ?" and appends the limit value to the
// builder's own parameter sequence, after all filter parameters. Because the
// parameter sequence is shared with the builder, calling Build again with a
// positive limit appends another limit parameter.
func (b *Builder) Build(limit int) (string, []any, error) {
	if limit < 0 {
		return "", nil, fmt.Errorf("%w: limit must be a positive number", ErrInvalidArgument)
	}

	var sb strings.Builder
	sb.WriteString(baseQuery)

	if len(b.conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.conditions, " AND "))
	}

	sb.WriteString(" ORDER BY timestamp DESC")

	if limit > 0 {
		sb.WriteString(" LIMIT ?")
		b.parameters = append(b.parameters, limit)
	}

	query := sb.String()
	b.log.Debug().
		Str("query", query).
		Interface("parameters", b.parameters).
		Msg("built log query")

	return query, b.parameters, nil
}

// sanitizeString removes quote, semicolon and backslash characters and trims
// surrounding whitespace.
func sanitizeString(value string) string {
	return strings.TrimSpace(sanitizePattern.ReplaceAllString(value, ""))
}
