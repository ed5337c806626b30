package core

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/tokentrace/tokentrace-go/pkg/logquery"
	"github.com/tokentrace/tokentrace-go/pkg/pricing"
	"github.com/tokentrace/tokentrace-go/pkg/storage"
	"github.com/tokentrace/tokentrace-go/pkg/storage/mysql"
	"github.com/tokentrace/tokentrace-go/pkg/storage/postgres"
	"github.com/tokentrace/tokentrace-go/pkg/storage/sqlite"
)

// Client records token usage to a log store and queries it back.
//
// A Client is safe to share across goroutines as long as the underlying
// store is; each Query call uses its own builder.
type Client struct {
	// config is the client configuration.
	config *Config

	// store is the log store backend.
	store storage.LogStore

	// node generates unique IDs for records.
	node *snowflake.Node

	// log emits debug output. Disabled unless set with WithLogger.
	log zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger used for debug output, including the built
// query text of every Query call. Logging is a side effect only; a failing
// or absent sink never fails an operation.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a new tokentrace client.
//
// The configuration is validated, the store backend is initialized (creating
// the token_logs table if needed), and any pricing overrides are registered.
func NewClient(cfg *Config, opts ...ClientOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := initStorage(cfg.Store)
	if err != nil {
		return nil, NewTrackerError("NewClient", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, NewTrackerError("NewClient", err)
	}

	for model, p := range cfg.Pricing {
		pricing.Register(model, p)
	}

	client := &Client{
		config: cfg,
		store:  store,
		node:   node,
		log:    zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// initStorage creates the log store backend from configuration.
func initStorage(cfg StoreConfig) (storage.LogStore, error) {
	switch cfg.Provider {
	case "sqlite":
		return sqlite.NewClient(&sqlite.Config{
			DBPath: getStringConfig(cfg.Config, "db_path", "./token_logs.db"),
		})
	case "postgres":
		return postgres.NewClient(&postgres.Config{
			Host:     getStringConfig(cfg.Config, "host", "localhost"),
			Port:     getIntConfig(cfg.Config, "port", 5432),
			User:     getStringConfig(cfg.Config, "user", ""),
			Password: getStringConfig(cfg.Config, "password", ""),
			DBName:   getStringConfig(cfg.Config, "db_name", ""),
			SSLMode:  getStringConfig(cfg.Config, "ssl_mode", "disable"),
		})
	case "mysql":
		return mysql.NewClient(&mysql.Config{
			Host:     getStringConfig(cfg.Config, "host", "localhost"),
			Port:     getIntConfig(cfg.Config, "port", 3306),
			User:     getStringConfig(cfg.Config, "user", ""),
			Password: getStringConfig(cfg.Config, "password", ""),
			DBName:   getStringConfig(cfg.Config, "db_name", ""),
		})
	default:
		return nil, fmt.Errorf("%w: unsupported store provider: %s", ErrInvalidConfig, cfg.Provider)
	}
}

// Track records one LLM call.
//
// The function name must be non-empty. When no explicit cost is given, the
// cost is computed from the pricing table using the option model or the
// client's configured default model. A zero TotalTokens is derived from the
// prompt and completion counts.
//
// Returns the stored record.
func (c *Client) Track(ctx context.Context, functionName string, usage Usage, output string, opts ...TrackOption) (*TokenLog, error) {
	if functionName == "" {
		return nil, NewTrackerError("Track", fmt.Errorf("%w: function name is required", ErrInvalidInput))
	}

	options := ApplyTrackOptions(opts)

	totalTokens := usage.TotalTokens
	if totalTokens == 0 {
		totalTokens = usage.PromptTokens + usage.CompletionTokens
	}

	cost := options.Cost
	if !options.HasCost {
		model := options.Model
		if model == "" {
			model = c.config.Model
		}
		cost = pricing.Cost(model, usage.PromptTokens, usage.CompletionTokens)
	}

	timestamp := options.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	rec := &TokenLog{
		ID:               c.node.Generate().Int64(),
		Timestamp:        timestamp,
		FunctionName:     functionName,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		TotalTokens:      totalTokens,
		Cost:             cost,
		Output:           output,
	}

	if err := c.store.Insert(ctx, rec); err != nil {
		return nil, NewTrackerError("Track", err)
	}

	c.log.Debug().
		Int64("id", rec.ID).
		Str("function", rec.FunctionName).
		Int("total_tokens", rec.TotalTokens).
		Float64("cost", rec.Cost).
		Msg("tracked llm call")

	return rec, nil
}

// TrackCompletion records the usage of an OpenAI chat completion response.
//
// Token counts come from the response Usage block and the output is the
// first choice's message content. The response model is used for cost
// attribution unless overridden with WithModel or WithCost.
func (c *Client) TrackCompletion(ctx context.Context, functionName string, resp openai.ChatCompletionResponse, opts ...TrackOption) (*TokenLog, error) {
	usage := Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}

	var output string
	if len(resp.Choices) > 0 {
		output = resp.Choices[0].Message.Content
	}

	if resp.Model != "" {
		opts = append([]TrackOption{WithModel(resp.Model)}, opts...)
	}

	return c.Track(ctx, functionName, usage, output, opts...)
}

// Query retrieves token log records matching the given filters, newest
// first.
//
// Filters are assembled into a parameterized query by the logquery builder;
// invalid filter values surface as invalid-argument errors before any store
// access. A date range requires both bounds.
func (c *Client) Query(ctx context.Context, opts ...QueryOption) ([]*TokenLog, error) {
	options := ApplyQueryOptions(opts)

	if (options.StartDate == "") != (options.EndDate == "") {
		return nil, NewTrackerError("Query", fmt.Errorf("%w: date range requires both start and end", ErrInvalidInput))
	}

	b := logquery.NewBuilder(logquery.WithLogger(c.log))

	if options.StartDate != "" {
		if _, err := b.AddDateRange(options.StartDate, options.EndDate); err != nil {
			return nil, NewTrackerError("Query", err)
		}
	}
	if options.FunctionName != "" {
		if _, err := b.AddFunctionFilter(options.FunctionName); err != nil {
			return nil, NewTrackerError("Query", err)
		}
	}
	if options.HasTokenRange {
		if _, err := b.AddTokenRange(options.MinTokens, options.MaxTokens); err != nil {
			return nil, NewTrackerError("Query", err)
		}
	}
	if options.HasCostRange {
		if _, err := b.AddCostRange(options.MinCost, options.MaxCost); err != nil {
			return nil, NewTrackerError("Query", err)
		}
	}

	query, params, err := b.Build(options.Limit)
	if err != nil {
		return nil, NewTrackerError("Query", err)
	}

	c.log.Debug().Str("sql", logquery.DebugString(query, params)).Msg("executing log query")

	logs, err := c.store.Query(ctx, query, params...)
	if err != nil {
		return nil, NewTrackerError("Query", err)
	}

	return logs, nil
}

// PurgeBefore deletes records older than cutoff and reports how many were
// removed.
func (c *Client) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	deleted, err := c.store.PurgeBefore(ctx, cutoff)
	if err != nil {
		return 0, NewTrackerError("PurgeBefore", err)
	}

	c.log.Debug().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("purged old records")

	return deleted, nil
}

// Close closes the underlying store.
func (c *Client) Close() error {
	return c.store.Close()
}
