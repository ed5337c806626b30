package core

import "time"

// TrackOption is a function type for configuring Track operations.
//
// Options are applied using the functional options pattern, allowing
// flexible configuration without requiring all parameters.
type TrackOption func(*TrackOptions)

// TrackOptions contains configuration options for Track operations.
type TrackOptions struct {
	// Model is the model name used for cost attribution. Defaults to the
	// client's configured model.
	Model string

	// Cost is an explicit cost override in USD.
	Cost float64

	// HasCost reports whether Cost was set explicitly.
	HasCost bool

	// Timestamp overrides the record timestamp. Defaults to now.
	Timestamp time.Time
}

// WithModel sets the model used for cost attribution.
//
// Example:
//
//	rec, _ := client.Track(ctx, "summarize", usage, out, core.WithModel("gpt-4o"))
func WithModel(model string) TrackOption {
	return func(opts *TrackOptions) {
		opts.Model = model
	}
}

// WithCost sets an explicit cost, bypassing the pricing table.
func WithCost(cost float64) TrackOption {
	return func(opts *TrackOptions) {
		opts.Cost = cost
		opts.HasCost = true
	}
}

// WithTimestamp sets the record timestamp instead of the current time.
func WithTimestamp(ts time.Time) TrackOption {
	return func(opts *TrackOptions) {
		opts.Timestamp = ts
	}
}

// QueryOption is a function type for configuring Query operations.
type QueryOption func(*QueryOptions)

// QueryOptions contains configuration options for Query operations.
//
// Filters map one-to-one onto the logquery builder: each set filter adds one
// condition, in a fixed order (date range, function, token range, cost
// range).
type QueryOptions struct {
	// StartDate and EndDate bound the timestamp range (ISO-8601 strings).
	// Both must be set together.
	StartDate string
	EndDate   string

	// FunctionName filters on the recorded function name.
	FunctionName string

	// MinTokens and MaxTokens bound the total token count.
	MinTokens     int
	MaxTokens     int
	HasTokenRange bool

	// MinCost and MaxCost bound the cost.
	MinCost      float64
	MaxCost      float64
	HasCostRange bool

	// Limit caps the number of returned records. Zero means no limit.
	Limit int
}

// WithDateRange filters records to a timestamp range.
//
// Example:
//
//	logs, _ := client.Query(ctx, core.WithDateRange("2024-01-01", "2024-01-31"))
func WithDateRange(startDate, endDate string) QueryOption {
	return func(opts *QueryOptions) {
		opts.StartDate = startDate
		opts.EndDate = endDate
	}
}

// WithFunction filters records to one function name.
func WithFunction(functionName string) QueryOption {
	return func(opts *QueryOptions) {
		opts.FunctionName = functionName
	}
}

// WithTokenRange filters records to a total token count range.
func WithTokenRange(minTokens, maxTokens int) QueryOption {
	return func(opts *QueryOptions) {
		opts.MinTokens = minTokens
		opts.MaxTokens = maxTokens
		opts.HasTokenRange = true
	}
}

// WithCostRange filters records to a cost range.
func WithCostRange(minCost, maxCost float64) QueryOption {
	return func(opts *QueryOptions) {
		opts.MinCost = minCost
		opts.MaxCost = maxCost
		opts.HasCostRange = true
	}
}

// WithLimit caps the number of returned records.
func WithLimit(limit int) QueryOption {
	return func(opts *QueryOptions) {
		opts.Limit = limit
	}
}

// ApplyTrackOptions applies the given options and returns the result.
func ApplyTrackOptions(opts []TrackOption) *TrackOptions {
	options := &TrackOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// ApplyQueryOptions applies the given options and returns the result.
func ApplyQueryOptions(opts []QueryOption) *QueryOptions {
	options := &QueryOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}
