package core_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	openai "github.com/sashabaranov/go-openai"

	"github.com/tokentrace/tokentrace-go/pkg/core"
	"github.com/tokentrace/tokentrace-go/pkg/logquery"
)

func setupClient(t *testing.T) *core.Client {
	cfg := &core.Config{
		Model: "gpt-4",
		Store: core.StoreConfig{
			Provider: "sqlite",
			Config: map[string]interface{}{
				"db_path": filepath.Join(t.TempDir(), "tokentrace_test.db"),
			},
		},
	}

	client, err := core.NewClient(cfg)
	require.NoError(t, err)
	require.NotNil(t, client)

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}

func TestClientTrack(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	usage := core.Usage{PromptTokens: 1000, CompletionTokens: 500}

	rec, err := client.Track(ctx, "summarize", usage, "a short summary")
	require.NoError(t, err)

	assert.NotZero(t, rec.ID)
	assert.Equal(t, "summarize", rec.FunctionName)
	assert.Equal(t, 1000, rec.PromptTokens)
	assert.Equal(t, 500, rec.CompletionTokens)
	assert.Equal(t, 1500, rec.TotalTokens)
	// gpt-4 default model pricing: 1000/1000*0.03 + 500/1000*0.06
	assert.InDelta(t, 0.06, rec.Cost, 1e-9)
	assert.Equal(t, "a short summary", rec.Output)
	assert.False(t, rec.Timestamp.IsZero())
}

func TestClientTrackExplicitCost(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	rec, err := client.Track(ctx, "embed", core.Usage{TotalTokens: 300}, "", core.WithCost(0.009))
	require.NoError(t, err)

	assert.Equal(t, 300, rec.TotalTokens)
	assert.Equal(t, 0.009, rec.Cost)
}

func TestClientTrackEmptyFunction(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	_, err := client.Track(ctx, "", core.Usage{TotalTokens: 10}, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidInput))
}

func TestClientTrackCompletion(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	resp := openai.ChatCompletionResponse{
		Model: "gpt-3.5-turbo",
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: "assistant", Content: "hello there"}},
		},
		Usage: openai.Usage{
			PromptTokens:     200,
			CompletionTokens: 100,
			TotalTokens:      300,
		},
	}

	rec, err := client.TrackCompletion(ctx, "chat", resp)
	require.NoError(t, err)

	assert.Equal(t, 300, rec.TotalTokens)
	assert.Equal(t, "hello there", rec.Output)
	// gpt-3.5-turbo pricing: 200/1000*0.0005 + 100/1000*0.0015
	assert.InDelta(t, 0.00025, rec.Cost, 1e-9)
}

func TestClientQueryFilters(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	ts := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	seed := []struct {
		function string
		usage    core.Usage
		cost     float64
	}{
		{function: "summarize", usage: core.Usage{PromptTokens: 800, CompletionTokens: 200}, cost: 0.05},
		{function: "summarize", usage: core.Usage{PromptTokens: 80, CompletionTokens: 20}, cost: 0.005},
		{function: "chat", usage: core.Usage{PromptTokens: 4000, CompletionTokens: 1000}, cost: 0.25},
	}
	for i, s := range seed {
		_, err := client.Track(ctx, s.function, s.usage, "",
			core.WithCost(s.cost),
			core.WithTimestamp(ts.Add(time.Duration(i)*time.Hour)),
		)
		require.NoError(t, err)
	}

	// No filters returns everything.
	logs, err := client.Query(ctx)
	require.NoError(t, err)
	assert.Len(t, logs, 3)

	// Function filter.
	logs, err = client.Query(ctx, core.WithFunction("summarize"))
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	// Token range.
	logs, err = client.Query(ctx, core.WithTokenRange(500, 2000))
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 1000, logs[0].TotalTokens)

	// Cost range.
	logs, err = client.Query(ctx, core.WithCostRange(0.1, 1.0))
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "chat", logs[0].FunctionName)

	// Date range spanning the seeded records.
	logs, err = client.Query(ctx, core.WithDateRange("2024-01-01", "2025-01-01"))
	require.NoError(t, err)
	assert.Len(t, logs, 3)

	// Limit.
	logs, err = client.Query(ctx, core.WithLimit(2))
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestClientQueryInvalidFilters(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	_, err := client.Query(ctx, core.WithTokenRange(100, 10))
	require.Error(t, err)
	assert.True(t, errors.Is(err, logquery.ErrInvalidArgument))

	_, err = client.Query(ctx, core.WithDateRange("not-a-date", "2024-01-01"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, logquery.ErrInvalidArgument))

	// Half-open date ranges are rejected before the builder runs.
	_, err = client.Query(ctx, core.WithDateRange("2024-01-01", ""))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidInput))

	_, err = client.Query(ctx, core.WithLimit(-5))
	require.Error(t, err)
	assert.True(t, errors.Is(err, logquery.ErrInvalidArgument))
}

func TestClientPurgeBefore(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	old := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := client.Track(ctx, "old_call", core.Usage{TotalTokens: 10}, "", core.WithTimestamp(old))
	require.NoError(t, err)
	_, err = client.Track(ctx, "recent_call", core.Usage{TotalTokens: 10}, "", core.WithTimestamp(recent))
	require.NoError(t, err)

	deleted, err := client.PurgeBefore(ctx, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	logs, err := client.Query(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "recent_call", logs[0].FunctionName)
}

func TestSummarize(t *testing.T) {
	logs := []*core.TokenLog{
		{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150, Cost: 0.01},
		{PromptTokens: 200, CompletionTokens: 100, TotalTokens: 300, Cost: 0.02},
	}

	s := core.Summarize(logs)

	assert.Equal(t, 2, s.Calls)
	assert.Equal(t, 300, s.PromptTokens)
	assert.Equal(t, 150, s.CompletionTokens)
	assert.Equal(t, 450, s.TotalTokens)
	assert.InDelta(t, 0.03, s.Cost, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	s := core.Summarize(nil)
	assert.Zero(t, s.Calls)
	assert.Zero(t, s.Cost)
}
