package logquery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tokentrace/tokentrace-go/pkg/logquery"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no placeholders",
			input: "SELECT 1",
			want:  "SELECT 1",
		},
		{
			name:  "single placeholder",
			input: "SELECT * FROM token_logs WHERE function_name = ?",
			want:  "SELECT * FROM token_logs WHERE function_name = $1",
		},
		{
			name:  "multiple placeholders numbered in order",
			input: "timestamp BETWEEN ? AND ? AND cost BETWEEN ? AND ? LIMIT ?",
			want:  "timestamp BETWEEN $1 AND $2 AND cost BETWEEN $3 AND $4 LIMIT $5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logquery.Rebind(tt.input))
		})
	}
}

func TestDebugString(t *testing.T) {
	query := "function_name = ? AND total_tokens BETWEEN ? AND ? AND cost > ?"
	got := logquery.DebugString(query, []any{"chat", 100, 2000, 0.5})

	assert.Equal(t, "function_name = 'chat' AND total_tokens BETWEEN 100 AND 2000 AND cost > 0.5", got)
}

func TestDebugStringEscapesQuotes(t *testing.T) {
	got := logquery.DebugString("output = ?", []any{"it's fine"})
	assert.Equal(t, "output = 'it''s fine'", got)
}

func TestDebugStringNilAndNoArgs(t *testing.T) {
	assert.Equal(t, "output = NULL", logquery.DebugString("output = ?", []any{nil}))
	assert.Equal(t, "SELECT 1", logquery.DebugString("SELECT 1", nil))
}
