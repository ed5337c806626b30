package core

import (
	"github.com/tokentrace/tokentrace-go/pkg/storage"
)

// TokenLog is the recorded form of a single LLM call.
//
// It aliases the storage type so callers work with one record type across
// the client and the backends.
type TokenLog = storage.TokenLog

// Usage holds the token counts of a single LLM call.
type Usage struct {
	// PromptTokens is the number of tokens in the prompt.
	PromptTokens int

	// CompletionTokens is the number of tokens in the completion.
	CompletionTokens int

	// TotalTokens is the total token count. When zero it is derived as
	// PromptTokens + CompletionTokens.
	TotalTokens int
}

// Summary aggregates a set of token log records.
type Summary struct {
	// Calls is the number of records summarized.
	Calls int

	// PromptTokens is the summed prompt token count.
	PromptTokens int

	// CompletionTokens is the summed completion token count.
	CompletionTokens int

	// TotalTokens is the summed total token count.
	TotalTokens int

	// Cost is the summed cost in USD.
	Cost float64
}

// Summarize totals a set of records, typically the result of Query.
func Summarize(logs []*TokenLog) Summary {
	var s Summary
	for _, rec := range logs {
		s.Calls++
		s.PromptTokens += rec.PromptTokens
		s.CompletionTokens += rec.CompletionTokens
		s.TotalTokens += rec.TotalTokens
		s.Cost += rec.Cost
	}
	return s
}
