// Package tokenizer provides client-side token counting for sizing injected
// history blocks against the model's context budget.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Counter counts tokens in text. The archive depends on this interface so the
// core never has to initialize an encoding (tiktoken fetches its encoding
// files on first use).
type Counter interface {
	CountTokens(text string) int
}

// Tokenizer counts tokens using the cl100k_base encoding.
type Tokenizer struct {
	encoding *tiktoken.Tiktoken
}

// New creates a tokenizer with the cl100k_base encoding. Initialization can
// fail when the encoding files are unavailable; callers should fall back to
// NewApproximate in that case.
func New() (*Tokenizer, error) {
	encoding, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("tokenizer: failed to get encoding: %w", err)
	}
	return &Tokenizer{encoding: encoding}, nil
}

// CountTokens returns the number of tokens in the given text.
func (t *Tokenizer) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(t.encoding.Encode(text, nil, nil))
}

// Approximate is a heuristic counter for use when the real encoding cannot be
// initialized. It assumes roughly four characters per token, which slightly
// overestimates English prose and keeps budget checks conservative.
type Approximate struct{}

// NewApproximate creates the fallback counter.
func NewApproximate() Approximate {
	return Approximate{}
}

// CountTokens estimates the number of tokens in the given text.
func (Approximate) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + 3) / 4
}
