package archive

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/chronicle/pkg/types"
)

func TestContextForPrompt_Cadence(t *testing.T) {
	a := New(testConfig())
	playSession(t, a, 40)

	for turn := 1; turn <= 40; turn++ {
		_, ok := a.ContextForPrompt(turn)
		if turn%10 == 0 {
			assert.Truef(t, ok, "turn %d is a boundary", turn)
		} else {
			assert.Falsef(t, ok, "turn %d is off-boundary", turn)
		}
	}
}

func TestContextForPrompt_AbsentWithoutSummaries(t *testing.T) {
	a := New(Config{CompactionInterval: 50, InjectionInterval: 5, MinEventLength: 20})
	playSession(t, a, 5)

	_, ok := a.ContextForPrompt(5)
	assert.False(t, ok, "boundary turn with nothing archived yields absence")

	_, ok = a.ContextForPrompt(0)
	assert.False(t, ok)
}

func TestContextForPrompt_Idempotent(t *testing.T) {
	a := New(testConfig())
	playSession(t, a, 30)

	first, ok := a.ContextForPrompt(30)
	require.True(t, ok)
	for i := 0; i < 5; i++ {
		again, ok := a.ContextForPrompt(30)
		require.True(t, ok)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, 30, a.LastTurn(), "retrieval must not mutate the archive")
}

func TestContextForPrompt_Content(t *testing.T) {
	a := New(testConfig())
	playSession(t, a, 30)

	text, ok := a.ContextForPrompt(30)
	require.True(t, ok)

	// Newest two summaries as labeled sections, oldest block dropped.
	assert.NotContains(t, text, "=== turns 1-10 ===")
	assert.Contains(t, text, "=== turns 11-20 ===")
	assert.Contains(t, text, "=== turns 21-30 ===")
	assert.Contains(t, text, "mira: health")
	assert.Contains(t, text, "Threat trend: ")
	assert.True(t, strings.HasSuffix(text, "."))
}

func TestContextForPrompt_TokenCeilingDropsOldestFirst(t *testing.T) {
	cfg := testConfig()
	cfg.MaxContextTokens = 60
	a := New(cfg)
	playSession(t, a, 20)

	text, ok := a.ContextForPrompt(20)
	require.True(t, ok)

	// Events from the older block go before the newer block loses any.
	assert.NotContains(t, text, "a long skirmish unfolds across turn 1\n")
	assert.Contains(t, text, "=== turns 1-10 ===", "sections are truncated, never omitted wholesale")
	assert.Contains(t, text, "=== turns 11-20 ===")
	assert.Contains(t, text, "a long skirmish unfolds across turn 20")
}

func TestContextForPrompt_WideningInterval(t *testing.T) {
	cfg := testConfig()
	cfg.InjectionInterval = 10
	cfg.InjectionWidenEvery = 40
	a := New(cfg)
	playSession(t, a, 80)

	// Below the widening threshold the base interval applies.
	_, ok := a.ContextForPrompt(30)
	assert.True(t, ok)

	// From turn 40 the effective interval is 20; from turn 80 it is 40.
	_, ok = a.ContextForPrompt(50)
	assert.False(t, ok)
	_, ok = a.ContextForPrompt(60)
	assert.True(t, ok)
	_, ok = a.ContextForPrompt(80)
	assert.True(t, ok)
}

func TestContextForPrompt_EmitsInjectionEvent(t *testing.T) {
	a := New(testConfig())
	playSession(t, a, 20)

	events := make(chan *types.ArchiveEvent, 8)
	a.SetEventChannel(events)

	_, ok := a.ContextForPrompt(20)
	require.True(t, ok)

	require.Len(t, events, 1)
	ev := <-events
	assert.Equal(t, types.EventTypeContextInjected, ev.Type)
	assert.Equal(t, [2]int{20, 20}, ev.TurnRange)
	assert.Greater(t, ev.Tokens, 0)
}
