package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCompactionEvent(t *testing.T) {
	ev := NewCompactionEvent(1, 10, 10, 1)
	assert.Equal(t, EventTypeCompaction, ev.Type)
	assert.Equal(t, [2]int{1, 10}, ev.TurnRange)
	assert.Equal(t, 10, ev.Records)
	assert.Equal(t, 1, ev.Summaries)
}

func TestNewSummaryMergeEvent(t *testing.T) {
	ev := NewSummaryMergeEvent(1, 20, 3, 4096, 2048)
	assert.Equal(t, EventTypeSummaryMerge, ev.Type)
	assert.Equal(t, [2]int{1, 20}, ev.TurnRange)
	assert.Equal(t, 3, ev.Summaries)
	assert.Equal(t, 4096, ev.BytesBefore)
	assert.Equal(t, 2048, ev.BytesAfter)
}

func TestNewRecentOverflowEvent(t *testing.T) {
	ev := NewRecentOverflowEvent(1, 4, 4)
	assert.Equal(t, EventTypeRecentOverflow, ev.Type)
	assert.Equal(t, [2]int{1, 4}, ev.TurnRange)
	assert.Equal(t, 4, ev.Records)
}

func TestNewContextInjectedEvent(t *testing.T) {
	ev := NewContextInjectedEvent(30, 412)
	assert.Equal(t, EventTypeContextInjected, ev.Type)
	assert.Equal(t, [2]int{30, 30}, ev.TurnRange)
	assert.Equal(t, 412, ev.Tokens)
}
