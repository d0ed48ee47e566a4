package tier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/entrhq/chronicle/pkg/types"
)

func TestMergeSummaries(t *testing.T) {
	older := Summary{
		TurnRange:   [2]int{1, 10},
		MajorEvents: []string{"gate fell", "mira wounded"},
		ActorSnapshots: map[string]types.ActorStatus{
			"mira": {Health: 40, Condition: "wounded"},
			"toma": {Health: 90, Condition: "steady"},
		},
		ThreatTrend: types.TrendRising,
	}
	newer := Summary{
		TurnRange:   [2]int{11, 20},
		MajorEvents: []string{"relief arrived"},
		ActorSnapshots: map[string]types.ActorStatus{
			"mira": {Health: 70, Condition: "recovering"},
		},
		ThreatTrend: types.TrendFalling,
	}

	merged := MergeSummaries(older, newer, 0)

	assert.Equal(t, [2]int{1, 20}, merged.TurnRange)
	assert.Equal(t, []string{"gate fell", "mira wounded", "relief arrived"}, merged.MajorEvents)
	assert.Equal(t, 70, merged.ActorSnapshots["mira"].Health, "newer snapshot wins")
	assert.Equal(t, 90, merged.ActorSnapshots["toma"].Health, "actor absent from newer survives")
	assert.Equal(t, types.TrendFalling, merged.ThreatTrend)
}

func TestMergeSummaries_DropsOldestEventsPastCap(t *testing.T) {
	older := Summary{
		TurnRange:   [2]int{1, 5},
		MajorEvents: []string{"a", "b", "c"},
	}
	newer := Summary{
		TurnRange:   [2]int{6, 10},
		MajorEvents: []string{"d", "e"},
	}

	merged := MergeSummaries(older, newer, 3)
	assert.Equal(t, []string{"c", "d", "e"}, merged.MajorEvents)
}

func TestMergeSummaries_TrendFallsBackToOlder(t *testing.T) {
	older := Summary{TurnRange: [2]int{1, 5}, ThreatTrend: types.TrendRising}
	newer := Summary{TurnRange: [2]int{6, 10}}

	merged := MergeSummaries(older, newer, 0)
	assert.Equal(t, types.TrendRising, merged.ThreatTrend)
}

func TestSummary_EstimatedSizeGrowsWithContent(t *testing.T) {
	empty := Summary{TurnRange: [2]int{1, 10}}
	loaded := Summary{
		TurnRange:   [2]int{1, 10},
		MajorEvents: []string{"the eastern bridge collapsed under the retreat"},
		ActorSnapshots: map[string]types.ActorStatus{
			"mira": {Health: 40, Condition: "wounded", Location: "east bank"},
		},
	}
	assert.Greater(t, loaded.EstimatedSize(), empty.EstimatedSize())
}
