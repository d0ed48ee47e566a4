package archive

import (
	"fmt"
	"sort"
	"strings"

	"github.com/entrhq/chronicle/pkg/archive/tier"
	"github.com/entrhq/chronicle/pkg/types"
)

// contextSummaryCount is how many of the newest summaries an injected block
// draws from.
const contextSummaryCount = 2

// maxWidenSteps caps interval widening so the shift can never overflow.
const maxWidenSteps = 20

// ContextForPrompt composes the history block to inject before the
// generation call for the given turn. The second return is false when the
// turn is off the injection boundary or no history has been archived yet;
// absence and empty text are distinct outcomes.
//
// The computation is deterministic and mutates nothing, so repeated calls
// for the same turn return the same result.
func (a *Archive) ContextForPrompt(turn int) (string, bool) {
	if turn <= 0 || turn%a.effectiveInterval(turn) != 0 {
		return "", false
	}
	summaries := a.store.Summaries()
	if len(summaries) == 0 {
		return "", false
	}

	if len(summaries) > contextSummaryCount {
		summaries = summaries[len(summaries)-contextSummaryCount:]
	}
	// Deep-copy event lists: truncation below trims them in place.
	for i := range summaries {
		summaries[i].MajorEvents = append([]string(nil), summaries[i].MajorEvents...)
	}

	text := a.formatContext(summaries)
	tokens := a.counter.CountTokens(text)
	for tokens > a.cfg.MaxContextTokens {
		if !dropOldestEvent(summaries) {
			break
		}
		text = a.formatContext(summaries)
		tokens = a.counter.CountTokens(text)
	}

	a.emit(types.NewContextInjectedEvent(turn, tokens))
	return text, true
}

// effectiveInterval returns the injection interval for the given turn. With
// widening enabled the interval doubles every InjectionWidenEvery turns, so
// injected volume stays roughly constant as summaries accumulate.
func (a *Archive) effectiveInterval(turn int) int {
	interval := a.cfg.InjectionInterval
	if a.cfg.InjectionWidenEvery <= 0 {
		return interval
	}
	steps := turn / a.cfg.InjectionWidenEvery
	if steps > maxWidenSteps {
		steps = maxWidenSteps
	}
	return interval << steps
}

// dropOldestEvent removes the oldest major event across the candidate
// summaries, oldest summary first. Returns false when nothing is left to
// drop; the block is then injected over budget rather than omitted.
func dropOldestEvent(summaries []tier.Summary) bool {
	for i := range summaries {
		if len(summaries[i].MajorEvents) > 0 {
			summaries[i].MajorEvents = summaries[i].MajorEvents[1:]
			return true
		}
	}
	return false
}

// formatContext renders summaries as short labeled sections, oldest first,
// followed by an explicit statement of the current threat trend.
func (a *Archive) formatContext(summaries []tier.Summary) string {
	var b strings.Builder
	for _, sum := range summaries {
		fmt.Fprintf(&b, "=== turns %d-%d ===\n", sum.Start(), sum.End())
		for _, event := range sum.MajorEvents {
			fmt.Fprintf(&b, "- %s\n", event)
		}
		for _, id := range sortedActorIDs(sum.ActorSnapshots) {
			b.WriteString(formatActorLine(id, sum.ActorSnapshots[id]))
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "Threat trend: %s.", a.trend())
	return b.String()
}

func formatActorLine(id string, status types.ActorStatus) string {
	line := fmt.Sprintf("%s: health %d, morale %d", id, status.Health, status.Morale)
	if status.Condition != "" {
		line += ", " + status.Condition
	}
	if status.Location != "" {
		line += " @ " + status.Location
	}
	return line
}

func sortedActorIDs(actors map[string]types.ActorStatus) []string {
	ids := make([]string, 0, len(actors))
	for id := range actors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
