// Package timeline tracks slow-moving signals across turns: the global threat
// level and per-actor status. Trackers observe every recorded turn and answer
// aggregate questions at compaction time; they never retain full turn records.
package timeline

// ThreatPoint is one observed threat level.
type ThreatPoint struct {
	// Turn is the turn the level was observed on.
	Turn int `yaml:"turn" json:"turn"`

	// Value is the threat level in [0, 1].
	Value float64 `yaml:"value" json:"value"`
}

// trendEpsilon is the minimum difference between window halves for the trend
// to count as a movement rather than noise.
const trendEpsilon = 0.05

// ThreatTimeline is a bounded window of observed threat levels. Older points
// fall off the front; the window is sized so a trend over one or two
// compaction blocks is always computable.
type ThreatTimeline struct {
	window int
	points []ThreatPoint
}

// NewThreatTimeline creates a timeline retaining at most window points.
// A non-positive window falls back to 32.
func NewThreatTimeline(window int) *ThreatTimeline {
	if window <= 0 {
		window = 32
	}
	return &ThreatTimeline{window: window}
}

// Observe appends a threat observation, evicting the oldest point when the
// window is full. Observations must arrive in turn order.
func (t *ThreatTimeline) Observe(turn int, value float64) {
	t.points = append(t.points, ThreatPoint{Turn: turn, Value: value})
	if len(t.points) > t.window {
		t.points = append(t.points[:0], t.points[1:]...)
	}
}

// Latest returns the most recent observation, or false when none exists.
func (t *ThreatTimeline) Latest() (ThreatPoint, bool) {
	if len(t.points) == 0 {
		return ThreatPoint{}, false
	}
	return t.points[len(t.points)-1], true
}

// Points returns a copy of the retained window, oldest first.
func (t *ThreatTimeline) Points() []ThreatPoint {
	return append([]ThreatPoint(nil), t.points...)
}

// Restore replaces the window contents, keeping only the newest points that
// fit. Used when rebuilding a tracker from a portable archive.
func (t *ThreatTimeline) Restore(points []ThreatPoint) {
	if len(points) > t.window {
		points = points[len(points)-t.window:]
	}
	t.points = append([]ThreatPoint(nil), points...)
}

// Direction classifies the threat movement over the retained window by
// comparing the mean of the older half against the mean of the newer half.
// Fewer than four points is too short a window to call a direction.
func (t *ThreatTimeline) Direction() Direction {
	if len(t.points) < 4 {
		return Steady
	}
	mid := len(t.points) / 2
	older := mean(t.points[:mid])
	newer := mean(t.points[mid:])

	switch {
	case newer-older > trendEpsilon:
		return Up
	case older-newer > trendEpsilon:
		return Down
	default:
		return Steady
	}
}

func mean(points []ThreatPoint) float64 {
	sum := 0.0
	for _, p := range points {
		sum += p.Value
	}
	return sum / float64(len(points))
}

// Direction is the computed movement of a tracked signal.
type Direction int

const (
	Steady Direction = iota
	Up
	Down
)
