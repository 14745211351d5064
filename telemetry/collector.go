package telemetry

// Collector accumulates race events within time windows and produces FieldStats.
type Collector struct {
	windowDurationTicks int
	tickSec             float64

	windowStartTick int
	lastLeader      int

	highlights    int
	leaderChanges int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in race seconds
// tickSec: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, tickSec float64) *Collector {
	ticksPerWindow := int(windowDurationSec / tickSec)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationTicks: ticksPerWindow,
		tickSec:             tickSec,
		lastLeader:          -1,
	}
}

// RecordHighlights records highlights emitted this tick.
func (c *Collector) RecordHighlights(n int) {
	c.highlights += n
}

// RecordLeader records the current leader, counting changes of lead.
func (c *Collector) RecordLeader(agentID int) {
	if c.lastLeader >= 0 && agentID != c.lastLeader {
		c.leaderChanges++
	}
	c.lastLeader = agentID
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces FieldStats and resets counters for the next window.
// progress holds every agent's track fraction at the current tick.
func (c *Collector) Flush(raceID string, currentTick int, elapsed float64, progress []float64, finished, boosting int) FieldStats {
	leader, last, mean, std, p10, p50, p90 := ComputeFieldStats(progress)

	stats := FieldStats{
		RaceID:         raceID,
		Tick:           currentTick,
		ElapsedSec:     elapsed,
		LeaderProgress: leader,
		LastProgress:   last,
		MeanProgress:   mean,
		StdProgress:    std,
		P10Progress:    p10,
		P50Progress:    p50,
		P90Progress:    p90,
		Finished:       finished,
		Boosting:       boosting,
		Highlights:     c.highlights,
		LeaderChanges:  c.leaderChanges,
	}

	c.windowStartTick = currentTick
	c.highlights = 0
	c.leaderChanges = 0

	return stats
}

// Reset prepares the collector for a new race.
func (c *Collector) Reset() {
	c.windowStartTick = 0
	c.lastLeader = -1
	c.highlights = 0
	c.leaderChanges = 0
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int {
	return c.windowDurationTicks
}
