// Package ranking orders agents by progress and detects notable rank jumps.
package ranking

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/pthm-cable/duckrace/agent"
)

// Rank writes agents into dst sorted by descending position and returns it.
// Ties keep the input order. dst is reused when it has enough capacity.
func Rank(agents []*agent.Agent, dst []*agent.Agent) []*agent.Agent {
	dst = append(dst[:0], agents...)
	sort.SliceStable(dst, func(i, j int) bool {
		return dst[i].Position > dst[j].Position
	})
	return dst
}

// IDs returns the agent IDs of a ranking in order.
func IDs(ranking []*agent.Agent) []int {
	ids := make([]int, len(ranking))
	for i, a := range ranking {
		ids[i] = a.ID
	}
	return ids
}

// Highlight is a notable rank improvement.
type Highlight struct {
	Timestamp float64 // race-elapsed seconds
	Message   string
	AgentID   int
	FromRank  int // 0-based
	ToRank    int // 0-based
}

// LogHighlight logs the highlight to log.
func (h Highlight) LogHighlight(log *slog.Logger) {
	log.Info("highlight",
		"time", h.Timestamp,
		"agent", h.AgentID,
		"from", h.FromRank+1,
		"to", h.ToRank+1,
	)
}

// Detector compares consecutive rankings.
type Detector struct {
	TopK      int // Only the leading TopK of the new ranking are examined
	Threshold int // Minimum number of places gained

	prevRank map[int]int
}

// NewDetector creates a detector.
func NewDetector(topK, threshold int) *Detector {
	return &Detector{
		TopK:      topK,
		Threshold: threshold,
		prevRank:  make(map[int]int),
	}
}

// Detect returns one highlight per agent in the top of curr whose rank
// improved by at least Threshold since prev. An empty prev yields nothing.
func (d *Detector) Detect(prev, curr []*agent.Agent, elapsed float64) []Highlight {
	if len(prev) == 0 {
		return nil
	}

	clear(d.prevRank)
	for i, a := range prev {
		d.prevRank[a.ID] = i
	}

	n := d.TopK
	if n > len(curr) {
		n = len(curr)
	}

	var out []Highlight
	for i := 0; i < n; i++ {
		a := curr[i]
		old, ok := d.prevRank[a.ID]
		if !ok {
			continue
		}
		if gain := old - i; gain > 0 && gain >= d.Threshold {
			out = append(out, Highlight{
				Timestamp: elapsed,
				Message:   fmt.Sprintf("%s moved up %d places! Now rank %d", a.Name, gain, i+1),
				AgentID:   a.ID,
				FromRank:  old,
				ToRank:    i,
			})
		}
	}
	return out
}

// History keeps the most recent highlights, newest first.
type History struct {
	items []Highlight
	limit int
}

// NewHistory creates a history that retains at most limit highlights.
func NewHistory(limit int) *History {
	if limit < 1 {
		limit = 1
	}
	return &History{limit: limit}
}

// Add records highlights in the order they were produced.
func (h *History) Add(hs ...Highlight) {
	for _, hl := range hs {
		h.items = append([]Highlight{hl}, h.items...)
		if len(h.items) > h.limit {
			h.items = h.items[:h.limit]
		}
	}
}

// Items returns a copy of the retained highlights, newest first.
func (h *History) Items() []Highlight {
	return append([]Highlight(nil), h.items...)
}

// Len returns the number of retained highlights.
func (h *History) Len() int {
	return len(h.items)
}

// Reset drops all highlights.
func (h *History) Reset() {
	h.items = h.items[:0]
}
