package ranking

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/pthm-cable/duckrace/agent"
)

func makeAgents(names ...string) []*agent.Agent {
	out := make([]*agent.Agent, len(names))
	for i, n := range names {
		out[i] = &agent.Agent{ID: i + 1, Name: n}
	}
	return out
}

func TestRankStableDescending(t *testing.T) {
	agents := makeAgents("A", "B", "C", "D")
	agents[0].Position = 10
	agents[1].Position = 30
	agents[2].Position = 10
	agents[3].Position = 20

	ranked := Rank(agents, nil)
	got := IDs(ranked)
	want := []int{2, 4, 1, 3} // A before C on the tie

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected ranking %v, got %v", want, got)
		}
	}

	// Input order is untouched
	if agents[0].ID != 1 || agents[3].ID != 4 {
		t.Error("Rank must not reorder its input")
	}
}

func TestRankIsPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	agents := make([]*agent.Agent, 500)
	for i := range agents {
		agents[i] = &agent.Agent{ID: i + 1, Position: float64(rng.Intn(100))}
	}

	var buf []*agent.Agent
	buf = Rank(agents, buf)

	if len(buf) != len(agents) {
		t.Fatalf("expected %d ranked agents, got %d", len(agents), len(buf))
	}
	seen := make(map[int]bool)
	for i, a := range buf {
		if seen[a.ID] {
			t.Fatalf("agent %d ranked twice", a.ID)
		}
		seen[a.ID] = true
		if i > 0 && buf[i-1].Position < a.Position {
			t.Fatalf("ranking not descending at %d", i)
		}
	}
}

func TestDetectRankJump(t *testing.T) {
	agents := makeAgents("A", "B", "C", "D")
	a, b, c, d := agents[0], agents[1], agents[2], agents[3]
	prev := []*agent.Agent{a, b, c, d}
	curr := []*agent.Agent{d, a, b, c}

	det := NewDetector(10, 3)
	hs := det.Detect(prev, curr, 4.2)

	if len(hs) != 1 {
		t.Fatalf("expected exactly one highlight, got %d", len(hs))
	}
	h := hs[0]
	if h.AgentID != d.ID || h.FromRank != 3 || h.ToRank != 0 {
		t.Errorf("unexpected highlight %+v", h)
	}
	if h.Timestamp != 4.2 {
		t.Errorf("expected timestamp 4.2, got %f", h.Timestamp)
	}
	if !strings.Contains(h.Message, "D moved up 3 places") || !strings.Contains(h.Message, "rank 1") {
		t.Errorf("unexpected message %q", h.Message)
	}
}

func TestDetectFirstTickIsSilent(t *testing.T) {
	curr := makeAgents("A", "B", "C", "D")
	det := NewDetector(10, 1)
	if hs := det.Detect(nil, curr, 0); len(hs) != 0 {
		t.Errorf("expected no highlights without a prior ranking, got %d", len(hs))
	}
}

func TestDetectIgnoresUnmovedAgents(t *testing.T) {
	agents := makeAgents("A", "B", "C")
	if hs := NewDetector(10, 0).Detect(agents, agents, 1); len(hs) != 0 {
		t.Errorf("expected no highlights for an unchanged ranking, got %d", len(hs))
	}

	// B overtakes A: only a real gain qualifies at threshold 0
	curr := []*agent.Agent{agents[1], agents[0], agents[2]}
	hs := NewDetector(10, 0).Detect(agents, curr, 1)
	if len(hs) != 1 || hs[0].AgentID != agents[1].ID {
		t.Errorf("expected one highlight for B, got %+v", hs)
	}
}

func TestDetectOnlyExaminesTopK(t *testing.T) {
	agents := makeAgents("A", "B", "C", "D", "E", "F")
	prev := agents
	// F jumps from 5 to 1: outside a top-1 window
	curr := []*agent.Agent{agents[0], agents[5], agents[1], agents[2], agents[3], agents[4]}

	if hs := NewDetector(1, 3).Detect(prev, curr, 0); len(hs) != 0 {
		t.Errorf("expected no highlights outside top-k, got %d", len(hs))
	}
	if hs := NewDetector(2, 3).Detect(prev, curr, 0); len(hs) != 1 {
		t.Errorf("expected F's jump inside top-2, got %d highlights", len(hs))
	}
}

func TestHistoryBounded(t *testing.T) {
	h := NewHistory(3)
	for i := 0; i < 5; i++ {
		h.Add(Highlight{AgentID: i})
	}

	items := h.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 retained highlights, got %d", len(items))
	}
	if items[0].AgentID != 4 || items[2].AgentID != 2 {
		t.Errorf("expected newest first, got %+v", items)
	}

	h.Reset()
	if h.Len() != 0 {
		t.Error("expected empty history after reset")
	}
}
