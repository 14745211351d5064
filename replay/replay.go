// Package replay records per-tick agent snapshots and plays them back.
package replay

import (
	"github.com/pthm-cable/duckrace/agent"
)

// Position is one agent's recorded state.
type Position struct {
	ID       int     `json:"id"`
	Position float64 `json:"position"`
	Finished bool    `json:"finished"`
}

// Frame is a snapshot of every agent at one tick.
type Frame struct {
	Elapsed   float64    `json:"elapsed"`
	Positions []Position `json:"positions"`
}

// Recorder appends one frame per live tick until its cap is reached.
type Recorder struct {
	frames    []Frame
	maxFrames int
}

// NewRecorder creates a recorder that keeps at most maxFrames frames.
func NewRecorder(maxFrames int) *Recorder {
	return &Recorder{maxFrames: maxFrames}
}

// Record captures the agents' state. Returns false once the cap is reached;
// recording then stops silently.
func (r *Recorder) Record(elapsed float64, agents []*agent.Agent) bool {
	if r.Full() {
		return false
	}
	positions := make([]Position, len(agents))
	for i, a := range agents {
		positions[i] = Position{ID: a.ID, Position: a.Position, Finished: a.Finished}
	}
	r.frames = append(r.frames, Frame{Elapsed: elapsed, Positions: positions})
	return true
}

// Full reports whether the cap has been reached.
func (r *Recorder) Full() bool {
	return len(r.frames) >= r.maxFrames
}

// Len returns the number of recorded frames.
func (r *Recorder) Len() int {
	return len(r.frames)
}

// Frames returns the recorded frames. Frames are never modified after
// recording, so the slice may be shared with readers.
func (r *Recorder) Frames() []Frame {
	return r.frames[:len(r.frames):len(r.frames)]
}

// Reset drops all frames.
func (r *Recorder) Reset() {
	r.frames = nil
}

// Player steps through a frame sequence one frame per tick.
type Player struct {
	frames []Frame
	next   int
	active bool
}

// NewPlayer creates a player over a recorded log.
func NewPlayer(frames []Frame) *Player {
	return &Player{frames: frames}
}

// Restart rewinds to frame 0 and activates playback.
// Returns false, leaving the player inactive, when the log is empty.
func (p *Player) Restart() bool {
	if len(p.frames) == 0 {
		return false
	}
	p.next = 0
	p.active = true
	return true
}

// Next returns the next frame. ok is false when playback is inactive or the
// log is exhausted; playback then stops.
func (p *Player) Next() (frame Frame, ok bool) {
	if !p.active {
		return Frame{}, false
	}
	if p.next >= len(p.frames) {
		p.active = false
		return Frame{}, false
	}
	frame = p.frames[p.next]
	p.next++
	return frame, true
}

// Active reports whether playback is running.
func (p *Player) Active() bool {
	return p.active
}

// Stop cancels playback. The next call to Next reports no frame.
func (p *Player) Stop() {
	p.active = false
}

// Index returns the number of frames played so far.
func (p *Player) Index() int {
	return p.next
}

// Len returns the length of the log.
func (p *Player) Len() int {
	return len(p.frames)
}

// Apply overwrites agent position and finished flag from a frame.
// Agents missing from byID are skipped.
func Apply(frame Frame, byID map[int]*agent.Agent) {
	for _, pos := range frame.Positions {
		if a, ok := byID[pos.ID]; ok {
			a.Hold(pos.Position, pos.Finished)
		}
	}
}
