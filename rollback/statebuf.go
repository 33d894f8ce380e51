package rollback

import "github.com/brawlnet/rollback/sim"

// StateBuffer is a fixed-capacity, per-frame store of simulation-state
// snapshots. Every Save/TryLoad is a deep-by-value copy: sim.State is a
// plain value type, so Go's ordinary assignment already gives each slot
// and each caller an independent copy with no aliasing.
type StateBuffer struct {
	states []sim.State
	tags   []uint32
	cap    uint32

	hasLatest bool
	latest    uint32
}

// NewStateBuffer allocates a StateBuffer with the given capacity, which
// must be at least 2.
func NewStateBuffer(capacity int) *StateBuffer {
	if capacity < 2 {
		panic("rollback: state buffer capacity must be >= 2")
	}
	b := &StateBuffer{
		states: make([]sim.State, capacity),
		tags:   make([]uint32, capacity),
		cap:    uint32(capacity),
	}
	b.Clear()
	return b
}

// Clear resets every slot to the sentinel tag, without releasing the
// underlying arrays.
func (b *StateBuffer) Clear() {
	for i := range b.tags {
		b.tags[i] = sim.SentinelFrame
	}
	b.hasLatest = false
	b.latest = 0
}

func (b *StateBuffer) slot(frame uint32) uint32 { return frame % b.cap }

// Save stores an independent copy of state into frame's slot.
func (b *StateBuffer) Save(frame uint32, state sim.State) {
	i := b.slot(frame)
	b.states[i] = state
	b.tags[i] = frame

	if !b.hasLatest || frame >= b.latest {
		b.hasLatest = true
		b.latest = frame
	}
}

// TryLoad returns an independent copy of the snapshot saved for frame,
// and true, iff that slot's tag is exactly frame.
func (b *StateBuffer) TryLoad(frame uint32) (sim.State, bool) {
	i := b.slot(frame)
	if b.tags[i] != frame {
		return sim.State{}, false
	}
	return b.states[i], true
}

// LatestFrame returns the highest frame saved since the last Clear, and
// whether any frame has been saved at all.
func (b *StateBuffer) LatestFrame() (uint32, bool) {
	return b.latest, b.hasLatest
}
