// Package rollback implements the ring buffers and the rollback engine
// that drive a single peer's side of a deterministic two-player match:
// record local input, predict or receive remote input, detect
// mispredictions, and re-simulate from the last good snapshot.
//
// Built on the same "fixed-capacity parallel arrays plus a frame tag"
// idea common to deterministic replay buffers, with a sentinel tag in
// place of a parallel bool slice and an explicit prediction policy on
// a miss.
package rollback

import "github.com/brawlnet/rollback/sim"

// InputBuffer is a fixed-capacity, per-frame store of button masks. It
// never allocates after construction and never grows.
type InputBuffer struct {
	inputs []sim.Input
	tags   []uint32 // frame number owning each slot; sentinel if unwritten
	cap    uint32

	hasLatest bool
	latest    uint32
}

// NewInputBuffer allocates an InputBuffer with the given capacity, which
// must be at least 2.
func NewInputBuffer(capacity int) *InputBuffer {
	if capacity < 2 {
		panic("rollback: input buffer capacity must be >= 2")
	}
	b := &InputBuffer{
		inputs: make([]sim.Input, capacity),
		tags:   make([]uint32, capacity),
		cap:    uint32(capacity),
	}
	b.Clear()
	return b
}

// Clear resets every slot to the sentinel tag and forgets the latest
// pointer, without releasing the underlying arrays.
func (b *InputBuffer) Clear() {
	for i := range b.tags {
		b.tags[i] = sim.SentinelFrame
	}
	b.hasLatest = false
	b.latest = 0
}

func (b *InputBuffer) slot(frame uint32) uint32 { return frame % b.cap }

// Set writes input into frame's slot. If frame is at or after the
// current latest-known frame (or the buffer has never been written),
// the latest pointer advances; writes to older frames never move it
// backwards.
func (b *InputBuffer) Set(frame uint32, input sim.Input) {
	i := b.slot(frame)
	b.inputs[i] = input
	b.tags[i] = frame

	if !b.hasLatest || frame >= b.latest {
		b.hasLatest = true
		b.latest = frame
	}
}

// TryGet returns the stored input for frame and true iff that slot's tag
// is exactly frame (i.e. it hasn't since been overwritten by a
// different frame mod capacity).
func (b *InputBuffer) TryGet(frame uint32) (sim.Input, bool) {
	i := b.slot(frame)
	if b.tags[i] != frame {
		return 0, false
	}
	return b.inputs[i], true
}

// GetOrPredict returns the exact input for frame if present; otherwise
// it predicts by repeating the nearest known input at or before frame,
// falling back to the neutral (zero) input. It never allocates and
// never underflows at frame == 0.
func (b *InputBuffer) GetOrPredict(frame uint32) sim.Input {
	if v, ok := b.TryGet(frame); ok {
		return v
	}
	if !b.hasLatest {
		return 0
	}
	if frame > b.latest {
		latest, _ := b.TryGet(b.latest)
		return latest
	}

	// frame <= latest: search backwards from frame-1 for the nearest
	// stored slot, bounded by max(0, frame-capacity+1) so the search is
	// always O(capacity). Signed cursor avoids uint32 underflow at the
	// frame == 0 boundary.
	floor := int64(frame) - int64(b.cap) + 1
	if floor < 0 {
		floor = 0
	}
	for f := int64(frame) - 1; f >= floor; f-- {
		if v, ok := b.TryGet(uint32(f)); ok {
			return v
		}
	}
	return 0
}
