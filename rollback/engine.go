package rollback

import (
	"github.com/brawlnet/rollback/bnerr"
	"github.com/brawlnet/rollback/sim"
)

// Role identifies which side of the match this Engine's caller plays. It
// is an explicit enum (not a bool) so a third, invalid value is rejected
// at construction rather than silently aliasing one of the two sides.
type Role int

const (
	P1 Role = iota
	P2
)

// Engine drives one peer's side of a rollback match: it owns the local
// input ring, the remote input ring, and the snapshot ring, and performs
// the tick / mismatch-detection / rewind-and-resimulate dance.
//
// An Engine is single-threaded: every method must be called from the
// same goroutine (typically a fixed-rate physics tick), and an Engine is
// never shared between the two peers — each owns its own buffers for its
// entire lifetime under a single-owner resource model.
type Engine struct {
	role Role

	localBuf  *InputBuffer
	remoteBuf *InputBuffer
	stateBuf  *StateBuffer

	current uint32
	state   sim.State

	RollbackCount      uint64
	RollbackFramesTotal uint64
	MaxRollbackDepth    uint64
}

// NewEngine constructs an Engine from an initial state, a history
// capacity (shared by all three ring buffers, must be >= 2), and the
// caller's local role.
func NewEngine(initial sim.State, historyCapacity int, role Role) (*Engine, error) {
	if role != P1 && role != P2 {
		return nil, bnerr.New(bnerr.InvalidArgument, "local role must be P1 or P2")
	}
	if historyCapacity < 2 {
		return nil, bnerr.New(bnerr.InvalidArgument, "history capacity must be >= 2")
	}

	e := &Engine{
		role:      role,
		localBuf:  NewInputBuffer(historyCapacity),
		remoteBuf: NewInputBuffer(historyCapacity),
		stateBuf:  NewStateBuffer(historyCapacity),
		current:   initial.Frame,
		state:     initial,
	}
	return e, nil
}

// CurrentFrame returns the frame the engine is about to simulate next.
func (e *Engine) CurrentFrame() uint32 { return e.current }

// CurrentState returns the engine's live simulation state.
func (e *Engine) CurrentState() sim.State { return e.state }

// mapInputs orders (local, remote) into (p1, p2) by local role.
func (e *Engine) mapInputs(local, remote sim.Input) (p1, p2 sim.Input) {
	if e.role == P1 {
		return local, remote
	}
	return remote, local
}

// Tick advances the engine by exactly one frame given this frame's
// confirmed local input.
func (e *Engine) Tick(localInput sim.Input) {
	frame := e.current

	e.localBuf.Set(frame, localInput)

	remoteInput, ok := e.remoteBuf.TryGet(frame)
	if !ok {
		// Predict, and write the prediction back: a later confirmed
		// input has nothing to compare against otherwise, and mismatch
		// detection in SetRemoteInput silently stops working.
		remoteInput = e.remoteBuf.GetOrPredict(frame)
		e.remoteBuf.Set(frame, remoteInput)
	}

	e.stateBuf.Save(frame, e.state)

	p1, p2 := e.mapInputs(localInput, remoteInput)
	e.state = sim.Step(e.state, p1, p2)
	e.current = frame + 1
}

// SetRemoteInput records a confirmed remote input for frame, which may
// arrive late or out of order relative to Tick. If the buffer already
// holds a different value for frame and frame is in the past, this
// triggers a rollback to frame. A bit-identical duplicate is a no-op.
func (e *Engine) SetRemoteInput(frame uint32, input sim.Input) error {
	existing, hadValue := e.remoteBuf.TryGet(frame)

	if hadValue && existing == input {
		return nil
	}

	e.remoteBuf.Set(frame, input)

	if hadValue && existing != input && frame < e.current {
		return e.RollbackTo(frame)
	}
	return nil
}

// RollbackTo restores the snapshot saved for frame and re-simulates
// forward to the engine's previous current frame, replaying recorded
// local input and confirmed-or-predicted remote input along the way.
func (e *Engine) RollbackTo(frame uint32) error {
	end := e.current

	snap, ok := e.stateBuf.TryLoad(frame)
	if !ok {
		return bnerr.Newf(bnerr.InsufficientHistory,
			"rollback target frame %d has been evicted; enlarge history capacity", frame)
	}

	depth := uint64(end - frame)
	e.RollbackCount++
	e.RollbackFramesTotal += depth
	if depth > e.MaxRollbackDepth {
		e.MaxRollbackDepth = depth
	}

	e.state = snap
	e.current = frame

	for f := frame; f < end; f++ {
		localInput, ok := e.localBuf.TryGet(f)
		if !ok {
			return bnerr.Newf(bnerr.MissingLocalInput,
				"no recorded local input for frame %d during re-simulation", f)
		}

		remoteInput, ok := e.remoteBuf.TryGet(f)
		if !ok {
			remoteInput = e.remoteBuf.GetOrPredict(f)
			e.remoteBuf.Set(f, remoteInput)
		}

		// The corrected snapshot at f is now canonical; overwrite the
		// stale one from the mispredicted path.
		e.stateBuf.Save(f, e.state)

		p1, p2 := e.mapInputs(localInput, remoteInput)
		e.state = sim.Step(e.state, p1, p2)
		e.current = f + 1
	}

	return nil
}
