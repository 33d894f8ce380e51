// Package replay implements inputs-only record/playback (this file) and
// the versioned, CRC32-checked RPLK binary container (container.go).
//
// Follows the same save-state discipline as a deterministic emulator
// core: serialize compactly, checksum the payload, and reject anything
// that doesn't validate — except here the payload is the much smaller
// "just the inputs" record, since replaying inputs through the
// deterministic step function reproduces the whole match.
package replay

import (
	"github.com/brawlnet/rollback/bnerr"
	"github.com/brawlnet/rollback/sim"
)

// InputPair is one frame's worth of both players' button masks.
type InputPair struct {
	P1, P2 sim.Input
}

// Replay is an immutable recording: a seed, a start frame, and the
// frozen sequence of per-frame input pairs that followed it. Once built
// it is never mutated; copying it is cheap in the sense that the slice
// header copies, but the convention in this package is to treat a
// Replay's backing array as owned and read-only after Build.
type Replay struct {
	Seed       uint32
	StartFrame uint32
	Inputs     []InputPair
}

// Len returns the number of recorded frames.
func (r Replay) Len() int { return len(r.Inputs) }

// Recorder is a stateful builder over a growable input sequence. It
// starts recording at frame 0, the only start frame this MVP supports
// for playback (see Play).
type Recorder struct {
	seed   uint32
	inputs []InputPair
}

// NewRecorder starts a new recording for the given non-zero seed.
func NewRecorder(seed uint32) (*Recorder, error) {
	if seed == 0 {
		return nil, bnerr.New(bnerr.InvalidArgument, "replay seed must be non-zero")
	}
	return &Recorder{seed: seed}, nil
}

// Append pushes one frame's input pair and advances the visible counter.
func (rec *Recorder) Append(p1, p2 sim.Input) {
	rec.inputs = append(rec.inputs, InputPair{P1: p1, P2: p2})
}

// Len returns the number of frames appended so far.
func (rec *Recorder) Len() int { return len(rec.inputs) }

// Build returns an immutable Replay by deep copy. The Recorder remains
// usable afterwards; further Appends do not affect the returned Replay.
func (rec *Recorder) Build() Replay {
	frozen := make([]InputPair, len(rec.inputs))
	copy(frozen, rec.inputs)
	return Replay{
		Seed:       rec.seed,
		StartFrame: 0,
		Inputs:     frozen,
	}
}

// Play folds sim.Step over r's recorded inputs, starting from the state
// sim.NewState(r.Seed) produces, and returns the final state.
//
// Only start_frame == 0 is supported; a non-zero StartFrame fails with
// an Unsupported error — mid-session replay start is out of scope.
func Play(r Replay) (sim.State, error) {
	if r.StartFrame != 0 {
		return sim.State{}, bnerr.New(bnerr.Unsupported, "non-zero replay start frame is not supported")
	}

	s, err := sim.NewState(r.Seed)
	if err != nil {
		return sim.State{}, err
	}
	for _, in := range r.Inputs {
		s = sim.Step(s, in.P1, in.P2)
	}
	return s, nil
}

// PlayAndChecksum plays r and returns the state hash of the final state.
func PlayAndChecksum(r Replay) (uint32, error) {
	s, err := Play(r)
	if err != nil {
		return 0, err
	}
	return sim.Hash(s), nil
}
