// Package testfixtures holds the scripted input sequences used by the
// golden-checksum and convergence scenarios across rollback, replay,
// and scenarios tests. It is a regular (non-_test.go) package so those
// test packages can import the same fixture instead of re-deriving it,
// the way a shared ROM-fixture helper serves several test files in one
// package — scaled up here because these fixtures are shared *across*
// package boundaries, not just within one package's tests. The sim
// package's own tests keep an in-package copy, since this package
// imports sim.
package testfixtures

import "github.com/brawlnet/rollback/sim"

// ScriptedP1 returns P1's button mask for frame f in the canonical
// scripted match used throughout this module's tests:
//
//	[0,49]    Right
//	50        Jump
//	[51,149]  Right
//	[150,199] Attack iff f%20==0, else neutral
//	[200,...] Left
func ScriptedP1(f uint32) sim.Input {
	switch {
	case f <= 49:
		return sim.Input(sim.ButtonRight)
	case f == 50:
		return sim.Input(sim.ButtonJump)
	case f <= 149:
		return sim.Input(sim.ButtonRight)
	case f <= 199:
		if f%20 == 0 {
			return sim.Input(sim.ButtonAttack)
		}
		return 0
	default:
		return sim.Input(sim.ButtonLeft)
	}
}

// ScriptedP2 returns P2's button mask for frame f:
//
//	[0,99]    Left
//	[100,119] Jump
//	[120,...] neutral
func ScriptedP2(f uint32) sim.Input {
	switch {
	case f <= 99:
		return sim.Input(sim.ButtonLeft)
	case f <= 119:
		return sim.Input(sim.ButtonJump)
	default:
		return 0
	}
}

// RunScripted folds sim.Step over the scripted P1/P2 sequence for
// numFrames frames, starting from seed, and returns the final state.
func RunScripted(seed uint32, numFrames uint32) (sim.State, error) {
	s, err := sim.NewState(seed)
	if err != nil {
		return sim.State{}, err
	}
	for f := uint32(0); f < numFrames; f++ {
		s = sim.Step(s, ScriptedP1(f), ScriptedP2(f))
	}
	return s, nil
}
