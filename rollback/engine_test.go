package rollback

import (
	"testing"

	"github.com/brawlnet/rollback/bnerr"
	"github.com/brawlnet/rollback/sim"
	"github.com/brawlnet/rollback/testfixtures"
)

func mustEngine(t *testing.T, role Role, capacity int) *Engine {
	t.Helper()
	st, err := sim.NewState(1)
	if err != nil {
		t.Fatal(err)
	}
	e, err := NewEngine(st, capacity, role)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestNewEngine_RejectsBadRole(t *testing.T) {
	st, _ := sim.NewState(1)
	if _, err := NewEngine(st, 8, Role(99)); !bnerr.Is(err, bnerr.InvalidArgument) {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestNewEngine_RejectsSmallCapacity(t *testing.T) {
	st, _ := sim.NewState(1)
	if _, err := NewEngine(st, 1, P1); !bnerr.Is(err, bnerr.InvalidArgument) {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

// TestNoLagNoRollback covers the no-lag convergence case: when the remote input
// for each frame is confirmed before that frame ticks, no misprediction
// -- and therefore no rollback -- ever occurs, and the result matches
// the ground-truth fold over the same scripts.
func TestNoLagNoRollback(t *testing.T) {
	const frames = 300
	e := mustEngine(t, P1, 64)

	for f := uint32(0); f < frames; f++ {
		p2 := testfixtures.ScriptedP2(f)
		if err := e.SetRemoteInput(f, p2); err != nil {
			t.Fatalf("SetRemoteInput(%d): %v", f, err)
		}
		e.Tick(testfixtures.ScriptedP1(f))
	}

	if e.RollbackCount != 0 {
		t.Fatalf("RollbackCount = %d, want 0", e.RollbackCount)
	}

	want, err := testfixtures.RunScripted(1, frames)
	if err != nil {
		t.Fatal(err)
	}
	if e.CurrentState() != want {
		t.Fatal("engine state diverged from ground truth with zero lag")
	}
}

// TestSixFrameLagConvergence covers the fixed-lag convergence case.
func TestSixFrameLagConvergence(t *testing.T) {
	const frames = 300
	const lag = 6
	e := mustEngine(t, P1, 64)

	for f := uint32(0); f < frames; f++ {
		if f >= lag {
			deliverFrame := f - lag
			if err := e.SetRemoteInput(deliverFrame, testfixtures.ScriptedP2(deliverFrame)); err != nil {
				t.Fatalf("SetRemoteInput(%d): %v", deliverFrame, err)
			}
		}
		e.Tick(testfixtures.ScriptedP1(f))
	}
	// Drain the trailing lag frames.
	for f := uint32(frames - lag); f < frames; f++ {
		if err := e.SetRemoteInput(f, testfixtures.ScriptedP2(f)); err != nil {
			t.Fatalf("SetRemoteInput(%d): %v", f, err)
		}
	}

	want, err := testfixtures.RunScripted(1, frames)
	if err != nil {
		t.Fatal(err)
	}
	if e.CurrentState() != want {
		t.Fatal("engine state diverged from ground truth after 6-frame-lag convergence")
	}
	if e.RollbackCount == 0 {
		t.Fatal("expected at least one rollback under lagged delivery")
	}
	if e.MaxRollbackDepth > 64 {
		t.Fatalf("MaxRollbackDepth = %d, want <= 64", e.MaxRollbackDepth)
	}
}

// TestOutOfOrderDelivery covers confirmed input arriving out of frame order.
func TestOutOfOrderDelivery(t *testing.T) {
	const frames = 120
	e := mustEngine(t, P1, 128)

	for f := uint32(0); f < frames; f++ {
		e.Tick(testfixtures.ScriptedP1(f)) // prediction only
	}

	order := []uint32{50, 10, 80}
	for _, f := range order {
		if err := e.SetRemoteInput(f, testfixtures.ScriptedP2(f)); err != nil {
			t.Fatalf("SetRemoteInput(%d): %v", f, err)
		}
	}
	for f := uint32(0); f < frames; f++ {
		already := false
		for _, done := range order {
			if done == f {
				already = true
			}
		}
		if already {
			continue
		}
		if err := e.SetRemoteInput(f, testfixtures.ScriptedP2(f)); err != nil {
			t.Fatalf("SetRemoteInput(%d): %v", f, err)
		}
	}

	want, err := testfixtures.RunScripted(1, frames)
	if err != nil {
		t.Fatal(err)
	}
	if e.CurrentState() != want {
		t.Fatal("engine state diverged from ground truth after out-of-order delivery")
	}
}

func TestSetRemoteInput_DuplicateIsNoOp(t *testing.T) {
	e := mustEngine(t, P1, 16)
	for f := uint32(0); f < 10; f++ {
		e.Tick(0)
	}
	if err := e.SetRemoteInput(3, sim.Input(sim.ButtonJump)); err != nil {
		t.Fatal(err)
	}
	before := e.RollbackCount
	if err := e.SetRemoteInput(3, sim.Input(sim.ButtonJump)); err != nil {
		t.Fatal(err)
	}
	if e.RollbackCount != before {
		t.Fatalf("RollbackCount changed on identical duplicate: %d -> %d", before, e.RollbackCount)
	}
}

func TestRollbackTo_InsufficientHistory(t *testing.T) {
	e := mustEngine(t, P1, 4)
	for f := uint32(0); f < 100; f++ {
		e.Tick(0)
	}
	if err := e.RollbackTo(0); !bnerr.Is(err, bnerr.InsufficientHistory) {
		t.Fatalf("expected InsufficientHistory, got %v", err)
	}
}

func TestSetRemoteInput_FutureFrameNoRollback(t *testing.T) {
	e := mustEngine(t, P1, 16)
	// Frame 5 hasn't been reached yet; this must not roll back, since
	// there is no prior value to mismatch against.
	if err := e.SetRemoteInput(5, sim.Input(sim.ButtonJump)); err != nil {
		t.Fatal(err)
	}
	if e.RollbackCount != 0 {
		t.Fatal("confirming a future frame must not trigger a rollback")
	}
}
