// Package scenarios runs end-to-end two-peer convergence scenarios
// against real rollback.Engine pairs connected by simulated lagged
// channels, instead of against a single engine fed a
// pre-scripted delivery order. It is the concurrency-stress
// counterpart to a single-process integration suite: both peers run
// on their own goroutine and exchange confirmed input the way two real
// network endpoints would.
package scenarios

import (
	"golang.org/x/sync/errgroup"

	"github.com/brawlnet/rollback/rollback"
	"github.com/brawlnet/rollback/sim"
	"github.com/brawlnet/rollback/testfixtures"
)

// remoteMsg is one confirmed-input delivery crossing the simulated wire.
type remoteMsg struct {
	frame uint32
	input sim.Input
}

// lagLink delivers messages passed to send on to out after being held
// for delay frames worth of ticks, preserving send order (it never
// drops, duplicates, or reorders on its
// own -- callers that want out-of-order delivery schedule the sends
// out of order instead, matching how SetRemoteInput can be invoked in
// any order).
type lagLink struct {
	delay int
	queue []remoteMsg
	out   chan<- remoteMsg
}

func newLagLink(delay int, out chan<- remoteMsg) *lagLink {
	return &lagLink{delay: delay, out: out}
}

// send queues msg for delivery.
func (l *lagLink) send(msg remoteMsg) {
	l.queue = append(l.queue, msg)
}

// tick represents one local frame passing; it releases any messages that
// have waited at least l.delay ticks.
func (l *lagLink) tick() {
	for len(l.queue) > l.delay {
		l.out <- l.queue[0]
		l.queue = l.queue[1:]
	}
}

func (l *lagLink) drain() {
	for _, msg := range l.queue {
		l.out <- msg
	}
	l.queue = nil
}

// runPeer ticks an engine for numFrames frames using the scripted input
// for role, sending its own confirmed input out over link and applying
// whatever arrives on in before ticking. Before ticking frame f it waits
// for the peer's input for frame f-delay, so the peer's confirmed input
// is never more than delay frames behind. It returns the engine.
func runPeer(role rollback.Role, numFrames uint32, delay int, in <-chan remoteMsg, out chan<- remoteMsg, done chan<- struct{}) (*rollback.Engine, error) {
	initial, err := sim.NewState(1)
	if err != nil {
		return nil, err
	}
	e, err := rollback.NewEngine(initial, 64, role)
	if err != nil {
		return nil, err
	}

	scripted := testfixtures.ScriptedP1
	if role == rollback.P2 {
		scripted = testfixtures.ScriptedP2
	}

	link := newLagLink(delay, out)
	var next uint32 // lowest peer frame not yet received

	for f := uint32(0); f < numFrames; f++ {
		// Drain anything the peer has sent us so far, non-blocking.
	drainLoop:
		for {
			select {
			case msg := <-in:
				if err := e.SetRemoteInput(msg.frame, msg.input); err != nil {
					return nil, err
				}
				next = msg.frame + 1
			default:
				break drainLoop
			}
		}

		local := scripted(f)
		link.send(remoteMsg{frame: f, input: local})
		link.tick()

		// Block until the peer's input for frame f-delay has arrived.
		for int64(next)+int64(delay) <= int64(f) {
			msg := <-in
			if err := e.SetRemoteInput(msg.frame, msg.input); err != nil {
				return nil, err
			}
			next = msg.frame + 1
		}

		e.Tick(local)
	}
	link.drain()
	close(done)

	// Absorb whatever the other peer sent after we stopped producing
	// local ticks (trailing lag drain), without advancing our own clock
	// further -- further correction only updates already-ticked frames.
	for msg := range in {
		if err := e.SetRemoteInput(msg.frame, msg.input); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// runTwoPeerMatch drives P1 and P2 engines concurrently for numFrames
// frames with a symmetric channel delay, using an errgroup so the first
// error from either peer aborts the match and is returned to the caller.
func runTwoPeerMatch(numFrames uint32, delay int) (p1Final, p2Final *rollback.Engine, err error) {
	toP1 := make(chan remoteMsg, int(numFrames)+1)
	toP2 := make(chan remoteMsg, int(numFrames)+1)
	doneP1 := make(chan struct{})
	doneP2 := make(chan struct{})

	var g errgroup.Group
	g.Go(func() error {
		e, err := runPeer(rollback.P1, numFrames, delay, toP1, toP2, doneP1)
		if err != nil {
			return err
		}
		p1Final = e
		return nil
	})
	g.Go(func() error {
		e, err := runPeer(rollback.P2, numFrames, delay, toP2, toP1, doneP2)
		if err != nil {
			return err
		}
		p2Final = e
		return nil
	})

	// Close each outbound channel only after both peers have stopped
	// sending on it, so runPeer's trailing `for msg := range in` drains
	// cleanly and then terminates.
	go func() { <-doneP1; <-doneP2; close(toP1); close(toP2) }()

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return p1Final, p2Final, nil
}
