package sim

// ActionState is the player's coarse animation/behavior state.
type ActionState uint8

const (
	Idle ActionState = iota
	Run
	Jump
	Attack
	Hitstun
)

// PlayerState is one combatant's simulation-visible state. It is a plain
// value type: copying it (e.g. via State's own copy) produces a fully
// independent player with no aliasing.
type PlayerState struct {
	X, Y   int32 // fixed units
	Vx, Vy int32 // fixed units per tick
	Facing int32 // +1 or -1

	Action ActionState

	HitstunFrames        int32
	HP                   int32
	AttackCooldownFrames int32
	AttackActiveFrames   int32
	AttackHasHit         uint8 // 0 or 1
}

func newPlayer(x int32, facing int32) PlayerState {
	return PlayerState{
		X:      x,
		Y:      StartY,
		Facing: facing,
		Action: Idle,
		HP:     DefaultHp,
	}
}

// State is the complete simulation snapshot: frame counter, both
// players, and PRNG state. It is a pure value — assigning or passing it
// copies it in full, which is exactly the property the rollback engine's
// snapshot ring depends on.
type State struct {
	Frame uint32
	P1    PlayerState
	P2    PlayerState
	RNG   RNG
}

// NewState builds the initial state for a match from a non-zero seed.
func NewState(seed uint32) (State, error) {
	rng, err := NewRNG(seed)
	if err != nil {
		return State{}, err
	}
	return State{
		Frame: 0,
		P1:    newPlayer(P1StartX, 1),
		P2:    newPlayer(P2StartX, -1),
		RNG:   rng,
	}, nil
}

// playerByIndex returns a pointer to P1 (0) or P2 (1) for the phase
// loops in step.go, which apply the same logic to both players in turn.
func (s *State) playerByIndex(i int) *PlayerState {
	if i == 0 {
		return &s.P1
	}
	return &s.P2
}
