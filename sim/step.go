package sim

// Step advances prev by exactly one frame given both players' inputs and
// returns the new state. It is pure: it operates on a local copy of prev
// and never touches a clock, allocator, or the environment. Bits of
// p1Input/p2Input outside the documented 4-bit button space are ignored.
//
// Phases run in a fixed order: frame advance, counter ticks, attack
// starts, movement/jump, gravity+integrate, attack-window countdown,
// simultaneous hit resolution.
func Step(prev State, p1Input, p2Input Input) State {
	s := prev // local copy; callers' state is never mutated

	s.Frame++

	inputs := [2]Input{p1Input, p2Input}

	// B. Counter tick.
	for i := 0; i < 2; i++ {
		tickCounters(s.playerByIndex(i))
	}

	// C. Attack start.
	for i := 0; i < 2; i++ {
		startAttack(s.playerByIndex(i), inputs[i])
	}

	// D. Movement/jump.
	for i := 0; i < 2; i++ {
		moveAndJump(s.playerByIndex(i), inputs[i])
	}

	// E. Gravity + integrate.
	for i := 0; i < 2; i++ {
		integrateGravity(s.playerByIndex(i))
	}

	// F. Attack-window countdown.
	for i := 0; i < 2; i++ {
		countdownAttackWindow(s.playerByIndex(i))
	}

	// G. Simultaneous hit resolution: evaluate both hit tests against
	// the same post-F state before applying either, so neither attacker
	// gets an ordering advantage over the other.
	p1Hits := hitTest(&s.P1, &s.P2)
	p2Hits := hitTest(&s.P2, &s.P1)
	if p1Hits {
		applyHit(&s.P1, &s.P2)
	}
	if p2Hits {
		applyHit(&s.P2, &s.P1)
	}

	return s
}

func tickCounters(p *PlayerState) {
	if p.AttackCooldownFrames > 0 {
		p.AttackCooldownFrames--
	}
	if p.HitstunFrames > 0 {
		p.HitstunFrames--
		if p.HitstunFrames == 0 {
			p.Action = Idle
		}
	}
}

func startAttack(p *PlayerState, in Input) {
	if p.Action == Hitstun {
		return
	}
	if in.Pressed(ButtonAttack) && p.AttackCooldownFrames == 0 {
		p.Action = Attack
		p.AttackActiveFrames = AttackActiveFrames
		p.AttackCooldownFrames = AttackCooldownFrames
		p.AttackHasHit = 0
	}
}

func moveAndJump(p *PlayerState, in Input) {
	if p.Action == Hitstun {
		return
	}

	right := in.Pressed(ButtonRight)
	left := in.Pressed(ButtonLeft)

	switch {
	case right:
		p.X += MoveSpeedPerTick
		p.Facing = 1
		if p.Action != Jump && p.Action != Attack {
			p.Action = Run
		}
	case left:
		p.X -= MoveSpeedPerTick
		p.Facing = -1
		if p.Action != Jump && p.Action != Attack {
			p.Action = Run
		}
	default:
		if p.Action == Run {
			p.Action = Idle
		}
	}

	if in.Pressed(ButtonJump) && p.Y == GroundY && p.Action != Jump {
		p.Vy = JumpVelocityPerTick
		p.Action = Jump
	}

	if p.X < MinX {
		p.X = MinX
	}
	if max := int32(MaxX - PlayerWidth); p.X > max {
		p.X = max
	}
}

func integrateGravity(p *PlayerState) {
	p.Vy += GravityPerTick
	p.Y += p.Vy
	if p.Y <= GroundY {
		p.Y = GroundY
		p.Vy = 0
		if p.Action == Jump {
			p.Action = Idle
		}
	}
}

func countdownAttackWindow(p *PlayerState) {
	if p.AttackActiveFrames > 0 {
		p.AttackActiveFrames--
		if p.AttackActiveFrames == 0 && p.Action == Attack {
			p.Action = Idle
		}
	}
}

// hitTest reports whether attacker's active hitbox overlaps defender's
// hurtbox, under the attacker's own current state (AttackHasHit gate).
// Overlap is strict on both axes: touching edges do not hit.
func hitTest(attacker, defender *PlayerState) bool {
	if attacker.AttackActiveFrames == 0 || attacker.AttackHasHit != 0 {
		return false
	}

	var hitLeft, hitRight int32
	if attacker.Facing >= 0 {
		hitLeft = attacker.X + PlayerWidth
		hitRight = hitLeft + AttackHitboxWidth
	} else {
		hitRight = attacker.X
		hitLeft = hitRight - AttackHitboxWidth
	}
	hitTop := attacker.Y
	hitBottom := attacker.Y + AttackHitboxHeight

	defLeft := defender.X
	defRight := defender.X + PlayerWidth
	defTop := defender.Y
	defBottom := defender.Y + PlayerHeight

	return hitLeft < defRight && defLeft < hitRight &&
		hitTop < defBottom && defTop < hitBottom
}

func applyHit(attacker, defender *PlayerState) {
	attacker.AttackHasHit = 1

	defender.HP -= AttackDamage
	if defender.HP < 0 {
		defender.HP = 0
	}
	defender.HitstunFrames = HitstunFrames
	defender.Action = Hitstun
}
