package sim

// FNV-1a 32-bit constants.
const (
	fnvOffset32 uint32 = 2166136261
	fnvPrime32  uint32 = 16777619
)

// Hash computes the field-wise FNV-1a 32-bit fingerprint of s.
//
// Fields are folded in over this exact, documented order: Frame, then
// each P1 field in declaration order (X, Y, Vx, Vy, Facing, Action,
// HitstunFrames, HP, AttackCooldownFrames, AttackActiveFrames,
// AttackHasHit), then P2 the same way, then the RNG state. The hash
// never reinterprets the struct's in-memory layout — only the logical
// field values — so it stays stable across compilers and architectures.
func Hash(s State) uint32 {
	h := fnvOffset32
	h = foldU32(h, s.Frame)
	h = foldPlayer(h, s.P1)
	h = foldPlayer(h, s.P2)
	h = foldU32(h, s.RNG.State())
	return h
}

func foldPlayer(h uint32, p PlayerState) uint32 {
	h = foldU32(h, uint32(p.X))
	h = foldU32(h, uint32(p.Y))
	h = foldU32(h, uint32(p.Vx))
	h = foldU32(h, uint32(p.Vy))
	h = foldU32(h, uint32(p.Facing))
	h = foldByte(h, uint8(p.Action))
	h = foldU32(h, uint32(p.HitstunFrames))
	h = foldU32(h, uint32(p.HP))
	h = foldU32(h, uint32(p.AttackCooldownFrames))
	h = foldU32(h, uint32(p.AttackActiveFrames))
	h = foldByte(h, p.AttackHasHit)
	return h
}

// foldU32 mixes all four bytes of v into h, little-endian byte order.
func foldU32(h uint32, v uint32) uint32 {
	h = (h ^ uint32(v&0xFF)) * fnvPrime32
	h = (h ^ uint32((v>>8)&0xFF)) * fnvPrime32
	h = (h ^ uint32((v>>16)&0xFF)) * fnvPrime32
	h = (h ^ uint32((v>>24)&0xFF)) * fnvPrime32
	return h
}

// foldByte mixes a single zero-extended byte into h.
func foldByte(h uint32, v uint8) uint32 {
	return (h ^ uint32(v)) * fnvPrime32
}
