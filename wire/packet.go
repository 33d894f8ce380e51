// Package wire implements the RBN1 v1 wire packet codec: a length- and
// integrity-validated binary header carrying up to 32 redundant input
// frames plus an optional opaque state-hash field for desync detection.
//
// The codec never computes or interprets the state hash itself — it
// only carries the u32 sim.Hash produces — which keeps this package
// free of any dependency on the simulation, the same way a binary save
// format stays independent of the subsystems whose state it carries.
package wire

import "encoding/binary"

const (
	rbn1Magic   = "RBN1"
	rbn1Version = 1

	// MaxFrames is the largest Count a single packet may carry.
	MaxFrames = 32

	headerSizeNoChecksum = 15
	headerSizeChecksum   = 23

	flagHasChecksum = 0x01
	flagReservedBits = 0xFE
)

// Packet is a decoded (or about-to-be-encoded) RBN1 packet.
type Packet struct {
	StartFrame uint32
	Count      uint8 // number of redundant frames, in [1, MaxFrames]
	AckFrame   uint32

	HasChecksum    bool
	ChecksumFrame  uint32
	Checksum       uint32 // opaque to this package; see sim.Hash

	Buttons [MaxFrames]uint16 // only the first Count entries are valid
}

func (p *Packet) headerSize() int {
	if p.HasChecksum {
		return headerSizeChecksum
	}
	return headerSizeNoChecksum
}

// EncodedSize returns the exact number of bytes Encode will write for p,
// without validating p.
func (p *Packet) EncodedSize() int {
	return p.headerSize() + int(p.Count)*2
}

// Encode writes p into dst and returns the number of bytes written. dst
// must be at least p.EncodedSize() bytes; p.Count must be in [1, 32].
// Encode does not compute Checksum itself — the caller supplies it.
func Encode(p *Packet, dst []byte) (int, error) {
	if p.Count < 1 || p.Count > MaxFrames {
		return 0, errInvalidCount
	}
	n := p.EncodedSize()
	if len(dst) < n {
		return 0, errDstTooSmall
	}

	copy(dst[0:4], rbn1Magic)
	dst[4] = rbn1Version

	var flags uint8
	if p.HasChecksum {
		flags |= flagHasChecksum
	}
	dst[5] = flags

	binary.LittleEndian.PutUint32(dst[6:10], p.StartFrame)
	dst[10] = p.Count
	binary.LittleEndian.PutUint32(dst[11:15], p.AckFrame)

	offset := 15
	if p.HasChecksum {
		binary.LittleEndian.PutUint32(dst[15:19], p.ChecksumFrame)
		binary.LittleEndian.PutUint32(dst[19:23], p.Checksum)
		offset = 23
	}

	for i := 0; i < int(p.Count); i++ {
		binary.LittleEndian.PutUint16(dst[offset+i*2:], p.Buttons[i])
	}

	return n, nil
}

// Decode parses src into a Packet, validating strictly in this order:
// minimum length, magic, version, reserved flag bits, Count range,
// then exact total length. It returns (Packet{}, false) on any
// violation rather than an error, so a single malformed packet on the
// wire never destabilises the session.
func Decode(src []byte) (Packet, bool) {
	if len(src) < headerSizeNoChecksum {
		return Packet{}, false
	}
	if string(src[0:4]) != rbn1Magic {
		return Packet{}, false
	}
	if src[4] != rbn1Version {
		return Packet{}, false
	}
	flags := src[5]
	if flags&flagReservedBits != 0 {
		return Packet{}, false
	}

	count := src[10]
	if count < 1 || count > MaxFrames {
		return Packet{}, false
	}

	hasChecksum := flags&flagHasChecksum != 0
	want := headerSizeNoChecksum
	if hasChecksum {
		want = headerSizeChecksum
	}
	want += int(count) * 2
	if len(src) != want {
		return Packet{}, false
	}

	p := Packet{
		StartFrame:  binary.LittleEndian.Uint32(src[6:10]),
		Count:       count,
		AckFrame:    binary.LittleEndian.Uint32(src[11:15]),
		HasChecksum: hasChecksum,
	}

	offset := 15
	if hasChecksum {
		p.ChecksumFrame = binary.LittleEndian.Uint32(src[15:19])
		p.Checksum = binary.LittleEndian.Uint32(src[19:23])
		offset = 23
	}

	for i := 0; i < int(count); i++ {
		p.Buttons[i] = binary.LittleEndian.Uint16(src[offset+i*2:])
	}

	return p, true
}

// DecodeInto is the zero-allocation decode variant: it validates src
// exactly as Decode does but writes the decoded button values into the
// caller-supplied dst (which must have length >= the packet's Count)
// instead of a fixed-size array field, and returns the header portion
// separately from the buttons.
func DecodeInto(src []byte, dst []uint16) (Header, bool) {
	p, ok := Decode(src)
	if !ok {
		return Header{}, false
	}
	if len(dst) < int(p.Count) {
		return Header{}, false
	}
	copy(dst[:p.Count], p.Buttons[:p.Count])
	return Header{
		StartFrame:    p.StartFrame,
		Count:         p.Count,
		AckFrame:      p.AckFrame,
		HasChecksum:   p.HasChecksum,
		ChecksumFrame: p.ChecksumFrame,
		Checksum:      p.Checksum,
	}, true
}

// Header is Packet without the fixed-size Buttons array, returned by
// the zero-allocation DecodeInto path.
type Header struct {
	StartFrame    uint32
	Count         uint8
	AckFrame      uint32
	HasChecksum   bool
	ChecksumFrame uint32
	Checksum      uint32
}
