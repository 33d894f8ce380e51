package replay

import (
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/brawlnet/rollback/bnerr"
	"github.com/brawlnet/rollback/sim"
)

// RPLK v1 binary container. Header layout (little-endian, 32 bytes):
//
//	offset  size  field
//	0       4     magic "RPLK"
//	4       1     version (1)
//	5       1     flags (reserved, 0)
//	6       2     header size (32)
//	8       4     seed
//	12      4     start frame
//	16      4     frame count
//	20      4     payload CRC32 (IEEE)
//	24      8     reserved, zero
//
// Payload: frameCount * 4 bytes, each frame (p1.buttons u16, p2.buttons u16).
const (
	rplkMagic      = "RPLK"
	rplkVersion    = 1
	rplkHeaderSize = 32
	rplkFrameBytes = 4
)

// WriteContainer writes r to w in RPLK v1 format. Only StartFrame == 0
// is supported, matching the replay package's start-frame restriction.
func WriteContainer(w io.Writer, r Replay) error {
	if r.StartFrame != 0 {
		return bnerr.New(bnerr.Unsupported, "RPLK write: non-zero start frame is not supported")
	}

	frameCount := len(r.Inputs)
	payload := make([]byte, frameCount*rplkFrameBytes)
	for i, in := range r.Inputs {
		o := i * rplkFrameBytes
		binary.LittleEndian.PutUint16(payload[o:], uint16(in.P1))
		binary.LittleEndian.PutUint16(payload[o+2:], uint16(in.P2))
	}

	header := make([]byte, rplkHeaderSize)
	copy(header[0:4], rplkMagic)
	header[4] = rplkVersion
	header[5] = 0 // flags, reserved
	binary.LittleEndian.PutUint16(header[6:8], rplkHeaderSize)
	binary.LittleEndian.PutUint32(header[8:12], r.Seed)
	binary.LittleEndian.PutUint32(header[12:16], r.StartFrame)
	binary.LittleEndian.PutUint32(header[16:20], uint32(frameCount))
	binary.LittleEndian.PutUint32(header[20:24], crc32.ChecksumIEEE(payload))
	// bytes [24:32] stay zero (reserved)

	if _, err := w.Write(header); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	return nil
}

// ReadContainer reads and validates an RPLK v1 container from r,
// returning the decoded Replay. Validation runs strictly in this order
// and fails on the first violation: magic, version, header size,
// declared-vs-actual payload length, then payload CRC32 — so a corrupt
// file is always reported by its first failing check, not an
// arbitrary one.
func ReadContainer(r io.Reader) (Replay, error) {
	header := make([]byte, rplkHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return Replay{}, bnerr.Wrap(bnerr.Truncated, "RPLK: short header", err)
		}
		return Replay{}, err
	}

	if string(header[0:4]) != rplkMagic {
		return Replay{}, bnerr.New(bnerr.Corrupt, "RPLK: bad magic")
	}
	version := header[4]
	if version != rplkVersion {
		return Replay{}, bnerr.Newf(bnerr.Unsupported, "RPLK: unsupported version %d", version)
	}
	headerSize := binary.LittleEndian.Uint16(header[6:8])
	if headerSize != rplkHeaderSize {
		return Replay{}, bnerr.Newf(bnerr.Corrupt, "RPLK: unexpected header size %d", headerSize)
	}

	seed := binary.LittleEndian.Uint32(header[8:12])
	startFrame := binary.LittleEndian.Uint32(header[12:16])
	frameCount := binary.LittleEndian.Uint32(header[16:20])
	wantCRC := binary.LittleEndian.Uint32(header[20:24])

	payload, err := io.ReadAll(r)
	if err != nil {
		return Replay{}, err
	}

	if uint32(len(payload)) != frameCount*rplkFrameBytes {
		return Replay{}, bnerr.Newf(bnerr.Corrupt,
			"RPLK: declared frame count %d does not match payload length %d", frameCount, len(payload))
	}

	gotCRC := crc32.ChecksumIEEE(payload)
	if gotCRC != wantCRC {
		return Replay{}, bnerr.New(bnerr.Corrupt, "RPLK: payload CRC32 mismatch")
	}

	inputs := make([]InputPair, frameCount)
	for i := range inputs {
		o := i * rplkFrameBytes
		inputs[i] = InputPair{
			P1: sim.Input(binary.LittleEndian.Uint16(payload[o:])),
			P2: sim.Input(binary.LittleEndian.Uint16(payload[o+2:])),
		}
	}

	return Replay{Seed: seed, StartFrame: startFrame, Inputs: inputs}, nil
}
