package wire

import "github.com/brawlnet/rollback/bnerr"

var (
	errInvalidCount = bnerr.Newf(bnerr.InvalidArgument, "packet count must be in [1, %d]", MaxFrames)
	errDstTooSmall  = bnerr.New(bnerr.InvalidArgument, "destination buffer too small for encoded packet")
)
