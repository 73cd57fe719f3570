package engine

import (
	"golang.org/x/exp/constraints"
)

const (
	bitboardFileA uint64 = 0x0101010101010101
	bitboardFileH uint64 = 0x8080808080808080
)

// PositionBB[sq] is the single-bit board for a square.
var PositionBB [64]uint64

var KnightMasks [64]uint64
var KingMasks [64]uint64

func Min[T constraints.Ordered](x, y T) T {
	if x < y {
		return x
	}
	return y
}

func Max[T constraints.Ordered](x, y T) T {
	if x > y {
		return x
	}
	return y
}

// Clamp restricts v to the inclusive range [low, high].
func Clamp[T constraints.Ordered](v, low, high T) T {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

func init() {
	for sq := 0; sq < 64; sq++ {
		bb := uint64(1) << uint(sq)
		PositionBB[sq] = bb

		top := bb << 8
		bottom := bb >> 8
		left := (bb >> 1) & ^bitboardFileH
		right := (bb << 1) & ^bitboardFileA
		topLeft := (bb << 7) & ^bitboardFileH
		topRight := (bb << 9) & ^bitboardFileA
		bottomLeft := (bb >> 9) & ^bitboardFileH
		bottomRight := (bb >> 7) & ^bitboardFileA
		KingMasks[sq] = top | bottom | left | right | topLeft | topRight | bottomLeft | bottomRight

		nnw := (bb << 15) & ^bitboardFileH
		nne := (bb << 17) & ^bitboardFileA
		nww := (bb << 6) & ^(bitboardFileH | bitboardFileH>>1)
		nee := (bb << 10) & ^(bitboardFileA | bitboardFileA<<1)
		ssw := (bb >> 17) & ^bitboardFileH
		sse := (bb >> 15) & ^bitboardFileA
		sww := (bb >> 10) & ^(bitboardFileH | bitboardFileH>>1)
		ees := (bb >> 6) & ^(bitboardFileA | bitboardFileA<<1)
		KnightMasks[sq] = nnw | nne | nww | nee | ssw | sse | sww | ees
	}

	initPieceSquareTables()
}

// pawnCaptureBitboards returns the squares attacked by the given pawns,
// split into the east and west capture directions.
func pawnCaptureBitboards(pawns uint64, white bool) (east uint64, west uint64) {
	if white {
		east = (pawns << 9) & ^bitboardFileA
		west = (pawns << 7) & ^bitboardFileH
	} else {
		east = (pawns >> 7) & ^bitboardFileA
		west = (pawns >> 9) & ^bitboardFileH
	}
	return east, west
}
