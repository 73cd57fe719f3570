package engine

import (
	"math/bits"

	"github.com/dylhunn/dragontoothmg"
)

// Tapered material values, midgame and endgame.
var PieceValueMG = [7]int32{
	dragontoothmg.Pawn:   82,
	dragontoothmg.Knight: 337,
	dragontoothmg.Bishop: 365,
	dragontoothmg.Rook:   477,
	dragontoothmg.Queen:  1025,
}

var PieceValueEG = [7]int32{
	dragontoothmg.Pawn:   94,
	dragontoothmg.Knight: 281,
	dragontoothmg.Bishop: 297,
	dragontoothmg.Rook:   512,
	dragontoothmg.Queen:  936,
}

// maxPhase is the phase sum of the starting position: 4 minors per side
// count 1, rooks 2, queens 4.
const maxPhase = 24

var pstMG [7][64]int32
var pstEG [7][64]int32

// initPieceSquareTables builds small piece-square tables at startup:
// centralization for the minor pieces and queen, rank advancement for
// pawns, and a king that hides in the midgame but centralizes in the
// endgame. Coarse on purpose; the evaluation only needs to give the
// search a sane preference gradient.
func initPieceSquareTables() {
	for sq := 0; sq < 64; sq++ {
		file := int32(sq % 8)
		rank := int32(sq / 8)

		// 0 at the edge, 6 in the four center squares.
		fileCenter := 3 - abs32(2*file-7)/2
		rankCenter := 3 - abs32(2*rank-7)/2
		center := fileCenter + rankCenter

		pstMG[dragontoothmg.Knight][sq] = 6*center - 18
		pstEG[dragontoothmg.Knight][sq] = 5*center - 15
		pstMG[dragontoothmg.Bishop][sq] = 4*center - 12
		pstEG[dragontoothmg.Bishop][sq] = 3*center - 9
		pstMG[dragontoothmg.Queen][sq] = 2 * center
		pstEG[dragontoothmg.Queen][sq] = 3 * center

		// Rooks like the seventh rank; otherwise flat.
		if rank == 6 {
			pstMG[dragontoothmg.Rook][sq] = 20
			pstEG[dragontoothmg.Rook][sq] = 10
		}

		// Pawns push toward promotion, mostly in the endgame.
		pstMG[dragontoothmg.Pawn][sq] = 4 * (rank - 1)
		pstEG[dragontoothmg.Pawn][sq] = 12 * (rank - 1)

		// King safety vs king activity.
		pstMG[dragontoothmg.King][sq] = -8 * center
		if rank == 0 && (file <= 2 || file >= 6) {
			pstMG[dragontoothmg.King][sq] += 30
		}
		pstEG[dragontoothmg.King][sq] = 6*center - 18
	}
}

var pieceList = [6]dragontoothmg.Piece{
	dragontoothmg.Pawn, dragontoothmg.Knight, dragontoothmg.Bishop,
	dragontoothmg.Rook, dragontoothmg.Queen, dragontoothmg.King,
}

func pieceBitboard(bb *dragontoothmg.Bitboards, piece dragontoothmg.Piece) uint64 {
	switch piece {
	case dragontoothmg.Pawn:
		return bb.Pawns
	case dragontoothmg.Knight:
		return bb.Knights
	case dragontoothmg.Bishop:
		return bb.Bishops
	case dragontoothmg.Rook:
		return bb.Rooks
	case dragontoothmg.Queen:
		return bb.Queens
	case dragontoothmg.King:
		return bb.Kings
	}
	return 0
}

// GetPiecePhase measures how much material is left, 0 (bare kings and
// pawns) to 24 (starting position). Used to taper the evaluation and to
// estimate how many moves remain for time management.
func GetPiecePhase(b *dragontoothmg.Board) int {
	phase := bits.OnesCount64(b.White.Knights|b.Black.Knights) +
		bits.OnesCount64(b.White.Bishops|b.Black.Bishops) +
		2*bits.OnesCount64(b.White.Rooks|b.Black.Rooks) +
		4*bits.OnesCount64(b.White.Queens|b.Black.Queens)
	return Min(phase, maxPhase)
}

// Evaluation scores the position from the side to move's perspective.
func Evaluation(b *dragontoothmg.Board) int32 {
	var mg, eg int32

	for _, piece := range pieceList {
		for x := pieceBitboard(&b.White, piece); x != 0; x &= x - 1 {
			sq := bits.TrailingZeros64(x)
			mg += PieceValueMG[piece] + pstMG[piece][sq]
			eg += PieceValueEG[piece] + pstEG[piece][sq]
		}
		for x := pieceBitboard(&b.Black, piece); x != 0; x &= x - 1 {
			sq := bits.TrailingZeros64(x)
			// Mirror the square vertically for black.
			msq := sq ^ 56
			mg -= PieceValueMG[piece] + pstMG[piece][msq]
			eg -= PieceValueEG[piece] + pstEG[piece][msq]
		}
	}

	phase := int32(GetPiecePhase(b))
	score := (mg*phase + eg*(maxPhase-phase)) / maxPhase

	if b.Wtomove {
		return score
	}
	return -score
}
