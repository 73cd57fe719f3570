package engine

import (
	"math/bits"

	"github.com/dylhunn/dragontoothmg"
)

// seePieceValue is the material scale used by exchange evaluation. The
// king's value only matters as "never profitably captured".
var seePieceValue = [7]int32{
	dragontoothmg.Pawn:   100,
	dragontoothmg.Knight: 300,
	dragontoothmg.Bishop: 300,
	dragontoothmg.Rook:   500,
	dragontoothmg.Queen:  900,
	dragontoothmg.King:   5000,
}

// see computes the full static exchange evaluation of a capture: the net
// material outcome if both sides keep recapturing on the destination
// square with their least valuable attacker, standing pat whenever a
// further recapture would lose material. Positive means the capture wins
// material, zero an even trade, negative a loss.
func see(b *dragontoothmg.Board, move dragontoothmg.Move) int32 {
	var gain [32]int32
	depth := 0

	from := move.From()
	to := move.To()
	white := b.Wtomove

	attackers := attackersTo(b, to, true) | attackersTo(b, to, false)

	victim := capturedPiece(b, move)
	attacker := movedPiece(b, move)

	attackerBB := PositionBB[from]
	gain[depth] = seePieceValue[victim]

	side := !white
	for attackerBB != 0 {
		depth++
		gain[depth] = seePieceValue[attacker] - gain[depth-1]

		// Both continuations lose material for the side to move: prune.
		if Max(-gain[depth-1], gain[depth]) < 0 {
			break
		}

		attackers &^= attackerBB
		attackerBB, attacker = leastValuableAttacker(b, attackers, side, to)
		side = !side
	}

	for d := depth - 1; d > 0; d-- {
		gain[d-1] = -Max(-gain[d-1], gain[d])
	}
	return gain[0]
}

// exchangeEval is the one-ply capture/recapture estimate: the full victim
// value when the destination square is undefended, otherwise victim minus
// attacker. It misclassifies deeper exchanges, which is exactly the subset
// the orderer re-checks with full SEE.
func exchangeEval(b *dragontoothmg.Board, move dragontoothmg.Move) int32 {
	victim := capturedPiece(b, move)
	attacker := movedPiece(b, move)

	defenders := attackersTo(b, move.To(), !b.Wtomove)
	if defenders == 0 {
		return seePieceValue[victim]
	}
	return seePieceValue[victim] - seePieceValue[attacker]
}

// attackersTo returns a bitboard of the given side's pieces that attack
// the square, seeing through that side's own rooks/queens on lines and
// bishops/queens/pawns on diagonals so that stacked attackers (battery
// x-rays) are all counted up front.
func attackersTo(b *dragontoothmg.Board, targetSquare uint8, white bool) uint64 {
	var us, them *dragontoothmg.Bitboards
	if white {
		us, them = &b.White, &b.Black
	} else {
		us, them = &b.Black, &b.White
	}

	targetBB := PositionBB[targetSquare]

	var pawnAttackers uint64
	for x := us.Pawns; x != 0; x &= x - 1 {
		bb := PositionBB[bits.TrailingZeros64(x)]
		east, west := pawnCaptureBitboards(bb, white)
		if (east|west)&targetBB != 0 {
			pawnAttackers |= bb
		}
	}

	lineOcc := (us.All &^ (us.Rooks | us.Queens)) | (them.All &^ (them.Rooks | them.Queens))
	lineAttacks := dragontoothmg.CalculateRookMoveBitboard(targetSquare, lineOcc)

	diagOcc := (us.All &^ (us.Bishops | us.Queens | pawnAttackers)) | them.All
	diagAttacks := dragontoothmg.CalculateBishopMoveBitboard(targetSquare, diagOcc)

	attackers := pawnAttackers
	attackers |= lineAttacks & (us.Rooks | us.Queens)
	attackers |= diagAttacks & (us.Bishops | us.Queens)
	attackers |= KnightMasks[targetSquare] & us.Knights
	attackers |= KingMasks[targetSquare] & us.Kings
	return attackers
}

// leastValuableAttacker picks the cheapest remaining attacker of the
// square for the side to move, restricted to the not-yet-used attacker
// set, and returns its square bit and piece type.
func leastValuableAttacker(b *dragontoothmg.Board, remaining uint64, white bool, targetSquare uint8) (uint64, dragontoothmg.Piece) {
	var us *dragontoothmg.Bitboards
	if white {
		us = &b.White
	} else {
		us = &b.Black
	}

	diag := dragontoothmg.CalculateBishopMoveBitboard(targetSquare, remaining) & remaining
	line := dragontoothmg.CalculateRookMoveBitboard(targetSquare, remaining) & remaining

	east, west := pawnCaptureBitboards(PositionBB[targetSquare], !white)
	reachable := (east | west) | diag | line |
		(KnightMasks[targetSquare] & us.Knights) |
		(KingMasks[targetSquare] & us.Kings)
	reachable &= remaining

	candidates := []struct {
		bb    uint64
		piece dragontoothmg.Piece
	}{
		{reachable & us.Pawns, dragontoothmg.Pawn},
		{reachable & us.Knights, dragontoothmg.Knight},
		{reachable & us.Bishops, dragontoothmg.Bishop},
		{reachable & us.Rooks, dragontoothmg.Rook},
		{reachable & us.Queens, dragontoothmg.Queen},
		{reachable & us.Kings, dragontoothmg.King},
	}
	for _, c := range candidates {
		if c.bb != 0 {
			return PositionBB[bits.TrailingZeros64(c.bb)], c.piece
		}
	}
	return 0, 0
}
