package engine

import (
	"github.com/dylhunn/dragontoothmg"
)

// NullMove is the "no move" sentinel. The zero value is never a legal
// dragontoothmg move, so it doubles as the exhaustion signal.
const NullMove dragontoothmg.Move = 0

// Most Valuable Victim - Least Valuable Aggressor; breaks ties between
// captures that land in the same exchange tier.
var mvvLva = [7][7]int32{
	{0, 0, 0, 0, 0, 0, 0},
	{0, 14, 13, 12, 11, 10, 9},  // victim Pawn
	{0, 24, 23, 22, 21, 20, 19}, // victim Knight
	{0, 34, 33, 32, 31, 30, 29}, // victim Bishop
	{0, 44, 43, 42, 41, 40, 39}, // victim Rook
	{0, 54, 53, 52, 51, 50, 49}, // victim Queen
	{0, 0, 0, 0, 0, 0, 0},       // victim King
}

// MoveList is an ordered, mutable sequence of moves. The move orderer
// progressively rearranges it while selecting, so order is significant.
type MoveList struct {
	moves []dragontoothmg.Move
}

func NewMoveList(moves []dragontoothmg.Move) *MoveList {
	ml := &MoveList{moves: make([]dragontoothmg.Move, len(moves))}
	copy(ml.moves, moves)
	return ml
}

func (ml *MoveList) Size() int {
	return len(ml.moves)
}

func (ml *MoveList) Get(i int) dragontoothmg.Move {
	return ml.moves[i]
}

func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Remove deletes the element at i, preserving the order of the rest.
func (ml *MoveList) Remove(i int) {
	ml.moves = append(ml.moves[:i], ml.moves[i+1:]...)
}

// RemoveMove deletes the first occurrence of m, if any.
func (ml *MoveList) RemoveMove(m dragontoothmg.Move) bool {
	for i := range ml.moves {
		if ml.moves[i] == m {
			ml.Remove(i)
			return true
		}
	}
	return false
}

// PartitionCaptures stably reorders the list so that all captures precede
// all quiet moves and returns the number of captures. The relative order
// inside each class is preserved, which keeps tie-breaking deterministic.
func (ml *MoveList) PartitionCaptures(b *dragontoothmg.Board) int {
	partitioned := make([]dragontoothmg.Move, 0, len(ml.moves))
	quiets := make([]dragontoothmg.Move, 0, len(ml.moves))
	for _, m := range ml.moves {
		if dragontoothmg.IsCapture(m, b) {
			partitioned = append(partitioned, m)
		} else {
			quiets = append(quiets, m)
		}
	}
	captures := len(partitioned)
	ml.moves = append(partitioned, quiets...)
	return captures
}

// GetPieceTypeAtPosition reports which piece of the given bitboard set, if
// any, sits on the square.
func GetPieceTypeAtPosition(position uint8, bitboards *dragontoothmg.Bitboards) (pieceType dragontoothmg.Piece, occupied bool) {
	if bitboards.Pawns&(1<<position) > 0 {
		return dragontoothmg.Pawn, true
	} else if bitboards.Knights&(1<<position) > 0 {
		return dragontoothmg.Knight, true
	} else if bitboards.Bishops&(1<<position) > 0 {
		return dragontoothmg.Bishop, true
	} else if bitboards.Rooks&(1<<position) > 0 {
		return dragontoothmg.Rook, true
	} else if bitboards.Queens&(1<<position) > 0 {
		return dragontoothmg.Queen, true
	} else if bitboards.Kings&(1<<position) > 0 {
		return dragontoothmg.King, true
	}
	return 0, false
}

// movedPiece returns the piece the side to move has on the origin square.
func movedPiece(b *dragontoothmg.Board, m dragontoothmg.Move) dragontoothmg.Piece {
	var own *dragontoothmg.Bitboards
	if b.Wtomove {
		own = &b.White
	} else {
		own = &b.Black
	}
	piece, _ := GetPieceTypeAtPosition(m.From(), own)
	return piece
}

// capturedPiece returns the opposing piece on the destination square. En
// passant captures land on an empty square; the victim is a pawn.
func capturedPiece(b *dragontoothmg.Board, m dragontoothmg.Move) dragontoothmg.Piece {
	var opp *dragontoothmg.Bitboards
	if b.Wtomove {
		opp = &b.Black
	} else {
		opp = &b.White
	}
	piece, occupied := GetPieceTypeAtPosition(m.To(), opp)
	if !occupied {
		return dragontoothmg.Pawn
	}
	return piece
}

// captureTieBreak ranks captures within an exchange tier by MVV/LVA.
func captureTieBreak(b *dragontoothmg.Board, m dragontoothmg.Move) int32 {
	return mvvLva[capturedPiece(b, m)][movedPiece(b, m)]
}
