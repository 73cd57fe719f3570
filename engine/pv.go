package engine

import (
	"strings"

	"github.com/dylhunn/dragontoothmg"
)

// PVLine accumulates the principal variation as the search unwinds.
type PVLine struct {
	Moves []dragontoothmg.Move
}

func (pv *PVLine) Clear() {
	pv.Moves = pv.Moves[:0]
}

// Update sets the line to move followed by the child node's line.
func (pv *PVLine) Update(move dragontoothmg.Move, child *PVLine) {
	pv.Moves = pv.Moves[:0]
	pv.Moves = append(pv.Moves, move)
	pv.Moves = append(pv.Moves, child.Moves...)
}

func (pv *PVLine) GetPVMove() dragontoothmg.Move {
	if len(pv.Moves) == 0 {
		return NullMove
	}
	return pv.Moves[0]
}

func (pv *PVLine) Clone() PVLine {
	cloned := PVLine{Moves: make([]dragontoothmg.Move, len(pv.Moves))}
	copy(cloned.Moves, pv.Moves)
	return cloned
}

func (pv *PVLine) String() string {
	var sb strings.Builder
	for i, m := range pv.Moves {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(m.String())
	}
	return sb.String()
}
