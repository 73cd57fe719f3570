package engine

import (
	"github.com/dylhunn/dragontoothmg"
)

// MaxPly bounds the search stack and the killer table.
const MaxPly = 128

// historyContext is one counter-move/follow-up sub-table: the adaptive
// weights for (moved piece, destination), conditioned on a prior move.
type historyContext [7][64]int32

// SearchParams holds the adaptive move-ordering heuristics shared by every
// node of a search, and by every worker when the search runs in parallel.
// The tables are written without any synchronization: concurrent updates
// may occasionally tear, but the heuristics are approximate by nature and
// self-correct over the following nodes, so the races are accepted as
// noise rather than paid for with locks.
type SearchParams struct {
	// HistoryTable is the main history: (side, moved piece, destination).
	HistoryTable [2][7][64]int32

	// CounterMoveHistory[piece][to] is the context for positions where the
	// opponent's last move was piece→to. FollowupMoveHistory is keyed the
	// same way by our own move two plies back.
	CounterMoveHistory  [7][64]historyContext
	FollowupMoveHistory [7][64]historyContext

	// Killers holds the quiet moves that most recently caused a cutoff at
	// each ply. Slot 0 is the one the move orderer scores.
	Killers [MaxPly + 1][2]dragontoothmg.Move
}

func NewSearchParams() *SearchParams {
	return &SearchParams{}
}

func (sp *SearchParams) Clear() {
	*sp = SearchParams{}
}

// InsertKiller records a quiet cutoff move for the ply, demoting the
// previous first killer to the second slot.
func (sp *SearchParams) InsertKiller(move dragontoothmg.Move, ply int) {
	if move != sp.Killers[ply][0] {
		sp.Killers[ply][1] = sp.Killers[ply][0]
		sp.Killers[ply][0] = move
	}
}

// CounterContext returns the counter-move history for a prior move.
func (sp *SearchParams) CounterContext(piece dragontoothmg.Piece, to uint8) *historyContext {
	return &sp.CounterMoveHistory[piece][to]
}

// FollowupContext returns the follow-up history for a prior move.
func (sp *SearchParams) FollowupContext(piece dragontoothmg.Piece, to uint8) *historyContext {
	return &sp.FollowupMoveHistory[piece][to]
}

// SearchStackInfo is the per-ply context a node hands to its move orderer.
// The history contexts are optional: nil at the root and at plies where no
// prior move exists, in which case they contribute nothing to scoring.
type SearchStackInfo struct {
	Ply                 int
	CounterMoveHistory  *historyContext
	FollowupMoveHistory *historyContext
}

func sideIndex(white bool) int {
	if white {
		return 0
	}
	return 1
}
