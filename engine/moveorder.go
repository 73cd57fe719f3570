package engine

import (
	"github.com/dylhunn/dragontoothmg"
)

// moveGenStage drives staged move generation. Stages only move forward.
type moveGenStage int

const (
	stageNone moveGenStage = iota
	stageHashMove
	stageCaptures
	stageQuiets
)

// Score tiers, highest to lowest. scoreIIDMove reserves room above every
// other tier for a move supplied by the search driver's internal iterative
// deepening; the orderer itself never assigns it. Losing captures sit
// below the quiet baseline so that most quiet moves are tried first.
const (
	scoreIIDMove        int32 = 1 << 20
	scoreWinningCapture int32 = 1 << 18
	scoreQueenPromo     int32 = 1 << 17
	scoreEvenCapture    int32 = 1 << 16
	scoreQuietMove      int32 = -(1 << 30)
	scoreLosingCapture  int32 = -(1 << 30) - (1 << 28)
)

// historyDepthLimit clamps feedback updates so that very deep searches do
// not swamp the tables.
const historyDepthLimit = 12

// MoveOrder hands out the legal moves of one node approximately best-first,
// scoring them lazily in stages: the hash move (unscored, always first),
// then captures, then quiet moves. Quiet scoring is deferred until either
// the captures run out or the best remaining capture falls below the
// winning tier, whichever comes first, so a node that cuts off early never
// pays for scoring moves it will not try.
//
// One instance is owned by exactly one node; only the heuristic tables
// behind params are shared.
type MoveOrder struct {
	board    *dragontoothmg.Board
	white    bool
	depth    int8
	isPVNode bool
	params   *SearchParams
	ssi      *SearchStackInfo

	stage        moveGenStage
	hashMove     dragontoothmg.Move
	hashConsumed bool
	legalMoves   *MoveList
	scores       []int32
	quietStart   int
	index        int
}

// NewMoveOrder builds the orderer for one node. hashMove may be NullMove;
// when it is not, the caller guarantees it occurs exactly once in
// legalMoves.
func NewMoveOrder(b *dragontoothmg.Board, depth int8, isPVNode bool,
	params *SearchParams, ssi *SearchStackInfo,
	hashMove dragontoothmg.Move, legalMoves []dragontoothmg.Move) *MoveOrder {
	mo := &MoveOrder{
		board:      b,
		white:      b.Wtomove,
		depth:      depth,
		isPVNode:   isPVNode,
		params:     params,
		ssi:        ssi,
		stage:      stageNone,
		hashMove:   hashMove,
		legalMoves: NewMoveList(legalMoves),
		scores:     make([]int32, 0, len(legalMoves)),
	}
	mo.generateMoves()
	return mo
}

// generateMoves advances the stage machine by one step, scoring the tier
// the new stage covers.
func (mo *MoveOrder) generateMoves() {
	switch mo.stage {
	case stageNone:
		// The hash move is handled separately from the rest of the list:
		// remove it so it cannot be yielded twice.
		if mo.hashMove != NullMove {
			mo.stage = stageHashMove
			mo.legalMoves.RemoveMove(mo.hashMove)
			return
		}
		fallthrough

	case stageHashMove:
		mo.findQuietStart()
		mo.stage = stageCaptures
		mo.scoreCaptures()

	case stageCaptures:
		mo.stage = stageQuiets
		mo.scoreQuiets()

	case stageQuiets:
		// Terminal.
	}
}

// findQuietStart partitions the list into captures followed by quiets and
// records the boundary. The movegen emits legal moves piece by piece in no
// particular order, so the capture prefix has to be established here.
func (mo *MoveOrder) findQuietStart() {
	mo.quietStart = mo.legalMoves.PartitionCaptures(mo.board)
}

// scoreCaptures scores the capture prefix. PV nodes always pay for full
// static exchange evaluation; elsewhere the cheap one-ply exchange
// estimate classifies winning/even captures and full SEE only runs to
// confirm whether an apparently losing capture really hangs the piece.
func (mo *MoveOrder) scoreCaptures() {
	for i := 0; i < mo.quietStart; i++ {
		m := mo.legalMoves.Get(i)

		if mo.isPVNode {
			seeScore := see(mo.board, m)
			if seeScore > 0 {
				mo.scores = append(mo.scores, scoreWinningCapture+seeScore+captureTieBreak(mo.board, m))
			} else if seeScore == 0 {
				mo.scores = append(mo.scores, scoreEvenCapture+captureTieBreak(mo.board, m))
			} else {
				mo.scores = append(mo.scores, scoreLosingCapture+seeScore+captureTieBreak(mo.board, m))
			}
			continue
		}

		exchange := exchangeEval(mo.board, m)
		if exchange > 0 {
			mo.scores = append(mo.scores, scoreWinningCapture+captureTieBreak(mo.board, m))
		} else if exchange == 0 {
			mo.scores = append(mo.scores, scoreEvenCapture+captureTieBreak(mo.board, m))
		} else {
			seeScore := see(mo.board, m)
			if seeScore > 0 {
				mo.scores = append(mo.scores, scoreWinningCapture+captureTieBreak(mo.board, m))
			} else if seeScore == 0 {
				mo.scores = append(mo.scores, scoreEvenCapture+captureTieBreak(mo.board, m))
			} else {
				mo.scores = append(mo.scores, scoreLosingCapture+captureTieBreak(mo.board, m))
			}
		}
	}
}

// scoreQuiets scores everything after the capture boundary: the ply's
// first killer just below the even-capture tier, queen promotions in their
// own tier, and the rest at the quiet baseline shifted by the history
// tables that apply at this node.
func (mo *MoveOrder) scoreQuiets() {
	side := sideIndex(mo.white)
	for i := mo.quietStart; i < mo.legalMoves.Size(); i++ {
		m := mo.legalMoves.Get(i)

		if m == mo.params.Killers[mo.ssi.Ply][0] {
			mo.scores = append(mo.scores, scoreEvenCapture-1)
		} else if m.Promote() == dragontoothmg.Queen {
			mo.scores = append(mo.scores, scoreQueenPromo)
		} else {
			piece := movedPiece(mo.board, m)
			to := m.To()
			score := scoreQuietMove + mo.params.HistoryTable[side][piece][to]
			if mo.ssi.CounterMoveHistory != nil {
				score += mo.ssi.CounterMoveHistory[piece][to]
			}
			if mo.ssi.FollowupMoveHistory != nil {
				score += mo.ssi.FollowupMoveHistory[piece][to]
			}
			mo.scores = append(mo.scores, score)
		}
	}
}

// bestFrom scans the scored, not-yet-consumed suffix for the maximum
// score, keeping the earliest maximum so that ties stay stable.
func (mo *MoveOrder) bestFrom(start int) (int, int32) {
	bestIndex := start
	bestScore := mo.scores[start]
	for i := start + 1; i < len(mo.scores); i++ {
		if mo.scores[i] > bestScore {
			bestIndex = i
			bestScore = mo.scores[i]
		}
	}
	return bestIndex, bestScore
}

// NextMove returns the next move to try, or NullMove once every legal move
// has been yielded. Retrieval is a partial selection sort: O(k·n) for the
// first k moves, which beats sorting everything up front because most
// nodes cut off after only a few moves.
func (mo *MoveOrder) NextMove() dragontoothmg.Move {
	// A pending hash move goes out immediately, before anything is
	// scored. The stage only advances on the next pull, so a node that
	// cuts off on the hash move never pays for capture scoring.
	if mo.stage == stageHashMove && !mo.hashConsumed {
		mo.hashConsumed = true
		return mo.hashMove
	}

	for mo.index >= len(mo.scores) {
		if mo.stage == stageQuiets {
			return NullMove
		}
		mo.generateMoves()
	}

	bestIndex, bestScore := mo.bestFrom(mo.index)

	// Capture tier threshold crossed: once the best remaining capture is
	// no longer a winning one, score the quiets now so that killers and
	// queen promotions can interleave ahead of even and losing captures.
	if mo.stage == stageCaptures && bestScore < scoreWinningCapture {
		mo.generateMoves()
		bestIndex, _ = mo.bestFrom(mo.index)
	}

	mo.legalMoves.Swap(bestIndex, mo.index)
	mo.scores[bestIndex], mo.scores[mo.index] = mo.scores[mo.index], mo.scores[bestIndex]

	m := mo.legalMoves.Get(mo.index)
	mo.index++
	return m
}

// UpdateHistories feeds the node's outcome back into the shared history
// tables: the best move is reinforced and every quiet move that was tried
// before it is penalized. Weights decay toward the reinforcement
// (w ← w − d·w/64 ± d²), which bounds them near ±64·d instead of letting
// them grow without limit. When only the hash move was examined there is
// nothing to learn from and the call does nothing.
func (mo *MoveOrder) UpdateHistories(bestMove dragontoothmg.Move) {
	if mo.index <= 0 {
		return
	}

	histDepth := int32(Min(int(mo.depth), historyDepthLimit))
	mo.creditMove(bestMove, histDepth, histDepth*histDepth)

	for i := 0; i < mo.index-1; i++ {
		m := mo.legalMoves.Get(i)
		if m == bestMove {
			break
		}
		if dragontoothmg.IsCapture(m, mo.board) {
			continue
		}
		mo.creditMove(m, histDepth, -(histDepth * histDepth))
	}
}

func (mo *MoveOrder) creditMove(m dragontoothmg.Move, histDepth, bonus int32) {
	piece := movedPiece(mo.board, m)
	to := m.To()

	entry := &mo.params.HistoryTable[sideIndex(mo.white)][piece][to]
	*entry -= histDepth * *entry / 64
	*entry += bonus

	if cm := mo.ssi.CounterMoveHistory; cm != nil {
		entry = &cm[piece][to]
		*entry -= histDepth * *entry / 64
		*entry += bonus
	}
	if fm := mo.ssi.FollowupMoveHistory; fm != nil {
		entry = &fm[piece][to]
		*entry -= histDepth * *entry / 64
		*entry += bonus
	}
}
