package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dylhunn/dragontoothmg"
)

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
const (
	MaxScore  int32 = 32500
	Checkmate int32 = 20000
	DrawScore int32 = 0
)

// =============================================================================
// MARGINS
// =============================================================================
var FutilityMargins = [8]int32{0, 120, 220, 320, 420, 520, 620, 720}
var RFPMargins = [8]int32{0, 100, 200, 300, 400, 500, 600, 700}

var LateMovePruningMargins = [9]int{0, 3, 5, 9, 14, 20, 27, 35, 44}

// =============================================================================
// LMR/PRUNING PARAMETERS
// =============================================================================
var LMRMoveLimit = 2
var IIDMinDepth int8 = 5

var aspirationWindowSize int32 = 35
var prevSearchScore int32 = 0

var tt TransTable
var searchParams = NewSearchParams()
var timeHandler TimeHandler
var globalStop atomic.Bool
var gameHashes []uint64

type SearchResult struct {
	BestMove dragontoothmg.Move
	Score    int32
	Depth    int8
	Nodes    uint64
}

// searchWorker owns everything one search thread mutates freely: its own
// board copy, search stack and repetition history. The transposition table
// and the SearchParams heuristics stay shared across workers.
type searchWorker struct {
	board        dragontoothmg.Board
	params       *SearchParams
	ssi          [MaxPly + 2]SearchStackInfo
	appliedPiece [MaxPly + 2]dragontoothmg.Piece
	appliedTo    [MaxPly + 2]uint8
	hashHistory  []uint64
	nodes        uint64
	isMain       bool
}

func newSearchWorker(board *dragontoothmg.Board, isMain bool) *searchWorker {
	w := &searchWorker{
		board:  *board,
		params: searchParams,
		isMain: isMain,
	}
	for i := range w.ssi {
		w.ssi[i].Ply = i
	}
	w.hashHistory = make([]uint64, 0, len(gameHashes)+MaxPly)
	w.hashHistory = append(w.hashHistory, gameHashes...)
	w.hashHistory = append(w.hashHistory, board.Hash())
	return w
}

// StartSearch runs an iterative-deepening search and returns the best move
// found. gameTime/increment are in milliseconds; when useCustomDepth is set
// the search runs to exactly depth and ignores the clock. threads >= 2 adds
// helper workers that share the transposition table and heuristics.
func StartSearch(board *dragontoothmg.Board, depth int8, gameTime int, increment int, useCustomDepth bool, threads int) SearchResult {
	if !tt.isInitialized {
		tt.init(TTSize)
	}

	globalStop.Store(false)
	timeHandler.initTimemanagement(gameTime, increment, int(board.Fullmoveno), useCustomDepth)
	timeHandler.StartTime(board)

	result := searchInParallel(board, depth, threads)
	prevSearchScore = result.Score
	return result
}

// StopSearch aborts the running search; it is safe from any goroutine.
func StopSearch() {
	globalStop.Store(true)
}

// ResetForNewGame clears every piece of state that carries between moves.
func ResetForNewGame() {
	tt.clearTT()
	tt.init(TTSize)
	searchParams.Clear()
	gameHashes = nil
	prevSearchScore = 0
}

// SetGameHistory installs the hashes of positions already played, so that
// the repetition check sees draws that span the search root.
func SetGameHistory(hashes []uint64) {
	gameHashes = make([]uint64, len(hashes))
	copy(gameHashes, hashes)
}

// HistorySnapshot copies the main history table, for persisting between runs.
func HistorySnapshot() *[2][7][64]int32 {
	snap := searchParams.HistoryTable
	return &snap
}

// RestoreHistory seeds the main history table from a snapshot.
func RestoreHistory(snap *[2][7][64]int32) {
	searchParams.HistoryTable = *snap
}

func (w *searchWorker) iterativeDeepening(maxDepth int8) SearchResult {
	var timeSpent int64
	alpha := -MaxScore
	beta := MaxScore
	bestScore := -MaxScore

	if prevSearchScore != 0 {
		alpha = prevSearchScore - aspirationWindowSize
		beta = prevSearchScore + aspirationWindowSize
	}

	var pvLine PVLine
	var prevPVLine PVLine
	var bestDepth int8
	currentWindow := aspirationWindowSize

	for i := int8(1); i <= maxDepth; i++ {
		if i > 1 && (globalStop.Load() || timeHandler.TimeStatus()) {
			break
		}

		pvLine.Clear()
		mateFound := false

		startTime := time.Now()
		score := w.alphabeta(alpha, beta, i, 0, &pvLine, true)
		timeSpent += time.Since(startTime).Milliseconds()

		if globalStop.Load() || timeHandler.TimeStatus() {
			if len(prevPVLine.Moves) == 0 && len(pvLine.Moves) > 0 {
				bestScore = score
				bestDepth = i
				prevPVLine = pvLine.Clone()
			}
			break
		}

		// Aspiration window re-search
		if score <= alpha || score >= beta {
			if currentWindow < MaxScore {
				currentWindow *= 2
			}
			alpha = Max(score-currentWindow, -MaxScore)
			beta = Min(score+currentWindow, MaxScore)
			i--
			continue
		}

		if score > Checkmate || score < -Checkmate {
			mateFound = true
		}

		alpha = score - aspirationWindowSize
		beta = score + aspirationWindowSize
		currentWindow = aspirationWindowSize
		bestScore = score
		bestDepth = i
		prevPVLine = pvLine.Clone()

		if w.isMain {
			if timeSpent == 0 {
				timeSpent = 1
			}
			nps := uint64(float64(w.nodes*1000) / float64(timeSpent))
			fmt.Println(
				"info depth", i,
				"score", getMateOrCPScore(bestScore),
				"nodes", w.nodes,
				"time", timeSpent,
				"nps", nps,
				"pv", prevPVLine.String(),
			)
		}

		if mateFound {
			break
		}
	}

	return SearchResult{
		BestMove: prevPVLine.GetPVMove(),
		Score:    bestScore,
		Depth:    bestDepth,
		Nodes:    w.nodes,
	}
}

func (w *searchWorker) checkStop() {
	if w.isMain && timeHandler.TimeStatus() {
		globalStop.Store(true)
	}
}

// isRepetition reports whether the current position already occurred on
// the path from the game start. Twofold counts as a draw inside the tree.
func (w *searchWorker) isRepetition() bool {
	hash := w.hashHistory[len(w.hashHistory)-1]
	for i := len(w.hashHistory) - 2; i >= 0; i-- {
		if w.hashHistory[i] == hash {
			return true
		}
	}
	return false
}

func (w *searchWorker) alphabeta(alpha, beta int32, depth int8, ply int, pv *PVLine, isPVNode bool) int32 {
	w.nodes++
	if w.nodes%2048 == 0 {
		w.checkStop()
	}
	if globalStop.Load() {
		return 0
	}

	b := &w.board
	if ply >= MaxPly {
		return Evaluation(b)
	}

	isRoot := ply == 0
	if !isRoot {
		if b.Halfmoveclock >= 100 || w.isRepetition() {
			return DrawScore
		}
	}

	inCheck := b.OurKingInCheck()
	if inCheck {
		depth++
	}
	if depth <= 0 {
		return w.quiescence(alpha, beta, ply)
	}

	hash := b.Hash()
	ttMove := NullMove
	if entry, found := tt.getEntry(hash); found {
		ttMove = entry.Move
		if !isPVNode && !isRoot {
			if usable, score := tt.useEntry(entry, hash, depth, alpha, beta, ply); usable {
				return score
			}
		}
	}

	staticEval := Evaluation(b)

	// Reverse futility: a non-PV node this far above beta on static eval
	// alone is not worth searching.
	if !isPVNode && !inCheck && depth < int8(len(RFPMargins)) &&
		staticEval-RFPMargins[depth] >= beta {
		return staticEval
	}

	moves := b.GenerateLegalMoves()
	if len(moves) == 0 {
		if inCheck {
			return -MaxScore + int32(ply)
		}
		return DrawScore
	}

	// Internal iterative deepening: a PV node with no hash move orders
	// badly, so run a reduced search first to prime the table.
	if ttMove == NullMove && isPVNode && depth >= IIDMinDepth {
		var iidPV PVLine
		w.alphabeta(alpha, beta, depth-2, ply, &iidPV, isPVNode)
		if entry, found := tt.getEntry(hash); found {
			ttMove = entry.Move
		}
	}

	// The table may hold a move from a colliding position; only trust it
	// if it is actually legal here.
	if ttMove != NullMove {
		legal := false
		for _, m := range moves {
			if m == ttMove {
				legal = true
				break
			}
		}
		if !legal {
			ttMove = NullMove
		}
	}

	mo := NewMoveOrder(b, depth, isPVNode, w.params, &w.ssi[ply], ttMove, moves)

	bestScore := -MaxScore
	bestMove := NullMove
	ttFlag := AlphaFlag
	movesTried := 0
	var childPV PVLine

	for {
		m := mo.NextMove()
		if m == NullMove {
			break
		}
		movesTried++

		isQuiet := !dragontoothmg.IsCapture(m, b) && m.Promote() == 0

		if !isPVNode && !inCheck && isQuiet && bestScore > -Checkmate {
			// Late move pruning: very late quiets at low depth
			if depth < int8(len(LateMovePruningMargins)) &&
				movesTried > LateMovePruningMargins[depth] {
				continue
			}
			// Futility: quiet moves cannot raise a hopeless static eval
			if depth < int8(len(FutilityMargins)) && movesTried > 1 &&
				staticEval+FutilityMargins[depth] <= alpha {
				continue
			}
		}

		piece := movedPiece(b, m)
		to := m.To()

		unapply := b.Apply(m)
		w.appliedPiece[ply] = piece
		w.appliedTo[ply] = to
		w.ssi[ply+1].CounterMoveHistory = w.params.CounterContext(piece, to)
		if ply >= 1 {
			w.ssi[ply+1].FollowupMoveHistory = w.params.FollowupContext(w.appliedPiece[ply-1], w.appliedTo[ply-1])
		} else {
			w.ssi[ply+1].FollowupMoveHistory = nil
		}
		w.hashHistory = append(w.hashHistory, b.Hash())

		childPV.Clear()
		var score int32
		if movesTried == 1 {
			score = -w.alphabeta(-beta, -alpha, depth-1, ply+1, &childPV, isPVNode)
		} else {
			// Late move reductions on quiets searched with a zero window
			var reduction int8
			if depth >= 3 && movesTried > LMRMoveLimit && isQuiet && !inCheck {
				reduction = 1
				if movesTried > 6 {
					reduction = 2
				}
			}
			score = -w.alphabeta(-(alpha + 1), -alpha, depth-1-reduction, ply+1, &childPV, false)
			if score > alpha && reduction > 0 {
				score = -w.alphabeta(-(alpha + 1), -alpha, depth-1, ply+1, &childPV, false)
			}
			if score > alpha && score < beta {
				score = -w.alphabeta(-beta, -alpha, depth-1, ply+1, &childPV, true)
			}
		}

		w.hashHistory = w.hashHistory[:len(w.hashHistory)-1]
		unapply()

		if globalStop.Load() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		if score > alpha {
			alpha = score
			ttFlag = ExactFlag
			pv.Update(m, &childPV)
		}
		if alpha >= beta {
			ttFlag = BetaFlag
			if isQuiet {
				w.params.InsertKiller(m, ply)
				mo.UpdateHistories(m)
			}
			break
		}
	}

	tt.storeEntry(hash, depth, ply, bestMove, bestScore, int8(ttFlag))
	return bestScore
}

func (w *searchWorker) quiescence(alpha, beta int32, ply int) int32 {
	w.nodes++
	if w.nodes%2048 == 0 {
		w.checkStop()
	}
	if globalStop.Load() {
		return 0
	}

	b := &w.board
	eval := Evaluation(b)
	if ply >= MaxPly {
		return eval
	}
	if eval >= beta {
		return beta
	}
	if eval > alpha {
		alpha = eval
	}

	ml := NewMoveList(b.GenerateLegalMoves())
	captureCount := ml.PartitionCaptures(b)
	scores := make([]int32, captureCount)
	for i := 0; i < captureCount; i++ {
		scores[i] = captureTieBreak(b, ml.Get(i))
	}

	for i := 0; i < captureCount; i++ {
		best := i
		for j := i + 1; j < captureCount; j++ {
			if scores[j] > scores[best] {
				best = j
			}
		}
		ml.Swap(i, best)
		scores[i], scores[best] = scores[best], scores[i]

		m := ml.Get(i)
		if see(b, m) < 0 {
			continue
		}

		unapply := b.Apply(m)
		score := -w.quiescence(-beta, -alpha, ply+1)
		unapply()

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

func getMateOrCPScore(score int32) string {
	if score > Checkmate {
		pliesToMate := MaxScore - score
		mateInN := (pliesToMate + 1) / 2
		return fmt.Sprintf("mate %d", mateInN)
	}
	if score < -Checkmate {
		pliesToMate := MaxScore + score
		mateInN := (pliesToMate + 1) / 2
		return fmt.Sprintf("mate -%d", mateInN)
	}
	return fmt.Sprintf("cp %d", score)
}

// DumpRootMoveOrdering prints the order in which the root moves would be
// tried, with the tier each one was pulled from. Debugging aid, wired to
// the orderdump command.
func DumpRootMoveOrdering(b *dragontoothmg.Board) {
	if !tt.isInitialized {
		tt.init(TTSize)
	}

	ttMove := NullMove
	if entry, found := tt.getEntry(b.Hash()); found {
		ttMove = entry.Move
	}

	moves := b.GenerateLegalMoves()
	if ttMove != NullMove {
		legal := false
		for _, m := range moves {
			if m == ttMove {
				legal = true
				break
			}
		}
		if !legal {
			ttMove = NullMove
		}
	}

	var ssi SearchStackInfo
	mo := NewMoveOrder(b, 1, true, searchParams, &ssi, ttMove, moves)
	for i := 0; ; i++ {
		m := mo.NextMove()
		if m == NullMove {
			break
		}
		kind := "quiet"
		if m == ttMove {
			kind = "hash"
		} else if dragontoothmg.IsCapture(m, b) {
			kind = "capture"
		}
		fmt.Printf("info string order %2d %s %s\n", i+1, m.String(), kind)
	}
}
