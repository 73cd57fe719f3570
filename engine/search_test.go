package engine

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

func TestFindsMateInOne(t *testing.T) {
	ResetForNewGame()
	board := dragontoothmg.ParseFen("6k1/5ppp/8/8/8/8/8/4R2K w - - 0 1")

	result := StartSearch(&board, 3, 0, 0, true, 1)

	if got := result.BestMove.String(); got != "e1e8" {
		t.Fatalf("expected e1e8, got %s", got)
	}
	if result.Score <= Checkmate {
		t.Fatalf("expected a mate score, got %d", result.Score)
	}
}

func TestPrefersWinningCaptureAtRoot(t *testing.T) {
	ResetForNewGame()
	// White wins a free rook with Nxd5.
	board := dragontoothmg.ParseFen("6k1/8/8/3r4/8/4N3/8/6K1 w - - 0 1")

	result := StartSearch(&board, 4, 0, 0, true, 1)

	if got := result.BestMove.String(); got != "e3d5" {
		t.Fatalf("expected e3d5, got %s", got)
	}
}

func TestParallelSearchAgreesOnMate(t *testing.T) {
	ResetForNewGame()
	board := dragontoothmg.ParseFen("6k1/5ppp/8/8/8/8/8/4R2K w - - 0 1")

	result := StartSearch(&board, 3, 0, 0, true, 4)

	if got := result.BestMove.String(); got != "e1e8" {
		t.Fatalf("expected e1e8 with helpers running, got %s", got)
	}
}

func TestRepetitionSeenAcrossRoot(t *testing.T) {
	board := dragontoothmg.ParseFen(dragontoothmg.Startpos)
	SetGameHistory([]uint64{board.Hash()})
	defer SetGameHistory(nil)

	w := newSearchWorker(&board, true)
	if !w.isRepetition() {
		t.Fatal("expected the root position to repeat the game history")
	}

	SetGameHistory(nil)
	w = newSearchWorker(&board, true)
	if w.isRepetition() {
		t.Fatal("unexpected repetition with empty game history")
	}
}

// The stack bound must actually fire: a node at the last usable ply
// searches children that land exactly on MaxPly and get a static eval
// instead of running off the end of the stack arrays.
func TestSearchStopsAtPlyBound(t *testing.T) {
	globalStop.Store(false)
	board := dragontoothmg.ParseFen(dragontoothmg.Startpos)

	w := newSearchWorker(&board, false)
	var pv PVLine
	w.alphabeta(-MaxScore, MaxScore, 2, MaxPly-1, &pv, false)

	w = newSearchWorker(&board, false)
	if got := w.alphabeta(-MaxScore, MaxScore, 2, MaxPly, &pv, false); got != Evaluation(&board) {
		t.Fatalf("expected static eval at the ply bound, got %d", got)
	}

	w = newSearchWorker(&board, false)
	if got := w.quiescence(-MaxScore, MaxScore, MaxPly); got != Evaluation(&board) {
		t.Fatalf("expected static eval at the quiescence ply bound, got %d", got)
	}
}

func TestEvaluationPerspective(t *testing.T) {
	start := dragontoothmg.ParseFen(dragontoothmg.Startpos)
	if score := Evaluation(&start); score != 0 {
		t.Fatalf("expected 0 for the symmetric starting position, got %d", score)
	}

	whiteUp := dragontoothmg.ParseFen("6k1/8/8/8/8/8/8/Q5K1 w - - 0 1")
	if score := Evaluation(&whiteUp); score <= 0 {
		t.Fatalf("expected positive score for the side up a queen, got %d", score)
	}

	blackToMove := dragontoothmg.ParseFen("6k1/8/8/8/8/8/8/Q5K1 b - - 0 1")
	if score := Evaluation(&blackToMove); score >= 0 {
		t.Fatalf("expected negative score for the side down a queen, got %d", score)
	}
}

func TestTranspositionRoundTrip(t *testing.T) {
	var table TransTable
	table.init(1)

	board := dragontoothmg.ParseFen(dragontoothmg.Startpos)
	move := mustMove(t, &board, "e2e4")
	hash := board.Hash()

	table.storeEntry(hash, 6, 0, move, 42, ExactFlag)

	entry, found := table.getEntry(hash)
	if !found {
		t.Fatal("stored entry not found")
	}
	if entry.Move != move || entry.Depth != 6 {
		t.Fatalf("entry mangled: move %s depth %d", entry.Move.String(), entry.Depth)
	}

	usable, score := table.useEntry(entry, hash, 6, -MaxScore, MaxScore, 0)
	if !usable || score != 42 {
		t.Fatalf("expected usable exact score 42, got usable=%v score=%d", usable, score)
	}

	// Too shallow for a deeper probe.
	usable, _ = table.useEntry(entry, hash, 7, -MaxScore, MaxScore, 0)
	if usable {
		t.Fatal("entry from depth 6 must not satisfy a depth 7 probe")
	}
}

func TestMateScoresNormalizedByPly(t *testing.T) {
	var table TransTable
	table.init(1)

	hash := uint64(0xdeadbeef)
	mateScore := MaxScore - 3 // mate found 3 plies from the storing node

	table.storeEntry(hash, 6, 3, NullMove, mateScore, ExactFlag)
	entry, found := table.getEntry(hash)
	if !found {
		t.Fatal("stored entry not found")
	}
	if entry.Score != MaxScore {
		t.Fatalf("expected ply-independent stored score %d, got %d", MaxScore, entry.Score)
	}

	usable, score := table.useEntry(entry, hash, 6, -MaxScore, MaxScore, 5)
	if !usable || score != MaxScore-5 {
		t.Fatalf("expected mate score adjusted to probing ply, got usable=%v score=%d", usable, score)
	}
}
