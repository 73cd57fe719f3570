package engine

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

func mustMove(t *testing.T, b *dragontoothmg.Board, uci string) dragontoothmg.Move {
	t.Helper()
	for _, m := range b.GenerateLegalMoves() {
		if m.String() == uci {
			return m
		}
	}
	t.Fatalf("move %s not legal in %s", uci, b.ToFen())
	return NullMove
}

func pullAll(mo *MoveOrder) []dragontoothmg.Move {
	var out []dragontoothmg.Move
	for {
		m := mo.NextMove()
		if m == NullMove {
			break
		}
		out = append(out, m)
	}
	return out
}

func TestOrderingYieldsEveryMoveOnce(t *testing.T) {
	board := dragontoothmg.ParseFen(dragontoothmg.Startpos)
	moves := board.GenerateLegalMoves()

	params := NewSearchParams()
	ssi := SearchStackInfo{Ply: 0}
	mo := NewMoveOrder(&board, 4, false, params, &ssi, NullMove, moves)

	pulled := pullAll(mo)
	if len(pulled) != len(moves) {
		t.Fatalf("expected %d moves, got %d", len(moves), len(pulled))
	}

	seen := make(map[dragontoothmg.Move]bool, len(pulled))
	for _, m := range pulled {
		if seen[m] {
			t.Fatalf("move %s yielded twice", m.String())
		}
		seen[m] = true
	}
	for _, m := range moves {
		if !seen[m] {
			t.Fatalf("legal move %s never yielded", m.String())
		}
	}
}

func TestHashMoveComesFirstAndOnlyOnce(t *testing.T) {
	board := dragontoothmg.ParseFen(dragontoothmg.Startpos)
	moves := board.GenerateLegalMoves()
	hashMove := mustMove(t, &board, "g1f3")

	params := NewSearchParams()
	ssi := SearchStackInfo{Ply: 0}
	mo := NewMoveOrder(&board, 4, false, params, &ssi, hashMove, moves)

	pulled := pullAll(mo)
	if len(pulled) != len(moves) {
		t.Fatalf("expected %d moves, got %d", len(moves), len(pulled))
	}
	if pulled[0] != hashMove {
		t.Fatalf("expected hash move %s first, got %s", hashMove.String(), pulled[0].String())
	}
	for _, m := range pulled[1:] {
		if m == hashMove {
			t.Fatalf("hash move %s yielded twice", hashMove.String())
		}
	}
}

// A node that cuts off on the hash move must never pay for scoring: the
// capture partition and SEE calls only run once a scored entry is needed.
func TestHashMovePullDefersCaptureScoring(t *testing.T) {
	board := dragontoothmg.ParseFen("6k1/8/8/1p1p4/p7/2N5/8/R5K1 w - - 0 1")
	moves := board.GenerateLegalMoves()
	hashMove := mustMove(t, &board, "g1h1")

	params := NewSearchParams()
	ssi := SearchStackInfo{Ply: 0}
	mo := NewMoveOrder(&board, 6, true, params, &ssi, hashMove, moves)

	if m := mo.NextMove(); m != hashMove {
		t.Fatalf("expected hash move first, got %s", m.String())
	}
	if len(mo.scores) != 0 {
		t.Fatalf("hash-move pull already scored %d moves", len(mo.scores))
	}

	// The next pull advances the stage and yields a scored capture.
	next := mo.NextMove()
	if !dragontoothmg.IsCapture(next, &board) {
		t.Fatalf("expected a capture after the hash move, got %s", next.String())
	}
	if len(mo.scores) == 0 {
		t.Fatal("captures were never scored after the hash move")
	}
}

// White has two winning pawn captures (Nxd5, Nxb5), one losing capture
// (Rxa4, the pawn is defended), a killer and a pile of quiets. Expected
// order: hash move, the two winning captures, the killer, the remaining
// quiets, and the losing capture dead last.
func TestOrderingTiers(t *testing.T) {
	board := dragontoothmg.ParseFen("6k1/8/8/1p1p4/p7/2N5/8/R5K1 w - - 0 1")
	moves := board.GenerateLegalMoves()

	hashMove := mustMove(t, &board, "g1h1")
	killer := mustMove(t, &board, "a1b1")
	nxd5 := mustMove(t, &board, "c3d5")
	nxb5 := mustMove(t, &board, "c3b5")
	rxa4 := mustMove(t, &board, "a1a4")

	params := NewSearchParams()
	params.InsertKiller(killer, 0)
	ssi := SearchStackInfo{Ply: 0}
	mo := NewMoveOrder(&board, 6, true, params, &ssi, hashMove, moves)

	pulled := pullAll(mo)
	if len(pulled) != len(moves) {
		t.Fatalf("expected %d moves, got %d", len(moves), len(pulled))
	}

	if pulled[0] != hashMove {
		t.Fatalf("expected hash move first, got %s", pulled[0].String())
	}
	winning := map[dragontoothmg.Move]bool{nxd5: true, nxb5: true}
	if !winning[pulled[1]] || !winning[pulled[2]] || pulled[1] == pulled[2] {
		t.Fatalf("expected winning captures in slots 1-2, got %s %s",
			pulled[1].String(), pulled[2].String())
	}
	if pulled[3] != killer {
		t.Fatalf("expected killer %s in slot 3, got %s", killer.String(), pulled[3].String())
	}
	if pulled[len(pulled)-1] != rxa4 {
		t.Fatalf("expected losing capture %s last, got %s",
			rxa4.String(), pulled[len(pulled)-1].String())
	}
}

// Repeated reinforcement at the depth cap must converge on the decay
// fixed point d*d*64/d = 768 and stay there.
func TestHistoryConvergesToFixedPoint(t *testing.T) {
	board := dragontoothmg.ParseFen(dragontoothmg.Startpos)
	moves := board.GenerateLegalMoves()

	params := NewSearchParams()
	ssi := SearchStackInfo{Ply: 0}
	mo := NewMoveOrder(&board, 12, false, params, &ssi, NullMove, moves)

	best := mo.NextMove()
	if best == NullMove {
		t.Fatal("expected a move from the starting position")
	}

	for i := 0; i < 100; i++ {
		mo.UpdateHistories(best)
	}

	piece := movedPiece(&board, best)
	got := params.HistoryTable[0][piece][best.To()]
	if got != 768 {
		t.Fatalf("expected history weight 768, got %d", got)
	}

	// Another update must not move it off the fixed point.
	mo.UpdateHistories(best)
	got = params.HistoryTable[0][piece][best.To()]
	if got != 768 {
		t.Fatalf("fixed point drifted to %d", got)
	}
}

func TestHistoryPenalizesEarlierQuiets(t *testing.T) {
	board := dragontoothmg.ParseFen(dragontoothmg.Startpos)
	moves := board.GenerateLegalMoves()

	params := NewSearchParams()
	ssi := SearchStackInfo{Ply: 0}
	mo := NewMoveOrder(&board, 6, false, params, &ssi, NullMove, moves)

	first := mo.NextMove()
	second := mo.NextMove()
	best := mo.NextMove()
	mo.UpdateHistories(best)

	check := func(m dragontoothmg.Move, want int32) {
		t.Helper()
		piece := movedPiece(&board, m)
		got := params.HistoryTable[0][piece][m.To()]
		if got != want {
			t.Fatalf("move %s: expected weight %d, got %d", m.String(), want, got)
		}
	}
	check(best, 36)
	check(first, -36)
	check(second, -36)
}

// When only the hash move was examined, feedback has nothing to learn
// from and must leave every table untouched.
func TestHistoryNoOpAfterHashMoveOnly(t *testing.T) {
	board := dragontoothmg.ParseFen(dragontoothmg.Startpos)
	moves := board.GenerateLegalMoves()
	hashMove := mustMove(t, &board, "e2e4")

	params := NewSearchParams()
	ssi := SearchStackInfo{Ply: 0}
	mo := NewMoveOrder(&board, 6, false, params, &ssi, hashMove, moves)

	m := mo.NextMove()
	if m != hashMove {
		t.Fatalf("expected hash move, got %s", m.String())
	}
	mo.UpdateHistories(hashMove)

	if params.HistoryTable != ([2][7][64]int32{}) {
		t.Fatal("history table modified after hash-move-only feedback")
	}
}

func BenchmarkMoveOrdering(b *testing.B) {
	board := dragontoothmg.ParseFen("r2q1rk1/pp1bbppp/2n1pn2/3p4/3P1B2/2NBPN2/PP3PPP/R2Q1RK1 w - - 0 1")
	moves := board.GenerateLegalMoves()
	params := NewSearchParams()
	ssi := SearchStackInfo{Ply: 0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		mo := NewMoveOrder(&board, 8, false, params, &ssi, NullMove, moves)
		for mo.NextMove() != NullMove {
		}
	}
}
