package engine

import (
	"github.com/dylhunn/dragontoothmg"
	"golang.org/x/sync/errgroup"
)

// searchInParallel runs a lazy SMP search: helper workers search the same
// root with their own board copy and stack, communicating only through the
// shared transposition table and heuristic tables. The main worker's result
// is the answer; helpers exist to fill the table from different move orders.
func searchInParallel(board *dragontoothmg.Board, maxDepth int8, threads int) SearchResult {
	if threads < 1 {
		threads = 1
	}

	var g errgroup.Group
	for i := 1; i < threads; i++ {
		helper := newSearchWorker(board, false)
		helperDepth := maxDepth
		// Stagger helper depths so workers disagree about move order early.
		if i%2 == 1 && helperDepth < 100 {
			helperDepth++
		}
		g.Go(func() error {
			helper.iterativeDeepening(helperDepth)
			return nil
		})
	}

	main := newSearchWorker(board, true)
	result := main.iterativeDeepening(maxDepth)

	globalStop.Store(true)
	g.Wait() // helpers return nil errors; Wait is for joining only

	return result
}
