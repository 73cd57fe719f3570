// Command orderdump prints the order in which the engine would try the
// legal moves of a position, one per line with its tier.
//
// Usage: orderdump "<fen>"  (defaults to the starting position)
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dylhunn/dragontoothmg"

	"heron-engine/engine"
)

func main() {
	fen := dragontoothmg.Startpos
	if len(os.Args) > 1 {
		fen = strings.Join(os.Args[1:], " ")
	}

	board := dragontoothmg.ParseFen(fen)
	fmt.Println("info string position", board.ToFen())
	engine.DumpRootMoveOrdering(&board)
}
