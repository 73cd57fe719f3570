package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dylhunn/dragontoothmg"

	"heron-engine/engine"
	"heron-engine/store"
)

func main() {
	uciLoop()
}

func uciLoop() {
	scanner := bufio.NewScanner(os.Stdin)
	board := dragontoothmg.ParseFen(dragontoothmg.Startpos)
	gameHashes := []uint64{}

	threads := 1
	var historyStore *store.Store
	defer func() {
		if historyStore != nil {
			historyStore.SaveHistory(engine.HistorySnapshot())
			historyStore.Close()
		}
	}()

	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 { // ignore blank lines
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "uci":
			fmt.Println("id name Heron 1.0")
			fmt.Println("id author Heron authors")
			fmt.Println("option name Threads type spin default 1 min 1 max 32")
			fmt.Println("option name HistoryDir type string default <empty>")
			fmt.Println("uciok")
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			board = dragontoothmg.ParseFen(dragontoothmg.Startpos)
			gameHashes = gameHashes[:0]
			engine.ResetForNewGame()
			if historyStore != nil {
				if snap, found, err := historyStore.LoadHistory(); err == nil && found {
					engine.RestoreHistory(snap)
				}
			}
		case "quit":
			return
		case "stop":
			engine.StopSearch()
		case "moveordering":
			engine.DumpRootMoveOrdering(&board)
		case "go":
			var wTime, bTime, wInc, bInc, depthToUse int
			var err error
			for i := 1; i < len(tokens)-1; i++ {
				switch strings.ToLower(tokens[i]) {
				case "wtime":
					wTime, err = strconv.Atoi(tokens[i+1])
				case "btime":
					bTime, err = strconv.Atoi(tokens[i+1])
				case "winc":
					wInc, err = strconv.Atoi(tokens[i+1])
				case "binc":
					bInc, err = strconv.Atoi(tokens[i+1])
				case "depth":
					depthToUse, err = strconv.Atoi(tokens[i+1])
				}
				if err != nil {
					fmt.Println("info string Malformed go command option", tokens[i])
					err = nil
				}
			}

			var timeToUse, incToUse int
			if board.Wtomove {
				timeToUse, incToUse = wTime, wInc
			} else {
				timeToUse, incToUse = bTime, bInc
			}
			if timeToUse <= 0 {
				timeToUse = 300000
			}
			useCustomDepth := depthToUse > 0
			if !useCustomDepth {
				depthToUse = 50
			}

			engine.SetGameHistory(gameHashes)
			result := engine.StartSearch(&board, clampDepth(depthToUse), timeToUse, incToUse, useCustomDepth, threads)
			fmt.Println("bestmove", result.BestMove.String())
		case "position":
			gameHashes = gameHashes[:0]
			posScanner := bufio.NewScanner(strings.NewReader(line))
			posScanner.Split(bufio.ScanWords)
			posScanner.Scan() // skip the first token
			if !posScanner.Scan() {
				fmt.Println("info string Malformed position command")
				continue
			}
			if strings.ToLower(posScanner.Text()) == "startpos" {
				board = dragontoothmg.ParseFen(dragontoothmg.Startpos)
				posScanner.Scan() // advance the scanner to leave it in a consistent state
			} else if strings.ToLower(posScanner.Text()) == "fen" {
				fenstr := ""
				for posScanner.Scan() && strings.ToLower(posScanner.Text()) != "moves" {
					fenstr += posScanner.Text() + " "
				}
				if fenstr == "" {
					fmt.Println("info string Invalid fen position")
					continue
				}
				board = dragontoothmg.ParseFen(fenstr)
			} else {
				fmt.Println("info string Invalid position subcommand")
				continue
			}
			gameHashes = append(gameHashes, board.Hash())
			if strings.ToLower(posScanner.Text()) != "moves" {
				continue
			}
			for posScanner.Scan() { // for each move
				moveStr := strings.ToLower(posScanner.Text())
				legalMoves := board.GenerateLegalMoves()
				var nextMove dragontoothmg.Move
				found := false
				for _, mv := range legalMoves {
					if mv.String() == moveStr {
						nextMove = mv
						found = true
						break
					}
				}
				if !found {
					fmt.Println("info string Move", moveStr, "not found for position", board.ToFen())
					continue
				}
				board.Apply(nextMove)
				gameHashes = append(gameHashes, board.Hash())
			}
		case "setoption":
			name, value := parseSetOption(tokens)
			switch strings.ToLower(name) {
			case "threads":
				n, err := strconv.Atoi(value)
				if err != nil || n < 1 {
					fmt.Println("info string Invalid Threads value", value)
					continue
				}
				threads = n
			case "historydir":
				if historyStore != nil {
					historyStore.Close()
					historyStore = nil
				}
				s, err := store.Open(value)
				if err != nil {
					fmt.Println("info string Could not open history store:", err)
					continue
				}
				historyStore = s
				if snap, found, err := s.LoadHistory(); err == nil && found {
					engine.RestoreHistory(snap)
				}
			default:
				fmt.Println("info string Unknown option", name)
			}
		default:
			fmt.Println("info string Unknown command:", line)
		}
	}
}

// clampDepth keeps a GUI-supplied depth inside the search's int8 range;
// "go depth 200" must not wrap into a negative depth.
func clampDepth(depth int) int8 {
	return int8(engine.Clamp(depth, 1, 127))
}

// parseSetOption splits "setoption name <name> value <value>"; the value
// may contain spaces (paths).
func parseSetOption(tokens []string) (name string, value string) {
	var nameParts, valueParts []string
	section := ""
	for _, tok := range tokens[1:] {
		switch strings.ToLower(tok) {
		case "name":
			section = "name"
		case "value":
			section = "value"
		default:
			if section == "name" {
				nameParts = append(nameParts, tok)
			} else if section == "value" {
				valueParts = append(valueParts, tok)
			}
		}
	}
	return strings.Join(nameParts, " "), strings.Join(valueParts, " ")
}
