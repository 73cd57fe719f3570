package engine

import (
	"unsafe"

	"github.com/dylhunn/dragontoothmg"
)

const (
	// Flags
	AlphaFlag = iota
	BetaFlag
	ExactFlag

	// In MB
	TTSize      = 256
	clusterSize = 4

	// Unusable score
	UnusableScore int32 = -32750
)

// TransTable is the shared transposition table. Probes and stores are
// unsynchronized; a torn entry fails the hash check and is simply ignored.
type TransTable struct {
	isInitialized bool
	entries       []TTEntry
	clusterCount  uint64
}

type TTEntry struct {
	Hash  uint64
	Depth int8
	Move  dragontoothmg.Move
	Score int32
	Flag  int8
}

func (TT *TransTable) clearTT() {
	TT.entries = nil
	TT.isInitialized = false
	TT.clusterCount = 0
}

func (TT *TransTable) init(sizeMB int) {
	entrySize := uint64(unsafe.Sizeof(TTEntry{}))
	totalBytes := uint64(sizeMB) * 1024 * 1024
	clusterBytes := entrySize * clusterSize
	clusterCount := totalBytes / clusterBytes
	if clusterCount == 0 {
		clusterCount = 1
	}
	TT.clusterCount = clusterCount
	TT.entries = make([]TTEntry, TT.clusterCount*clusterSize)
	TT.isInitialized = true
}

// useEntry decides whether a probed entry's score can stand in for a
// search at this depth and window. Mate scores are stored relative to the
// storing node and normalized back to the probing ply here.
func (TT *TransTable) useEntry(ttEntry *TTEntry, hash uint64, depth int8, alpha int32, beta int32, ply int) (usable bool, score int32) {
	score = UnusableScore
	if ttEntry == nil || ttEntry.Hash != hash {
		return false, score
	}
	if ttEntry.Depth < depth {
		return false, score
	}

	norm := ttEntry.Score
	if norm > Checkmate {
		norm -= int32(ply)
	} else if norm < -Checkmate {
		norm += int32(ply)
	}

	switch ttEntry.Flag {
	case ExactFlag:
		return true, norm
	case AlphaFlag:
		if norm <= alpha {
			return true, alpha
		}
	case BetaFlag:
		if norm >= beta {
			return true, beta
		}
	}
	return false, score
}

func (TT *TransTable) getEntry(hash uint64) (entry *TTEntry, found bool) {
	if TT.clusterCount == 0 {
		return nil, false
	}

	clusterIndex := hash % TT.clusterCount
	start := int(clusterIndex * clusterSize)
	for i := 0; i < clusterSize; i++ {
		next := &TT.entries[start+i]
		if next.Hash == hash {
			return next, true
		}
	}
	return nil, false
}

// storeEntry writes an entry into the hash's cluster: same hash first,
// then an empty slot, otherwise the shallowest entry is evicted.
func (TT *TransTable) storeEntry(hash uint64, depth int8, ply int, move dragontoothmg.Move, score int32, flag int8) {
	if TT.clusterCount == 0 {
		return
	}

	clusterIndex := hash % TT.clusterCount
	base := int(clusterIndex * clusterSize)

	// Mate scores are made ply-independent before storing.
	if score > Checkmate {
		score += int32(ply)
	}
	if score < -Checkmate {
		score -= int32(ply)
	}
	targetIdx := -1

	for i := 0; i < clusterSize; i++ {
		idx := base + i
		if TT.entries[idx].Hash == hash {
			targetIdx = idx
			break
		}
	}

	if targetIdx == -1 {
		for i := 0; i < clusterSize; i++ {
			idx := base + i
			if TT.entries[idx].Hash == 0 {
				targetIdx = idx
				break
			}
		}
	}

	if targetIdx == -1 {
		targetIdx = base
		minDepth := TT.entries[base].Depth
		for i := 1; i < clusterSize; i++ {
			idx := base + i
			if TT.entries[idx].Depth < minDepth {
				minDepth = TT.entries[idx].Depth
				targetIdx = idx
			}
		}
	}

	entry := &TT.entries[targetIdx]
	entry.Hash = hash
	entry.Depth = depth
	entry.Move = move
	entry.Flag = flag
	entry.Score = score
}
