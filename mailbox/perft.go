package mailbox

import (
	"sync"
	"sync/atomic"
)

// Perft counts leaf nodes (move sequences) from the position for a given depth.
// Attacks are generated once for the root; every deeper ply starts from the
// snapshot carried by the move that reached it.
func Perft(p *Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	var root Attacks
	p.GenerateAttacks(p.SideToMove(), &root)
	return newPerftCtx(depth).perft(p, depth, &root)
}

// perftCtx holds one arena and one move buffer per remaining depth, so a full
// traversal allocates only while the buffers warm up.
type perftCtx struct {
	arenas []*Arena
	bufs   [][]MoveInfo
}

func newPerftCtx(depth int) *perftCtx {
	pc := &perftCtx{
		arenas: make([]*Arena, depth+1),
		bufs:   make([][]MoveInfo, depth+1),
	}
	for d := 1; d <= depth; d++ {
		pc.arenas[d] = NewArena(64)
		pc.bufs[d] = make([]MoveInfo, 0, MaxMoves)
	}
	return pc
}

func (pc *perftCtx) perft(p *Position, depth int, attacks *Attacks) uint64 {
	arena := pc.arenas[depth]
	arena.Reset()
	moves := p.GenerateMoves(attacks, arena, pc.bufs[depth][:0])
	pc.bufs[depth] = moves
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, mi := range moves {
		p.DoMove(mi.Move)
		nodes += pc.perft(p, depth-1, mi.Next)
		p.UndoMove()
	}
	return nodes
}

// PerftDivide returns a map from each legal root move to the number of leaf nodes
// reachable from that move at the given depth. Useful for debugging.
func PerftDivide(p *Position, depth int) map[Move]uint64 {
	result := make(map[Move]uint64)
	if depth <= 0 {
		return result
	}
	var root Attacks
	p.GenerateAttacks(p.SideToMove(), &root)
	pc := newPerftCtx(depth)
	for _, mi := range p.GenerateMoves(&root, pc.arenas[depth], nil) {
		if depth == 1 {
			result[mi.Move] = 1
			continue
		}
		p.DoMove(mi.Move)
		result[mi.Move] = pc.perft(p, depth-1, mi.Next)
		p.UndoMove()
	}
	return result
}

// PerftParallel splits the root moves over workers goroutines. Each worker
// searches its own clone of p; p itself is only read.
func PerftParallel(p *Position, depth, workers int) uint64 {
	if depth <= 1 || workers <= 1 {
		return Perft(p, depth)
	}
	var root Attacks
	p.GenerateAttacks(p.SideToMove(), &root)
	moves := p.GenerateMoves(&root, NewArena(MaxMoves), nil)

	jobs := make(chan MoveInfo)
	var total atomic.Uint64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		local := p.Clone()
		wg.Add(1)
		go func() {
			defer wg.Done()
			pc := newPerftCtx(depth - 1)
			for mi := range jobs {
				local.DoMove(mi.Move)
				total.Add(pc.perft(local, depth-1, mi.Next))
				local.UndoMove()
			}
		}()
	}
	for _, mi := range moves {
		jobs <- mi
	}
	close(jobs)
	wg.Wait()
	return total.Load()
}
