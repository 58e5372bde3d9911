package mailbox

// MaxMoves is the largest number of legal moves in any reachable position.
const MaxMoves = 218

// MoveInfo is a legal move together with the attacks of the opponent in the
// position after the move. The next ply generates from Next instead of
// recomputing it. Next belongs to the Arena that produced it and is valid
// until that arena is reset.
type MoveInfo struct {
	Move Move
	Next *Attacks
}

// Arena owns the attack snapshots of one ply. A snapshot handed out by
// scratch becomes permanent only when keep is called; otherwise the next
// candidate reuses it.
type Arena struct {
	slots []*Attacks
	used  int
}

// NewArena returns an arena with room for n snapshots before it grows.
func NewArena(n int) *Arena {
	a := &Arena{slots: make([]*Attacks, n)}
	for i := range a.slots {
		a.slots[i] = new(Attacks)
	}
	return a
}

// Reset releases every snapshot kept since the last reset.
func (a *Arena) Reset() { a.used = 0 }

// Len returns the number of kept snapshots.
func (a *Arena) Len() int { return a.used }

func (a *Arena) scratch() *Attacks {
	if a.used == len(a.slots) {
		a.slots = append(a.slots, new(Attacks))
	}
	return a.slots[a.used]
}

func (a *Arena) keep() { a.used++ }

// GenerateMoves appends every legal move of the side to move to dst.
// attacks must hold the side-to-move's attacks for the current position, as
// produced by GenerateAttacks or carried in a MoveInfo.Next. The snapshots
// of the returned moves are taken from arena.
func (p *Position) GenerateMoves(attacks *Attacks, arena *Arena, dst []MoveInfo) []MoveInfo {
	us := p.SideToMove()

	// 1. Attacks turned into captures (and en passant).
	for sq := Square(0); sq < NoSquare; sq++ {
		if attacks.Count(sq) == 0 {
			continue
		}
		target := p.PieceAt(sq)
		if target != NoPiece && target.Color() == us {
			continue
		}
		for _, m := range attacks.On(sq) {
			if p.PieceAt(m.Source()).Type() == Pawn {
				if target == NoPiece && m.Kind() != EnPassant {
					continue
				}
				if isPromotionRank(sq, us) {
					dst = p.addPromotions(m, arena, dst)
					continue
				}
			}
			dst = p.addIfLegal(m, arena, dst)
		}
	}

	// 2. Quiet moves that are not attacks: pawn pushes and castling.
	for i := 0; i < int(p.live); i++ {
		pc := p.pieces[i]
		if pc.Code != MakePiece(us, Pawn) {
			continue
		}
		dst = p.pawnPushes(pc.Square, us, arena, dst)
	}
	return p.castlingMoves(us, arena, dst)
}

func isPromotionRank(sq Square, c Color) bool {
	if c == White {
		return sq.Rank() == boardHeight-1
	}
	return sq.Rank() == 0
}

func isPawnStartRank(sq Square, c Color) bool {
	if c == White {
		return sq.Rank() == 1
	}
	return sq.Rank() == boardHeight-2
}

func (p *Position) pawnPushes(from Square, us Color, arena *Arena, dst []MoveInfo) []MoveInfo {
	push := north
	if us == Black {
		push = south
	}
	one := int(from) + push
	if one < 0 || one >= numSquares || p.board[one] != emptySlot {
		return dst
	}
	m := NewMove(from, Square(one), Normal)
	if isPromotionRank(Square(one), us) {
		return p.addPromotions(m, arena, dst)
	}
	dst = p.addIfLegal(m, arena, dst)
	if isPawnStartRank(from, us) {
		two := one + push
		if p.board[two] == emptySlot {
			dst = p.addIfLegal(NewMove(from, Square(two), Normal), arena, dst)
		}
	}
	return dst
}

// addPromotions expands m into the four promotions. The promoted piece stands
// on the same square whatever its kind, so the opponent's attack map and the
// king-safety verdict are the same for all four: one probe decides them and
// its snapshot is shared read-only.
func (p *Position) addPromotions(m Move, arena *Arena, dst []MoveInfo) []MoveInfo {
	probe := m.WithPromotion(Queen)
	next := arena.scratch()
	if !p.isLegal(probe, next) {
		return dst
	}
	arena.keep()
	return append(dst,
		MoveInfo{Move: probe, Next: next},
		MoveInfo{Move: m.WithPromotion(Rook), Next: next},
		MoveInfo{Move: m.WithPromotion(Bishop), Next: next},
		MoveInfo{Move: m.WithPromotion(Knight), Next: next},
	)
}

func (p *Position) addIfLegal(m Move, arena *Arena, dst []MoveInfo) []MoveInfo {
	next := arena.scratch()
	if !p.isLegal(m, next) {
		return dst
	}
	arena.keep()
	return append(dst, MoveInfo{Move: m, Next: next})
}

// isLegal plays m, fills next with the opponent's attacks in the resulting
// position, and takes m back. m is legal when the mover's king is not among
// the attacked squares.
func (p *Position) isLegal(m Move, next *Attacks) bool {
	mover := p.SideToMove()
	p.DoMove(m)
	p.GenerateAttacks(mover.Other(), next)
	legal := !next.IsAttacked(p.kingSq[mover])
	p.UndoMove()
	return legal
}

type castleSide struct {
	right    uint8
	kingFrom Square
	kingTo   Square
	rookHome Square
}

var castleSides = [2][2]castleSide{
	White: {
		{featNoCastleWK, sqE1, sqE1 + 2, sqH1},
		{featNoCastleWQ, sqE1, sqE1 - 2, sqA1},
	},
	Black: {
		{featNoCastleBK, sqE8, sqE8 + 2, sqH8},
		{featNoCastleBQ, sqE8, sqE8 - 2, sqA8},
	},
}

// castlingMoves adds each castling move whose right is intact, whose path is
// empty, and whose king neither starts on nor passes through an attacked
// square.
func (p *Position) castlingMoves(us Color, arena *Arena, dst []MoveInfo) []MoveInfo {
	for _, cs := range castleSides[us] {
		if p.features&cs.right != 0 {
			continue
		}
		if p.kingSq[us] != cs.kingFrom || p.PieceAt(cs.rookHome) != MakePiece(us, Rook) {
			continue
		}
		lo, hi := cs.kingFrom, cs.rookHome
		if lo > hi {
			lo, hi = hi, lo
		}
		clear := true
		for sq := lo + 1; sq < hi; sq++ {
			if p.board[sq] != emptySlot {
				clear = false
				break
			}
		}
		if !clear {
			continue
		}
		m := NewMove(cs.kingFrom, cs.kingTo, Castling)
		next := arena.scratch()
		if !p.isLegal(m, next) {
			continue
		}
		pass := (cs.kingFrom + cs.kingTo) / 2
		if next.IsAttacked(cs.kingFrom) || next.IsAttacked(pass) {
			continue
		}
		arena.keep()
		dst = append(dst, MoveInfo{Move: m, Next: next})
	}
	return dst
}

// LegalMoves returns the legal moves of the side to move.
func (p *Position) LegalMoves() []Move {
	var attacks Attacks
	p.GenerateAttacks(p.SideToMove(), &attacks)
	infos := p.GenerateMoves(&attacks, NewArena(0), make([]MoveInfo, 0, MaxMoves))
	moves := make([]Move, len(infos))
	for i, mi := range infos {
		moves[i] = mi.Move
	}
	return moves
}

// InCheck reports whether the side to move's king is attacked.
func (p *Position) InCheck() bool {
	var attacks Attacks
	us := p.SideToMove()
	p.GenerateAttacks(us.Other(), &attacks)
	return attacks.IsAttacked(p.kingSq[us])
}
