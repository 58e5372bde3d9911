package mailbox

import "fmt"

// emptySlot is the board entry of an unoccupied square. pieces[emptySlot] is
// always nonePiece, so a lookup through an empty square stays in range.
const emptySlot = numSquares

// StateInfo holds what DoMove overwrites and UndoMove needs back.
type StateInfo struct {
	features     uint8
	rule50       uint16
	epSquare     Square
	captured     PieceCode
	capturedSq   Square
	capturedSlot uint8 // piece-list slot the captured piece occupied
}

// Position is a mailbox board paired with a piece list.
//
// board[sq] is the piece-list index of the piece on sq, or emptySlot.
// pieces[0:live] are exactly the pieces on the board; the slots after them
// hold nonePiece. Removing a piece moves the last live piece into the freed
// slot, which invalidates that piece's index: removeAt patches its board
// entry and DoMove patches the moved-piece index when the mover itself was
// relocated. This is the only place where indices need hand bookkeeping.
type Position struct {
	board  [numSquares]uint8
	pieces [numSquares + 1]Piece
	live   uint8

	kingSq   [2]Square
	features uint8
	rule50   uint16
	epSquare Square

	history []StateInfo
	moves   []Move
}

// NewPosition returns an empty board with White to move and no castling rights.
func NewPosition() *Position {
	p := &Position{}
	p.reset()
	return p
}

func (p *Position) reset() {
	for i := range p.board {
		p.board[i] = emptySlot
	}
	for i := range p.pieces {
		p.pieces[i] = nonePiece
	}
	p.live = 0
	p.kingSq = [2]Square{NoSquare, NoSquare}
	p.features = featNoCastleAll
	p.rule50 = 0
	p.epSquare = NoSquare
	p.history = p.history[:0]
	p.moves = p.moves[:0]
}

// put appends a piece to the list and places it on an empty square.
func (p *Position) put(sq Square, pc PieceCode) {
	idx := p.live
	p.pieces[idx] = Piece{Code: pc, Square: sq}
	p.board[sq] = idx
	p.live++
	if pc.Type() == King {
		p.kingSq[pc.Color()] = sq
	}
}

// Clone returns a deep copy, stacks included. Concurrent searches must each
// work on their own copy.
func (p *Position) Clone() *Position {
	c := *p
	c.history = append(make([]StateInfo, 0, cap(p.history)), p.history...)
	c.moves = append(make([]Move, 0, cap(p.moves)), p.moves...)
	return &c
}

// ==========================
// Accessors
// ==========================

// SideToMove reports which side is to play.
func (p *Position) SideToMove() Color { return Color(p.features & featSideToMove) }

// CanCastle reports whether the given castling right is still available.
func (p *Position) CanCastle(r CastlingRight) bool { return p.features&uint8(r) == 0 }

// EnPassantTarget returns the square a pawn would land on to capture en passant, or NoSquare.
func (p *Position) EnPassantTarget() Square { return p.epSquare }

// Rule50 returns the number of half-moves since the last capture or pawn move.
func (p *Position) Rule50() int { return int(p.rule50) }

// KingSquare returns the cached king square of c (NoSquare if c has no king).
func (p *Position) KingSquare(c Color) Square { return p.kingSq[c] }

// PieceAt returns the piece standing on sq.
func (p *Position) PieceAt(sq Square) PieceCode { return p.pieces[p.board[sq]].Code }

// PieceCount returns the number of pieces on the board.
func (p *Position) PieceCount() int { return int(p.live) }

// Pieces returns a copy of the live piece list, in list order.
func (p *Position) Pieces() []Piece {
	return append([]Piece(nil), p.pieces[:p.live]...)
}

// Ply returns the number of moves applied since setup.
func (p *Position) Ply() int { return len(p.moves) }

// LastMove returns the most recently applied move, NoMove at setup.
func (p *Position) LastMove() Move {
	if len(p.moves) == 0 {
		return NoMove
	}
	return p.moves[len(p.moves)-1]
}

// ==========================
// Make / unmake
// ==========================

// behind returns the square one step back from sq for a pawn of color c.
func behind(sq Square, c Color) Square {
	if c == White {
		return sq - north
	}
	return sq + north
}

// castlingRookSquares returns the rook relocation for a castling king move.
func castlingRookSquares(from, to Square) (rookFrom, rookTo Square) {
	if to > from {
		return to + 1, to - 1
	}
	return to - 2, to + 1
}

// rookHomeRight maps a rook home square to the right it guards.
func rookHomeRight(sq Square) uint8 {
	switch sq {
	case sqH1:
		return featNoCastleWK
	case sqA1:
		return featNoCastleWQ
	case sqH8:
		return featNoCastleBK
	case sqA8:
		return featNoCastleBQ
	}
	return 0
}

// DoMove applies m, which must be legal in the current position (or be the
// candidate under test inside the legality probe). It never fails.
func (p *Position) DoMove(m Move) {
	us := p.SideToMove()
	from, to := m.Source(), m.Dest()
	kind := m.Kind()

	movedIdx := p.board[from]
	movedType := p.pieces[movedIdx].Code.Type()

	capSq := to
	capIdx := p.board[to]
	capCode := p.pieces[capIdx].Code

	switch kind {
	case EnPassant:
		capSq = behind(to, us)
		capIdx = p.board[capSq]
		capCode = p.pieces[capIdx].Code
	case Promotion:
		// same slot, new kind
		p.pieces[movedIdx].Code = MakePiece(us, m.PromotionPiece())
	case Castling:
		rookFrom, rookTo := castlingRookSquares(from, to)
		rookIdx := p.board[rookFrom]
		p.pieces[rookIdx].Square = rookTo
		p.board[rookTo] = rookIdx
		p.board[rookFrom] = emptySlot
	}

	st := StateInfo{
		features:     p.features,
		rule50:       p.rule50,
		epSquare:     p.epSquare,
		captured:     NoPiece,
		capturedSq:   NoSquare,
		capturedSlot: emptySlot,
	}

	if capCode != NoPiece {
		st.captured = capCode
		st.capturedSq = capSq
		st.capturedSlot = capIdx
		p.removeAt(capIdx, capSq)
		if movedIdx == p.live {
			// the mover was the last live piece and now lives in the freed slot
			movedIdx = capIdx
		}
	}

	p.board[from] = emptySlot
	p.board[to] = movedIdx
	p.pieces[movedIdx].Square = to

	p.history = append(p.history, st)
	p.moves = append(p.moves, m)

	p.epSquare = NoSquare
	switch movedType {
	case King:
		p.kingSq[us] = to
		if us == White {
			p.features |= featNoCastleWK | featNoCastleWQ
		} else {
			p.features |= featNoCastleBK | featNoCastleBQ
		}
	case Rook:
		p.features |= rookHomeRight(from)
	case Pawn:
		if d := int(to) - int(from); d == 2*north || d == 2*south {
			p.epSquare = behind(to, us)
		}
	}
	if capCode.Type() == Rook {
		p.features |= rookHomeRight(capSq)
	}

	p.features ^= featSideToMove
	if capCode != NoPiece || movedType == Pawn {
		p.rule50 = 0
	} else {
		p.rule50++
	}
}

// removeAt swap-removes the piece in slot idx standing on sq. The last live
// piece takes over slot idx and its board entry is patched.
func (p *Position) removeAt(idx uint8, sq Square) {
	p.live--
	last := p.live
	p.board[p.pieces[last].Square] = idx
	p.pieces[idx] = p.pieces[last]
	p.pieces[last] = nonePiece
	p.board[sq] = emptySlot
}

// restoreAt is the inverse of removeAt: the piece now in slot idx goes back to
// the end of the list and pc takes slot idx again.
func (p *Position) restoreAt(idx uint8, pc Piece) {
	last := p.live
	if idx != last {
		p.pieces[last] = p.pieces[idx]
		p.board[p.pieces[last].Square] = last
	}
	p.pieces[idx] = pc
	p.board[pc.Square] = idx
	p.live++
}

// UndoMove takes back the last applied move. Undoing with an empty history
// is a programming error and panics.
func (p *Position) UndoMove() {
	n := len(p.history)
	if n == 0 {
		panic("mailbox: UndoMove with empty history")
	}
	st := p.history[n-1]
	m := p.moves[n-1]
	p.history = p.history[:n-1]
	p.moves = p.moves[:n-1]

	p.features = st.features
	p.rule50 = st.rule50
	p.epSquare = st.epSquare

	us := p.SideToMove()
	from, to := m.Source(), m.Dest()

	idx := p.board[to]
	p.board[from] = idx
	p.board[to] = emptySlot
	p.pieces[idx].Square = from

	switch m.Kind() {
	case Promotion:
		p.pieces[idx].Code = MakePiece(us, Pawn)
	case Castling:
		rookFrom, rookTo := castlingRookSquares(from, to)
		rookIdx := p.board[rookTo]
		p.pieces[rookIdx].Square = rookFrom
		p.board[rookFrom] = rookIdx
		p.board[rookTo] = emptySlot
	}

	if p.pieces[idx].Code.Type() == King {
		p.kingSq[us] = from
	}

	if st.captured != NoPiece {
		p.restoreAt(st.capturedSlot, Piece{Code: st.captured, Square: st.capturedSq})
	}
}

// ==========================
// Consistency
// ==========================

// Validate checks that the board array, the piece list, the king cache and
// the state flags agree with each other.
func (p *Position) Validate() error {
	if int(p.live) > numSquares {
		return fmt.Errorf("live piece count %d exceeds board size", p.live)
	}
	for i := 0; i < int(p.live); i++ {
		pc := p.pieces[i]
		if pc.Code.Type() == Empty || pc.Code.Type() > Queen {
			return fmt.Errorf("slot %d: invalid piece code %#x", i, pc.Code)
		}
		if pc.Square >= NoSquare {
			return fmt.Errorf("slot %d: piece off board", i)
		}
		if int(p.board[pc.Square]) != i {
			return fmt.Errorf("slot %d: board[%s]=%d", i, pc.Square, p.board[pc.Square])
		}
	}
	for i := int(p.live); i < len(p.pieces); i++ {
		if p.pieces[i] != nonePiece {
			return fmt.Errorf("stale slot %d holds %v", i, p.pieces[i])
		}
	}
	var kings [2]int
	var kingAt [2]Square
	for sq := Square(0); sq < NoSquare; sq++ {
		idx := p.board[sq]
		if idx == emptySlot {
			continue
		}
		if idx >= p.live {
			return fmt.Errorf("board[%s]=%d beyond live count %d", sq, idx, p.live)
		}
		if p.pieces[idx].Square != sq {
			return fmt.Errorf("board[%s]=%d but piece is on %s", sq, idx, p.pieces[idx].Square)
		}
		if code := p.pieces[idx].Code; code.Type() == King {
			kings[code.Color()]++
			kingAt[code.Color()] = sq
		}
	}
	for c := White; c <= Black; c++ {
		switch kings[c] {
		case 0:
			if p.kingSq[c] != NoSquare {
				return fmt.Errorf("%s has no king but cache says %s", c, p.kingSq[c])
			}
		case 1:
			if p.kingSq[c] != kingAt[c] {
				return fmt.Errorf("%s king cache %s, king on %s", c, p.kingSq[c], kingAt[c])
			}
		}
	}
	if p.epSquare != NoSquare && p.epSquare.Rank() != 2 && p.epSquare.Rank() != 5 {
		return fmt.Errorf("en passant square %s not on rank 3 or 6", p.epSquare)
	}
	if p.features&^uint8(featSideToMove|featNoCastleAll) != 0 {
		return fmt.Errorf("unknown feature bits %#x", p.features)
	}
	if len(p.history) != len(p.moves) {
		return fmt.Errorf("history depth %d, move stack depth %d", len(p.history), len(p.moves))
	}
	return nil
}
