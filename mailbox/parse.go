package mailbox

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMoveLength    = errors.New("move token must be 4 or 5 characters")
	ErrMoveSquare    = errors.New("invalid square in move token")
	ErrMovePromotion = errors.New("invalid promotion piece")
	ErrNoPiece       = errors.New("no piece on source square")
	ErrIllegalMove   = errors.New("illegal move")
)

// ParseMove converts a coordinate token (e2e4, e7e8q) into a Move for the
// current position. The kind is inferred: a fifth character is a promotion, a
// king moving more than one file castles, and a pawn landing on the
// en-passant target captures en passant. The result is not checked for
// legality; use FindLegal for that.
func ParseMove(p *Position, token string) (Move, error) {
	token = strings.TrimSpace(token)
	if len(token) < 4 || len(token) > 5 {
		return NoMove, fmt.Errorf("%w: %q", ErrMoveLength, token)
	}
	from, ok := SquareFromString(token[0:2])
	if !ok {
		return NoMove, fmt.Errorf("%w: %q", ErrMoveSquare, token)
	}
	to, ok := SquareFromString(token[2:4])
	if !ok {
		return NoMove, fmt.Errorf("%w: %q", ErrMoveSquare, token)
	}

	if len(token) == 5 {
		var pt PieceType
		switch token[4] {
		case 'q':
			pt = Queen
		case 'r':
			pt = Rook
		case 'b':
			pt = Bishop
		case 'n':
			pt = Knight
		default:
			return NoMove, fmt.Errorf("%w: %q", ErrMovePromotion, token)
		}
		return NewPromotion(from, to, pt), nil
	}

	moved := p.PieceAt(from)
	if moved == NoPiece {
		return NoMove, fmt.Errorf("%w: %q", ErrNoPiece, token)
	}
	fileDist := from.File() - to.File()
	if fileDist < 0 {
		fileDist = -fileDist
	}
	switch {
	case moved.Type() == King && fileDist > 1:
		return NewMove(from, to, Castling), nil
	case moved.Type() == Pawn && to == p.epSquare:
		return NewMove(from, to, EnPassant), nil
	}
	return NewMove(from, to, Normal), nil
}

// FindLegal parses token and returns it only if it is one of the legal moves
// of the position.
func (p *Position) FindLegal(token string) (Move, error) {
	m, err := ParseMove(p, token)
	if err != nil {
		return NoMove, err
	}
	for _, legal := range p.LegalMoves() {
		if legal == m {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, token)
}
