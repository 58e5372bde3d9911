package mailbox

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the standard initial chess position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// FENField identifies one field of a FEN string.
type FENField uint8

const (
	FieldPlacement FENField = iota
	FieldSideToMove
	FieldCastling
	FieldEnPassant
	FieldHalfmove
	FieldFullmove
)

func (f FENField) String() string {
	switch f {
	case FieldPlacement:
		return "piece placement"
	case FieldSideToMove:
		return "side to move"
	case FieldCastling:
		return "castling rights"
	case FieldEnPassant:
		return "en passant square"
	case FieldHalfmove:
		return "half-move clock"
	default:
		return "full-move number"
	}
}

// Sentinel causes wrapped by FENError.
var (
	ErrTooShort    = errors.New("too short")
	ErrTooLong     = errors.New("too long")
	ErrInvalidChar = errors.New("invalid character")
	ErrOutOfRange  = errors.New("out of range")
)

// FENError reports which field of a FEN string could not be parsed and why.
type FENError struct {
	Field FENField
	Err   error // one of ErrTooShort, ErrTooLong, ErrInvalidChar, ErrOutOfRange
	Token string
}

func (e *FENError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("invalid FEN: %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("invalid FEN: %s: %v (%q)", e.Field, e.Err, e.Token)
}

func (e *FENError) Unwrap() error { return e.Err }

func fenErr(field FENField, err error, token string) *FENError {
	return &FENError{Field: field, Err: err, Token: token}
}

// ParseFEN parses a FEN string and returns a new Position set up to it.
func ParseFEN(fen string) (*Position, error) {
	p := NewPosition()
	if err := p.parseFEN(fen); err != nil {
		return nil, err
	}
	return p, nil
}

// SetFromFEN replaces the position with the one described by fen and clears
// the move history. On error the receiver is left untouched.
func (p *Position) SetFromFEN(fen string) error {
	tmp := NewPosition()
	if err := tmp.parseFEN(fen); err != nil {
		return err
	}
	hist, moves := p.history[:0], p.moves[:0]
	*p = *tmp
	p.history, p.moves = hist, moves
	return nil
}

func (p *Position) parseFEN(fen string) error {
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return fenErr(FieldPlacement, ErrTooShort, "")
	}
	if len(fields) > 6 {
		return fenErr(FieldFullmove, ErrTooLong, strings.Join(fields[6:], " "))
	}

	// 1. Piece placement
	if err := p.parsePlacement(fields[0]); err != nil {
		return err
	}

	// 2. Side to move
	if len(fields) < 2 {
		return fenErr(FieldSideToMove, ErrTooShort, "")
	}
	switch side := fields[1]; {
	case side == "w":
	case side == "b":
		p.features |= featSideToMove
	case len(side) > 1:
		return fenErr(FieldSideToMove, ErrTooLong, side)
	default:
		return fenErr(FieldSideToMove, ErrInvalidChar, side)
	}

	// 3. Castling rights
	if len(fields) < 3 {
		return fenErr(FieldCastling, ErrTooShort, "")
	}
	if err := p.parseCastling(fields[2]); err != nil {
		return err
	}

	// 4. En passant target square
	if len(fields) < 4 {
		return fenErr(FieldEnPassant, ErrTooShort, "")
	}
	if err := p.parseEnPassant(fields[3]); err != nil {
		return err
	}

	// 5. Halfmove clock
	if len(fields) > 4 {
		n, err := parseCounter(fields[4])
		if err != nil {
			return fenErr(FieldHalfmove, ErrInvalidChar, fields[4])
		}
		if n < 0 || n > 255 {
			return fenErr(FieldHalfmove, ErrOutOfRange, fields[4])
		}
		p.rule50 = uint16(n)
	}

	// 6. Fullmove number, validated but not kept
	if len(fields) > 5 {
		n, err := parseCounter(fields[5])
		if err != nil {
			return fenErr(FieldFullmove, ErrInvalidChar, fields[5])
		}
		if n < 1 {
			return fenErr(FieldFullmove, ErrOutOfRange, fields[5])
		}
	}
	return nil
}

// parseCounter reads an unsigned decimal counter. Atoi alone would let
// "+5" and "-0" through.
func parseCounter(s string) (int, error) {
	if s == "" || s[0] < '0' || s[0] > '9' {
		return 0, strconv.ErrSyntax
	}
	return strconv.Atoi(s)
}

func (p *Position) parsePlacement(s string) error {
	rank, file := boardHeight-1, 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '/':
			if file < boardWidth {
				return fenErr(FieldPlacement, ErrTooShort, s)
			}
			rank--
			file = 0
			if rank < 0 {
				return fenErr(FieldPlacement, ErrTooLong, s)
			}
		case ch >= '1' && ch <= '8':
			file += int(ch - '0')
			if file > boardWidth {
				return fenErr(FieldPlacement, ErrTooLong, s)
			}
		default:
			pc := pieceFromChar(ch)
			if pc == NoPiece {
				return fenErr(FieldPlacement, ErrInvalidChar, string(ch))
			}
			if file >= boardWidth {
				return fenErr(FieldPlacement, ErrTooLong, s)
			}
			p.put(MakeSquare(file, rank), pc)
			file++
		}
	}
	if rank != 0 || file != boardWidth {
		return fenErr(FieldPlacement, ErrTooShort, s)
	}
	return nil
}

func (p *Position) parseCastling(s string) error {
	p.features |= featNoCastleAll
	if s == "-" {
		return nil
	}
	if len(s) > 4 {
		return fenErr(FieldCastling, ErrTooLong, s)
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'K':
			p.features &^= featNoCastleWK
		case 'Q':
			p.features &^= featNoCastleWQ
		case 'k':
			p.features &^= featNoCastleBK
		case 'q':
			p.features &^= featNoCastleBQ
		default:
			return fenErr(FieldCastling, ErrInvalidChar, s)
		}
	}
	return nil
}

func (p *Position) parseEnPassant(s string) error {
	if s == "-" {
		p.epSquare = NoSquare
		return nil
	}
	switch {
	case len(s) < 2:
		return fenErr(FieldEnPassant, ErrTooShort, s)
	case len(s) > 2:
		return fenErr(FieldEnPassant, ErrTooLong, s)
	}
	sq, ok := SquareFromString(s)
	if !ok {
		return fenErr(FieldEnPassant, ErrInvalidChar, s)
	}
	// the target lies behind a pawn of the side that just moved
	want := 5
	if p.SideToMove() == Black {
		want = 2
	}
	if sq.Rank() != want {
		return fenErr(FieldEnPassant, ErrOutOfRange, s)
	}
	p.epSquare = sq
	return nil
}

// ToFEN produces the FEN string of the position. The full-move number is not
// tracked and is always written as 1.
func (p *Position) ToFEN() string {
	var sb strings.Builder

	for rank := boardHeight - 1; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < boardWidth; file++ {
			pc := p.PieceAt(MakeSquare(file, rank))
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteByte(pc.Char())
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	if p.SideToMove() == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	sb.WriteString(p.castlingString())
	sb.WriteByte(' ')
	sb.WriteString(p.epSquare.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(int(p.rule50)))
	sb.WriteString(" 1")
	return sb.String()
}

func (p *Position) castlingString() string {
	var s []byte
	if p.CanCastle(WhiteKingSide) {
		s = append(s, 'K')
	}
	if p.CanCastle(WhiteQueenSide) {
		s = append(s, 'Q')
	}
	if p.CanCastle(BlackKingSide) {
		s = append(s, 'k')
	}
	if p.CanCastle(BlackQueenSide) {
		s = append(s, 'q')
	}
	if len(s) == 0 {
		return "-"
	}
	return string(s)
}
