package mailbox_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chess-movegen/mailbox"
)

func mustFEN(t *testing.T, fen string) *mailbox.Position {
	t.Helper()
	p, err := mailbox.ParseFEN(fen)
	require.NoError(t, err, fen)
	require.NoError(t, p.Validate())
	return p
}

func TestParseFENStartPos(t *testing.T) {
	p := mustFEN(t, mailbox.StartFEN)
	assert.Equal(t, mailbox.White, p.SideToMove())
	assert.Equal(t, 32, p.PieceCount())
	assert.Equal(t, sq("e1"), p.KingSquare(mailbox.White))
	assert.Equal(t, sq("e8"), p.KingSquare(mailbox.Black))
	assert.Equal(t, mailbox.NoSquare, p.EnPassantTarget())
	assert.Equal(t, 0, p.Rule50())
	for _, r := range []mailbox.CastlingRight{
		mailbox.WhiteKingSide, mailbox.WhiteQueenSide, mailbox.BlackKingSide, mailbox.BlackQueenSide,
	} {
		assert.True(t, p.CanCastle(r))
	}
	assert.Equal(t, mailbox.MakePiece(mailbox.White, mailbox.Queen), p.PieceAt(sq("d1")))
	assert.Equal(t, mailbox.MakePiece(mailbox.Black, mailbox.Knight), p.PieceAt(sq("g8")))
	assert.Equal(t, mailbox.NoPiece, p.PieceAt(sq("e4")))
}

func TestToFENRoundTrip(t *testing.T) {
	fens := []string{
		mailbox.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"k7/8/8/3pP3/8/8/8/7K w - d6 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbqkbnr/pppp1ppp/8/8/3Pp3/8/PPP1PPPP/RNBQKBNR b Kq d3 17 1",
	}
	for _, fen := range fens {
		p := mustFEN(t, fen)
		assert.Equal(t, fen, p.ToFEN())
	}
}

func TestToFENFullmoveAlwaysOne(t *testing.T) {
	p := mustFEN(t, "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10")
	assert.Equal(t, "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 1", p.ToFEN())
}

func TestParseFENOptionalCounters(t *testing.T) {
	p := mustFEN(t, "4k3/8/8/8/8/8/8/4K3 b - -")
	assert.Equal(t, mailbox.Black, p.SideToMove())
	assert.Equal(t, 0, p.Rule50())

	p = mustFEN(t, "4k3/8/8/8/8/8/8/4K3 w - - 42")
	assert.Equal(t, 42, p.Rule50())
}

func TestParseFENErrors(t *testing.T) {
	cases := []struct {
		name  string
		fen   string
		field mailbox.FENField
		err   error
	}{
		{"empty", "", mailbox.FieldPlacement, mailbox.ErrTooShort},
		{"short rank", "rnbqkbn/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", mailbox.FieldPlacement, mailbox.ErrTooShort},
		{"missing rank", "rnbqkbnr/pppppppp/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", mailbox.FieldPlacement, mailbox.ErrTooShort},
		{"nine ranks", "rnbqkbnr/pppppppp/8/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", mailbox.FieldPlacement, mailbox.ErrTooLong},
		{"wide rank", "rnbqkbnr/ppppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", mailbox.FieldPlacement, mailbox.ErrTooLong},
		{"wide digits", "rnbqkbnr/pppppppp/44p/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", mailbox.FieldPlacement, mailbox.ErrTooLong},
		{"bad piece", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w KQkq - 0 1", mailbox.FieldPlacement, mailbox.ErrInvalidChar},
		{"no side", "8/8/8/8/8/8/8/8", mailbox.FieldSideToMove, mailbox.ErrTooShort},
		{"bad side", "8/8/8/8/8/8/8/8 x - -", mailbox.FieldSideToMove, mailbox.ErrInvalidChar},
		{"long side", "8/8/8/8/8/8/8/8 white - -", mailbox.FieldSideToMove, mailbox.ErrTooLong},
		{"no castling", "8/8/8/8/8/8/8/8 w", mailbox.FieldCastling, mailbox.ErrTooShort},
		{"bad castling", "8/8/8/8/8/8/8/8 w KX -", mailbox.FieldCastling, mailbox.ErrInvalidChar},
		{"long castling", "8/8/8/8/8/8/8/8 w KQkqK -", mailbox.FieldCastling, mailbox.ErrTooLong},
		{"no ep", "8/8/8/8/8/8/8/8 w -", mailbox.FieldEnPassant, mailbox.ErrTooShort},
		{"short ep", "8/8/8/8/8/8/8/8 w - e", mailbox.FieldEnPassant, mailbox.ErrTooShort},
		{"long ep", "8/8/8/8/8/8/8/8 w - e3e", mailbox.FieldEnPassant, mailbox.ErrTooLong},
		{"bad ep", "8/8/8/8/8/8/8/8 w - z3", mailbox.FieldEnPassant, mailbox.ErrInvalidChar},
		{"ep wrong rank", "8/8/8/8/8/8/8/8 w - e3", mailbox.FieldEnPassant, mailbox.ErrOutOfRange},
		{"ep wrong rank black", "8/8/8/8/8/8/8/8 b - e6", mailbox.FieldEnPassant, mailbox.ErrOutOfRange},
		{"bad halfmove", "8/8/8/8/8/8/8/8 w - - x", mailbox.FieldHalfmove, mailbox.ErrInvalidChar},
		{"signed halfmove", "8/8/8/8/8/8/8/8 w - - +5", mailbox.FieldHalfmove, mailbox.ErrInvalidChar},
		{"negative zero halfmove", "8/8/8/8/8/8/8/8 w - - -0", mailbox.FieldHalfmove, mailbox.ErrInvalidChar},
		{"halfmove range", "8/8/8/8/8/8/8/8 w - - 256", mailbox.FieldHalfmove, mailbox.ErrOutOfRange},
		{"bad fullmove", "8/8/8/8/8/8/8/8 w - - 0 y", mailbox.FieldFullmove, mailbox.ErrInvalidChar},
		{"signed fullmove", "8/8/8/8/8/8/8/8 w - - 0 +1", mailbox.FieldFullmove, mailbox.ErrInvalidChar},
		{"zero fullmove", "8/8/8/8/8/8/8/8 w - - 0 0", mailbox.FieldFullmove, mailbox.ErrOutOfRange},
		{"trailing", "8/8/8/8/8/8/8/8 w - - 0 1 extra", mailbox.FieldFullmove, mailbox.ErrTooLong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := mailbox.ParseFEN(tc.fen)
			require.Error(t, err)
			var fe *mailbox.FENError
			require.True(t, errors.As(err, &fe), "not a FENError: %v", err)
			assert.Equal(t, tc.field, fe.Field, err.Error())
			assert.True(t, errors.Is(err, tc.err), "got %v want %v", err, tc.err)
		})
	}
}

func TestSetFromFENKeepsPositionOnError(t *testing.T) {
	p := mustFEN(t, mailbox.StartFEN)
	m, err := p.FindLegal("e2e4")
	require.NoError(t, err)
	p.DoMove(m)
	before := p.ToFEN()

	err = p.SetFromFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e3 0 1")
	require.ErrorIs(t, err, mailbox.ErrOutOfRange)
	assert.Equal(t, before, p.ToFEN())
	assert.Equal(t, 1, p.Ply())
	require.NoError(t, p.Validate())

	require.NoError(t, p.SetFromFEN("4k3/8/8/8/8/8/8/4K3 b - - 3 9"))
	assert.Equal(t, 0, p.Ply())
	assert.Equal(t, mailbox.NoMove, p.LastMove())
	assert.Equal(t, "4k3/8/8/8/8/8/8/4K3 b - - 3 1", p.ToFEN())
	require.NoError(t, p.Validate())
}

func TestFENErrorMessage(t *testing.T) {
	_, err := mailbox.ParseFEN("8/8/8/8/8/8/8/8 w KX -")
	require.Error(t, err)
	assert.Equal(t, `invalid FEN: castling rights: invalid character ("KX")`, err.Error())
}
