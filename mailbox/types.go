package mailbox

// Square is an index into the 8x8 grid, rank-major: a1=0, b1=1 ... h8=63.
type Square uint8

const (
	// NoSquare is the off-board sentinel.
	NoSquare Square = 64

	boardWidth  = 8
	boardHeight = 8
	numSquares  = boardWidth * boardHeight
)

// MakeSquare builds a square from zero-based file and rank.
func MakeSquare(file, rank int) Square { return Square(rank*boardWidth + file) }

// File returns the zero-based file (a=0).
func (sq Square) File() int { return int(sq) & 7 }

// Rank returns the zero-based rank (rank 1 = 0).
func (sq Square) Rank() int { return int(sq) >> 3 }

// String returns the algebraic name of the square ("e4"), or "-" for NoSquare.
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return string([]byte{'a' + byte(sq.File()), '1' + byte(sq.Rank())})
}

// SquareFromString parses a file-letter rank-digit square name.
func SquareFromString(s string) (Square, bool) {
	if len(s) != 2 {
		return NoSquare, false
	}
	f, r := s[0], s[1]
	if f < 'a' || f > 'h' || r < '1' || r > '8' {
		return NoSquare, false
	}
	return MakeSquare(int(f-'a'), int(r-'1')), true
}

// distance is the Manhattan distance between two squares. Leapers and ray
// steps use it to reject offsets that wrapped around a board edge.
func distance(a, b Square) int {
	df := a.File() - b.File()
	if df < 0 {
		df = -df
	}
	dr := a.Rank() - b.Rank()
	if dr < 0 {
		dr = -dr
	}
	return df + dr
}

// Color is the side owning a piece.
type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Other returns the opposing color.
func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceType is the colorless kind of a piece.
type PieceType uint8

const (
	Empty PieceType = iota
	King
	Pawn
	Knight
	Bishop
	Rook
	Queen

	pieceTypeMask = 0x7
)

func (pt PieceType) String() string {
	switch pt {
	case King:
		return "king"
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	default:
		return "empty"
	}
}

// PieceCode packs a piece type in the low 3 bits and the color in bit 3.
type PieceCode uint8

const (
	colorShift = 3

	NoPiece PieceCode = 0
)

// MakePiece combines a color and a piece type.
func MakePiece(c Color, pt PieceType) PieceCode {
	return PieceCode(c)<<colorShift | PieceCode(pt)
}

// Type returns the colorless type.
func (pc PieceCode) Type() PieceType { return PieceType(pc & pieceTypeMask) }

// Color returns the owner. NoPiece reports White.
func (pc PieceCode) Color() Color { return Color(pc>>colorShift) & 1 }

// pieceFromChar converts a FEN letter to a piece code, NoPiece if unknown.
func pieceFromChar(ch byte) PieceCode {
	switch ch {
	case 'P':
		return MakePiece(White, Pawn)
	case 'N':
		return MakePiece(White, Knight)
	case 'B':
		return MakePiece(White, Bishop)
	case 'R':
		return MakePiece(White, Rook)
	case 'Q':
		return MakePiece(White, Queen)
	case 'K':
		return MakePiece(White, King)
	case 'p':
		return MakePiece(Black, Pawn)
	case 'n':
		return MakePiece(Black, Knight)
	case 'b':
		return MakePiece(Black, Bishop)
	case 'r':
		return MakePiece(Black, Rook)
	case 'q':
		return MakePiece(Black, Queen)
	case 'k':
		return MakePiece(Black, King)
	default:
		return NoPiece
	}
}

// Char returns the FEN letter of the piece, '.' for NoPiece.
func (pc PieceCode) Char() byte {
	var c byte
	switch pc.Type() {
	case King:
		c = 'K'
	case Pawn:
		c = 'P'
	case Knight:
		c = 'N'
	case Bishop:
		c = 'B'
	case Rook:
		c = 'R'
	case Queen:
		c = 'Q'
	default:
		return '.'
	}
	if pc.Color() == Black {
		c += 'a' - 'A'
	}
	return c
}

// Piece is one entry of the piece list.
type Piece struct {
	Code   PieceCode
	Square Square
}

// nonePiece fills unused piece-list slots.
var nonePiece = Piece{Code: NoPiece, Square: NoSquare}

// Direction offsets on the rank-major board.
const (
	north = 8
	east  = 1
	south = -north
	west  = -east

	northEast = north + east
	southEast = south + east
	southWest = south + west
	northWest = north + west
)

// Features bits.
const (
	featSideToMove = 1 << iota
	featNoCastleWK
	featNoCastleWQ
	featNoCastleBK
	featNoCastleBQ

	featNoCastleAll = featNoCastleWK | featNoCastleWQ | featNoCastleBK | featNoCastleBQ
)

// CastlingRight names one of the four castling rights.
type CastlingRight uint8

const (
	WhiteKingSide  CastlingRight = featNoCastleWK
	WhiteQueenSide CastlingRight = featNoCastleWQ
	BlackKingSide  CastlingRight = featNoCastleBK
	BlackQueenSide CastlingRight = featNoCastleBQ
)

// Home squares referenced by castling.
const (
	sqA1 Square = 0
	sqE1 Square = 4
	sqH1 Square = 7
	sqA8 Square = 56
	sqE8 Square = 60
	sqH8 Square = 63
)
