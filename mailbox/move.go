package mailbox

// Move encodes a chess move in 16 bits.
type Move uint16

// Bitfield layout within Move (from LSB to MSB)
const (
	moveDestShift   = 0  // 6 bits
	moveSourceShift = 6  // 6 bits
	movePromoShift  = 12 // 2 bits
	moveKindShift   = 14 // 2 bits

	squareMask = 0x3F
	promoMask  = 3 << movePromoShift
)

// MoveKind selects how DoMove interprets a move.
type MoveKind uint16

const (
	Normal    MoveKind = 0 << moveKindShift
	Promotion MoveKind = 1 << moveKindShift
	EnPassant MoveKind = 2 << moveKindShift
	Castling  MoveKind = 3 << moveKindShift

	kindMask = 3 << moveKindShift
)

// NoMove is the zero move (a1a1). It is never generated.
const NoMove Move = 0

// NewMove constructs a move of the given kind. Use NewPromotion for promotions.
func NewMove(from, to Square, kind MoveKind) Move {
	return Move(uint16(kind) | uint16(from&squareMask)<<moveSourceShift | uint16(to&squareMask))
}

// NewPromotion constructs a promotion to pt, which must be Knight, Bishop, Rook or Queen.
func NewPromotion(from, to Square, pt PieceType) Move {
	return NewMove(from, to, Promotion) | Move(uint16(pt-Knight)<<movePromoShift)
}

// Source returns the origin square.
func (m Move) Source() Square { return Square((uint16(m) >> moveSourceShift) & squareMask) }

// Dest returns the destination square.
func (m Move) Dest() Square { return Square((uint16(m) >> moveDestShift) & squareMask) }

// Kind returns the move kind.
func (m Move) Kind() MoveKind { return MoveKind(uint16(m) & kindMask) }

// PromotionPiece returns the promoted piece type. Only meaningful for promotions.
func (m Move) PromotionPiece() PieceType {
	return Knight + PieceType((uint16(m)&promoMask)>>movePromoShift)
}

// WithPromotion returns m turned into a promotion to pt.
func (m Move) WithPromotion(pt PieceType) Move {
	data := uint16(m) &^ (kindMask | promoMask)
	return Move(data | uint16(Promotion) | uint16(pt-Knight)<<movePromoShift)
}

// String produces the coordinate token of the move (e.g. "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.Source().String() + m.Dest().String()
	if m.Kind() == Promotion {
		s += string(promotionChar(m.PromotionPiece()))
	}
	return s
}

func promotionChar(pt PieceType) byte {
	switch pt {
	case Queen:
		return 'q'
	case Rook:
		return 'r'
	case Bishop:
		return 'b'
	default:
		return 'n'
	}
}
