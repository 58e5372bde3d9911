package mailbox

// MaxAttacksPerSquare bounds the attackers recorded for one square. Eight
// rays plus eight knight jumps cover every reachable position: kings and
// pawns always stand on the first square of a ray.
const MaxAttacksPerSquare = 16

var (
	kingDirections   = [8]int{north, east, south, west, northEast, northWest, southEast, southWest}
	rookDirections   = kingDirections[:4]
	bishopDirections = kingDirections[4:]
	queenDirections  = kingDirections[:]

	knightJumps = [8]int{
		north + northEast, north + northWest, east + northEast, east + southEast,
		south + southEast, south + southWest, west + southWest, west + northWest,
	}
)

// Maximum Manhattan distance accepted for one step of each piece. Anything
// further wrapped around the a/h files.
const (
	maxKingStep   = 2
	maxKnightStep = 3
	maxRayStep    = 2
)

// Attacks maps every square to the moves of one side that land on it.
type Attacks struct {
	moves [numSquares * MaxAttacksPerSquare]Move
	size  [numSquares]uint8
}

// Reset clears all recorded attacks.
func (a *Attacks) Reset() { a.size = [numSquares]uint8{} }

func (a *Attacks) add(m Move) {
	to := m.Dest()
	a.moves[int(to)*MaxAttacksPerSquare+int(a.size[to])] = m
	a.size[to]++
}

// Count returns the number of attackers of sq.
func (a *Attacks) Count(sq Square) int {
	if sq >= NoSquare {
		return 0
	}
	return int(a.size[sq])
}

// On returns the attacking moves landing on sq. The slice aliases a.
func (a *Attacks) On(sq Square) []Move {
	if sq >= NoSquare {
		return nil
	}
	base := int(sq) * MaxAttacksPerSquare
	return a.moves[base : base+int(a.size[sq])]
}

// IsAttacked reports whether any recorded move lands on sq.
func (a *Attacks) IsAttacked(sq Square) bool {
	return sq < NoSquare && a.size[sq] != 0
}

// GenerateAttacks fills a with the pseudo-legal attacks of side: every square
// its pieces hit, whether or not the move would expose its own king.
func (p *Position) GenerateAttacks(side Color, a *Attacks) {
	a.Reset()
	for i := 0; i < int(p.live); i++ {
		pc := p.pieces[i]
		if pc.Code.Color() != side {
			continue
		}
		switch pc.Code.Type() {
		case Pawn:
			p.pawnAttacks(side, pc.Square, a)
		case Knight:
			p.leapingAttacks(side, pc.Square, knightJumps[:], maxKnightStep, a)
		case Bishop:
			p.slidingAttacks(side, pc.Square, bishopDirections, a)
		case Rook:
			p.slidingAttacks(side, pc.Square, rookDirections, a)
		case Queen:
			p.slidingAttacks(side, pc.Square, queenDirections, a)
		case King:
			p.leapingAttacks(side, pc.Square, kingDirections[:], maxKingStep, a)
		}
	}
}

func (p *Position) occupiedBy(sq Square, side Color) bool {
	pc := p.pieces[p.board[sq]].Code
	return pc != NoPiece && pc.Color() == side
}

func (p *Position) leapingAttacks(side Color, from Square, offsets []int, maxStep int, a *Attacks) {
	for _, off := range offsets {
		to := int(from) + off
		if to < 0 || to >= numSquares || distance(from, Square(to)) > maxStep {
			continue
		}
		if p.occupiedBy(Square(to), side) {
			continue
		}
		a.add(NewMove(from, Square(to), Normal))
	}
}

func (p *Position) slidingAttacks(side Color, from Square, dirs []int, a *Attacks) {
	for _, dir := range dirs {
		prev := from
		for to := int(from) + dir; to >= 0 && to < numSquares; to += dir {
			sq := Square(to)
			if distance(prev, sq) > maxRayStep {
				break
			}
			pc := p.pieces[p.board[sq]].Code
			if pc != NoPiece {
				if pc.Color() != side {
					a.add(NewMove(from, sq, Normal))
				}
				break
			}
			a.add(NewMove(from, sq, Normal))
			prev = sq
		}
	}
}

// pawnAttacks records both diagonal capture squares regardless of what
// stands on them. The en-passant target is tagged only for the side to move,
// the only side that may capture onto it.
func (p *Position) pawnAttacks(side Color, from Square, a *Attacks) {
	dirs := [2]int{northWest, northEast}
	if side == Black {
		dirs = [2]int{southWest, southEast}
	}
	for _, dir := range dirs {
		to := int(from) + dir
		if to < 0 || to >= numSquares || distance(from, Square(to)) > maxRayStep {
			continue
		}
		kind := Normal
		if Square(to) == p.epSquare && side == p.SideToMove() {
			kind = EnPassant
		}
		a.add(NewMove(from, Square(to), kind))
	}
}
