// Package crosscheck runs the same position through mailbox and through
// independent move generators and reports where they disagree. It backs the
// perft tool's -verify flag and the completeness tests.
package crosscheck

import (
	"fmt"

	"github.com/dylhunn/dragontoothmg"
	"github.com/notnil/chess"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"chess-movegen/mailbox"
)

// Counts maps a root move token to the number of leaf nodes below it.
type Counts map[string]uint64

// Total sums the per-move counts.
func (c Counts) Total() uint64 {
	var n uint64
	for _, v := range c {
		n += v
	}
	return n
}

// Moves returns the move tokens in lexical order.
func (c Counts) Moves() []string {
	keys := maps.Keys(c)
	slices.Sort(keys)
	return keys
}

// Mailbox returns the perft divide of p computed by mailbox.
func Mailbox(p *mailbox.Position, depth int) Counts {
	out := make(Counts)
	for m, n := range mailbox.PerftDivide(p, depth) {
		out[m.String()] = n
	}
	return out
}

// Dragontooth returns the perft divide of p computed by dragontoothmg.
func Dragontooth(p *mailbox.Position, depth int) Counts {
	out := make(Counts)
	if depth <= 0 {
		return out
	}
	b := dragontoothmg.ParseFen(p.ToFEN())
	for _, m := range b.GenerateLegalMoves() {
		undo := b.Apply(m)
		out[m.String()] = dragontoothPerft(&b, depth-1)
		undo()
	}
	return out
}

func dragontoothPerft(b *dragontoothmg.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		undo := b.Apply(m)
		nodes += dragontoothPerft(b, depth-1)
		undo()
	}
	return nodes
}

// NotnilMoves returns the legal move tokens of p according to notnil/chess,
// sorted.
func NotnilMoves(p *mailbox.Position) ([]string, error) {
	opt, err := chess.FEN(p.ToFEN())
	if err != nil {
		return nil, fmt.Errorf("notnil/chess rejected %q: %w", p.ToFEN(), err)
	}
	g := chess.NewGame(opt)
	var out []string
	for _, m := range g.ValidMoves() {
		out = append(out, chess.UCINotation{}.Encode(g.Position(), m))
	}
	slices.Sort(out)
	return out, nil
}

// MailboxMoves returns the legal move tokens of p according to mailbox, sorted.
func MailboxMoves(p *mailbox.Position) []string {
	var out []string
	for _, m := range p.LegalMoves() {
		out = append(out, m.String())
	}
	slices.Sort(out)
	return out
}

// Mismatch is one root move whose counts differ. A move missing on one side
// has count 0 there.
type Mismatch struct {
	Move string
	Got  uint64
	Want uint64
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: got %d want %d", m.Move, m.Got, m.Want)
}

// Diff lists the moves where got and want disagree, ordered by move token.
func Diff(got, want Counts) []Mismatch {
	keys := maps.Keys(got)
	for k := range want {
		if _, ok := got[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	var out []Mismatch
	for _, k := range keys {
		if got[k] != want[k] {
			out = append(out, Mismatch{Move: k, Got: got[k], Want: want[k]})
		}
	}
	return out
}

// Verify compares mailbox against dragontoothmg at the given depth.
func Verify(p *mailbox.Position, depth int) []Mismatch {
	return Diff(Mailbox(p, depth), Dragontooth(p, depth))
}
