package uci

import (
	"fmt"
	"strings"

	"chess-movegen/mailbox"
)

const boardRule = "  +---+---+---+---+---+---+---+---+\n"

// grid draws an 8x8 board with rank 8 on top, filling each cell from cell.
func grid(cell func(sq mailbox.Square) string) string {
	var sb strings.Builder
	sb.WriteString(boardRule)
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d |", rank+1)
		for file := 0; file < 8; file++ {
			fmt.Fprintf(&sb, " %s |", cell(mailbox.MakeSquare(file, rank)))
		}
		sb.WriteString("\n")
		sb.WriteString(boardRule)
	}
	sb.WriteString("    a   b   c   d   e   f   g   h\n")
	return sb.String()
}

// boardDiagram renders the pieces followed by the FEN line.
func boardDiagram(p *mailbox.Position) string {
	board := grid(func(sq mailbox.Square) string {
		pc := p.PieceAt(sq)
		if pc == mailbox.NoPiece {
			return " "
		}
		return string(pc.Char())
	})
	return board + "\nFen: " + p.ToFEN()
}

// attackDiagram renders how many attacks the side to move has on each square.
func attackDiagram(p *mailbox.Position) string {
	var a mailbox.Attacks
	p.GenerateAttacks(p.SideToMove(), &a)
	return fmt.Sprintf("Attacks by %s:\n", p.SideToMove()) + grid(func(sq mailbox.Square) string {
		return fmt.Sprint(a.Count(sq))
	})
}
