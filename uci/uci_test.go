package uci

import (
	"bytes"
	"strings"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chess-movegen/mailbox"
)

func newTestSession() (*Session, *bytes.Buffer, *memory.Handler) {
	var out bytes.Buffer
	h := memory.New()
	logger := &log.Logger{Handler: h, Level: log.DebugLevel}
	return NewSession(&out, logger), &out, h
}

func run(t *testing.T, s *Session, script string) {
	t.Helper()
	require.NoError(t, s.Run(strings.NewReader(script)))
}

// fenLine returns the FEN printed by the last "d" command.
func fenLine(t *testing.T, out *bytes.Buffer) string {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if fen, ok := strings.CutPrefix(lines[i], "Fen: "); ok {
			return fen
		}
	}
	t.Fatalf("no Fen line in %q", out.String())
	return ""
}

func TestHandshake(t *testing.T) {
	s, out, _ := newTestSession()
	run(t, s, "uci\nisready\n")
	assert.Equal(t, "id name Mailbox\nid author the mailbox authors\nuciok\nreadyok\n", out.String())
}

func TestPositionStartposMoves(t *testing.T) {
	s, out, _ := newTestSession()
	run(t, s, "position startpos moves e2e4 e7e5\nd\n")
	assert.Equal(t, "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 1", fenLine(t, out))
	assert.Equal(t, 2, s.Position().Ply())
}

func TestPositionFENMoves(t *testing.T) {
	s, out, _ := newTestSession()
	run(t, s, "position fen r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1 moves e1g1 e8c8\nd\n")
	assert.Equal(t, "2kr3r/8/8/8/8/8/8/R4RK1 w - - 2 1", fenLine(t, out))
}

func TestPositionFENWithoutCounters(t *testing.T) {
	s, _, _ := newTestSession()
	run(t, s, "position fen 4k3/8/8/8/8/8/8/4K3 b - -\n")
	assert.Equal(t, mailbox.Black, s.Position().SideToMove())
}

func TestBadFENKeepsPosition(t *testing.T) {
	s, out, mem := newTestSession()
	run(t, s, "position startpos moves d2d4\nposition fen 8/8/8/8/8/8/8/8 x - - 0 1\nd\n")
	assert.True(t, strings.HasPrefix(out.String(), "info string Error: invalid FEN: side to move"), out.String())
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/3P4/8/PPP1PPPP/RNBQKBNR b KQkq d3 0 1", fenLine(t, out))

	var warned bool
	for _, e := range mem.Entries {
		if e.Level == log.WarnLevel && e.Message == "position rejected" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestIllegalMoveStopsMoveList(t *testing.T) {
	s, out, _ := newTestSession()
	run(t, s, "position startpos moves e2e4 a7a5 e1e3 d2d4\n")
	assert.True(t, strings.HasPrefix(out.String(), "info string Error: illegal move"), out.String())
	assert.Equal(t, 2, s.Position().Ply())

	out.Reset()
	run(t, s, "position startpos moves e2e4 e2e4\n")
	assert.True(t, strings.HasPrefix(out.String(), "info string Error: no piece on source square"), out.String())
	assert.Equal(t, 1, s.Position().Ply())
}

func TestPositionErrors(t *testing.T) {
	s, out, _ := newTestSession()
	run(t, s, "position\nposition foo\nposition startpos e2e4\n")
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Missing format")
	assert.Contains(t, lines[1], "Unknown format 'foo'")
	assert.Contains(t, lines[2], "Expected 'moves'")
}

func TestGoPerft(t *testing.T) {
	s, out, mem := newTestSession()
	run(t, s, "go perft 2\n")
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 22)
	assert.Equal(t, "a2a3: 20", lines[0])
	assert.Equal(t, "", lines[20])
	assert.Equal(t, "Nodes searched: 400", lines[21])

	require.NotEmpty(t, mem.Entries)
	last := mem.Entries[len(mem.Entries)-1]
	assert.Equal(t, "perft", last.Message)
	assert.Equal(t, uint64(400), last.Fields["nodes"])
}

func TestGoDepth(t *testing.T) {
	s, out, _ := newTestSession()
	run(t, s, "position fen k7/8/8/3pP3/8/8/8/7K w - d6 0 2\ngo depth 2\n")
	assert.True(t, strings.HasPrefix(out.String(), "info depth 2 nodes 19 time "), out.String())
}

func TestGoErrors(t *testing.T) {
	s, out, _ := newTestSession()
	run(t, s, "go infinite\ngo perft x\ngo perft 0\n")
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "expected 'go perft <depth>'")
	assert.Contains(t, lines[1], "invalid perft depth 'x'")
	assert.Contains(t, lines[2], "invalid perft depth '0'")
}

func TestUndo(t *testing.T) {
	s, out, _ := newTestSession()
	run(t, s, "undo\nposition startpos moves g1f3\nundo\nd\n")
	assert.True(t, strings.HasPrefix(out.String(), "info string Error: no move to undo\n"), out.String())
	assert.Equal(t, mailbox.StartFEN, fenLine(t, out))
}

func TestUnknownCommandAndQuit(t *testing.T) {
	s, out, _ := newTestSession()
	run(t, s, "\nfoo bar\nQUIT\nisready\n")
	assert.Equal(t, "info string Unknown command: foo\n", out.String())
}

func TestNewGameResets(t *testing.T) {
	s, _, _ := newTestSession()
	before := s.Position()
	run(t, s, "position fen 4k3/8/8/8/8/8/8/4K3 b - - 7 1 moves e8d8\nucinewgame\n")
	assert.Same(t, before, s.Position())
	assert.Equal(t, mailbox.StartFEN, s.Position().ToFEN())
	assert.Equal(t, 0, s.Position().Ply())
	require.NoError(t, s.Position().Validate())
}

func TestBoardDiagram(t *testing.T) {
	s, out, _ := newTestSession()
	run(t, s, "d\n")
	lines := strings.Split(out.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 19)
	assert.Equal(t, "  +---+---+---+---+---+---+---+---+", lines[0])
	assert.Equal(t, "8 | r | n | b | q | k | b | n | r |", lines[1])
	assert.Equal(t, "5 |   |   |   |   |   |   |   |   |", lines[7])
	assert.Equal(t, "1 | R | N | B | Q | K | B | N | R |", lines[15])
	assert.Equal(t, "    a   b   c   d   e   f   g   h", lines[17])
	assert.Equal(t, mailbox.StartFEN, fenLine(t, out))
}

func TestAttackDiagram(t *testing.T) {
	s, out, _ := newTestSession()
	run(t, s, "d attacks\n")
	lines := strings.Split(out.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 19)
	assert.Equal(t, "Attacks by white:", lines[0])
	assert.Equal(t, "3 | 2 | 2 | 3 | 2 | 2 | 3 | 2 | 2 |", lines[12])
	assert.Equal(t, "2 | 0 | 0 | 0 | 0 | 0 | 0 | 0 | 0 |", lines[14])
}
