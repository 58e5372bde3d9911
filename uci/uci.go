// Package uci is a thin line protocol shell around mailbox. A Session owns
// the position; handlers receive it through the session, never through
// package state.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"

	"chess-movegen/internal/crosscheck"
	"chess-movegen/mailbox"
)

const (
	engineName = "Mailbox"
	engineAuth = "the mailbox authors"
)

// Session is the context threaded through every command handler.
type Session struct {
	pos  *mailbox.Position
	out  io.Writer
	log  log.Interface
	quit bool
}

// NewSession returns a session on the starting position writing replies to out.
func NewSession(out io.Writer, logger log.Interface) *Session {
	pos, err := mailbox.ParseFEN(mailbox.StartFEN)
	if err != nil {
		panic(err)
	}
	return &Session{pos: pos, out: out, log: logger}
}

// Position returns the session's current position.
func (s *Session) Position() *mailbox.Position { return s.pos }

// Run reads commands from r until EOF or quit.
func (s *Session) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		s.Handle(scanner.Text())
		if s.quit {
			return nil
		}
	}
	return scanner.Err()
}

// Handle executes one command line.
func (s *Session) Handle(line string) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 { // ignore blank lines
		return
	}
	switch strings.ToLower(tokens[0]) {
	case "uci":
		s.println("id name", engineName)
		s.println("id author", engineAuth)
		s.println("uciok")
	case "isready":
		s.println("readyok")
	case "ucinewgame":
		if err := s.pos.SetFromFEN(mailbox.StartFEN); err != nil {
			panic(err)
		}
		s.log.Debug("new game")
	case "position":
		s.handlePosition(tokens[1:])
	case "go":
		s.handleGo(tokens[1:])
	case "d":
		if len(tokens) > 1 && tokens[1] == "attacks" {
			fmt.Fprint(s.out, attackDiagram(s.pos))
			return
		}
		s.println(boardDiagram(s.pos))
	case "undo":
		if s.pos.Ply() == 0 {
			s.info("Error: no move to undo")
			return
		}
		s.pos.UndoMove()
	case "stop":
	case "quit":
		s.quit = true
	default:
		s.info("Unknown command: " + tokens[0])
	}
}

func (s *Session) println(a ...interface{}) { fmt.Fprintln(s.out, a...) }

func (s *Session) info(msg string) { fmt.Fprintln(s.out, "info string", msg) }

func (s *Session) handlePosition(args []string) {
	if len(args) == 0 {
		s.info("Error: Missing format ('startpos' or 'fen') after 'position'")
		return
	}

	var fen string
	var rest []string
	switch args[0] {
	case "startpos":
		fen, rest = mailbox.StartFEN, args[1:]
	case "fen":
		end := len(args)
		for i := 1; i < len(args); i++ {
			if args[i] == "moves" {
				end = i
				break
			}
		}
		fen, rest = strings.Join(args[1:end], " "), args[end:]
	default:
		s.info(fmt.Sprintf("Error: Unknown format '%s' after 'position'. Expected 'startpos' or 'fen'.", args[0]))
		return
	}

	if err := s.pos.SetFromFEN(fen); err != nil {
		s.log.WithError(err).WithField("fen", fen).Warn("position rejected")
		s.info("Error: " + err.Error())
		return
	}
	s.log.WithField("fen", fen).Debug("position set")

	if len(rest) == 0 {
		return
	}
	if rest[0] != "moves" {
		s.info(fmt.Sprintf("Error: Unknown format '%s' after 'position <fen>'. Expected 'moves'", rest[0]))
		return
	}
	for _, tok := range rest[1:] {
		m, err := s.pos.FindLegal(tok)
		if err != nil {
			s.log.WithError(err).WithField("move", tok).Warn("move rejected")
			s.info("Error: " + err.Error())
			return
		}
		s.pos.DoMove(m)
	}
}

func (s *Session) handleGo(args []string) {
	if len(args) < 2 || (args[0] != "perft" && args[0] != "depth") {
		s.info("Error: expected 'go perft <depth>' or 'go depth <depth>'")
		return
	}
	depth, err := strconv.Atoi(args[1])
	if err != nil || depth <= 0 {
		s.info(fmt.Sprintf("Error: invalid perft depth '%s'", args[1]))
		return
	}

	start := time.Now()
	var total uint64
	if args[0] == "perft" {
		counts := crosscheck.Mailbox(s.pos, depth)
		for _, mv := range counts.Moves() {
			fmt.Fprintf(s.out, "%s: %d\n", mv, counts[mv])
		}
		total = counts.Total()
		fmt.Fprintf(s.out, "\nNodes searched: %d\n", total)
	} else {
		total = mailbox.Perft(s.pos, depth)
	}
	elapsed := time.Since(start)
	if args[0] == "depth" {
		var nps uint64
		if secs := elapsed.Seconds(); secs > 0 {
			nps = uint64(float64(total) / secs)
		}
		fmt.Fprintf(s.out, "info depth %d nodes %d time %d nps %d\n", depth, total, elapsed.Milliseconds(), nps)
	}
	s.log.WithFields(log.Fields{
		"cmd":     args[0],
		"depth":   depth,
		"nodes":   total,
		"elapsed": elapsed.String(),
	}).Info("perft")
}
