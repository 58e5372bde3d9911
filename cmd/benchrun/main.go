package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
)

type suiteEntry struct {
	label string
	fen   string
	depth int
}

var suite = []suiteEntry{
	{"Initial", "", 3},
	{"Initial", "", 4},
	{"Initial", "", 5},
	{"Kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 3},
	{"Kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 4},
	{"Pos3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 5},
	{"Pos4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 4},
	{"Pos5", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 0 1", 4},
}

// run executes a command and prints its combined output. Returns exit code.
func run(name string, args ...string) int {
	cmd := exec.Command(name, args...)
	cmd.Env = os.Environ()
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	fmt.Print(out.String())
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	log.WithError(err).WithField("cmd", name).Error("run")
	return 1
}

func perftArgs(e suiteEntry, extra ...string) []string {
	args := []string{"run", "./cmd/perft", "-depth", strconv.Itoa(e.depth), "-label", e.label}
	if e.fen != "" {
		args = append(args, "-fen", e.fen)
	}
	return append(args, extra...)
}

func main() {
	workers := flag.Int("workers", 1, "Workers passed to each perft run")
	verify := flag.Bool("verify", false, "Cross-check every suite position against dragontoothmg instead of timing")
	flag.Parse()

	log.SetHandler(cli.New(os.Stderr))

	if *verify {
		failed := 0
		for _, e := range suite {
			if run("go", perftArgs(e, "-verify")...) != 0 {
				failed++
			}
		}
		if failed > 0 {
			log.WithField("failed", failed).Error("verification")
			os.Exit(1)
		}
		return
	}

	// Run all benchmarks in bench/ with benchmem.
	// Usage: go run ./cmd/benchrun
	// Format: BenchmarkName  Iterations  ns/op  B/op  allocs/op
	fmt.Println("Columns: BENCHMARK  N  ns/op  B/op  allocs/op")
	code := run("go", "test", "./bench", "-run", "^$", "-bench", ".", "-benchmem", "-benchtime=1s")
	if code != 0 {
		os.Exit(code)
	}

	// Also run perft performance tests (macro throughput) with one-line outputs
	fmt.Println("\nPerft Performance:")
	fmt.Println("TEST \t\tDepth \t\tNodes \t\tTime \tNPS")
	for _, e := range suite {
		_ = run("go", perftArgs(e, "-workers", strconv.Itoa(*workers))...)
	}
}
