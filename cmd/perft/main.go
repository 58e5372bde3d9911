package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"

	"chess-movegen/internal/crosscheck"
	"chess-movegen/mailbox"
)

func main() {
	fen := flag.String("fen", mailbox.StartFEN, "FEN string (defaults to initial position)")
	depth := flag.Int("depth", 0, "Perft depth (required)")
	divide := flag.Bool("divide", false, "Print per-move node counts at root")
	repeat := flag.Int("repeat", 1, "Repeat perft N times and report aggregate (for steadier timings)")
	workers := flag.Int("workers", 1, "Split root moves over N goroutines")
	verify := flag.Bool("verify", false, "Compare the root divide against dragontoothmg and exit non-zero on mismatch")
	label := flag.String("label", "", "Optional label prefix for one-line output")
	cpuProf := flag.String("cpuprofile", "", "Write CPU profile to file during run")
	memProf := flag.String("memprofile", "", "Write heap profile to file after run")
	flag.Parse()

	log.SetHandler(cli.New(os.Stderr))

	if *depth <= 0 {
		log.Error("-depth must be > 0")
		os.Exit(2)
	}

	board, err := mailbox.ParseFEN(*fen)
	if err != nil {
		log.WithError(err).WithField("fen", *fen).Error("parse FEN")
		os.Exit(2)
	}

	if *verify {
		mismatches := crosscheck.Verify(board, *depth)
		for _, mm := range mismatches {
			log.WithFields(log.Fields{"move": mm.Move, "got": mm.Got, "want": mm.Want}).Warn("divide mismatch")
		}
		if len(mismatches) > 0 {
			os.Exit(1)
		}
		log.WithFields(log.Fields{"fen": *fen, "depth": *depth}).Info("agrees with dragontoothmg")
		return
	}

	// Optional divide output
	if *divide {
		div := crosscheck.Mailbox(board, *depth)
		for _, mv := range div.Moves() {
			fmt.Printf("%s: %d\n", mv, div[mv])
		}
		fmt.Printf("Total: %d\n", div.Total())
		return
	}

	// Optional CPU profiling
	if *cpuProf != "" {
		f, err := os.Create(*cpuProf)
		if err != nil {
			log.WithError(err).Error("creating cpuprofile")
			os.Exit(2)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.WithError(err).Error("start cpu profile")
			os.Exit(2)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	// Timing loop
	var totalNodes uint64
	start := time.Now()
	for i := 0; i < *repeat; i++ {
		totalNodes += mailbox.PerftParallel(board, *depth, *workers)
	}
	elapsed := time.Since(start)
	secs := elapsed.Seconds()
	nps := float64(totalNodes) / secs

	// Single line: Depth Nodes Time NPS
	fmt.Printf("%s \t%d \t\t%d \t\t%s \t%.0f\n", *label, *depth, totalNodes, elapsed, nps)

	// Optional heap profile after run
	if *memProf != "" {
		f, err := os.Create(*memProf)
		if err != nil {
			log.WithError(err).Error("creating memprofile")
			os.Exit(2)
		}
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.WithError(err).Error("write heap profile")
			os.Exit(2)
		}
		_ = f.Close()
	}
}
