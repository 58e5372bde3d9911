package main

import (
	"flag"
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"

	"chess-movegen/uci"
)

func main() {
	level := flag.String("log-level", "info", "Log level written to stderr (debug, info, warn, error)")
	flag.Parse()

	log.SetHandler(cli.New(os.Stderr))
	lvl, err := log.ParseLevel(*level)
	if err != nil {
		log.WithError(err).Fatal("parse -log-level")
	}
	log.SetLevel(lvl)

	session := uci.NewSession(os.Stdout, log.Log)
	if err := session.Run(os.Stdin); err != nil {
		log.WithError(err).Fatal("reading commands")
	}
}
