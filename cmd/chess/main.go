// chess is a two player game on one terminal. Moves are typed as two digit
// pairs, column then row, e.g. "01 03".
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/chessboard-backend/internal/config"
	"github.com/benbeisheim/chessboard-backend/internal/movelog"
	"github.com/benbeisheim/chessboard-backend/internal/render"
)

func main() {
	cfg, err := config.LoadLocal(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log.SetLevel(cfg.LogLevel())
	log.SetOutput(os.Stderr)

	var moves *movelog.Logger
	if cfg.MoveLogPath != "" {
		moves, err = movelog.Open(cfg.MoveLogPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		defer moves.Close()
	}

	r := render.Stdout()
	session := newSession(os.Stdin, r, moves)

	winner, err := session.Play()
	if err != nil {
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.Writer(), "\nGame incomplete.")
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		if moves != nil {
			moves.Close()
		}
		os.Exit(1)
	}
	fmt.Fprintf(r.Writer(), "Game over. %s player wins!\n", winner.Title())
}
