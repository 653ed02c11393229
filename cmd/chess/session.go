package main

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/chessboard-backend/internal/model"
	"github.com/benbeisheim/chessboard-backend/internal/movelog"
	"github.com/benbeisheim/chessboard-backend/internal/prompt"
	"github.com/benbeisheim/chessboard-backend/internal/render"
)

// session drives one board through alternating turns until a king is taken.
type session struct {
	board    *model.Board
	prompter *prompt.Prompter
	renderer *render.Renderer
	moves    *movelog.Logger
	clocks   map[model.Color]*model.Clock
}

func newSession(in io.Reader, r *render.Renderer, moves *movelog.Logger) *session {
	board := model.NewBoard()
	board.Start()
	return &session{
		board:    board,
		prompter: prompt.New(in, r.Writer()),
		renderer: r,
		moves:    moves,
		clocks: map[model.Color]*model.Clock{
			model.White: model.NewClock(),
			model.Black: model.NewClock(),
		},
	}
}

// Play runs turns until there is a winner and returns it. The prompter's
// io.EOF is returned if input runs out first.
func (s *session) Play() (model.Color, error) {
	out := s.renderer.Writer()
	for !s.board.GameOver() {
		if err := s.renderer.Render(s.board.Snapshot()); err != nil {
			return model.NoColor, err
		}

		side := s.board.Turn()
		clock := s.clocks[side]
		clock.Start()
		res, err := s.prompter.Next(s.board, clock.TurnStarted())
		clock.Stop()
		if err != nil {
			return model.NoColor, err
		}

		if s.moves != nil {
			if err := s.moves.Record(res.At, side, res.Move.From, res.Move.To); err != nil {
				log.Errorf("move log: %v", err)
			}
		}

		upd := s.board.Update(res.Move.From, res.Move.To)
		for _, c := range upd.Checks {
			fmt.Fprintf(out, "%s is in check!\n", c)
		}
		for _, c := range upd.Promoted {
			log.Debugf("promoted pawn at %s", c)
		}
		s.board.NextTurn()
	}
	log.Debugf("think time: white %s, black %s", s.clocks[model.White].Used(), s.clocks[model.Black].Used())
	return s.board.Winner(), nil
}
