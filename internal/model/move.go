package model

import (
	"fmt"
	"time"
)

type SimpleMove struct {
	From Coordinate `json:"from"`
	To   Coordinate `json:"to"`
}

func (m SimpleMove) String() string {
	return fmt.Sprintf("%s -> %s", m.From, m.To)
}

type Ply struct {
	Piece         PieceView     `json:"piece"`
	From          Coordinate    `json:"from"`
	To            Coordinate    `json:"to"`
	CapturedPiece *PieceView    `json:"capturedPiece"`
	Promotion     bool          `json:"promotion"`
	Checks        []Color       `json:"checks"`
	Notation      string        `json:"notation"`
	PlayedAt      time.Time     `json:"playedAt"`
	ThinkTime     time.Duration `json:"thinkTime"`
}

// Move pairs White's ply with Black's reply.
type Move struct {
	WhitePly *Ply `json:"whitePly"`
	BlackPly *Ply `json:"blackPly"`
}

func makePly(piece Piece, m SimpleMove, res UpdateResult) Ply {
	ply := Ply{
		Piece:         *ViewOf(piece),
		From:          m.From,
		To:            m.To,
		CapturedPiece: ViewOf(res.Captured),
		Checks:        res.Checks,
	}
	for _, c := range res.Promoted {
		if c == m.To {
			ply.Promotion = true
		}
	}
	ply.Notation = notation(piece, m, ply)
	return ply
}

func notation(piece Piece, m SimpleMove, ply Ply) string {
	prefix := piece.Type().notation()
	if piece.Type() == Pawn && ply.CapturedPiece != nil {
		prefix = m.From.Algebraic()[:1]
	}
	capture := ""
	if ply.CapturedPiece != nil {
		capture = "x"
	}
	suffix := ""
	if ply.Promotion {
		suffix = "=Q"
	}
	if len(ply.Checks) > 0 {
		suffix += "+"
	}
	return fmt.Sprintf("%s%s%s%s", prefix, capture, m.To.Algebraic(), suffix)
}

// appendPly records ply in the move pairs, opening a new pair for White.
func appendPly(history []Move, side Color, ply Ply) []Move {
	if side == White || len(history) == 0 || history[len(history)-1].BlackPly != nil {
		m := Move{}
		if side == White {
			m.WhitePly = &ply
		} else {
			m.BlackPly = &ply
		}
		return append(history, m)
	}
	history[len(history)-1].BlackPly = &ply
	return history
}
