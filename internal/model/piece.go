package model

import "fmt"

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

func (p PieceType) notation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	}
	return ""
}

// Piece is one of the six chess men. A piece does not know where it stands; the
// Board owns locations.
type Piece interface {
	Color() Color
	Type() PieceType
	// IsValid reports whether the move shape from start to end is allowed for this
	// piece. captured is the piece currently at end, or nil. Only pawns look at it.
	IsValid(start, end Coordinate, captured Piece) bool
	Symbol() string
	String() string
}

// NewPiece builds a piece of the given type and colour.
func NewPiece(t PieceType, c Color) (Piece, error) {
	if c != White && c != Black {
		return nil, fmt.Errorf("new %s: colour must be white or black", t)
	}
	base := basePiece{color: c}
	switch t {
	case King:
		return KingPiece{base}, nil
	case Queen:
		return QueenPiece{base}, nil
	case Rook:
		return RookPiece{base}, nil
	case Bishop:
		return BishopPiece{base}, nil
	case Knight:
		return KnightPiece{base}, nil
	case Pawn:
		return PawnPiece{base}, nil
	}
	return nil, fmt.Errorf("unknown piece type %q", t)
}

func mustPiece(t PieceType, c Color) Piece {
	p, err := NewPiece(t, c)
	if err != nil {
		panic(err)
	}
	return p
}

type basePiece struct {
	color Color
}

func (b basePiece) Color() Color { return b.color }

func pieceName(p Piece) string {
	return fmt.Sprintf("%s %s", p.Color(), p.Type())
}

var symbols = map[PieceType][2]string{
	King:   {"♔", "♚"},
	Queen:  {"♕", "♛"},
	Rook:   {"♖", "♜"},
	Bishop: {"♗", "♝"},
	Knight: {"♘", "♞"},
	Pawn:   {"♙", "♟"},
}

func pieceSymbol(p Piece) string {
	s := symbols[p.Type()]
	if p.Color() == Black {
		return s[1]
	}
	return s[0]
}
