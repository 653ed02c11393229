package model

// PieceView is the serialisable form of a piece.
type PieceView struct {
	Type   PieceType `json:"type"`
	Color  Color     `json:"color"`
	Symbol string    `json:"symbol"`
}

func ViewOf(p Piece) *PieceView {
	if p == nil {
		return nil
	}
	return &PieceView{Type: p.Type(), Color: p.Color(), Symbol: p.Symbol()}
}

type Square struct {
	Position Coordinate `json:"position"`
	Piece    PieceView  `json:"piece"`
}

type BoardState struct {
	Squares []Square `json:"squares"`
	Turn    Color    `json:"turn"`
	Winner  Color    `json:"winner"`
}

// Snapshot copies the position so it can be handed to renderers and clients
// without exposing the board's pieces.
func (b *Board) Snapshot() BoardState {
	coords := b.Coords()
	state := BoardState{
		Squares: make([]Square, 0, len(coords)),
		Turn:    b.turn,
		Winner:  b.winner,
	}
	for _, c := range coords {
		state.Squares = append(state.Squares, Square{Position: c, Piece: *ViewOf(b.Get(c))})
	}
	return state
}

// At returns the piece at c in the snapshot.
func (s BoardState) At(c Coordinate) (PieceView, bool) {
	for _, sq := range s.Squares {
		if sq.Position == c {
			return sq.Piece, true
		}
	}
	return PieceView{}, false
}
