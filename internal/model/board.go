package model

import (
	"sort"

	"github.com/gofiber/fiber/v2/log"
)

// Board holds the authoritative position, whose turn it is and the winner, if any.
// It is not safe for concurrent use; Game serialises access for the server.
type Board struct {
	position map[Coordinate]Piece
	turn     Color
	winner   Color
}

// UpdateResult describes what a single Update did to the board.
type UpdateResult struct {
	Captured Piece
	Promoted []Coordinate
	Checks   []Color
	Winner   Color
}

var backRank = [BoardSize]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

func NewBoard() *Board {
	return &Board{
		position: make(map[Coordinate]Piece),
		turn:     White,
	}
}

// Start lays out the standard 32 pieces and hands the first move to White.
func (b *Board) Start() {
	b.position = make(map[Coordinate]Piece, 32)
	for col, t := range backRank {
		b.Add(Coordinate{Col: col, Row: 7}, mustPiece(t, Black))
		b.Add(Coordinate{Col: col, Row: 6}, mustPiece(Pawn, Black))
		b.Add(Coordinate{Col: col, Row: 0}, mustPiece(t, White))
		b.Add(Coordinate{Col: col, Row: 1}, mustPiece(Pawn, White))
	}
	b.winner = NoColor
	b.turn = White
}

// Add places p at c, replacing whatever was there. A nil piece clears the square.
func (b *Board) Add(c Coordinate, p Piece) {
	if p == nil {
		delete(b.position, c)
		return
	}
	b.position[c] = p
}

func (b *Board) Remove(c Coordinate) {
	delete(b.position, c)
}

// Get returns the piece at c or nil.
func (b *Board) Get(c Coordinate) Piece {
	return b.position[c]
}

// Move relocates the piece at start to end. Callers validate first; moving from
// an empty square is a programming error.
func (b *Board) Move(start, end Coordinate) {
	p := b.Get(start)
	if p == nil {
		panic("model: Move from empty square " + start.String())
	}
	b.Remove(start)
	b.Add(end, p)
}

// Coords returns the occupied coordinates ordered by row, then column.
func (b *Board) Coords() []Coordinate {
	coords := make([]Coordinate, 0, len(b.position))
	for c := range b.position {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Row != coords[j].Row {
			return coords[i].Row < coords[j].Row
		}
		return coords[i].Col < coords[j].Col
	})
	return coords
}

func (b *Board) Len() int {
	return len(b.position)
}

func (b *Board) Turn() Color {
	return b.turn
}

func (b *Board) SetTurn(c Color) {
	b.turn = c
}

// Winner is NoColor while the game is in progress.
func (b *Board) Winner() Color {
	return b.winner
}

func (b *Board) GameOver() bool {
	return b.winner != NoColor
}

func (b *Board) NextTurn() {
	log.Debug("== NEXT TURN ==")
	b.turn = b.turn.Opposite()
}

// ValidMove reports whether the side to move may play start to end.
func (b *Board) ValidMove(start, end Coordinate) bool {
	return b.CheckMove(start, end) == nil
}

// CheckMove is ValidMove with the reason for rejection.
func (b *Board) CheckMove(start, end Coordinate) error {
	if !start.Valid() || !end.Valid() {
		return ErrOutOfBounds
	}
	p := b.Get(start)
	if p == nil {
		return ErrNoPiece
	}
	if p.Color() != b.turn {
		return ErrNotYourTurn
	}
	if !b.reachable(start, end, b.turn) {
		return ErrIllegalMove
	}
	return nil
}

// Attacks reports whether the piece at from could move onto target, judged as if
// it were that piece's turn.
func (b *Board) Attacks(from, target Coordinate) bool {
	p := b.Get(from)
	if p == nil {
		return false
	}
	return b.reachable(from, target, p.Color())
}

// reachable is the occupancy and geometry test shared by ValidMove and Attacks.
func (b *Board) reachable(start, end Coordinate, side Color) bool {
	p := b.Get(start)
	if p == nil || p.Color() != side {
		return false
	}
	target := b.Get(end)
	if target != nil && target.Color() == side {
		return false
	}
	return p.IsValid(start, end, target)
}

// Update applies an already validated move: capture, move, win detection,
// promotion and finally check detection.
func (b *Board) Update(start, end Coordinate) UpdateResult {
	log.Debug("== UPDATE ==")
	res := UpdateResult{Captured: b.Get(end)}
	b.Remove(end)
	b.Move(start, end)
	res.Winner = b.CheckWin()
	res.Promoted = b.Promote()
	res.Checks = b.Check()
	return res
}

// CheckWin sets the winner when a king has left the board. If both kings are
// gone the white king is looked for last, so Black is recorded as the winner.
func (b *Board) CheckWin() Color {
	log.Debug("== CHECKING FOR WINNER ==")
	if _, ok := b.KingCoordinate(Black); !ok {
		b.winner = White
	}
	if _, ok := b.KingCoordinate(White); !ok {
		b.winner = Black
	}
	return b.winner
}

// Promote turns every pawn standing on the far back rank into a queen of its
// colour. It scans the whole rank each time, not only the last move.
func (b *Board) Promote() []Coordinate {
	log.Debug("== CHECKING FOR PROMOTION ==")
	var promoted []Coordinate
	for _, rank := range []struct {
		row  int
		side Color
	}{{7, White}, {0, Black}} {
		for col := 0; col < BoardSize; col++ {
			c := Coordinate{Col: col, Row: rank.row}
			p := b.Get(c)
			if p == nil || p.Type() != Pawn || p.Color() != rank.side {
				continue
			}
			b.Remove(c)
			b.Add(c, mustPiece(Queen, rank.side))
			promoted = append(promoted, c)
		}
	}
	return promoted
}

// Check lists the colours whose king is attacked, White first. A colour with no
// king on the board is never reported. This is a report only; moves that leave a
// king attacked are still accepted.
func (b *Board) Check() []Color {
	log.Debug("== CHECKING IF KING IS CHECKED ==")
	var checked []Color
	coords := b.Coords()
	for _, side := range []Color{White, Black} {
		king, ok := b.KingCoordinate(side)
		if !ok {
			continue
		}
		for _, c := range coords {
			if b.Attacks(c, king) {
				checked = append(checked, side)
				break
			}
		}
	}
	return checked
}

func (b *Board) KingCoordinate(side Color) (Coordinate, bool) {
	for c, p := range b.position {
		if p.Type() == King && p.Color() == side {
			return c, true
		}
	}
	return Coordinate{}, false
}
