package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func at(col, row int) Coordinate {
	return Coordinate{Col: col, Row: row}
}

// reachableFrom lists every square p may move to from start on an empty board.
func reachableFrom(p Piece, start Coordinate) []Coordinate {
	var out []Coordinate
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			end := at(col, row)
			if p.IsValid(start, end, nil) {
				out = append(out, end)
			}
		}
	}
	return out
}

func offsets(start Coordinate, cs []Coordinate) map[[2]int]bool {
	out := make(map[[2]int]bool, len(cs))
	for _, c := range cs {
		out[[2]int{c.Col - start.Col, c.Row - start.Row}] = true
	}
	return out
}

func TestKnightOffsets(t *testing.T) {
	knight := mustPiece(Knight, White)
	start := at(3, 3)
	want := map[[2]int]bool{
		{1, 2}: true, {2, 1}: true, {-1, 2}: true, {-2, 1}: true,
		{1, -2}: true, {2, -1}: true, {-1, -2}: true, {-2, -1}: true,
	}
	if diff := cmp.Diff(want, offsets(start, reachableFrom(knight, start))); diff != "" {
		t.Errorf("knight offsets mismatch (-want +got):\n%s", diff)
	}
}

func TestKingOffsets(t *testing.T) {
	king := mustPiece(King, Black)
	start := at(4, 4)
	want := map[[2]int]bool{}
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx != 0 || dy != 0 {
				want[[2]int{dx, dy}] = true
			}
		}
	}
	if diff := cmp.Diff(want, offsets(start, reachableFrom(king, start))); diff != "" {
		t.Errorf("king offsets mismatch (-want +got):\n%s", diff)
	}
}

func TestSliderShapes(t *testing.T) {
	tests := []struct {
		piece PieceType
		dx    int
		dy    int
		want  bool
	}{
		{Rook, 0, 5, true},
		{Rook, -7, 0, true},
		{Rook, 1, 1, false},
		{Rook, 0, 0, false},
		{Bishop, 3, 3, true},
		{Bishop, -2, 2, true},
		{Bishop, 2, 1, false},
		{Bishop, 0, 0, false},
		{Queen, 4, -4, true},
		{Queen, 0, -6, true},
		{Queen, 1, 2, false},
		{Queen, 0, 0, false},
	}
	for _, tt := range tests {
		p := mustPiece(tt.piece, White)
		start := at(0, 0)
		if tt.dx < 0 {
			start.Col = 7
		}
		if tt.dy < 0 {
			start.Row = 7
		}
		end := at(start.Col+tt.dx, start.Row+tt.dy)
		if got := p.IsValid(start, end, nil); got != tt.want {
			t.Errorf("%s.IsValid(%s, %s) = %v; want %v", tt.piece, start, end, got, tt.want)
		}
	}
}

// Rook, bishop and queen legality only depends on the shape of the vector, so
// reflecting it across either axis or the diagonal keeps the answer.
func TestSliderSymmetry(t *testing.T) {
	origin := at(7, 7)
	for _, pt := range []PieceType{Rook, Bishop, Queen} {
		p := mustPiece(pt, Black)
		// IsValid only looks at the difference, so the far end may leave the board.
		valid := func(dx, dy int) bool {
			return p.IsValid(origin, at(origin.Col+dx, origin.Row+dy), nil)
		}
		for dx := -7; dx <= 7; dx++ {
			for dy := -7; dy <= 7; dy++ {
				base := valid(dx, dy)
				if valid(-dx, dy) != base || valid(dx, -dy) != base || valid(dy, dx) != base {
					t.Errorf("%s: reflections of (%d,%d) disagree", pt, dx, dy)
				}
			}
		}
	}
}

func TestIsValidIsPure(t *testing.T) {
	captured := mustPiece(Pawn, Black)
	for _, pt := range []PieceType{King, Queen, Rook, Bishop, Knight, Pawn} {
		p := mustPiece(pt, White)
		for row := 0; row < BoardSize; row++ {
			for col := 0; col < BoardSize; col++ {
				start, end := at(2, 1), at(col, row)
				first := p.IsValid(start, end, captured)
				if second := p.IsValid(start, end, captured); second != first {
					t.Fatalf("%s.IsValid(%s, %s) changed from %v to %v", pt, start, end, first, second)
				}
			}
		}
	}
}

func TestPawnIsValid(t *testing.T) {
	blackPawn := mustPiece(Pawn, Black)
	whitePawn := mustPiece(Pawn, White)
	blackRook := mustPiece(Rook, Black)

	tests := []struct {
		name     string
		color    Color
		start    Coordinate
		end      Coordinate
		captured Piece
		want     bool
	}{
		{"white single step", White, at(0, 1), at(0, 2), nil, true},
		{"white double step from home row", White, at(0, 1), at(0, 3), nil, true},
		{"white triple step", White, at(0, 1), at(0, 4), nil, false},
		{"white double step off home row", White, at(0, 2), at(0, 4), nil, false},
		{"white backwards", White, at(0, 3), at(0, 2), nil, false},
		{"white sideways", White, at(0, 3), at(1, 3), nil, false},
		{"black single step", Black, at(4, 6), at(4, 5), nil, true},
		{"black double step from home row", Black, at(4, 6), at(4, 4), nil, true},
		{"black double step off home row", Black, at(4, 5), at(4, 3), nil, false},
		{"black backwards", Black, at(4, 5), at(4, 6), nil, false},
		{"white captures pawn", White, at(1, 1), at(2, 2), blackPawn, true},
		{"white captures pawn left", White, at(1, 1), at(0, 2), blackPawn, true},
		{"white cannot capture rook", White, at(1, 1), at(2, 2), blackRook, false},
		{"white diagonal to empty", White, at(1, 1), at(2, 2), nil, false},
		{"white diagonal backwards", White, at(1, 3), at(2, 2), blackPawn, false},
		{"white cannot capture own pawn", White, at(1, 1), at(2, 2), whitePawn, false},
		{"black captures pawn", Black, at(3, 4), at(2, 3), whitePawn, true},
		{"black diagonal upwards", Black, at(3, 4), at(2, 5), whitePawn, false},
		{"two columns over", White, at(1, 1), at(3, 2), blackPawn, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustPiece(Pawn, tt.color)
			if got := p.IsValid(tt.start, tt.end, tt.captured); got != tt.want {
				t.Errorf("IsValid(%s, %s) = %v; want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestNewPiece(t *testing.T) {
	p, err := NewPiece(Bishop, Black)
	if err != nil {
		t.Fatalf("NewPiece: %v", err)
	}
	if p.String() != "black bishop" || p.Symbol() != "♝" || p.Type() != Bishop || p.Color() != Black {
		t.Errorf("NewPiece(Bishop, Black) = %s %s %s %s", p, p.Symbol(), p.Type(), p.Color())
	}

	if _, err := NewPiece(Queen, NoColor); err == nil {
		t.Error("NewPiece with no colour succeeded")
	}
	if _, err := NewPiece(PieceType("archbishop"), White); err == nil {
		t.Error("NewPiece with unknown type succeeded")
	}
}
