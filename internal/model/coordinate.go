package model

import (
	"fmt"
)

const BoardSize = 8

// Coordinate is a (column, row) pair; both run 0-7 and row 0 is White's back rank.
type Coordinate struct {
	Col int
	Row int
}

func (c Coordinate) Valid() bool {
	return c.Col >= 0 && c.Col < BoardSize && c.Row >= 0 && c.Row < BoardSize
}

// String renders the coordinate as the two digits the prompt accepts, e.g. "01".
func (c Coordinate) String() string {
	return fmt.Sprintf("%d%d", c.Col, c.Row)
}

func (c Coordinate) Algebraic() string {
	return fmt.Sprintf("%c%d", 'a'+c.Col, c.Row+1)
}

// ParseCoordinate reads a two digit "cr" string.
func ParseCoordinate(s string) (Coordinate, error) {
	if len(s) != 2 {
		return Coordinate{}, fmt.Errorf("coordinate %q: want two digits: %w", s, ErrOutOfBounds)
	}
	c := Coordinate{Col: int(s[0]) - '0', Row: int(s[1]) - '0'}
	if !c.Valid() {
		return Coordinate{}, fmt.Errorf("coordinate %q: %w", s, ErrOutOfBounds)
	}
	return c, nil
}

func (c Coordinate) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Coordinate) UnmarshalText(b []byte) error {
	parsed, err := ParseCoordinate(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// vector returns the horizontal and vertical displacement from start to end and
// their Manhattan distance. Positive values point right and up.
func vector(start, end Coordinate) (dx, dy, dist int) {
	dx = end.Col - start.Col
	dy = end.Row - start.Row
	return dx, dy, abs(dx) + abs(dy)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func diagonal(dx, dy int) bool {
	return dx != 0 && abs(dx) == abs(dy)
}

func straight(dx, dy int) bool {
	return (dx == 0) != (dy == 0)
}
