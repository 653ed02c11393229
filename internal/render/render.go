// Package render draws the board as a fixed 8x8 text grid. Columns run 0-7 left
// to right and rows are printed from 7 down to 0.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/benbeisheim/chessboard-backend/internal/model"
)

const (
	whiteTurnStyle = "\033[1;30;47m" // black on white
	blackTurnStyle = "\033[1;37;40m" // white on black
	resetStyle     = "\033[0m"
)

// Renderer writes boards to an output, optionally wrapped in colours keyed to the
// side to move.
type Renderer struct {
	w      io.Writer
	styled bool
}

func New(w io.Writer, styled bool) *Renderer {
	return &Renderer{w: w, styled: styled}
}

// Stdout returns a renderer for standard output. Colours are only used when
// stdout is a terminal; on Windows the escape codes are translated.
func Stdout() *Renderer {
	fd := os.Stdout.Fd()
	styled := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	return New(colorable.NewColorable(os.Stdout), styled)
}

// Writer is the underlying output, for callers printing around the board.
func (r *Renderer) Writer() io.Writer {
	return r.w
}

func (r *Renderer) Render(state model.BoardState) error {
	_, err := io.WriteString(r.w, r.String(state))
	return err
}

func (r *Renderer) String(state model.BoardState) string {
	var sb strings.Builder
	if r.styled {
		switch state.Turn {
		case model.White:
			sb.WriteString(whiteTurnStyle + "\n")
		case model.Black:
			sb.WriteString(blackTurnStyle + "\n")
		}
	}
	sb.WriteString(Grid(state))
	if r.styled {
		sb.WriteString(resetStyle)
	}
	return sb.String()
}

// Grid renders the board without any styling.
func Grid(state model.BoardState) string {
	glyphs := make(map[model.Coordinate]string, len(state.Squares))
	for _, sq := range state.Squares {
		glyphs[sq.Position] = sq.Piece.Symbol
	}

	var sb strings.Builder
	sb.WriteString("           [ column ]          \n")
	sb.WriteString("        0\\1\\2\\3\\4\\5\\6\\7\\       \n")
	for row := model.BoardSize - 1; row >= 0; row-- {
		fmt.Fprintf(&sb, " [row %d]", row)
		cells := make([]string, model.BoardSize)
		for col := range cells {
			g, ok := glyphs[model.Coordinate{Col: col, Row: row}]
			if !ok {
				g = " "
			}
			cells[col] = g
		}
		sb.WriteString(strings.Join(cells, " "))
		fmt.Fprintf(&sb, " [row %d]\n", row)
	}
	sb.WriteString("        0/1/2/3/4/5/6/7/       \n")
	sb.WriteString("           [ column ]          \n")
	return sb.String()
}
