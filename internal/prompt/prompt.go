// Package prompt reads moves typed as "cr cr", e.g. "01 03", and keeps asking
// until the board accepts one.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/benbeisheim/chessboard-backend/internal/model"
)

var (
	ErrFormat = errors.New("move must be two digit pairs separated by a space")
	ErrDigits = errors.New("move digits must be 0-7")
)

const (
	formatHelp = "Invalid input. Please enter your move in the following format: __ __ where '__' contains digit 0 to 7.\n" +
		"Example: [current-column][current-row] [new-column][new-row]"
	digitsHelp = "Invalid input. Move digits should be 0-7."
)

// Parse checks the shape of line and converts it into a move. It does not look
// at the board.
func Parse(line string) (model.SimpleMove, error) {
	if len(line) != 5 || line[2] != ' ' || !isDigits(line[0:2]) || !isDigits(line[3:5]) {
		return model.SimpleMove{}, ErrFormat
	}
	start, err := model.ParseCoordinate(line[0:2])
	if err != nil {
		return model.SimpleMove{}, ErrDigits
	}
	end, err := model.ParseCoordinate(line[3:5])
	if err != nil {
		return model.SimpleMove{}, ErrDigits
	}
	return model.SimpleMove{From: start, To: end}, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Result is an accepted move and when it was entered.
type Result struct {
	Move      model.SimpleMove
	At        time.Time
	ThinkTime time.Duration
}

type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
	now func() time.Time
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out, now: time.Now}
}

// Next asks the side to move on b for a move until a legal one is entered.
// turnStart is when the turn began and is used to report think time. It returns
// io.EOF once the input is exhausted.
func (p *Prompter) Next(b *model.Board, turnStart time.Time) (Result, error) {
	for {
		fmt.Fprintf(p.out, "%s player: ", b.Turn().Title())
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return Result{}, fmt.Errorf("read move: %w", err)
			}
			return Result{}, io.EOF
		}
		line := strings.TrimRight(p.in.Text(), "\r")

		move, err := Parse(line)
		if errors.Is(err, ErrDigits) {
			fmt.Fprintln(p.out, digitsHelp)
			continue
		}
		if err != nil {
			fmt.Fprintln(p.out, formatHelp)
			continue
		}
		piece := b.Get(move.From)
		if !b.ValidMove(move.From, move.To) {
			fmt.Fprintf(p.out, "Invalid move for %s.\n", describe(piece, move.From))
			continue
		}

		at := p.now()
		think := at.Sub(turnStart)
		fmt.Fprintf(p.out, "%s %s\n", piece, move)
		fmt.Fprintf(p.out, "%s player took %sseconds to make a move.\n",
			b.Turn(), strconv.FormatFloat(think.Seconds(), 'f', -1, 64))
		return Result{Move: move, At: at, ThinkTime: think}, nil
	}
}

func describe(p model.Piece, at model.Coordinate) string {
	if p == nil {
		return "empty square " + at.String()
	}
	return p.String()
}
