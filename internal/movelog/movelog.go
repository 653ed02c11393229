// Package movelog appends one human readable line per accepted move to a text
// file. The file is opened for appending and never truncated or read back.
package movelog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/benbeisheim/chessboard-backend/internal/model"
)

// TimestampLayout matches the default string form of a wall clock timestamp
// with microseconds, e.g. "2024-03-01 14:05:09.123456".
const TimestampLayout = "2006-01-02 15:04:05.000000"

type Logger struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
}

// Open opens path in append mode, creating it if needed.
func Open(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) //nolint:gosec // move logs are meant to be shared
	if err != nil {
		return nil, fmt.Errorf("open move log %s: %w", path, err)
	}
	return &Logger{w: f, closer: f}, nil
}

// New writes to w; Close will not close it.
func New(w io.Writer) *Logger {
	return &Logger{w: w}
}

// Format renders a single log line without the trailing newline.
func Format(at time.Time, side model.Color, start, end model.Coordinate) string {
	return fmt.Sprintf("%s: %s %s -> %s", at.Format(TimestampLayout), side, start, end)
}

func (l *Logger) Record(at time.Time, side model.Color, start, end model.Coordinate) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := fmt.Fprintln(l.w, Format(at, side, start, end)); err != nil {
		return fmt.Errorf("write move log: %w", err)
	}
	return nil
}

// RecordPly logs a ply accepted by a Game. It has the shape of model.MoveListener
// once the game ID is dropped.
func (l *Logger) RecordPly(side model.Color, ply model.Ply) error {
	return l.Record(ply.PlayedAt, side, ply.From, ply.To)
}

func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
