package model

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/benbeisheim/chessboard-backend/internal/ws"
	"github.com/google/go-cmp/cmp"
)

type fakeObserver struct {
	mu       sync.Mutex
	messages []ws.Message
	fail     bool
	closed   bool
}

func (f *fakeObserver) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("broken pipe")
	}
	f.messages = append(f.messages, v.(ws.Message))
	return nil
}

func (f *fakeObserver) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeObserver) last(t *testing.T) GameState {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.messages) == 0 {
		t.Fatal("observer received nothing")
	}
	msg := f.messages[len(f.messages)-1]
	if msg.Type != ws.MessageTypeGameState {
		t.Fatalf("message type = %q; want %q", msg.Type, ws.MessageTypeGameState)
	}
	var state GameState
	if err := json.Unmarshal(msg.Payload, &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return state
}

func mv(from, to string) SimpleMove {
	f, err := ParseCoordinate(from)
	if err != nil {
		panic(err)
	}
	e, err := ParseCoordinate(to)
	if err != nil {
		panic(err)
	}
	return SimpleMove{From: f, To: e}
}

func TestAddPlayer(t *testing.T) {
	g := NewGame("g1")

	if c, err := g.AddPlayer("alice"); err != nil || c != White {
		t.Fatalf("AddPlayer(alice) = %v, %v; want white", c, err)
	}
	if !g.CanSpectate() {
		t.Error("half-empty game should accept spectators")
	}
	if c, err := g.AddPlayer("bob"); err != nil || c != Black {
		t.Fatalf("AddPlayer(bob) = %v, %v; want black", c, err)
	}
	if c, err := g.AddPlayer("alice"); err != nil || c != White {
		t.Errorf("rejoining returned %v, %v; want white", c, err)
	}
	if _, err := g.AddPlayer("carol"); !errors.Is(err, ErrGameFull) {
		t.Errorf("third player error = %v; want ErrGameFull", err)
	}
	if !g.IsPlayerInGame("bob") || g.IsPlayerInGame("carol") {
		t.Error("IsPlayerInGame disagrees with the seats")
	}
	if g.CanSpectate() {
		t.Error("full game accepted spectators")
	}
}

func TestMakeMoveLocal(t *testing.T) {
	g := NewGame("local")

	// With no seats taken anyone may move either side.
	for _, m := range []SimpleMove{mv("01", "03"), mv("06", "04")} {
		if _, err := g.MakeMove("", m); err != nil {
			t.Fatalf("MakeMove(%s): %v", m, err)
		}
	}
	state := g.GetState()
	if state.ToMove != White {
		t.Errorf("ToMove = %v; want white", state.ToMove)
	}
	if len(state.MoveHistory) != 1 || state.MoveHistory[0].WhitePly == nil || state.MoveHistory[0].BlackPly == nil {
		t.Fatalf("MoveHistory = %+v; want one full pair", state.MoveHistory)
	}
	if got := state.MoveHistory[0].WhitePly.Notation; got != "a4" {
		t.Errorf("white notation = %q; want a4", got)
	}
	if diff := cmp.Diff(&SimpleMove{From: at(0, 6), To: at(0, 4)}, state.LastMove); diff != "" {
		t.Errorf("LastMove mismatch (-want +got):\n%s", diff)
	}
}

func TestMakeMoveSeated(t *testing.T) {
	g := NewGame("seated")
	g.AddPlayer("alice")
	g.AddPlayer("bob")

	tests := []struct {
		name   string
		player string
		move   SimpleMove
		want   error
	}{
		{"stranger", "carol", mv("01", "02"), ErrNotInGame},
		{"black moves first", "bob", mv("06", "05"), ErrNotYourTurn},
		{"white moves black piece", "alice", mv("06", "05"), ErrNotYourTurn},
		{"empty square", "alice", mv("33", "34"), ErrNoPiece},
		{"bad shape", "alice", mv("00", "11"), ErrIllegalMove},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.MakeMove(tt.player, tt.move)
			if !errors.Is(err, tt.want) {
				t.Fatalf("MakeMove = %v; want %v", err, tt.want)
			}
			var moveErr *MoveError
			if !errors.As(err, &moveErr) || moveErr.From != tt.move.From || moveErr.To != tt.move.To {
				t.Errorf("error %v does not carry the move", err)
			}
		})
	}

	if _, err := g.MakeMove("alice", mv("01", "03")); err != nil {
		t.Fatalf("alice: %v", err)
	}
	if _, err := g.MakeMove("alice", mv("11", "13")); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("alice moving twice = %v; want ErrNotYourTurn", err)
	}
	if _, err := g.MakeMove("bob", mv("06", "04")); err != nil {
		t.Fatalf("bob: %v", err)
	}
}

func TestMakeMoveOutOfBounds(t *testing.T) {
	g := NewGame("bounds")
	_, err := g.MakeMove("", SimpleMove{From: at(0, 1), To: at(0, 9)})
	if !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("MakeMove = %v; want ErrOutOfBounds", err)
	}
}

func TestKingCaptureEndsGame(t *testing.T) {
	g := NewGame("short")
	var (
		mu    sync.Mutex
		sides []Color
		plies []string
	)
	g.SetMoveListener(func(gameID string, side Color, ply Ply) {
		mu.Lock()
		defer mu.Unlock()
		if gameID != "short" {
			t.Errorf("listener got game %q", gameID)
		}
		sides = append(sides, side)
		plies = append(plies, ply.Notation)
	})

	for _, m := range []SimpleMove{mv("30", "74"), mv("16", "15"), mv("74", "47")} {
		if _, err := g.MakeMove("", m); err != nil {
			t.Fatalf("MakeMove(%s): %v", m, err)
		}
	}

	state := g.GetState()
	if state.Winner != White {
		t.Errorf("Winner = %v; want white", state.Winner)
	}
	if state.ToMove != White {
		t.Errorf("ToMove = %v; turn should not pass after the king falls", state.ToMove)
	}
	if diff := cmp.Diff([]PieceView{{Type: King, Color: Black, Symbol: "♚"}}, state.CapturedPieces.White); diff != "" {
		t.Errorf("captured mismatch (-want +got):\n%s", diff)
	}
	if len(state.CapturedPieces.Black) != 0 {
		t.Errorf("black captured %v", state.CapturedPieces.Black)
	}
	if len(state.MoveHistory) != 2 || state.MoveHistory[1].BlackPly != nil {
		t.Errorf("MoveHistory = %+v; want a full pair then a lone white ply", state.MoveHistory)
	}

	mu.Lock()
	if diff := cmp.Diff([]Color{White, Black, White}, sides); diff != "" {
		t.Errorf("listener sides mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Qh5+", "b6+", "Qxe8"}, plies); diff != "" {
		t.Errorf("notation mismatch (-want +got):\n%s", diff)
	}
	mu.Unlock()

	if _, err := g.MakeMove("", mv("16", "15")); !errors.Is(err, ErrGameOver) {
		t.Errorf("move after the end = %v; want ErrGameOver", err)
	}
}

func TestPromotionPly(t *testing.T) {
	g := NewGame("promo")
	g.board = emptyBoard(map[Coordinate]Piece{
		at(0, 6): mustPiece(Pawn, White),
		at(1, 7): mustPiece(Pawn, Black),
		at(4, 0): mustPiece(King, White),
		at(7, 4): mustPiece(King, Black),
	})

	ply, err := g.MakeMove("", mv("06", "17"))
	if err != nil {
		t.Fatalf("MakeMove: %v", err)
	}
	if !ply.Promotion || ply.Notation != "axb8=Q" {
		t.Errorf("ply = %+v; want a promoting capture", ply)
	}
	if v, ok := g.GetState().Board.At(at(1, 7)); !ok || v.Type != Queen {
		t.Errorf("square 17 = %+v; want a queen", v)
	}
}

func TestConnections(t *testing.T) {
	g := NewGame("conn")
	g.AddPlayer("alice")

	watcher := &fakeObserver{}
	if err := g.RegisterConnection("spectator", watcher); err != nil {
		t.Fatalf("spectator: %v", err)
	}
	alice := &fakeObserver{}
	if err := g.RegisterConnection("alice", alice); err != nil {
		t.Fatalf("alice: %v", err)
	}
	if err := g.RegisterConnection("alice", &fakeObserver{}); !errors.Is(err, ErrDuplicateConnection) {
		t.Errorf("second connection = %v; want ErrDuplicateConnection", err)
	}

	if _, err := g.MakeMove("alice", mv("41", "43")); err != nil {
		t.Fatalf("MakeMove: %v", err)
	}
	state := alice.last(t)
	if state.ToMove != Black || state.LastMove == nil || state.LastMove.To != at(4, 3) {
		t.Errorf("pushed state = %+v", state)
	}
	if watcher.last(t).Players.White.ID != "alice" {
		t.Error("spectator did not see alice seated")
	}

	g.AddPlayer("bob")
	if err := g.RegisterConnection("carol", &fakeObserver{}); !errors.Is(err, ErrNotInGame) {
		t.Errorf("stranger in full game = %v; want ErrNotInGame", err)
	}
}

func TestBrokenConnectionIsDropped(t *testing.T) {
	g := NewGame("drop")
	bad := &fakeObserver{}
	if err := g.RegisterConnection("x", bad); err != nil {
		t.Fatal(err)
	}
	bad.fail = true
	if _, err := g.MakeMove("", mv("11", "12")); err != nil {
		t.Fatal(err)
	}
	// The slot is free again.
	if err := g.RegisterConnection("x", &fakeObserver{}); err != nil {
		t.Errorf("re-register after failure: %v", err)
	}
}

func TestUnregisterKeepsNewerConnection(t *testing.T) {
	g := NewGame("reconnect")
	old := &fakeObserver{}
	g.RegisterConnection("x", old)
	g.UnregisterConnection("x", old)

	fresh := &fakeObserver{}
	if err := g.RegisterConnection("x", fresh); err != nil {
		t.Fatal(err)
	}
	g.UnregisterConnection("x", old)
	if err := g.RegisterConnection("x", &fakeObserver{}); !errors.Is(err, ErrDuplicateConnection) {
		t.Errorf("stale unregister removed the fresh connection: %v", err)
	}
}
