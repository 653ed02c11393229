package model

import (
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chessboard-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
)

// Observer receives game state pushes. *websocket.Conn satisfies it.
type Observer interface {
	WriteJSON(v interface{}) error
	Close() error
}

// MoveListener is told about every accepted ply after the game lock is released.
type MoveListener func(gameID string, side Color, ply Ply)

// The connections for a specific game
type GameConnections struct {
	connections map[string]Observer // playerID -> connection
	mu          sync.RWMutex
}

// Game serialises all access to one Board: one mutation is in flight at a time.
type Game struct {
	ID          string
	mu          sync.Mutex
	board       *Board
	history     []Move
	captured    CapturedPieces
	lastMove    *SimpleMove
	checks      []Color
	players     [2]Player
	clocks      [2]*Clock
	connections *GameConnections
	listener    MoveListener
	now         func() time.Time
}

type GameState struct {
	ID             string         `json:"id"`
	Board          BoardState     `json:"boardState"`
	ToMove         Color          `json:"toMove"`
	Winner         Color          `json:"winner"`
	MoveHistory    []Move         `json:"moveHistory"`
	CapturedPieces CapturedPieces `json:"capturedPieces"`
	Checks         []Color        `json:"checks"`
	LastMove       *SimpleMove    `json:"lastMove"`
	Players        struct {
		White ClientPlayer `json:"white"`
		Black ClientPlayer `json:"black"`
	} `json:"players"`
}

// CapturedPieces lists the pieces each side has taken.
type CapturedPieces struct {
	White []PieceView `json:"white"`
	Black []PieceView `json:"black"`
}

func NewGame(id string) *Game {
	board := NewBoard()
	board.Start()
	g := &Game{
		ID:          id,
		board:       board,
		history:     make([]Move, 0),
		captured:    CapturedPieces{White: make([]PieceView, 0), Black: make([]PieceView, 0)},
		clocks:      [2]*Clock{NewClock(), NewClock()},
		connections: NewGameConnections(),
		now:         time.Now,
	}
	g.clock(White).Start()
	return g
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Observer),
	}
}

func seat(c Color) int {
	if c == Black {
		return 1
	}
	return 0
}

func (g *Game) clock(c Color) *Clock {
	return g.clocks[seat(c)]
}

func (g *Game) SetMoveListener(l MoveListener) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listener = l
}

func (g *Game) AddPlayer(playerID string) (Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	log.Debugf("adding player %s to game %s", playerID, g.ID)
	if c := g.colorOf(playerID); c != NoColor {
		return c, nil
	}
	for _, c := range []Color{White, Black} {
		if g.players[seat(c)].ID == "" {
			g.players[seat(c)] = Player{ID: playerID, Color: c}
			return c, nil
		}
	}
	return NoColor, fmt.Errorf("game %s: %w", g.ID, ErrGameFull)
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state()
}

func (g *Game) state() GameState {
	s := GameState{
		ID:             g.ID,
		Board:          g.board.Snapshot(),
		ToMove:         g.board.Turn(),
		Winner:         g.board.Winner(),
		MoveHistory:    append([]Move(nil), g.history...),
		CapturedPieces: g.captured,
		Checks:         g.checks,
		LastMove:       g.lastMove,
	}
	s.Players.White = g.clientPlayer(White)
	s.Players.Black = g.clientPlayer(Black)
	return s
}

func (g *Game) clientPlayer(c Color) ClientPlayer {
	p := g.players[seat(c)]
	return ClientPlayer{ID: p.ID, Color: c, Clock: g.clock(c).client()}
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.colorOf(playerID) != NoColor
}

func (g *Game) colorOf(playerID string) Color {
	if playerID == "" {
		return NoColor
	}
	for _, p := range g.players {
		if p.ID == playerID {
			return p.Color
		}
	}
	return NoColor
}

func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return g.players[0].ID == "" || g.players[1].ID == ""
}

func (g *Game) seated() bool {
	return g.players[0].ID != "" || g.players[1].ID != ""
}

// MakeMove validates and applies one move for playerID. When nobody has taken
// a seat the game is being played locally and any caller may move either side.
func (g *Game) MakeMove(playerID string, move SimpleMove) (Ply, error) {
	g.mu.Lock()

	ply, err := g.makeMove(playerID, move)
	if err != nil {
		g.mu.Unlock()
		return Ply{}, err
	}
	side := ply.Piece.Color
	state := g.state()
	listener := g.listener
	g.mu.Unlock()

	if listener != nil {
		listener(g.ID, side, ply)
	}
	g.broadcastState(state)
	return ply, nil
}

func (g *Game) makeMove(playerID string, move SimpleMove) (Ply, error) {
	log.Debugf("game %s: %s requests %s", g.ID, playerID, move)
	piece := g.board.Get(move.From)
	fail := func(err error) (Ply, error) {
		return Ply{}, &MoveError{Piece: piece, From: move.From, To: move.To, Err: err}
	}

	if !move.From.Valid() || !move.To.Valid() {
		return fail(ErrOutOfBounds)
	}
	if g.board.GameOver() {
		return fail(ErrGameOver)
	}
	if g.seated() {
		c := g.colorOf(playerID)
		if c == NoColor {
			return fail(ErrNotInGame)
		}
		if c != g.board.Turn() {
			return fail(ErrNotYourTurn)
		}
	}
	if err := g.board.CheckMove(move.From, move.To); err != nil {
		return fail(err)
	}

	side := g.board.Turn()
	think := g.clock(side).Stop()
	res := g.board.Update(move.From, move.To)

	ply := makePly(piece, move, res)
	ply.PlayedAt = g.now()
	ply.ThinkTime = think
	g.history = appendPly(g.history, side, ply)
	if res.Captured != nil {
		if side == White {
			g.captured.White = append(g.captured.White, *ViewOf(res.Captured))
		} else {
			g.captured.Black = append(g.captured.Black, *ViewOf(res.Captured))
		}
	}
	g.checks = res.Checks
	g.lastMove = &SimpleMove{From: move.From, To: move.To}

	if res.Winner != NoColor {
		log.Infof("game %s: %s wins", g.ID, res.Winner)
		return ply, nil
	}
	g.board.NextTurn()
	g.clock(g.board.Turn()).Start()
	return ply, nil
}

// RegisterConnection adds an observer for playerID. A player already connected
// keeps the existing connection and ErrDuplicateConnection is returned.
func (g *Game) RegisterConnection(playerID string, conn Observer) error {
	g.mu.Lock()
	isAuthorized := g.colorOf(playerID) != NoColor || g.canSpectate()
	state := g.state()
	g.mu.Unlock()

	if !isAuthorized {
		return fmt.Errorf("game %s: %w", g.ID, ErrNotInGame)
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		g.connections.mu.Unlock()
		return fmt.Errorf("game %s player %s: %w", g.ID, playerID, ErrDuplicateConnection)
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Debugf("registered connection for player %s in game %s", playerID, g.ID)

	g.broadcastState(state)
	return nil
}

// UnregisterConnection drops conn if it is still the player's current connection.
func (g *Game) UnregisterConnection(playerID string, conn Observer) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		log.Debugf("unregistering connection for player %s in game %s", playerID, g.ID)
		delete(g.connections.connections, playerID)
	}
}

func (g *Game) broadcastState(state GameState) {
	g.connections.mu.RLock()
	activeConnections := make(map[string]Observer, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		activeConnections[playerID] = conn
	}
	g.connections.mu.RUnlock()

	msg, err := ws.NewMessage(ws.MessageTypeGameState, state)
	if err != nil {
		log.Errorf("failed to marshal state of game %s: %v", g.ID, err)
		return
	}
	for playerID, conn := range activeConnections {
		if err := conn.WriteJSON(msg); err != nil {
			log.Warnf("failed to send state to player %s: %v", playerID, err)
			g.UnregisterConnection(playerID, conn)
		}
	}
}
