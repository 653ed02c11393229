package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/chessboard-backend/internal/model"
	"github.com/benbeisheim/chessboard-backend/internal/service"
	"github.com/benbeisheim/chessboard-backend/internal/ws"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// conn serialises writes: state broadcasts from other players' moves and replies
// to this player's messages may be written concurrently. Once released it
// refuses writes, since the websocket package recycles the underlying Conn when
// the handler returns.
type conn struct {
	mu       sync.Mutex
	released bool
	*websocket.Conn
}

var errConnReleased = errors.New("websocket connection released")

func (c *conn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return errConnReleased
	}
	return c.Conn.WriteJSON(v)
}

func (c *conn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return errConnReleased
	}
	return c.Conn.WriteMessage(messageType, data)
}

// release waits for any write in flight and blocks later ones.
func (c *conn) release() {
	c.mu.Lock()
	c.released = true
	c.mu.Unlock()
}

// HandleConnection serves /ws/game/:gameId until the client goes away.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals("playerID").(string)
	sc := &conn{Conn: c}
	defer sc.release()

	if err := wsc.gameService.RegisterConnection(gameID, playerID, sc); err != nil {
		log.Warnf("register connection for player %s in game %s: %v", playerID, gameID, err)
		if errors.Is(err, model.ErrDuplicateConnection) {
			_ = sc.WriteMessage(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
			)
		} else {
			wsc.sendError(sc, err)
		}
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, sc)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("read error for player %s: %v", playerID, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.sendError(sc, fmt.Errorf("parse message: %w", err))
			continue
		}
		if err := wsc.handleMessage(sc, gameID, playerID, msg); err != nil {
			wsc.sendError(sc, err)
		}
	}
}

func (wsc *WebSocketController) handleMessage(sc *conn, gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.SimpleMove
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return fmt.Errorf("parse move: %w", err)
		}
		ply, err := wsc.gameService.HandleMove(gameID, playerID, move)
		if err != nil {
			return err
		}
		ack, err := ws.NewMessage(ws.MessageTypeMoveAck, ply)
		if err != nil {
			return err
		}
		return sc.WriteJSON(ack)
	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// HandleMatchmaking serves /ws/matchmaking: it queues the player and sends a
// single match found event once a game is made.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID, _ := c.Locals("playerID").(string)
	sc := &conn{Conn: c}
	defer sc.release()

	ch := make(chan string, 1)
	if err := wsc.gameService.RegisterMatchmakingChannel(playerID, ch); err != nil {
		wsc.sendError(sc, err)
		c.Close()
		return
	}
	if err := wsc.gameService.JoinMatchmaking(playerID); err != nil && !errors.Is(err, model.ErrAlreadyQueued) {
		wsc.gameService.UnregisterMatchmakingChannel(playerID)
		wsc.sendError(sc, err)
		c.Close()
		return
	}

	// The reader only notices the client going away. It must finish before this
	// handler returns and c is recycled.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case event, ok := <-ch:
		if ok {
			msg := ws.Message{Type: ws.MessageTypeMatchFound, Payload: json.RawMessage(event)}
			if err := sc.WriteJSON(msg); err != nil {
				log.Warnf("send match to player %s: %v", playerID, err)
			}
		}
	case <-closed:
		wsc.gameService.UnregisterMatchmakingChannel(playerID)
	}

	c.Close()
	<-closed
}

func (wsc *WebSocketController) sendError(sc *conn, err error) {
	msg, merr := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()})
	if merr != nil {
		return
	}
	if werr := sc.WriteJSON(msg); werr != nil {
		log.Debugf("send error: %v", werr)
	}
}
