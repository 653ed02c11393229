// service/game_manager.go
package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/benbeisheim/chessboard-backend/internal/model"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

// MoveRecorder receives every accepted move of every managed game.
type MoveRecorder interface {
	RecordPly(side model.Color, ply model.Ply) error
}

type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan string
	recorder         MoveRecorder
	mu               sync.RWMutex
	stop             chan struct{}
	stopOnce         sync.Once
}

// NewGameManager starts the matchmaking loop, polling every interval. recorder
// may be nil.
func NewGameManager(interval time.Duration, recorder MoveRecorder) *GameManager {
	gm := &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		recorder:         recorder,
		stop:             make(chan struct{}),
	}

	go gm.processMatchmaking(interval)

	return gm
}

// Close stops matchmaking.
func (gm *GameManager) Close() {
	gm.stopOnce.Do(func() { close(gm.stop) })
}

func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	log.Debugf("registering matchmaking channel for player %s", playerID)

	if existingCh, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existingCh)
	}

	gm.matchingChannels[playerID] = ch
	return nil
}

func (gm *GameManager) processMatchmaking(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-gm.stop:
			return
		case <-ticker.C:
			gm.matchPlayers()
		}
	}
}

// matchPlayers pairs queued players into new games until fewer than two wait.
func (gm *GameManager) matchPlayers() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for {
		first, second, ok := gm.queue.NextPair()
		if !ok {
			return
		}
		player1, player2 := first.Player, second.Player

		game := gm.newGame(uuid.New().String())
		p1Color, err := game.AddPlayer(player1.ID)
		if err != nil {
			log.Errorf("adding player %s to game %s: %v", player1.ID, game.ID, err)
			continue
		}
		p2Color, err := game.AddPlayer(player2.ID)
		if err != nil {
			log.Errorf("adding player %s to game %s: %v", player2.ID, game.ID, err)
			continue
		}
		gm.games[game.ID] = game
		log.Infof("matched %s (waited %s) and %s (waited %s) in game %s",
			player1.ID, gm.queue.Wait(first).Round(time.Millisecond),
			player2.ID, gm.queue.Wait(second).Round(time.Millisecond), game.ID)

		sent1 := gm.sendMatchFound(player1.ID, model.MatchFoundEvent{GameID: game.ID, Color: p1Color})
		sent2 := gm.sendMatchFound(player2.ID, model.MatchFoundEvent{GameID: game.ID, Color: p2Color})
		if !sent1 || !sent2 {
			log.Warnf("failed to notify all players of game %s", game.ID)
		}
	}
}

// sendMatchFound delivers the event and closes the player's channel. Callers
// hold gm.mu.
func (gm *GameManager) sendMatchFound(playerID string, event model.MatchFoundEvent) bool {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		return false
	}
	select {
	case ch <- mustJSON(event):
		delete(gm.matchingChannels, playerID)
		close(ch)
		return true
	default:
		return false
	}
}

func (gm *GameManager) UnregisterMatchmakingChannel(playerID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	log.Debugf("unregistering matchmaking channel for player %s", playerID)

	// Channels are only closed after a match is delivered or on re-registration.
	delete(gm.matchingChannels, playerID)
	gm.queue.Remove(playerID)
}

func mustJSON(v interface{}) string {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(bytes)
}

// newGame builds a game wired to the move recorder.
func (gm *GameManager) newGame(gameID string) *model.Game {
	game := model.NewGame(gameID)
	if gm.recorder != nil {
		recorder := gm.recorder
		game.SetMoveListener(func(gameID string, side model.Color, ply model.Ply) {
			if err := recorder.RecordPly(side, ply); err != nil {
				log.Errorf("game %s: recording move %s -> %s: %v", gameID, ply.From, ply.To, err)
			}
		})
	}
	return game
}

func (gm *GameManager) CreateGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return fmt.Errorf("create %s: %w", gameID, ErrGameExists)
	}

	gm.games[gameID] = gm.newGame(gameID)
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("game %s: %w", gameID, ErrGameNotFound)
	}

	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.NoColor, err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	return gm.queue.AddPlayer(model.Player{ID: playerID})
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

// MakeMove looks the game up and hands the move to it. The manager lock is not
// held while the game applies the move; the game serialises its own moves.
func (gm *GameManager) MakeMove(gameID string, playerID string, move model.SimpleMove) (model.Ply, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.Ply{}, err
	}
	return game.MakeMove(playerID, move)
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn model.Observer) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn model.Observer) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}
