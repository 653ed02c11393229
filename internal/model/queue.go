package model

import (
	"fmt"
	"sync"
	"time"
)

// QueuedPlayer is a player waiting for an opponent.
type QueuedPlayer struct {
	Player   Player
	JoinedAt time.Time
}

// Queue is the matchmaking line. Players are paired first come, first served.
type Queue struct {
	mu      sync.Mutex
	waiting []QueuedPlayer
	now     func() time.Time
}

func NewQueue() *Queue {
	return &Queue{now: time.Now}
}

func (q *Queue) AddPlayer(player Player) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.index(player.ID) >= 0 {
		return fmt.Errorf("queue %s: %w", player.ID, ErrAlreadyQueued)
	}
	q.waiting = append(q.waiting, QueuedPlayer{Player: player, JoinedAt: q.now()})
	return nil
}

// NextPair pops the two longest waiting players. ok is false when fewer than two
// are queued.
func (q *Queue) NextPair() (first, second QueuedPlayer, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.waiting) < 2 {
		return QueuedPlayer{}, QueuedPlayer{}, false
	}
	first, second = q.waiting[0], q.waiting[1]
	q.waiting = q.waiting[2:]
	return first, second, true
}

// Wait is how long p has been queued.
func (q *Queue) Wait(p QueuedPlayer) time.Duration {
	return q.now().Sub(p.JoinedAt)
}

func (q *Queue) Remove(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	i := q.index(playerID)
	if i < 0 {
		return false
	}
	q.waiting = append(q.waiting[:i], q.waiting[i+1:]...)
	return true
}

func (q *Queue) index(playerID string) int {
	for i, p := range q.waiting {
		if p.Player.ID == playerID {
			return i
		}
	}
	return -1
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.waiting)
}
