package model

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// Clock accumulates how long one side has spent thinking. The start of the
// current turn is kept here rather than in any package-level state.
type Clock struct {
	mu          sync.Mutex
	used        time.Duration
	lastStarted time.Time
	isRunning   bool
	now         func() time.Time
}

type ClientClock struct {
	Used    int64 `json:"usedMs"`
	Running bool  `json:"running"`
}

func NewClock() *Clock {
	return &Clock{now: time.Now}
}

func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		c.lastStarted = c.now()
		c.isRunning = true
	}
}

// Stop halts the clock and returns the length of the turn that just ended.
func (c *Clock) Stop() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		return 0
	}
	turn := c.now().Sub(c.lastStarted)
	c.used += turn
	c.isRunning = false
	log.Debugf("clock stopped after %s, %s used", turn, c.used)
	return turn
}

// Elapsed is the time spent on the current turn so far.
func (c *Clock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		return 0
	}
	return c.now().Sub(c.lastStarted)
}

// TurnStarted returns when the running turn began, or the zero time.
func (c *Clock) TurnStarted() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		return time.Time{}
	}
	return c.lastStarted
}

func (c *Clock) Used() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		return c.used + c.now().Sub(c.lastStarted)
	}
	return c.used
}

func (c *Clock) client() ClientClock {
	c.mu.Lock()
	running := c.isRunning
	c.mu.Unlock()
	return ClientClock{Used: c.Used().Milliseconds(), Running: running}
}
