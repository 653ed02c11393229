// Package config reads runtime settings from flags, falling back to CHESS_*
// environment variables and then to defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string
	// AllowOrigins is the comma separated CORS and WebSocket origin list.
	AllowOrigins string
	// MoveLogPath is the append-only move log. Empty disables it.
	MoveLogPath string
	// Debug enables debug level logging.
	Debug bool
	// MatchInterval is how often the matchmaking queue is polled.
	MatchInterval time.Duration
}

func Default() *Config {
	return &Config{
		Addr:          ":3000",
		AllowOrigins:  "http://localhost:5173",
		MoveLogPath:   "moves.txt",
		MatchInterval: time.Second,
	}
}

// Load registers the flags on fs, parses args and validates the result.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	def := Default()
	cfg := &Config{}
	fs.StringVar(&cfg.Addr, "addr", getenv("CHESS_ADDR", def.Addr), "listen address")
	fs.StringVar(&cfg.AllowOrigins, "origins", getenv("CHESS_ALLOW_ORIGINS", def.AllowOrigins), "comma-separated allowed origins")
	fs.StringVar(&cfg.MoveLogPath, "log", getenv("CHESS_MOVE_LOG", def.MoveLogPath), "append-only move log file (empty to disable)")
	fs.BoolVar(&cfg.Debug, "debug", getenb("CHESS_DEBUG", def.Debug), "enable debug logging")
	fs.DurationVar(&cfg.MatchInterval, "match-interval", getdur("CHESS_MATCH_INTERVAL", def.MatchInterval), "matchmaking poll interval")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadLocal is Load for the terminal game. Only -log and -debug are registered
// and the server settings are left zero and unchecked.
func LoadLocal(fs *flag.FlagSet, args []string) (*Config, error) {
	def := Default()
	cfg := &Config{}
	fs.StringVar(&cfg.MoveLogPath, "log", getenv("CHESS_MOVE_LOG", def.MoveLogPath), "append-only move log file (empty to disable)")
	fs.BoolVar(&cfg.Debug, "debug", getenb("CHESS_DEBUG", def.Debug), "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	}
	for _, o := range c.Origins() {
		if o == "*" {
			return fmt.Errorf("%w: wildcard origin cannot be used with credentials", ErrInvalidConfig)
		}
	}
	if len(c.Origins()) == 0 {
		return fmt.Errorf("%w: at least one allowed origin is required", ErrInvalidConfig)
	}
	if c.MatchInterval <= 0 {
		return fmt.Errorf("%w: match interval must be positive, got %s", ErrInvalidConfig, c.MatchInterval)
	}
	return nil
}

// Origins splits AllowOrigins into its entries.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c *Config) LogLevel() log.Level {
	if c.Debug {
		return log.LevelDebug
	}
	return log.LevelInfo
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenb(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
