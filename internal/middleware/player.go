package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/utils"
)

// EnsurePlayerID stores the caller's player ID in c.Locals("playerID"). The ID
// comes from the X-Player-ID header or the playerId query parameter. It is copied
// out of the request buffer because games and the matchmaking queue keep it.
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals("playerID") != nil {
			return c.Next()
		}

		playerID := strings.TrimSpace(c.Get("X-Player-ID"))
		if playerID == "" {
			playerID = strings.TrimSpace(c.Query("playerId"))
		}

		if playerID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		}
		log.Debugf("%s %s as player %s", c.Method(), c.Path(), playerID)

		c.Locals("playerID", utils.CopyString(playerID))
		return c.Next()
	}
}
