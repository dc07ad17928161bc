package routes

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
)

const maxLimit = 100

var errLimit = errors.New("Parameter limit should be a positive integer")

// parseLimit reads ?limit=, capping it at maxLimit
func parseLimit(c *fiber.Ctx, defaultLimit int) (int, error) {
	limitString := c.Query("limit")
	if limitString == "" {
		return defaultLimit, nil
	}

	limit, err := strconv.Atoi(limitString)
	if err != nil || limit < 1 {
		return 0, errLimit
	}

	return min(limit, maxLimit), nil
}

func badRequest(c *fiber.Ctx, message string) error {
	c.Status(fiber.StatusBadRequest)
	return c.JSON(fiber.Map{
		"error": message,
	})
}

func cacheFor(c *fiber.Ctx, maxAge time.Duration) {
	c.Set(fiber.HeaderCacheControl, fmt.Sprintf("public, max-age=%d", int(maxAge.Seconds())))
}

// sendReduced writes data reduced to the basic group, or basic and detailed with ?detailed=true
func sendReduced(c *fiber.Ctx, data any) error {
	groups := []string{"basic"}
	if c.QueryBool("detailed") {
		groups = append(groups, "detailed")
	}

	reduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, data)
	if err != nil {
		c.Status(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sheriff could not reduce response",
		})
	}

	return c.JSON(reduced)
}
