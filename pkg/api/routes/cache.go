package routes

import (
	"github.com/gofiber/fiber/v2"
)

func CacheRouter(router fiber.Router, aggregator Aggregator) {
	router.Get("/", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.JSON(aggregator.CacheStats())
	})

	router.Delete("/", func(c *fiber.Ctx) error {
		removed := aggregator.ClearCache(c.UserContext(), c.Query("pattern"))

		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.JSON(fiber.Map{
			"removed": removed,
		})
	})
}
