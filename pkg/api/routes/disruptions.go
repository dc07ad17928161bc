package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/railinfo/pkg/dataaggregator"
	"github.com/travigo/railinfo/pkg/dataaggregator/query"
)

func DisruptionsRouter(router fiber.Router, aggregator Aggregator) {
	router.Get("/", func(c *fiber.Ctx) error {
		limit, err := parseLimit(c, dataaggregator.DefaultDisruptionsLimit)
		if err != nil {
			return badRequest(c, err.Error())
		}

		disruptions := aggregator.Disruptions(c.UserContext(), query.Disruptions{Limit: limit})

		cacheFor(c, 5*time.Minute)
		return sendReduced(c, disruptions)
	})
}

func StrikesRouter(router fiber.Router, aggregator Aggregator) {
	router.Get("/", func(c *fiber.Ctx) error {
		strikes := aggregator.CurrentStrikes(c.UserContext())

		cacheFor(c, 15*time.Minute)
		return sendReduced(c, strikes)
	})
}

func DashboardRouter(router fiber.Router, aggregator Aggregator) {
	router.Get("/", func(c *fiber.Ctx) error {
		dashboard := aggregator.LiveDashboard(c.UserContext())

		cacheFor(c, 30*time.Second)
		return sendReduced(c, dashboard)
	})
}
