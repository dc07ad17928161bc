package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/travigo/railinfo/pkg/dataaggregator/query"
)

func PlannerRouter(router fiber.Router, aggregator Aggregator) {
	router.Get("/:origin/:destination", func(c *fiber.Ctx) error {
		return getPlanBetweenStations(c, aggregator)
	})
}

func getPlanBetweenStations(c *fiber.Ctx, aggregator Aggregator) error {
	journeyPlanQuery := query.JourneyPlan{
		Origin:      c.Params("origin"),
		Destination: c.Params("destination"),
	}

	if dateTimeString := c.Query("datetime"); dateTimeString != "" {
		dateTime, err := time.Parse(time.RFC3339, dateTimeString)
		if err != nil {
			return badRequest(c, "Parameter datetime should be an RFC3339/ISO8601 datetime")
		}

		journeyPlanQuery.DateTime = dateTime
	}

	itineraries, err := aggregator.PlanJourney(c.UserContext(), journeyPlanQuery)
	if err != nil {
		log.Error().Err(err).Str("origin", journeyPlanQuery.Origin).Str("destination", journeyPlanQuery.Destination).Msg("Journey planning failed")

		c.Status(fiber.StatusBadGateway)
		return c.JSON(fiber.Map{
			"error": "Journey planner is currently unavailable",
		})
	}

	cacheFor(c, time.Minute)
	return sendReduced(c, itineraries)
}
