package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/railinfo/pkg/dataaggregator"
	"github.com/travigo/railinfo/pkg/dataaggregator/query"
)

func StationsRouter(router fiber.Router, aggregator Aggregator) {
	router.Get("/", func(c *fiber.Ctx) error {
		return listStations(c, aggregator)
	})
	router.Get("/:identifier/departures", func(c *fiber.Ctx) error {
		return getStationDepartures(c, aggregator)
	})
}

func listStations(c *fiber.Ctx, aggregator Aggregator) error {
	limit, err := parseLimit(c, dataaggregator.DefaultStationsLimit)
	if err != nil {
		return badRequest(c, err.Error())
	}

	stations := aggregator.Stations(c.UserContext(), query.Stations{
		Query: c.Query("q"),
		Limit: limit,
	})

	cacheFor(c, 24*time.Hour)
	return sendReduced(c, stations)
}

func getStationDepartures(c *fiber.Ctx, aggregator Aggregator) error {
	limit, err := parseLimit(c, dataaggregator.DefaultDeparturesLimit)
	if err != nil {
		return badRequest(c, err.Error())
	}

	departures := aggregator.Departures(c.UserContext(), query.Departures{
		StationID: c.Params("identifier"),
		Limit:     limit,
	})

	cacheFor(c, 30*time.Second)
	return sendReduced(c, departures)
}
