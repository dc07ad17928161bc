package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/railinfo/pkg/api/routes"
)

func NewApp(aggregator routes.Aggregator) *fiber.App {
	webApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	webApp.Use(NewRequestID())
	webApp.Use(NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.StationsRouter(group.Group("/stations"), aggregator)
	routes.DisruptionsRouter(group.Group("/disruptions"), aggregator)
	routes.StrikesRouter(group.Group("/strikes"), aggregator)
	routes.DashboardRouter(group.Group("/dashboard"), aggregator)
	routes.PlannerRouter(group.Group("/planner"), aggregator)
	routes.CacheRouter(group.Group("/cache"), aggregator)

	return webApp
}

func SetupServer(listen string, aggregator routes.Aggregator) error {
	return NewApp(aggregator).Listen(listen)
}
