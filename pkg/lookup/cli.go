package lookup

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kr/pretty"
	"github.com/travigo/railinfo/pkg/config"
	"github.com/travigo/railinfo/pkg/dataaggregator"
	"github.com/travigo/railinfo/pkg/dataaggregator/global"
	"github.com/travigo/railinfo/pkg/dataaggregator/query"
	"github.com/urfave/cli/v2"
)

var newAggregator = func(ctx context.Context) (*dataaggregator.Aggregator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	return global.Setup(ctx, cfg)
}

func printResult(w io.Writer, value any) {
	pretty.Fprintf(w, "%# v\n", value)
}

// action wraps a lookup so every subcommand gets a configured aggregator
func action(run func(c *cli.Context, aggregator *dataaggregator.Aggregator) (any, error)) cli.ActionFunc {
	return func(c *cli.Context) error {
		aggregator, err := newAggregator(c.Context)
		if err != nil {
			return err
		}

		result, err := run(c, aggregator)
		if err != nil {
			return err
		}

		printResult(c.App.Writer, result)
		return nil
	}
}

func RegisterCLI() *cli.Command {
	limitFlag := func(defaultLimit int) *cli.IntFlag {
		return &cli.IntFlag{
			Name:  "limit",
			Value: defaultLimit,
			Usage: "maximum number of results",
		}
	}

	return &cli.Command{
		Name:  "lookup",
		Usage: "Run a single aggregator lookup and print the result",
		Subcommands: []*cli.Command{
			{
				Name:  "stations",
				Usage: "search stations by name",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Required: true},
					limitFlag(dataaggregator.DefaultStationsLimit),
				},
				Action: action(func(c *cli.Context, aggregator *dataaggregator.Aggregator) (any, error) {
					return aggregator.Stations(c.Context, query.Stations{Query: c.String("query"), Limit: c.Int("limit")}), nil
				}),
			},
			{
				Name:  "departures",
				Usage: "show the departure board of a station",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "station", Required: true},
					limitFlag(dataaggregator.DefaultDeparturesLimit),
				},
				Action: action(func(c *cli.Context, aggregator *dataaggregator.Aggregator) (any, error) {
					return aggregator.Departures(c.Context, query.Departures{StationID: c.String("station"), Limit: c.Int("limit")}), nil
				}),
			},
			{
				Name:  "disruptions",
				Usage: "list current disruptions",
				Flags: []cli.Flag{
					limitFlag(dataaggregator.DefaultDisruptionsLimit),
				},
				Action: action(func(c *cli.Context, aggregator *dataaggregator.Aggregator) (any, error) {
					return aggregator.Disruptions(c.Context, query.Disruptions{Limit: c.Int("limit")}), nil
				}),
			},
			{
				Name:  "strikes",
				Usage: "list disruptions classified as strikes",
				Action: action(func(c *cli.Context, aggregator *dataaggregator.Aggregator) (any, error) {
					return aggregator.CurrentStrikes(c.Context), nil
				}),
			},
			{
				Name:  "dashboard",
				Usage: "show the live dashboard",
				Action: action(func(c *cli.Context, aggregator *dataaggregator.Aggregator) (any, error) {
					return aggregator.LiveDashboard(c.Context), nil
				}),
			},
			{
				Name:  "journey",
				Usage: "plan a journey between two stations",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Required: true},
					&cli.StringFlag{Name: "to", Required: true},
					&cli.TimestampFlag{Name: "datetime", Layout: time.RFC3339},
				},
				Action: action(func(c *cli.Context, aggregator *dataaggregator.Aggregator) (any, error) {
					journeyPlanQuery := query.JourneyPlan{
						Origin:      c.String("from"),
						Destination: c.String("to"),
					}
					if dateTime := c.Timestamp("datetime"); dateTime != nil {
						journeyPlanQuery.DateTime = *dateTime
					}

					itineraries, err := aggregator.PlanJourney(c.Context, journeyPlanQuery)
					if err != nil {
						return nil, fmt.Errorf("journey lookup: %w", err)
					}

					return itineraries, nil
				}),
			},
			{
				Name:  "cache",
				Usage: "show the in-process cache statistics",
				Action: action(func(c *cli.Context, aggregator *dataaggregator.Aggregator) (any, error) {
					return aggregator.CacheStats(), nil
				}),
			},
		},
	}
}
