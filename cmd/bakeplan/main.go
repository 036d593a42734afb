package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/rudylameme/bvp-planning-sub000/internal/config"
	"github.com/rudylameme/bvp-planning-sub000/pkg/logger"
)

func main() {
	cfg := config.Load()

	app := &cli.App{
		Name:  "bakeplan",
		Usage: "Weekly bakery production planning from sales and traffic exports",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.SetLevel(c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			planCommand(cfg),
			referenceCommand(),
			driveCommand(cfg),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("bakeplan failed")
	}
}
