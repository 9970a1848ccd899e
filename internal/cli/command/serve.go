package command

import (
	"github.com/urfave/cli/v2"

	"github.com/dmitrymomot/tokenkit/internal/app"
	"github.com/dmitrymomot/tokenkit/pkg/config"
)

// ServeCommand runs the HTTP API with configuration from the environment.
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "env-file",
				Usage: "Load variables from these .env files instead of ./.env",
			},
		},
		Action: func(c *cli.Context) error {
			var opts []config.Option
			if files := c.StringSlice("env-file"); len(files) > 0 {
				opts = append(opts, config.WithEnvFiles(files...))
			}

			var cfg app.Config
			if err := config.Load(&cfg, opts...); err != nil {
				return cli.Exit(err.Error(), 2)
			}
			if err := cfg.Validate(); err != nil {
				return cli.Exit(err.Error(), 2)
			}

			return app.Run(c.Context, cfg, app.NewLogger(cfg))
		},
	}
}
