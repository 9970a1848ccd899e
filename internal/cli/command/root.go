package command

import (
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dmitrymomot/tokenkit/internal/cli/output"
)

// Build information, set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

const formatterKey = "formatter"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "tokenkit",
		Usage:   "encode, decode, sign and verify tokens",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			EncodeCommand(),
			DecodeCommand(),
			JWTCommand(),
			ServeCommand(),
		},
		Before: func(c *cli.Context) error {
			f, err := output.New(c.String("output"))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			if c.App.Metadata == nil {
				c.App.Metadata = map[string]any{}
			}
			c.App.Metadata[formatterKey] = f
			return nil
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: text, json, yaml",
			EnvVars: []string{"TOKENKIT_OUTPUT"},
			Value:   string(output.FormatText),
		},
	}
}

// render writes data to the app writer in the selected format.
func render(c *cli.Context, data any) error {
	f, ok := c.App.Metadata[formatterKey].(output.Formatter)
	if !ok {
		f = output.TextFormatter{}
	}
	return f.Format(c.App.Writer, data)
}

// input returns the positional arguments joined by spaces, or stdin when
// there are none. A single trailing newline from stdin is dropped.
func input(c *cli.Context) (string, error) {
	if c.Args().Present() {
		return strings.Join(c.Args().Slice(), " "), nil
	}
	if c.App.Reader == nil {
		return "", nil
	}
	raw, err := io.ReadAll(c.App.Reader)
	if err != nil {
		return "", err
	}
	s := strings.TrimSuffix(string(raw), "\n")
	return strings.TrimSuffix(s, "\r"), nil
}
