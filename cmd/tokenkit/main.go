// Command tokenkit encodes and decodes text, signs and verifies HS256
// tokens, and serves the same tools over HTTP.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrymomot/tokenkit/internal/cli/command"
)

func main() {
	if err := command.App().RunContext(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
