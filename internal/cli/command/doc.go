// Package command defines the tokenkit command line: offline codec and token
// tools plus the serve command running the HTTP API.
package command
