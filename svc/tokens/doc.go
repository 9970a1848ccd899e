// Package tokens is the application service behind the CLI and HTTP API.
//
// It generates access/refresh pairs and records them in a history.Store,
// decodes and verifies tokens, and manages the history. Operation counts are
// exported as Prometheus metrics.
package tokens
