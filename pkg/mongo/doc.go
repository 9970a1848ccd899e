// Package mongo opens MongoDB clients with startup retries and provides a
// readiness check.
package mongo
