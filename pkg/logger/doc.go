// Package logger builds *slog.Logger instances for tokenkit binaries.
//
// New applies functional options on top of production defaults (JSON, INFO,
// stdout). Every logger redacts secrets and masks token signatures before a
// record reaches the output, and can pull request-scoped attributes such as a
// request id out of the context on each call.
//
// # Usage
//
//	import "github.com/dmitrymomot/tokenkit/pkg/logger"
//
//	log := logger.New(
//	    logger.WithEnvironment("development", "tokenkit"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "token generated", logger.TokenType("access"), logger.Token(tok))
//
// # Redaction
//
// String attributes whose key contains "secret", "password", "authorization"
// or "key" are replaced with "***REDACTED***". Values that look like a signed
// token keep their header and payload segments but lose the signature.
package logger
