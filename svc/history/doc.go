// Package history keeps a log of generated tokens.
//
// A Store persists Records and lists them newest first. MemoryStore is the
// default backend; pgstore, redisstore and mongostore persist to external
// databases. All stores are safe for concurrent use.
//
// The history is a convenience log, not an access-control mechanism. Deleting
// a record does not revoke the token it holds.
package history
