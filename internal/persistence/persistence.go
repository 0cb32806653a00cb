// Package persistence provides the EventStore implementations used by
// cascade's trace recording: an in-memory store for tests and development
// and a SQLite-backed store for durable history.
package persistence
