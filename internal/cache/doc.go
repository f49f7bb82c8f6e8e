// Package cache stores raw ffprobe documents in SQLite so that repeated
// runs over the same files skip the probe step.
//
// Entries are keyed by absolute path, size and modification time; any change
// to the file produces a new key and the stale row is replaced on the next
// Put. The database uses WAL mode and lives under CACHE_DIR (default: the
// user cache directory).
package cache
