// Package persistence loads and saves board snapshots.
//
// # Overview
//
// Snapshots are JSON blobs kept in a key/value BlobStore. Two backends are
// provided: RedisStore (a plain Redis string per key) and SQLiteStore (a
// kv_store table in a local database file). The Gateway sits on top of a
// BlobStore and owns the recovery policy: a missing, unreadable or
// inconsistent snapshot never stops start-up, it is logged and replaced by
// the default board.
//
// # Redis schema
//
// All keys and channels are namespaced by instance name so several boards
// can share one Redis server:
//
//	Snapshot:      kanban:{instance}:board
//	Event channel: kanban:{instance}:board_events
//
// The SQLite backend stores the snapshot under the same key string.
//
// # Event mirror
//
// RedisForwarder copies every bus notification to the event channel as
// {"topic": ..., "payload": ..., "at": ...}. SubscribeBoardEvents reads that
// channel back, which is how a second process follows a board live.
package persistence
