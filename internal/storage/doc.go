// Package storage persists reminder records in SQLite.
//
// A record exists iff its reminder has not yet fired: the scheduler deletes a
// row right after a successful delivery, and recovery re-arms whatever rows
// are still in the future at startup. Rows are never updated in place.
package storage
