// Package database provides SQLite-based storage for challenge users.
//
// UserDB keeps one row per player: their seed and secret, whether and when
// they solved the challenge, and how many checks they made. Password lists
// are never stored; they are regenerated from the seed on demand.
//
// The schema lives in embedded SQL migrations applied with golang-migrate
// when the database is opened. The driver is modernc.org/sqlite, which
// needs no cgo.
package database
