// Package model defines the data structures shared between the challenge
// store, the HTTP server and the report writers.
//
// The main types are:
//   - Completion: one solved user on the leaderboard
//   - Stats: aggregate counters over all users
//   - Leaderboard: a snapshot of Stats plus the ordered completions
//
// The types are serializable to JSON so the server can expose them directly
// on its status endpoint.
package model
