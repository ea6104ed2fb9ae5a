// Package server is the HTTP side of the lost password challenge.
//
// Players join with POST /u/{name}, download their list from
// /u/{name}/passwords.txt and check candidates at
// /u/{name}/check/{password}. The first line of a check response is "True"
// or "False"; the first correct check also carries the player's place and a
// redeem code. /status reports the leaderboard as JSON.
package server
