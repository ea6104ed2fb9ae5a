// Package config holds the settings shared by the guess, generate, serve and
// leaderboard commands.
//
// Values are layered: built-in defaults (NewConfig), then the optional
// ".challenges" YAML file, then CHALLENGES_* environment variables, then
// command-line flags.
package config
