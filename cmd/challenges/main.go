// Package main provides the entry point for the challenges CLI.
//
// challenges hosts and solves the "lost password" brute-force challenge:
// a server hands every player a list of 50,000 passwords, exactly one of
// which is theirs, and a guesser tries them one by one.
//
// Usage:
//
//	challenges serve
//	challenges guess --user alice --list passwords.txt
//	challenges generate --source corpus.txt
//
// See --help for all available options.
package main

func main() {
	Execute()
}
