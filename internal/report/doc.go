// Package report renders the challenge leaderboard.
//
// Three formats are available: SimpleWriter for terminals, MarkdownWriter
// for sharing (tables plus a mermaid pie chart) and JSONWriter for tools.
package report
