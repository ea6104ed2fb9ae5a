package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/challenges/internal/model"
)

// MarkdownWriter outputs the leaderboard as GitHub flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the leaderboard in Markdown format.
func (w *MarkdownWriter) Write(lb *model.Leaderboard) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Lost Password Leaderboard")
	md.PlainText("")
	md.PlainTextf("Generated %s", lb.GeneratedAt.Format(timeLayout))
	md.PlainText("")

	w.writeStats(md, lb.Stats)
	w.writeCompletions(md, lb)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeStats(md *markdown.Markdown, stats model.Stats) {
	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Players", "Solved", "Searching", "Checks"},
		Rows: [][]string{{
			strconv.Itoa(stats.Users),
			strconv.Itoa(stats.Solved),
			strconv.Itoa(stats.Unsolved()),
			strconv.FormatInt(stats.TotalHits, 10),
		}},
	})
	md.PlainText("")

	if stats.Users > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Players"),
			piechart.WithShowData(true),
		)
		chart.LabelAndIntValue("Solved", uint64(stats.Solved))        //nolint:gosec // Counts are never negative
		chart.LabelAndIntValue("Searching", uint64(stats.Unsolved())) //nolint:gosec // Counts are never negative
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeCompletions(md *markdown.Markdown, lb *model.Leaderboard) {
	md.H2("Completions")
	md.PlainText("")

	if lb.IsEmpty() {
		md.Note("Nobody has found their password yet.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(lb.Completions))
	for _, c := range lb.Completions {
		rows = append(rows, []string{
			strconv.Itoa(c.Place),
			"`" + c.Username + "`",
			strconv.FormatInt(c.Attempts, 10),
			formatDuration(c.TimeToSolve),
			c.SolvedAt.Format(timeLayout),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Place", "Player", "Attempts", "Time to solve", "Solved at"},
		Rows:   rows,
	})
	md.PlainText("")
	md.Tip(fmt.Sprintf("%s solved it first.", lb.Completions[0].Username))
}
