// Package report assembles the markdown summary of a stored clustering
// run, rendered to HTML by the server.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/TobiSchelling/dendro/internal/database"
)

const maxListedMembers = 25

// Markdown builds the report for one run.
func Markdown(run *database.Run, groups []database.RunGroup, steps []database.RunStep) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", run.Label)
	fmt.Fprintf(&b, "%d items clustered with %s linkage", run.Items, strings.ReplaceAll(run.Criterion, "_", " "))
	if run.Source != nil && *run.Source != "" {
		fmt.Fprintf(&b, " from `%s`", *run.Source)
	}
	fmt.Fprintf(&b, ", yielding %d groups.\n\n", len(groups))

	if len(groups) > 0 {
		b.WriteString("## Groups\n\n")
		b.WriteString("| Group | Size | Merge distance | Members |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, g := range groups {
			fmt.Fprintf(&b, "| %d | %d | %s | %s |\n",
				g.Index+1, g.Size, formatDistance(g.MergeDistance), memberList(g.Members))
		}
		b.WriteString("\n")
	}

	if len(steps) > 0 {
		b.WriteString("## Merge history\n\n")
		b.WriteString("| Step | Distance | Size |\n")
		b.WriteString("|---|---|---|\n")
		for _, s := range steps {
			fmt.Fprintf(&b, "| %d | %s | %d |\n", s.Step+1, formatDistance(s.Distance), s.Size)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// formatDistance prints merge distances compactly; singleton groups
// never merged and show a dash.
func formatDistance(d float64) string {
	if d == 0 {
		return "-"
	}
	return strconv.FormatFloat(d, 'g', 6, 64)
}

// memberList prints the member ids, truncating long groups.
func memberList(members []int) string {
	shown := members
	extra := 0
	if len(shown) > maxListedMembers {
		shown = shown[:maxListedMembers]
		extra = len(members) - maxListedMembers
	}
	parts := make([]string, len(shown))
	for i, m := range shown {
		parts[i] = strconv.Itoa(m)
	}
	s := strings.Join(parts, " ")
	if extra > 0 {
		s += fmt.Sprintf(" … (+%d)", extra)
	}
	return s
}
