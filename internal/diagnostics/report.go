package diagnostics

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

const reportListLimit = 10

// WriteText renders the report for manual review: tier counts, then the
// first unmatched and low-confidence rows.
func (r *Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Spreadsheet rows:\t%d\n", r.TotalExcelRows)
	fmt.Fprintf(tw, "Registry projects:\t%d\n", r.TotalRegistryProjects)
	fmt.Fprintf(tw, "High confidence:\t%d\n", r.Summary.High)
	fmt.Fprintf(tw, "Medium confidence:\t%d\n", r.Summary.Medium)
	fmt.Fprintf(tw, "Low confidence:\t%d\n", r.Summary.Low)
	fmt.Fprintf(tw, "No match:\t%d\n", r.Summary.None)

	r.writeSection(tw, "Unmatched rows", None, r.Summary.None)
	r.writeSection(tw, "Low confidence rows", Low, r.Summary.Low)

	return tw.Flush()
}

// Text is WriteText into a string.
func (r *Report) Text() string {
	var b strings.Builder
	_ = r.WriteText(&b)

	return b.String()
}

func (r *Report) writeSection(w io.Writer, title string, tier Confidence, total int) {
	if total == 0 {
		return
	}

	fmt.Fprintf(w, "\n%s (showing %d of %d):\n", title, min(total, reportListLimit), total)

	shown := 0

	for _, m := range r.Matches {
		if m.Confidence() != tier {
			continue
		}

		if shown == reportListLimit {
			break
		}

		shown++

		fmt.Fprintf(w, "  row %d\tjob=%s\tid=%s\tname=%q", m.Row.Number, dash(m.Row.JobNumber), dash(m.Row.ProjectIdentifier), m.Row.ProjectName)

		if m.Best != nil {
			fmt.Fprintf(w, "\t-> %s\t(%s)", m.Best.Project.Name, m.Best.Reason)
		}

		fmt.Fprintln(w)
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
