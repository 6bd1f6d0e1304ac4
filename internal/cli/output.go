package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mesh-intelligence/courtnote/pkg/types"
)

const dateLayout = "2006-01-02"

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Fprintln(w, string(out))
	return nil
}

// newTable returns a tabwriter for aligned text output.
func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// printEntities writes es as JSON or as a table with one row per record.
func printEntities(w io.Writer, jsonMode bool, es []types.Entity) error {
	if jsonMode {
		if es == nil {
			es = []types.Entity{}
		}
		return printJSON(w, es)
	}
	if len(es) == 0 {
		fmt.Fprintln(w, "No records found.")
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tKIND\tSUMMARY\tUPDATED")
	for _, e := range es {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			e.Meta().ID, e.Kind(), summarize(e), e.Meta().UpdatedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

// printEntity writes one record as JSON or as field lines.
func printEntity(w io.Writer, jsonMode bool, e types.Entity) error {
	if jsonMode {
		return printJSON(w, e)
	}
	b := e.Meta()
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%s\n", b.ID)
	fmt.Fprintf(tw, "Kind:\t%s\n", e.Kind())
	fmt.Fprintf(tw, "Summary:\t%s\n", summarize(e))
	fmt.Fprintf(tw, "Order:\t%d\n", b.Order)
	fmt.Fprintf(tw, "Created:\t%s\n", b.CreatedAt.Local().Format(time.DateTime))
	fmt.Fprintf(tw, "Updated:\t%s\n", b.UpdatedAt.Local().Format(time.DateTime))
	return tw.Flush()
}

// summarize renders the interesting fields of e on one line.
func summarize(e types.Entity) string {
	switch v := e.(type) {
	case *types.Group:
		return fmt.Sprintf("%s (color %d)", v.Title, v.ColorIndex)
	case *types.Task:
		mark := " "
		if v.IsComplete {
			mark = "x"
		}
		return fmt.Sprintf("[%s] %s", mark, v.Title)
	case *types.Measures:
		return v.Title
	case *types.Memo:
		return fmt.Sprintf("%s %s", v.NoteDate.Format(dateLayout), clip(v.Detail))
	case *types.Note:
		return fmt.Sprintf("%s %s %s", v.Type(), v.Date.Format(dateLayout), clip(noteText(v)))
	case *types.Target:
		if v.IsYearlyTarget {
			return fmt.Sprintf("%d: %s", v.Year, v.Title)
		}
		return fmt.Sprintf("%d-%02d: %s", v.Year, v.Month, v.Title)
	default:
		return ""
	}
}

func noteText(n *types.Note) string {
	switch c := n.Content.(type) {
	case types.FreeContent:
		return strings.TrimSpace(c.Title + " " + c.Detail)
	case types.PracticeContent:
		return strings.TrimSpace(c.Purpose + " " + c.Detail)
	case types.TournamentContent:
		return strings.TrimSpace(c.Target + " " + c.Result)
	default:
		return ""
	}
}

// clip shortens s to one table cell.
func clip(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	const width = 48
	if r := []rune(s); len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return s
}

// entities widens a typed slice for printEntities.
func entities[T types.Entity](ts []T) []types.Entity {
	out := make([]types.Entity, 0, len(ts))
	for _, t := range ts {
		out = append(out, t)
	}
	return out
}
