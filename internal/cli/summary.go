package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/courtnote/pkg/types"
)

// summary is the companion view: record counts, this year's targets and
// today's notes.
type summary struct {
	UserID  string             `json:"user_id"`
	Counts  map[types.Kind]int `json:"counts"`
	Targets []*types.Target    `json:"targets"`
	Today   []*types.Note      `json:"today"`
}

func newSummaryCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print a read-only overview of the notebook",
		Long: `Summary opens the store read-only, the way a companion widget does, and
prints record counts, this year's targets and today's notes. It can run while
another courtnote process is writing.`,
		Args: cobra.NoArgs,
		RunE: withAppMode(flags, true, func(cmd *cobra.Command, args []string, a *app) error {
			now := time.Now()
			s := summary{
				UserID:  a.identity.UserID(),
				Counts:  make(map[types.Kind]int, len(types.Kinds)),
				Targets: a.svc.Targets(now.Year()),
				Today:   a.svc.NotesOnDay(now),
			}
			for _, k := range types.Kinds {
				s.Counts[k] = a.svc.Count(k)
			}

			out := cmd.OutOrStdout()
			if a.jsonMode {
				return printJSON(out, s)
			}
			tw := newTable(out)
			for _, k := range types.Kinds {
				fmt.Fprintf(tw, "%s\t%d\n", k, s.Counts[k])
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nTargets %d:\n", now.Year())
			if err := printEntities(out, false, entities(s.Targets)); err != nil {
				return err
			}
			fmt.Fprintln(out, "\nToday:")
			return printEntities(out, false, entities(s.Today))
		}),
	}
}
