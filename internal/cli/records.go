package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/courtnote/internal/notebook"
	"github.com/mesh-intelligence/courtnote/pkg/types"
)

func newListCmd(flags *rootFlags) *cobra.Command {
	var (
		groupID    string
		taskID     string
		measuresID string
		noteID     string
		completed  bool
	)
	cmd := &cobra.Command{
		Use:   "list <kind>",
		Short: "List live records of a kind",
		Long: `List the live records of one kind in display order.

Kinds: groups, tasks, measures, notes, memos, targets.
Tasks need --group; measures need --task; memos need --measures or --note.`,
		Example: `  courtnote list groups
  courtnote list tasks --group 0190f5c3-... --completed
  courtnote list memos --note 0190f5c4-... --json`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			kind, err := types.ParseKind(args[0])
			if err != nil {
				return err
			}
			var es []types.Entity
			switch kind {
			case types.KindTask:
				if groupID == "" {
					return fmt.Errorf("%w: list tasks needs --group", types.ErrInvalidData)
				}
				if completed {
					es = entities(a.svc.CompletedTasks(groupID))
				} else {
					es = entities(a.svc.Tasks(groupID))
				}
			case types.KindMeasures:
				if taskID == "" {
					return fmt.Errorf("%w: list measures needs --task", types.ErrInvalidData)
				}
				es = entities(a.svc.Measures(taskID))
			case types.KindMemo:
				switch {
				case measuresID != "":
					es = entities(a.svc.MemosByMeasures(measuresID))
				case noteID != "":
					es = entities(a.svc.MemosByNote(noteID))
				default:
					return fmt.Errorf("%w: list memos needs --measures or --note", types.ErrInvalidData)
				}
			default:
				es = a.svc.List(kind)
			}
			return printEntities(cmd.OutOrStdout(), a.jsonMode, es)
		}),
	}
	cmd.Flags().StringVar(&groupID, "group", "", "group id (tasks)")
	cmd.Flags().StringVar(&taskID, "task", "", "task id (measures)")
	cmd.Flags().StringVar(&measuresID, "measures", "", "measures id (memos)")
	cmd.Flags().StringVar(&noteID, "note", "", "note id (memos)")
	cmd.Flags().BoolVar(&completed, "completed", false, "only completed tasks")
	return cmd
}

func newGetCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <kind> <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			kind, err := types.ParseKind(args[0])
			if err != nil {
				return err
			}
			e := a.svc.Get(kind, args[1])
			if e == nil {
				return fmt.Errorf("%s %s: %w", kind, args[1], types.ErrNotFound)
			}
			if err := printEntity(cmd.OutOrStdout(), a.jsonMode, e); err != nil {
				return err
			}
			if m, ok := e.(*types.Memo); ok && !a.jsonMode {
				if color, ok := a.svc.MemoColor(m.ID); ok {
					fmt.Fprintf(cmd.OutOrStdout(), "Color:    %d\n", color)
				}
			}
			return nil
		}),
	}
}

func newDeleteCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <kind> <id>",
		Short: "Delete a record and everything it owns",
		Long: `Delete soft-deletes a record together with everything below it:
a group takes its tasks, their measures and memos; a note takes its memos.
The free note cannot be deleted.`,
		Args: cobra.ExactArgs(2),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			kind, err := types.ParseKind(args[0])
			if err != nil {
				return err
			}
			e := a.svc.Get(kind, args[1])
			if e == nil {
				return fmt.Errorf("%s %s: %w", kind, args[1], types.ErrNotFound)
			}
			if n, ok := e.(*types.Note); ok && n.IsFree() {
				return types.ErrFreeNoteProtected
			}
			if !a.svc.Delete(kind, args[1]) {
				return sysErr("delete %s %s failed", kind, args[1])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", kind, args[1])
			return nil
		}),
	}
}

func newCompleteCmd(flags *rootFlags) *cobra.Command {
	var undo bool
	cmd := &cobra.Command{
		Use:   "complete <task-id>",
		Short: "Mark a task complete",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			if !a.svc.SetTaskComplete(args[0], !undo) {
				return fmt.Errorf("task %s: %w", args[0], types.ErrNotFound)
			}
			return printEntity(cmd.OutOrStdout(), a.jsonMode, a.svc.Get(types.KindTask, args[0]))
		}),
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "mark the task incomplete again")
	return cmd
}

func newFreeCmd(flags *rootFlags) *cobra.Command {
	var title, detail string
	cmd := &cobra.Command{
		Use:   "free",
		Short: "Show or edit the free note",
		Long:  "Without flags, print the free note. With --title or --detail, replace those fields.",
		Args:  cobra.NoArgs,
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			n := a.svc.FreeNote()
			if n == nil {
				return fmt.Errorf("free note: %w", types.ErrNotFound)
			}
			fs := cmd.Flags()
			if fs.Changed("title") || fs.Changed("detail") {
				c, _ := n.Content.(types.FreeContent)
				if fs.Changed("title") {
					c.Title = title
				}
				if fs.Changed("detail") {
					c.Detail = detail
				}
				n.Content = c
				if !a.svc.Save(n) {
					return sysErr("saving free note failed")
				}
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), n)
			}
			c, _ := n.Content.(types.FreeContent)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s\n", c.Title, c.Detail)
			return nil
		}),
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&detail, "detail", "", "new body")
	return cmd
}

func newEditNoteCmd(flags *rootFlags) *cobra.Command {
	var nf noteFlags
	cmd := &cobra.Command{
		Use:   "edit-note <id>",
		Short: "Change fields of a practice or tournament note",
		Long: `Edit-note replaces only the fields whose flags are given. Changing --date
moves the memos written in the note to the new date.`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			n, ok := a.svc.Get(types.KindNote, args[0]).(*types.Note)
			if !ok {
				return fmt.Errorf("note %s: %w", args[0], types.ErrNotFound)
			}
			if n.IsFree() {
				return fmt.Errorf("%w: edit the free note with 'courtnote free'", types.ErrInvalidData)
			}
			in, err := mergeNote(cmd, n, &nf)
			if err != nil {
				return err
			}
			if !a.svc.UpdateNote(n.ID, in) {
				return refused(types.KindNote)
			}
			return printEntity(cmd.OutOrStdout(), a.jsonMode, a.svc.Get(types.KindNote, n.ID))
		}),
	}
	nf.register(cmd)
	return cmd
}

// mergeNote overlays the changed flags on n.
func mergeNote(cmd *cobra.Command, n *types.Note, nf *noteFlags) (notebook.NoteInput, error) {
	fs := cmd.Flags()

	// Start from the stored values so the flag defaults never leak in.
	cur := noteFlags{
		noteType:    string(n.Type()),
		weather:     weatherName(n.Weather),
		temperature: n.Temperature,
		condition:   n.Condition,
		reflection:  n.Reflection,
		date:        n.Date.Local().Format(dateLayout),
	}
	switch c := n.Content.(type) {
	case types.PracticeContent:
		cur.purpose, cur.detail = c.Purpose, c.Detail
	case types.TournamentContent:
		cur.target, cur.consciousness, cur.result = c.Target, c.Consciousness, c.Result
	}

	set := map[string]func(){
		"type":          func() { cur.noteType = nf.noteType },
		"date":          func() { cur.date = nf.date },
		"weather":       func() { cur.weather = nf.weather },
		"temperature":   func() { cur.temperature = nf.temperature },
		"condition":     func() { cur.condition = nf.condition },
		"reflection":    func() { cur.reflection = nf.reflection },
		"purpose":       func() { cur.purpose = nf.purpose },
		"detail":        func() { cur.detail = nf.detail },
		"target":        func() { cur.target = nf.target },
		"consciousness": func() { cur.consciousness = nf.consciousness },
		"result":        func() { cur.result = nf.result },
	}
	changed := 0
	for name, apply := range set {
		if fs.Changed(name) {
			apply()
			changed++
		}
	}
	if changed == 0 {
		return notebook.NoteInput{}, errNoChange
	}

	in, err := cur.input(n.Date)
	if err != nil {
		return notebook.NoteInput{}, err
	}
	if !fs.Changed("date") {
		in.Date = n.Date
	}
	return in, nil
}

func weatherName(w types.Weather) string {
	for name, v := range weatherNames {
		if v == w {
			return name
		}
	}
	return "sunny"
}

func newSearchCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Search notes",
		Long:  "Search matches the text in any note field, ignoring case. The free note is always listed.",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			notes := a.svc.SearchNotes(strings.Join(args, " "))
			return printEntities(cmd.OutOrStdout(), a.jsonMode, entities(notes))
		}),
	}
}

func newDayCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "day <YYYY-MM-DD>",
		Short: "List the practice and tournament notes of one day",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			day, err := parseDay(args[0])
			if err != nil {
				return err
			}
			return printEntities(cmd.OutOrStdout(), a.jsonMode, entities(a.svc.NotesOnDay(day)))
		}),
	}
}
