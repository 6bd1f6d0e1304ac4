package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/courtnote/internal/notebook"
	"github.com/mesh-intelligence/courtnote/pkg/types"
)

func newAddCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a group, task, measures, note or memo",
	}
	cmd.AddCommand(
		newAddGroupCmd(flags),
		newAddTaskCmd(flags),
		newAddMeasuresCmd(flags),
		newAddNoteCmd(flags),
		newAddMemoCmd(flags),
	)
	return cmd
}

// refused reports a create the notebook declined. The cause is in the log.
func refused(kind types.Kind) error {
	return fmt.Errorf("%w: could not create %s (run with --log-level info for details)", types.ErrInvalidData, kind)
}

func newAddGroupCmd(flags *rootFlags) *cobra.Command {
	var color int
	cmd := &cobra.Command{
		Use:   "group <title>",
		Short: "Create a group",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			g := a.svc.AddGroup(args[0], color)
			if g == nil {
				return refused(types.KindGroup)
			}
			return printEntity(cmd.OutOrStdout(), a.jsonMode, g)
		}),
	}
	cmd.Flags().IntVar(&color, "color", 0, fmt.Sprintf("color index 0..%d", types.ColorCount-1))
	return cmd
}

func newAddTaskCmd(flags *rootFlags) *cobra.Command {
	var cause string
	cmd := &cobra.Command{
		Use:   "task <group-id> <title>",
		Short: "Create a task in a group",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			if a.svc.Get(types.KindGroup, args[0]) == nil {
				return fmt.Errorf("group %s: %w", args[0], types.ErrNotFound)
			}
			t := a.svc.AddTask(args[0], args[1], cause)
			if t == nil {
				return refused(types.KindTask)
			}
			return printEntity(cmd.OutOrStdout(), a.jsonMode, t)
		}),
	}
	cmd.Flags().StringVar(&cause, "cause", "", "what the task addresses")
	return cmd
}

func newAddMeasuresCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "measures <task-id> <title>",
		Short: "Create a measures under a task",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			if a.svc.Get(types.KindTask, args[0]) == nil {
				return fmt.Errorf("task %s: %w", args[0], types.ErrNotFound)
			}
			m := a.svc.AddMeasures(args[0], args[1])
			if m == nil {
				return refused(types.KindMeasures)
			}
			return printEntity(cmd.OutOrStdout(), a.jsonMode, m)
		}),
	}
}

// noteFlags are the editable note fields on the command line.
type noteFlags struct {
	noteType      string
	date          string
	weather       string
	temperature   int
	condition     string
	reflection    string
	purpose       string
	detail        string
	target        string
	consciousness string
	result        string
}

func (f *noteFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.noteType, "type", string(types.NoteTypePractice), "practice or tournament")
	fs.StringVar(&f.date, "date", "", "session date YYYY-MM-DD (default: today)")
	fs.StringVar(&f.weather, "weather", "sunny", "sunny, cloudy or rainy")
	fs.IntVar(&f.temperature, "temperature", 0, "temperature in degrees")
	fs.StringVar(&f.condition, "condition", "", "physical condition")
	fs.StringVar(&f.reflection, "reflection", "", "reflection on the session")
	fs.StringVar(&f.purpose, "purpose", "", "practice purpose")
	fs.StringVar(&f.detail, "detail", "", "practice detail")
	fs.StringVar(&f.target, "target", "", "tournament target")
	fs.StringVar(&f.consciousness, "consciousness", "", "what to keep in mind during the match")
	fs.StringVar(&f.result, "result", "", "tournament result")
}

var weatherNames = map[string]types.Weather{
	"sunny":  types.WeatherSunny,
	"cloudy": types.WeatherCloudy,
	"rainy":  types.WeatherRainy,
}

// input converts the flags to a notebook.NoteInput.
func (f *noteFlags) input(now time.Time) (notebook.NoteInput, error) {
	nt := types.NoteType(strings.ToLower(f.noteType))
	if nt == types.NoteTypeFree {
		return notebook.NoteInput{}, fmt.Errorf("%w: the free note exists already; edit it with 'courtnote free'", types.ErrInvalidData)
	}
	content, err := types.NewNoteContent(nt, "", f.purpose, f.detail, f.target, f.consciousness, f.result)
	if err != nil {
		return notebook.NoteInput{}, err
	}
	weather, ok := weatherNames[strings.ToLower(f.weather)]
	if !ok {
		return notebook.NoteInput{}, fmt.Errorf("%w: weather %q", types.ErrInvalidData, f.weather)
	}
	date := now
	if f.date != "" {
		if date, err = parseDay(f.date); err != nil {
			return notebook.NoteInput{}, err
		}
	}
	return notebook.NoteInput{
		Date:        date,
		Weather:     weather,
		Temperature: f.temperature,
		Condition:   f.condition,
		Reflection:  f.reflection,
		Content:     content,
	}, nil
}

// parseDay parses YYYY-MM-DD as local midnight.
func parseDay(s string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q (want YYYY-MM-DD)", types.ErrInvalidData, s)
	}
	return d, nil
}

func newAddNoteCmd(flags *rootFlags) *cobra.Command {
	var nf noteFlags
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Create a practice or tournament note",
		Example: `  courtnote add note --type practice --date 2026-05-01 --purpose "serve" --detail "100 first serves"
  courtnote add note --type tournament --target "quarter final" --result "lost 4-6 4-6"`,
		Args: cobra.NoArgs,
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			in, err := nf.input(time.Now())
			if err != nil {
				return err
			}
			n := a.svc.AddNote(in)
			if n == nil {
				return refused(types.KindNote)
			}
			return printEntity(cmd.OutOrStdout(), a.jsonMode, n)
		}),
	}
	nf.register(cmd)
	return cmd
}

func newAddMemoCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "memo <measures-id> <note-id> <detail>",
		Short: "Record how a measures went in the session of a note",
		Args:  cobra.ExactArgs(3),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			if a.svc.Get(types.KindMeasures, args[0]) == nil {
				return fmt.Errorf("measures %s: %w", args[0], types.ErrNotFound)
			}
			m := a.svc.AddMemo(args[0], args[1], args[2])
			if m == nil {
				if a.svc.Get(types.KindNote, args[1]) == nil {
					return fmt.Errorf("note %s: %w", args[1], types.ErrNotFound)
				}
				return refused(types.KindMemo)
			}
			return printEntity(cmd.OutOrStdout(), a.jsonMode, m)
		}),
	}
}

// errNoChange is returned when an edit command is given no fields.
var errNoChange = errors.New("nothing to change: pass at least one field flag")
