package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/courtnote/pkg/types"
)

func newTargetCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "target",
		Short: "Set and list yearly and monthly targets",
	}
	cmd.AddCommand(newTargetSetCmd(flags), newTargetListCmd(flags))
	return cmd
}

func newTargetSetCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "set <YYYY|YYYY-MM> <title>",
		Short: "Set the target of a year or a month, replacing the previous one",
		Example: `  courtnote target set 2026 "reach the regional final"
  courtnote target set 2026-05 "second serve above 60%"`,
		Args: cobra.MinimumNArgs(2),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			year, month, err := parsePeriod(args[0])
			if err != nil {
				return err
			}
			title := strings.Join(args[1:], " ")

			var t *types.Target
			if month == 0 {
				t = a.svc.SetYearlyTarget(year, title)
			} else {
				t = a.svc.SetMonthlyTarget(year, month, title)
			}
			if t == nil {
				return refused(types.KindTarget)
			}
			return printEntity(cmd.OutOrStdout(), a.jsonMode, t)
		}),
	}
}

func newTargetListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list [YYYY]",
		Short: "List the targets of a year (default: this year)",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			year := time.Now().Year()
			if len(args) == 1 {
				y, month, err := parsePeriod(args[0])
				if err != nil {
					return err
				}
				if month != 0 {
					return fmt.Errorf("%w: target list takes a year, not %q", types.ErrInvalidData, args[0])
				}
				year = y
			}
			return printEntities(cmd.OutOrStdout(), a.jsonMode, entities(a.svc.Targets(year)))
		}),
	}
}

// parsePeriod parses YYYY or YYYY-MM. month is 0 for a bare year.
func parsePeriod(s string) (year, month int, err error) {
	ys, ms, hasMonth := strings.Cut(s, "-")
	year, err = strconv.Atoi(ys)
	if err != nil || year < 1 {
		return 0, 0, fmt.Errorf("%w: year %q", types.ErrInvalidData, s)
	}
	if !hasMonth {
		return year, 0, nil
	}
	month, err = strconv.Atoi(ms)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("%w: month %q", types.ErrInvalidData, s)
	}
	return year, month, nil
}
