package app

import (
	"errors"
	"strings"
	"time"

	"github.com/agis/tzcal/internal/contract"
	"github.com/agis/tzcal/internal/recurrence"
	"github.com/agis/tzcal/internal/timeparse"
	"github.com/spf13/cobra"
)

func newRuleCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rule",
		Short: "Inspect weekly recurrence rules",
	}
	cmd.AddCommand(newRuleExpandCmd(opts))
	return cmd
}

func newRuleExpandCmd(opts *globalOptions) *cobra.Command {
	var weekdaysS, fromS, untilS string
	var count int
	cmd := &cobra.Command{
		Use:   "expand",
		Short: "List the dates a weekly rule produces",
		RunE: func(c *cobra.Command, _ []string) error {
			p, _, logger, err := buildContext(c, opts, "rule.expand")
			if err != nil {
				return err
			}
			if strings.TrimSpace(weekdaysS) == "" {
				return failWithHint(p, contract.ErrInvalidUsage, errors.New("--weekdays is required"), "Use letters like MTR or names like mon,thu", 2)
			}
			weekdays, err := recurrence.ParseWeekdays(weekdaysS)
			if err != nil {
				return fail(p, err)
			}
			now := time.Now()
			from, err := timeparse.ParseDay(fromS, now)
			if err != nil {
				return fail(p, err)
			}
			rule := recurrence.Rule{Weekdays: weekdays, Count: count}
			if strings.TrimSpace(untilS) != "" {
				if rule.Until, err = timeparse.ParseDay(untilS, now); err != nil {
					return fail(p, err)
				}
			}
			dates, err := recurrence.Generate(rule, from)
			if err != nil {
				return fail(p, err)
			}
			logger.Debug("rule expanded", "weekdays", recurrence.FormatWeekdays(weekdays), "from", timeparse.FormatDate(from), "occurrences", len(dates))
			items := make([]contract.Occurrence, 0, len(dates))
			for _, d := range dates {
				items = append(items, contract.Occurrence{Date: timeparse.FormatDate(d), Weekday: d.Weekday().String()})
			}
			meta := map[string]any{"count": len(items), "weekdays": recurrence.FormatWeekdays(weekdays)}
			return p.Success(items, meta, nil)
		},
	}
	cmd.Flags().StringVar(&weekdaysS, "weekdays", "", "Weekdays as letters (MTWRFSU) or comma-separated names")
	cmd.Flags().StringVar(&fromS, "from", "today", "First candidate date")
	cmd.Flags().IntVar(&count, "count", 0, "Number of occurrences")
	cmd.Flags().StringVar(&untilS, "until", "", "Exclusive end date")
	return cmd
}
