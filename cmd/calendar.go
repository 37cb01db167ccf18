package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/subtrack/internal/cli"
	"github.com/theirongolddev/subtrack/internal/pipeline"
)

var flagCalendarMonth string

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Renewal heatmap for one month",
	RunE:  runCalendar,
}

func init() {
	calendarCmd.Flags().StringVarP(&flagCalendarMonth, "month", "m", "", "Month to show, YYYY-MM (default current)")
	rootCmd.AddCommand(calendarCmd)
}

func runCalendar(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	year, month := s.today.Year(), s.today.Month()
	if flagCalendarMonth != "" {
		t, err := time.Parse("2006-01", flagCalendarMonth)
		if err != nil {
			return fmt.Errorf("--month %q: want YYYY-MM", flagCalendarMonth)
		}
		year, month = t.Year(), t.Month()
	}

	cal := pipeline.RenewalCalendar(s.coll.Subscriptions(), s.today, year, month)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("%s %d", month, year)))
	fmt.Println()
	fmt.Print(cli.RenderCalendar(cal, s.today))
	fmt.Println()

	total := 0.0
	for _, d := range cal.Days {
		if d.Count == 0 {
			continue
		}
		total += d.Amount
		fmt.Printf("  %-8s %10s  %s\n", d.Date.Format("Mon 2"), cli.FormatMoney(d.Amount), strings.Join(d.Names, ", "))
	}
	if total == 0 {
		fmt.Println("  " + cli.RenderMuted("No renewals this month."))
	} else {
		fmt.Printf("\n  Total due: %s\n", cli.RenderMoney(total))
	}
	fmt.Println()
	return nil
}
