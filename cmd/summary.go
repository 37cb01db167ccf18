package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/subtrack/internal/cli"
	"github.com/theirongolddev/subtrack/internal/countdown"
	"github.com/theirongolddev/subtrack/internal/model"
	"github.com/theirongolddev/subtrack/internal/pipeline"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Spending overview, next payment and upcoming renewals",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	subs, folders := s.coll.Subscriptions(), s.coll.Folders()
	if len(subs) == 0 {
		fmt.Println("\n  No subscriptions yet.")
		fmt.Println("  Add one with `subtrack add`, or try `subtrack sample`.")
		return nil
	}

	sum := pipeline.Summarize(subs, folders, s.today)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SUBSCRIPTIONS  %s", cli.FormatDate(s.today))))
	fmt.Println()

	next := "none scheduled"
	if !sum.Next.Date.IsZero() {
		next = fmt.Sprintf("%s on %s (%s)",
			cli.FormatMoney(sum.Next.Amount),
			cli.FormatDate(sum.Next.Date),
			strings.Join(sum.Next.Names, ", "))
	}

	rows := [][]string{
		{"Active", cli.FormatNumber(int64(sum.ActiveCount))},
		{"Archived", cli.FormatNumber(int64(sum.ArchivedCount))},
		{"Folders", cli.FormatNumber(int64(sum.FolderCount))},
		{"Tags", cli.FormatNumber(int64(sum.TagCount))},
		cli.Separator,
		{"Monthly equivalent", cli.FormatMoney(sum.MonthlyTotal)},
		{"Due this month", cli.FormatMoney(sum.MonthlyForecast)},
		{"Due this year", cli.FormatMoney(sum.YearlyForecast)},
		{"Next payment", next},
		cli.Separator,
		{"Due today or overdue", cli.FormatNumber(int64(sum.Tiers.Critical))},
		{"Due within 3 days", cli.FormatNumber(int64(sum.Tiers.Warning))},
		{"Later", cli.FormatNumber(int64(sum.Tiers.Normal))},
		cli.Separator,
		{"Spent so far (simulated)", cli.FormatMoney(sum.SimulatedSpent)},
		{"Saved by archiving", cli.FormatMoney(sum.ArchivedSavings) + "/mo"},
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if s.cfg.Budget.Monthly != nil {
		b := pipeline.Budget(subs, *s.cfg.Budget.Monthly)
		fmt.Println()
		fmt.Println("  Budget  " + cli.RenderBudgetBar(b, 30))
	}

	upcoming := countdown.Within(model.Active(subs), s.today, s.cfg.General.UpcomingDays)
	if len(upcoming) > 0 {
		fmt.Println()
		fmt.Printf("  Due within %d days\n", s.cfg.General.UpcomingDays)
		for _, u := range upcoming {
			fmt.Printf("    %-24s %12s  %s\n",
				cli.Truncate(u.Subscription.Name, 24),
				cli.FormatPrice(u.Subscription),
				cli.RenderTier(u.Countdown))
		}
	}
	fmt.Println()
	return nil
}
