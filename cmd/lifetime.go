package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/subtrack/internal/cli"
	"github.com/theirongolddev/subtrack/internal/pipeline"
)

var lifetimeCmd = &cobra.Command{
	Use:   "lifetime",
	Short: "What each active subscription costs over a month, a year and ten years",
	RunE:  runLifetime,
}

func init() {
	rootCmd.AddCommand(lifetimeCmd)
}

func runLifetime(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	values := pipeline.Lifetime(s.coll.Subscriptions())
	if len(values) == 0 {
		fmt.Println("\n  No active subscriptions.")
		return nil
	}

	var monthly, yearly, tenYear float64
	rows := make([][]string, 0, len(values)+2)
	for _, v := range values {
		monthly += v.Monthly
		yearly += v.Yearly
		tenYear += v.TenYear
		rows = append(rows, []string{v.Name, cli.FormatMoney(v.Monthly), cli.FormatMoney(v.Yearly), cli.FormatMoney(v.TenYear)})
	}
	rows = append(rows, cli.Separator,
		[]string{"Total", cli.FormatMoney(monthly), cli.FormatMoney(yearly), cli.FormatMoney(tenYear)})

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:      "Lifetime cost",
		Headers:    []string{"Name", "Monthly", "Yearly", "10 years"},
		Rows:       rows,
		RightAlign: map[int]bool{1: true, 2: true, 3: true},
	}))
	return nil
}
