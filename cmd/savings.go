package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/subtrack/internal/cli"
	"github.com/theirongolddev/subtrack/internal/pipeline"
)

var savingsCmd = &cobra.Command{
	Use:   "savings",
	Short: "Money saved by archived subscriptions",
	RunE:  runSavings,
}

func init() {
	rootCmd.AddCommand(savingsCmd)
}

func runSavings(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	values := pipeline.Savings(s.coll.Subscriptions())
	if len(values) == 0 {
		fmt.Println("\n  Nothing archived yet. `subtrack archive ID` moves a subscription here.")
		return nil
	}

	var monthly, annual float64
	rows := make([][]string, 0, len(values)+2)
	for _, v := range values {
		monthly += v.Monthly
		annual += v.Annual
		rows = append(rows, []string{v.Name, cli.FormatMoney(v.Monthly), cli.FormatMoney(v.Annual)})
	}
	rows = append(rows, cli.Separator, []string{"Total", cli.FormatMoney(monthly), cli.FormatMoney(annual)})

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:      "Savings from archived subscriptions",
		Headers:    []string{"Name", "Monthly", "Annual"},
		Rows:       rows,
		RightAlign: map[int]bool{1: true, 2: true},
	}))
	return nil
}
