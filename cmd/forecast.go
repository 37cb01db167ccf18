package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/subtrack/internal/cli"
	"github.com/theirongolddev/subtrack/internal/model"
	"github.com/theirongolddev/subtrack/internal/pipeline"
)

var flagForecastMonths int

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Projected payments month by month",
	RunE:  runForecast,
}

func init() {
	forecastCmd.Flags().IntVarP(&flagForecastMonths, "months", "m", 0, "Months to project, 1-12 (default from config)")
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(c *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	months := s.cfg.General.ForecastMonths
	if c.Flags().Changed("months") {
		months = flagForecastMonths
	}

	active := model.Active(s.coll.Subscriptions())
	points := pipeline.ForecastSeries(active, s.today, months)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("FORECAST  next %d months", len(points))))
	fmt.Println()

	peak := 0.0
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Amount
		peak = max(peak, p.Amount)
	}
	for _, p := range points {
		fmt.Println(cli.RenderHorizontalBar(p.Month.Format("Jan 2006"), 10, p.Amount, peak, 36))
	}
	fmt.Println()

	rows := make([][]string, 0, len(points)+2)
	for _, p := range points {
		rows = append(rows, []string{
			cli.FormatMonth(p.Month),
			cli.FormatNumber(int64(p.Payments)),
			cli.FormatMoney(p.Amount),
			cli.FormatMoney(p.Cumulative),
		})
	}
	rows = append(rows, cli.Separator, []string{
		"This year", "", cli.FormatMoney(pipeline.YearlyForecast(active, s.today)), "",
	})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers:    []string{"Month", "Payments", "Amount", "Cumulative"},
		Rows:       rows,
		RightAlign: map[int]bool{1: true, 2: true, 3: true},
	}))
	fmt.Printf("  %s\n\n", cli.RenderSparkline(values))
	return nil
}
