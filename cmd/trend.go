package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/subtrack/internal/cli"
	"github.com/theirongolddev/subtrack/internal/pipeline"
)

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Simulated spend over recent months",
	Long: "Simulated spend over recent months. Figures assume every active " +
		"subscription was billed on its current terms for the whole period.",
	RunE: runTrend,
}

func init() {
	rootCmd.AddCommand(trendCmd)
}

func runTrend(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	points := pipeline.SpendingTrend(s.coll.Subscriptions(), s.today)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SPENDING TREND  last %d months (simulated)", len(points))))
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
	fmt.Printf("\n  %s\n\n", cli.RenderSparkline(values))
	return nil
}
