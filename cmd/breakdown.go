package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/subtrack/internal/cli"
	"github.com/theirongolddev/subtrack/internal/model"
	"github.com/theirongolddev/subtrack/internal/pipeline"
)

var flagBreakdownBy string

var breakdownCmd = &cobra.Command{
	Use:   "breakdown",
	Short: "Monthly spend grouped by folder or tag",
	RunE:  runBreakdown,
}

func init() {
	breakdownCmd.Flags().StringVar(&flagBreakdownBy, "by", "folder", "Group by folder or tag")
	rootCmd.AddCommand(breakdownCmd)
}

func runBreakdown(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	var slices []model.Slice
	switch strings.ToLower(flagBreakdownBy) {
	case "folder", "folders":
		slices = pipeline.BreakdownByFolder(s.coll.Subscriptions(), s.coll.Folders())
	case "tag", "tags":
		slices = pipeline.BreakdownByTag(s.coll.Subscriptions())
	default:
		return fmt.Errorf("--by %q: want folder or tag", flagBreakdownBy)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("MONTHLY SPEND BY " + strings.ToUpper(strings.TrimSuffix(flagBreakdownBy, "s"))))
	fmt.Println()

	if len(slices) == 0 {
		fmt.Println("  No active subscriptions.")
		return nil
	}

	peak, total := 0.0, 0.0
	for _, sl := range slices {
		peak = max(peak, sl.Amount)
		total += sl.Amount
	}
	for _, sl := range slices {
		label := sl.Name
		if sl.Icon != "" {
			label = sl.Icon + " " + label
		}
		fmt.Printf("%s  %s\n",
			cli.RenderHorizontalBar(label, 18, sl.Amount, peak, 30),
			cli.RenderMuted(fmt.Sprintf("%d · %s", sl.Count, cli.FormatPercent(share(sl.Amount, total)))))
	}
	fmt.Printf("\n  Total: %s/mo\n\n", cli.RenderMoney(total))
	return nil
}

func share(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}
