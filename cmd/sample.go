package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/subtrack/internal/state"
)

var flagSampleReplace bool

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Load demo subscriptions",
	RunE:  runSample,
}

func init() {
	sampleCmd.Flags().BoolVar(&flagSampleReplace, "replace", false, "Replace an existing collection")
	rootCmd.AddCommand(sampleCmd)
}

func runSample(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if n := len(s.coll.Subscriptions()); n > 0 && !flagSampleReplace {
		return fmt.Errorf("collection already has %d subscriptions; pass --replace to overwrite", n)
	}
	snap := state.Sample(s.today)
	if _, err := s.coll.Dispatch(state.Load{Snapshot: snap}); err != nil {
		return err
	}
	fmt.Printf("  Loaded %d sample subscriptions in %d folders\n", len(snap.Subscriptions), len(snap.Folders))
	return nil
}
