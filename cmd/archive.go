package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/subtrack/internal/state"
)

var archiveCmd = &cobra.Command{
	Use:   "archive ID",
	Short: "Archive a subscription, or restore an archived one",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchive,
}

func init() {
	rootCmd.AddCommand(archiveCmd)
}

func runArchive(_ *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	sub, err := s.coll.Subscription(args[0])
	if err != nil {
		return fmt.Errorf("subscription %q: %w", args[0], err)
	}
	ev, err := s.coll.Dispatch(state.ToggleArchive{ID: sub.ID})
	if err != nil {
		return err
	}
	if ev.Archived {
		fmt.Printf("  Archived %s\n", sub.Name)
	} else {
		fmt.Printf("  Restored %s\n", sub.Name)
	}
	return nil
}
