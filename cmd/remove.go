package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/subtrack/internal/state"
)

var removeCmd = &cobra.Command{
	Use:     "remove ID...",
	Aliases: []string{"rm"},
	Short:   "Delete subscriptions",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(_ *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	for _, id := range args {
		sub, err := s.coll.Subscription(id)
		if err != nil {
			return fmt.Errorf("subscription %q: %w", id, err)
		}
		if _, err := s.coll.Dispatch(state.RemoveSubscription{ID: sub.ID}); err != nil {
			return fmt.Errorf("removing %q: %w", sub.Name, err)
		}
		fmt.Printf("  Removed %s\n", sub.Name)
	}
	return nil
}
