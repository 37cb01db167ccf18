package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/subtrack/internal/state"
	"github.com/theirongolddev/subtrack/internal/tui"
)

var flagEdit subFlags

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Update a subscription (interactive when no flags are given)",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

func init() {
	bindSubFlags(editCmd, &flagEdit)
	rootCmd.AddCommand(editCmd)
}

func runEdit(c *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	current, err := s.coll.Subscription(args[0])
	if err != nil {
		return fmt.Errorf("subscription %q: %w", args[0], err)
	}

	v := tui.ValuesFrom(current)
	if err := flagEdit.apply(c, s, v); err != nil {
		return err
	}
	if !anySubFlagSet(c) {
		if err := tui.NewSubscriptionForm(v, s.coll.Folders()).Run(); err != nil {
			return fmt.Errorf("edit form: %w", err)
		}
	}

	sub, err := v.Subscription()
	if err != nil {
		return err
	}
	if _, err := s.coll.Dispatch(state.UpdateSubscription{Subscription: sub}); err != nil {
		return fmt.Errorf("updating %q: %w", sub.Name, err)
	}
	fmt.Printf("  Updated %s\n", sub.Name)
	return nil
}
