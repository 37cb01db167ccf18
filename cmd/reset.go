package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/subtrack/internal/state"
)

var flagResetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every subscription and folder",
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&flagResetYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

func runReset(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	subs, folders := len(s.coll.Subscriptions()), len(s.coll.Folders())
	if subs == 0 && folders == 0 {
		fmt.Println("  Nothing to delete.")
		return nil
	}

	if !flagResetYes {
		confirm := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete %d subscriptions and %d folders?", subs, folders)).
			Description("Export first with `subtrack export -o backup.json` to keep a copy.").
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirm).
			Run()
		if err != nil && !errors.Is(err, huh.ErrUserAborted) {
			return err
		}
		if !confirm {
			fmt.Println("  Cancelled.")
			return nil
		}
	}

	if _, err := s.coll.Dispatch(state.Clear{}); err != nil {
		return err
	}
	fmt.Printf("  Deleted %d subscriptions and %d folders\n", subs, folders)
	return nil
}
