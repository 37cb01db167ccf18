package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/subtrack/internal/cli"
	"github.com/theirongolddev/subtrack/internal/state"
	"github.com/theirongolddev/subtrack/internal/tui"
)

// subFlags are shared by add and edit.
type subFlags struct {
	name, amount, date, repeat, tag, folder, link string
}

var flagAdd subFlags

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a subscription (interactive when --name is omitted)",
	Example: `  subtrack add --name Netflix --amount 15.49 --date 2025-01-17 --repeat monthly --tag Streaming
  subtrack add`,
	RunE: runAdd,
}

func init() {
	bindSubFlags(addCmd, &flagAdd)
	rootCmd.AddCommand(addCmd)
}

func bindSubFlags(c *cobra.Command, f *subFlags) {
	c.Flags().StringVar(&f.name, "name", "", "Subscription name")
	c.Flags().StringVar(&f.amount, "amount", "", "Amount per period")
	c.Flags().StringVar(&f.date, "date", "", "First billing date (YYYY-MM-DD)")
	c.Flags().StringVar(&f.repeat, "repeat", "", "none, daily, weekly, monthly or yearly")
	c.Flags().StringVar(&f.tag, "tag", "", "Tag (default General)")
	c.Flags().StringVar(&f.folder, "folder", "", "Folder id or name")
	c.Flags().StringVar(&f.link, "link", "", "Account or billing URL")
}

var subFlagNames = []string{"name", "amount", "date", "repeat", "tag", "folder", "link"}

func anySubFlagSet(c *cobra.Command) bool {
	for _, name := range subFlagNames {
		if c.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// apply copies every flag the user set onto v.
func (f subFlags) apply(c *cobra.Command, s *session, v *tui.SubscriptionValues) error {
	set := func(flag string, dst *string, val string) {
		if c.Flags().Changed(flag) {
			*dst = val
		}
	}
	set("name", &v.Name, f.name)
	set("amount", &v.Amount, f.amount)
	set("date", &v.Date, f.date)
	set("repeat", &v.Recurrence, f.repeat)
	set("tag", &v.Tag, f.tag)
	set("link", &v.Link, f.link)
	if c.Flags().Changed("folder") {
		v.FolderID = ""
		if f.folder != "" {
			folder, err := findFolder(s.coll.Folders(), f.folder)
			if err != nil {
				return err
			}
			v.FolderID = folder.ID
		}
	}
	return nil
}

// checkAddFlags rejects a flag-only add that leaves out the amount.
func checkAddFlags(c *cobra.Command) error {
	if c.Flags().Changed("name") && !c.Flags().Changed("amount") {
		return errors.New("--amount is required with --name")
	}
	return nil
}

func runAdd(c *cobra.Command, _ []string) error {
	if err := checkAddFlags(c); err != nil {
		return err
	}
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	v := &tui.SubscriptionValues{Date: s.today.String(), Recurrence: "monthly"}
	if err := flagAdd.apply(c, s, v); err != nil {
		return err
	}
	if !c.Flags().Changed("name") {
		if err := tui.NewSubscriptionForm(v, s.coll.Folders()).Run(); err != nil {
			return fmt.Errorf("add form: %w", err)
		}
	}

	sub, err := v.Subscription()
	if err != nil {
		return err
	}
	ev, err := s.coll.Dispatch(state.AddSubscription{Subscription: sub})
	if err != nil {
		return fmt.Errorf("adding %q: %w", sub.Name, err)
	}
	fmt.Printf("  Added %s (%s)\n", sub.Name, cli.ShortID(ev.ID))
	return nil
}
