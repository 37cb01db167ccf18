package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/subtrack/internal/cli"
	"github.com/theirongolddev/subtrack/internal/model"
	"github.com/theirongolddev/subtrack/internal/pipeline"
	"github.com/theirongolddev/subtrack/internal/state"
)

var (
	flagFolderName    string
	flagFolderIcon    string
	flagFolderNewIcon string
)

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Manage folders",
	RunE:  runFolderList,
}

var folderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List folders with their monthly totals",
	RunE:  runFolderList,
}

var folderAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(1),
	RunE:  runFolderAdd,
}

var folderEditCmd = &cobra.Command{
	Use:   "edit ID|NAME",
	Short: "Rename a folder or change its icon",
	Args:  cobra.ExactArgs(1),
	RunE:  runFolderEdit,
}

var folderRemoveCmd = &cobra.Command{
	Use:     "remove ID|NAME",
	Aliases: []string{"rm"},
	Short:   "Delete a folder; its subscriptions become unfiled",
	Args:    cobra.ExactArgs(1),
	RunE:    runFolderRemove,
}

func init() {
	folderAddCmd.Flags().StringVar(&flagFolderIcon, "icon", model.DefaultFolderIcon, "Folder icon")
	folderEditCmd.Flags().StringVar(&flagFolderName, "name", "", "New name")
	folderEditCmd.Flags().StringVar(&flagFolderNewIcon, "icon", "", "New icon")

	folderCmd.AddCommand(folderListCmd, folderAddCmd, folderEditCmd, folderRemoveCmd)
	rootCmd.AddCommand(folderCmd)
}

// findFolder resolves ref as a folder id, id prefix, or case-insensitive name.
func findFolder(folders []model.Folder, ref string) (model.Folder, error) {
	var prefixed []model.Folder
	for _, f := range folders {
		if f.ID == ref || strings.EqualFold(f.Name, ref) {
			return f, nil
		}
		if len(ref) >= 4 && strings.HasPrefix(f.ID, ref) {
			prefixed = append(prefixed, f)
		}
	}
	if len(prefixed) == 1 {
		return prefixed[0], nil
	}
	return model.Folder{}, fmt.Errorf("folder %q: %w", ref, state.ErrNotFound)
}

func runFolderList(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	cards := pipeline.FolderOverview(s.coll.Subscriptions(), s.coll.Folders(), s.today)
	if len(cards) == 0 {
		fmt.Println("\n  No folders. Create one with `subtrack folder add NAME`.")
		return nil
	}

	rows := make([][]string, 0, len(cards))
	for _, fc := range cards {
		rows = append(rows, []string{
			cli.ShortID(fc.Folder.ID),
			fc.Folder.Icon + " " + fc.Folder.Name,
			cli.FormatNumber(int64(fc.Active)),
			cli.FormatMoney(fc.Monthly),
			fmt.Sprintf("%d / %d", fc.Tiers.Critical, fc.Tiers.Warning),
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:    []string{"ID", "Folder", "Active", "Monthly", "Due now / soon"},
		Rows:       rows,
		RightAlign: map[int]bool{2: true, 3: true},
	}))
	return nil
}

func runFolderAdd(_ *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ev, err := s.coll.Dispatch(state.AddFolder{Folder: model.Folder{Name: args[0], Icon: flagFolderIcon}})
	if err != nil {
		return err
	}
	fmt.Printf("  Created folder %s (%s)\n", args[0], cli.ShortID(ev.ID))
	return nil
}

func runFolderEdit(c *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	f, err := findFolder(s.coll.Folders(), args[0])
	if err != nil {
		return err
	}
	if c.Flags().Changed("name") {
		f.Name = flagFolderName
	}
	if c.Flags().Changed("icon") {
		f.Icon = flagFolderNewIcon
	}
	if _, err := s.coll.Dispatch(state.UpdateFolder{Folder: f}); err != nil {
		return err
	}
	fmt.Printf("  Updated folder %s\n", f.Name)
	return nil
}

func runFolderRemove(_ *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	f, err := findFolder(s.coll.Folders(), args[0])
	if err != nil {
		return err
	}
	ev, err := s.coll.Dispatch(state.RemoveFolder{ID: f.ID})
	if err != nil {
		return err
	}
	fmt.Printf("  Removed folder %s", f.Name)
	if ev.Detached > 0 {
		fmt.Printf(" (%d subscriptions now unfiled)", ev.Detached)
	}
	fmt.Println()
	return nil
}
