package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/subtrack/internal/backup"
	"github.com/theirongolddev/subtrack/internal/model"
	"github.com/theirongolddev/subtrack/internal/state"
)

var (
	flagImportFormat  string
	flagImportReplace bool
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import a JSON or YAML snapshot",
	Long: "Import a JSON or YAML snapshot. The file is validated as a whole and " +
		"nothing is imported if any record is invalid. Without --replace, records " +
		"whose ids already exist are skipped.",
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&flagImportFormat, "format", "f", "", "json or yaml (default from file extension)")
	importCmd.Flags().BoolVar(&flagImportReplace, "replace", false, "Replace the whole collection")
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	path := args[0]
	format := backup.FormatForPath(path)
	if flagImportFormat != "" {
		f, err := backup.ParseFormat(flagImportFormat)
		if err != nil {
			return err
		}
		format = f
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	incoming, err := backup.Import(f, format)
	if err != nil {
		return fmt.Errorf("importing %s: %w", path, err)
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	next := incoming
	var skippedSubs, skippedFolders int
	if !flagImportReplace {
		next, skippedSubs, skippedFolders = mergeSnapshots(s.coll.Snapshot(), incoming)
	}

	if _, err := s.coll.Dispatch(state.Load{Snapshot: next}); err != nil {
		return err
	}
	fmt.Printf("  Imported %d subscriptions and %d folders from %s\n",
		len(incoming.Subscriptions)-skippedSubs, len(incoming.Folders)-skippedFolders, path)
	if skippedSubs > 0 || skippedFolders > 0 {
		fmt.Printf("  Skipped %d subscriptions and %d folders already present (use --replace to overwrite)\n",
			skippedSubs, skippedFolders)
	}
	return nil
}

// mergeSnapshots appends the records of in whose ids are not already in cur.
// It returns the merged snapshot and the skipped subscription and folder counts.
func mergeSnapshots(cur, in model.Snapshot) (model.Snapshot, int, int) {
	out := cur.Clone()

	folders := make(map[string]bool, len(cur.Folders))
	for _, f := range cur.Folders {
		folders[f.ID] = true
	}
	skippedFolders := 0
	for _, f := range in.Folders {
		if folders[f.ID] {
			skippedFolders++
			continue
		}
		out.Folders = append(out.Folders, f)
		folders[f.ID] = true
	}

	subs := make(map[string]bool, len(cur.Subscriptions))
	for _, s := range cur.Subscriptions {
		subs[s.ID] = true
	}
	skipped := 0
	for _, s := range in.Subscriptions {
		if subs[s.ID] {
			skipped++
			continue
		}
		out.Subscriptions = append(out.Subscriptions, s)
	}
	return out, skipped, skippedFolders
}
