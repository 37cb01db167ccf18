package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/theirongolddev/subtrack/internal/backup"
	"github.com/theirongolddev/subtrack/internal/cli"
	"github.com/theirongolddev/subtrack/internal/config"
	"github.com/theirongolddev/subtrack/internal/countdown"
	"github.com/theirongolddev/subtrack/internal/model"
	"github.com/theirongolddev/subtrack/internal/pipeline"
)

var (
	flagListSearch   string
	flagListTags     []string
	flagListFolder   string
	flagListArchived bool
	flagListAll      bool
	flagListSort     string
	flagListDesc     bool
	flagListFormat   string
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List subscriptions with their next due date",
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringVarP(&flagListSearch, "search", "s", "", "Filter by name or tag (substring)")
	listCmd.Flags().StringSliceVarP(&flagListTags, "tag", "t", nil, "Filter by tag (repeatable)")
	listCmd.Flags().StringVarP(&flagListFolder, "folder", "f", "", "Filter by folder id or name (\"-\" for unfiled)")
	listCmd.Flags().BoolVar(&flagListArchived, "archived", false, "List archived subscriptions")
	listCmd.Flags().BoolVar(&flagListAll, "all", false, "List active and archived")
	listCmd.Flags().StringVar(&flagListSort, "sort", "", "Sort by date, name, amount or tag (default: saved order)")
	listCmd.Flags().BoolVar(&flagListDesc, "desc", false, "Sort descending")
	listCmd.Flags().StringVar(&flagListFormat, "format", "table", "Output format: table, csv or markdown")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	q := pipeline.Query{
		Search:   flagListSearch,
		Tags:     flagListTags,
		Archived: flagListArchived,
		AnyState: flagListAll,
	}
	if flagListFolder != "" {
		if flagListFolder == pipeline.UnfiledOnly {
			q.FolderID = pipeline.UnfiledOnly
		} else {
			f, err := findFolder(s.coll.Folders(), flagListFolder)
			if err != nil {
				return err
			}
			q.FolderID = f.ID
		}
	}

	by := s.coll.Sort()
	if flagListSort != "" {
		field, err := model.ParseSortField(flagListSort)
		if err != nil {
			return err
		}
		by.Field = field
	}
	if cmd.Flags().Changed("desc") {
		by.Direction = model.SortAsc
		if flagListDesc {
			by.Direction = model.SortDesc
		}
	}

	subs := pipeline.SortLocale(pipeline.Filter(s.coll.Subscriptions(), q), by, s.today, localeOf(s.cfg))

	switch strings.ToLower(flagListFormat) {
	case "table", "":
	case "csv", "markdown", "md":
		format, err := backup.ParseFormat(flagListFormat)
		if err != nil {
			return err
		}
		return backup.WriteTable(os.Stdout, subs, s.coll.Folders(), s.today, format)
	default:
		return fmt.Errorf("--format: %w: %q", backup.ErrUnsupportedFormat, flagListFormat)
	}

	if len(subs) == 0 {
		fmt.Println("\n  No subscriptions match.")
		return nil
	}

	folderNames := make(map[string]string)
	for _, f := range s.coll.Folders() {
		folderNames[f.ID] = f.Name
	}

	rows := make([][]string, 0, len(subs))
	total := 0.0
	for _, sub := range subs {
		c := countdown.For(sub, s.today)
		name := sub.Name
		if sub.Archived {
			name += cli.RenderMuted(" (archived)")
		}
		status := cli.RenderTier(c)
		if sub.Archived {
			status = cli.RenderMuted(c.Label)
		}
		rows = append(rows, []string{
			cli.ShortID(sub.ID),
			name,
			cli.FormatPrice(sub),
			cli.FormatDate(c.NextDue),
			status,
			sub.Tag,
			folderNames[sub.FolderID],
		})
		total += pipeline.MonthlyEquivalent(sub)
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:      fmt.Sprintf("%d subscriptions · sorted by %s %s", len(subs), by.Field, by.Direction),
		Headers:    []string{"ID", "Name", "Price", "Next Due", "Countdown", "Tag", "Folder"},
		Rows:       rows,
		RightAlign: map[int]bool{2: true},
	}))
	fmt.Printf("  Monthly equivalent: %s\n\n", cli.RenderMoney(total))
	return nil
}

// localeOf parses the configured collation locale, falling back to the
// root collation.
func localeOf(cfg config.Config) language.Tag {
	tag, err := language.Parse(cfg.General.Locale)
	if err != nil {
		return language.Und
	}
	return tag
}
