package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/subtrack/internal/backup"
)

var (
	flagExportFormat string
	flagExportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the collection as JSON, YAML, XLSX, CSV or Markdown",
	Example: `  subtrack export > backup.json
  subtrack export -o report.xlsx
  subtrack export --format markdown`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportFormat, "format", "f", "", "json, yaml, xlsx, csv or markdown (default from -o extension, else json)")
	exportCmd.Flags().StringVarP(&flagExportOutput, "output", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	format := backup.FormatJSON
	switch {
	case flagExportFormat != "":
		f, err := backup.ParseFormat(flagExportFormat)
		if err != nil {
			return err
		}
		format = f
	case flagExportOutput != "":
		format = backup.FormatForPath(flagExportOutput)
	}
	if format == backup.FormatXLSX && flagExportOutput == "" {
		return fmt.Errorf("xlsx export needs -o FILE")
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	var w io.Writer = os.Stdout
	if flagExportOutput != "" {
		f, err := os.Create(flagExportOutput)
		if err != nil {
			return fmt.Errorf("creating %s: %w", flagExportOutput, err)
		}
		defer f.Close()
		w = f
	}

	snap := s.coll.Snapshot()
	switch format {
	case backup.FormatJSON, backup.FormatYAML:
		err = backup.Export(w, snap, format)
	case backup.FormatXLSX:
		err = backup.WriteXLSX(w, snap, s.today)
	default:
		err = backup.WriteTable(w, snap.Subscriptions, snap.Folders, s.today, format)
	}
	if err != nil {
		return err
	}

	if flagExportOutput != "" {
		progressf("  Exported %d subscriptions and %d folders to %s\n",
			len(snap.Subscriptions), len(snap.Folders), flagExportOutput)
	}
	return nil
}
