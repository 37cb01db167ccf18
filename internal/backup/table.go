package backup

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/subtrack/internal/countdown"
	"github.com/theirongolddev/subtrack/internal/model"
	"github.com/theirongolddev/subtrack/internal/pipeline"
)

// WriteTable writes the subscriptions as CSV or Markdown, one row each,
// with the next due date resolved against today.
func WriteTable(w io.Writer, subs []model.Subscription, folders []model.Folder, today model.Date, format Format) error {
	folderNames := make(map[string]string, len(folders))
	for _, f := range folders {
		folderNames[f.ID] = f.Name
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"ID", "Name", "Amount", "Repeat", "Next Due", "Status", "Monthly", "Tag", "Folder", "Archived"})
	for _, s := range subs {
		c := countdown.For(s, today)
		t.AppendRow(table.Row{
			s.ID, s.Name, money(s.Amount), s.Recurrence.String(), c.NextDue.String(),
			c.Label, money(pipeline.MonthlyEquivalent(s)), s.Tag, folderNames[s.FolderID], s.Archived,
		})
	}

	var out string
	switch format {
	case FormatCSV:
		out = t.RenderCSV()
	case FormatMarkdown:
		out = t.RenderMarkdown()
	default:
		return fmt.Errorf("table as %s: %w", format, ErrUnsupportedFormat)
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
