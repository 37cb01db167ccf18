package backup

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/subtrack/internal/countdown"
	"github.com/theirongolddev/subtrack/internal/model"
	"github.com/theirongolddev/subtrack/internal/pipeline"
)

const (
	sheetSubscriptions = "Subscriptions"
	sheetForecast      = "Forecast"
	sheetBreakdown     = "Breakdown"
)

// WriteXLSX writes a workbook report: every subscription with its countdown
// and monthly equivalent, a 12-month forecast and the folder breakdown.
func WriteXLSX(w io.Writer, snap model.Snapshot, today model.Date) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetSubscriptions); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}
	for _, name := range []string{sheetForecast, sheetBreakdown} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("xlsx sheet %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx style: %w", err)
	}

	folderNames := make(map[string]string, len(snap.Folders))
	for _, fo := range snap.Folders {
		folderNames[fo.ID] = fo.Name
	}

	subRows := make([][]any, 0, len(snap.Subscriptions))
	for _, s := range snap.Subscriptions {
		c := countdown.For(s, today)
		status := c.Label
		if s.Archived {
			status = "Archived"
		}
		subRows = append(subRows, []any{
			s.Name, s.Amount, s.Recurrence.String(), s.Anchor.String(), c.NextDue.String(),
			status, round2(pipeline.MonthlyEquivalent(s)), s.Tag, folderNames[s.FolderID], s.Link,
		})
	}
	if err := writeSheet(f, sheetSubscriptions, bold,
		[]string{"Name", "Amount", "Repeat", "Anchor Date", "Next Due", "Status", "Monthly Equivalent", "Tag", "Folder", "Link"},
		subRows); err != nil {
		return err
	}
	_ = f.SetColWidth(sheetSubscriptions, "A", "A", 28)
	_ = f.SetColWidth(sheetSubscriptions, "B", "G", 14)
	_ = f.SetColWidth(sheetSubscriptions, "H", "I", 18)
	_ = f.SetColWidth(sheetSubscriptions, "J", "J", 40)

	var forecastRows [][]any
	for _, p := range pipeline.ForecastSeries(snap.Subscriptions, today, pipeline.MaxForecastMonths) {
		forecastRows = append(forecastRows, []any{p.Month.Format("2006-01"), p.Payments, round2(p.Amount), round2(p.Cumulative)})
	}
	if err := writeSheet(f, sheetForecast, bold, []string{"Month", "Payments", "Amount", "Cumulative"}, forecastRows); err != nil {
		return err
	}
	_ = f.SetColWidth(sheetForecast, "A", "D", 14)

	var breakdownRows [][]any
	for _, sl := range pipeline.BreakdownByFolder(snap.Subscriptions, snap.Folders) {
		breakdownRows = append(breakdownRows, []any{sl.Name, sl.Count, round2(sl.Amount), round2(sl.Amount * 12)})
	}
	if err := writeSheet(f, sheetBreakdown, bold, []string{"Folder", "Subscriptions", "Monthly", "Yearly"}, breakdownRows); err != nil {
		return err
	}
	_ = f.SetColWidth(sheetBreakdown, "A", "A", 24)
	_ = f.SetColWidth(sheetBreakdown, "B", "D", 14)

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, headers []string, rows [][]any) error {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("xlsx %s header: %w", sheet, err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheet, "A1", last, headerStyle)

	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("xlsx %s %s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
