package backup

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/subtrack/internal/model"
)

func fixture() model.Snapshot {
	sort := model.SortSettings{Field: model.SortByName, Direction: model.SortAsc}
	return model.Snapshot{
		Folders: []model.Folder{{ID: "f1", Name: "Streaming", Icon: "📺"}},
		Subscriptions: []model.Subscription{
			{ID: "a", Name: "Netflix", Amount: 15.49, Anchor: model.MustDate("2025-01-31"), Recurrence: model.RecurMonthly, Tag: "Entertainment", FolderID: "f1"},
			{ID: "b", Name: "Domain", Amount: 12, Anchor: model.MustDate("2024-02-29"), Recurrence: model.RecurYearly, Tag: "Work", Link: "https://example.com", Archived: true},
			{ID: "c", Name: "Course", Amount: 199, Anchor: model.MustDate("2025-09-01"), Recurrence: model.RecurNone, Tag: "General"},
		},
		Sort: &sort,
	}
}

func sameSet(t *testing.T, got, want model.Snapshot) {
	t.Helper()
	if len(got.Subscriptions) != len(want.Subscriptions) || len(got.Folders) != len(want.Folders) {
		t.Fatalf("sizes = %d/%d, want %d/%d", len(got.Subscriptions), len(got.Folders), len(want.Subscriptions), len(want.Folders))
	}
	subs := make(map[string]model.Subscription)
	for _, s := range got.Subscriptions {
		subs[s.ID] = s
	}
	for _, s := range want.Subscriptions {
		if subs[s.ID] != s {
			t.Fatalf("subscription %s = %+v, want %+v", s.ID, subs[s.ID], s)
		}
	}
	folders := make(map[string]model.Folder)
	for _, f := range got.Folders {
		folders[f.ID] = f
	}
	for _, f := range want.Folders {
		if folders[f.ID] != f {
			t.Fatalf("folder %s = %+v, want %+v", f.ID, folders[f.ID], f)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		var buf bytes.Buffer
		if err := Export(&buf, fixture(), format); err != nil {
			t.Fatalf("%s Export: %v", format, err)
		}
		got, err := Import(&buf, format)
		if err != nil {
			t.Fatalf("%s Import: %v", format, err)
		}
		sameSet(t, got, fixture())
		if got.Sort == nil || *got.Sort != *fixture().Sort {
			t.Fatalf("%s Sort = %+v", format, got.Sort)
		}
	}
}

func TestRoundTripEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&buf, model.Snapshot{}, FormatJSON); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"subscriptions": []`) {
		t.Fatalf("empty export = %s", buf.String())
	}
	got, err := Import(&buf, FormatJSON)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(got.Subscriptions) != 0 || len(got.Folders) != 0 {
		t.Fatalf("Import = %+v", got)
	}
}

func TestImportRejects(t *testing.T) {
	tests := map[string]string{
		"missing folders":       `{"subscriptions": []}`,
		"missing subscriptions": `{"folders": []}`,
		"not an object":         `[1, 2, 3]`,
		"bad json":              `{"subscriptions": [`,
		"bad recurrence":        `{"folders": [], "subscriptions": [{"id":"x","name":"n","amount":1,"date":"2025-01-01","repeat":"hourly"}]}`,
		"negative amount":       `{"folders": [], "subscriptions": [{"id":"x","name":"n","amount":-1,"date":"2025-01-01","repeat":"monthly"}]}`,
		"impossible date":       `{"folders": [], "subscriptions": [{"id":"x","name":"n","amount":1,"date":"2025-02-30","repeat":"monthly"}]}`,
		"empty name":            `{"folders": [], "subscriptions": [{"id":"x","name":" ","amount":1,"date":"2025-02-01","repeat":"monthly"}]}`,
		"duplicate ids":         `{"folders": [], "subscriptions": [{"id":"x","name":"a","amount":1,"date":"2025-02-01","repeat":"monthly"},{"id":"x","name":"b","amount":1,"date":"2025-02-01","repeat":"monthly"}]}`,
	}
	for name, doc := range tests {
		_, err := Import(strings.NewReader(doc), FormatJSON)
		if !errors.Is(err, ErrFormat) {
			t.Fatalf("%s: err = %v, want ErrFormat", name, err)
		}
	}
}

func TestImportAcceptsNullFolderAndDefaultsTag(t *testing.T) {
	doc := `{"folders": [], "subscriptions": [{"id":"x","name":"Gym","amount":30,"date":"2025-02-01","repeat":"monthly","folderId":null}]}`
	snap, err := Import(strings.NewReader(doc), FormatJSON)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if s := snap.Subscriptions[0]; s.FolderID != "" || s.Tag != model.DefaultTag {
		t.Fatalf("imported = %+v", s)
	}
}

// browserExport is a file written by the web tracker's Settings export.
const browserExport = `{
  "subscriptions": [
    {"id": "1", "name": "Netflix", "amount": 15.99, "dueDate": "2025-03-30", "repeat": "monthly",
     "link": "https://netflix.com", "tag": "Entertainment", "folderId": "f1", "archived": false},
    {"id": "2", "name": "Old Gaming Service", "amount": 19.99, "dueDate": "2025-03-30", "repeat": "monthly",
     "tag": "Gaming", "folderId": null, "archived": true}
  ],
  "folders": [{"id": "f1", "name": "Streaming", "icon": "🎬"}],
  "sortSettings": {"option": "amount", "order": "desc"},
  "darkMode": true
}`

func TestImportBrowserExport(t *testing.T) {
	snap, err := Import(strings.NewReader(browserExport), FormatJSON)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(snap.Subscriptions) != 2 || len(snap.Folders) != 1 {
		t.Fatalf("sizes = %d/%d, want 2/1", len(snap.Subscriptions), len(snap.Folders))
	}
	s := snap.Subscriptions[0]
	if s.Anchor.String() != "2025-03-30" || s.FolderID != "f1" || s.Link != "https://netflix.com" {
		t.Fatalf("netflix = %+v", s)
	}
	if !snap.Subscriptions[1].Archived || snap.Subscriptions[1].FolderID != "" {
		t.Fatalf("archived = %+v", snap.Subscriptions[1])
	}
	if snap.Sort == nil || *snap.Sort != (model.SortSettings{Field: model.SortByAmount, Direction: model.SortDesc}) {
		t.Fatalf("sort = %+v, want amount desc", snap.Sort)
	}
}

func TestImportBrowserExportWithoutSort(t *testing.T) {
	for _, sortDoc := range []string{
		`{"option": null, "order": "asc"}`,
		`null`,
	} {
		doc := strings.Replace(browserExport, `{"option": "amount", "order": "desc"}`, sortDoc, 1)
		snap, err := Import(strings.NewReader(doc), FormatJSON)
		if err != nil {
			t.Fatalf("sortSettings %s: Import: %v", sortDoc, err)
		}
		if snap.Sort != nil {
			t.Fatalf("sortSettings %s: sort = %+v, want none", sortDoc, *snap.Sort)
		}
	}
}

func TestUpgradeLegacyKeepsCurrentShape(t *testing.T) {
	doc := map[string]any{
		"subscriptions": []any{map[string]any{"id": "x", "date": "2025-01-01", "dueDate": "1999-01-01"}},
		"sortSettings":  map[string]any{"field": "name", "direction": "asc"},
	}
	upgradeLegacy(doc)

	sub := doc["subscriptions"].([]any)[0].(map[string]any)
	if sub["date"] != "2025-01-01" {
		t.Fatalf("date = %v, want the existing date kept", sub["date"])
	}
	if _, ok := sub["dueDate"]; ok {
		t.Fatal("dueDate left in document")
	}
	sort := doc["sortSettings"].(map[string]any)
	if sort["field"] != "name" || sort["direction"] != "asc" {
		t.Fatalf("sortSettings = %v", sort)
	}
}

func TestImportYAMLMissingCollection(t *testing.T) {
	doc := "subscriptions: []\n"
	if _, err := Import(strings.NewReader(doc), FormatYAML); !errors.Is(err, ErrFormat) {
		t.Fatalf("err = %v, want ErrFormat", err)
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, fixture(), model.MustDate("2025-06-10")); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer func() { _ = f.Close() }()

	name, err := f.GetCellValue(sheetSubscriptions, "A2")
	if err != nil || name != "Netflix" {
		t.Fatalf("A2 = %q, %v; want Netflix", name, err)
	}
	next, _ := f.GetCellValue(sheetSubscriptions, "E2")
	if next != "2025-06-30" {
		t.Fatalf("next due = %q, want 2025-06-30", next)
	}
	status, _ := f.GetCellValue(sheetSubscriptions, "F3")
	if status != "Archived" {
		t.Fatalf("archived status = %q", status)
	}
	rows, err := f.GetRows(sheetForecast)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 13 {
		t.Fatalf("forecast rows = %d, want header + 12", len(rows))
	}
}

func TestWriteTable(t *testing.T) {
	today := model.MustDate("2025-06-10")
	snap := fixture()

	var csv bytes.Buffer
	if err := WriteTable(&csv, snap.Subscriptions, snap.Folders, today, FormatCSV); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(csv.String(), "Netflix,15.49,monthly,2025-06-30") {
		t.Fatalf("csv = %s", csv.String())
	}
	if !strings.Contains(csv.String(), "Streaming") {
		t.Fatal("csv missing folder name")
	}

	var md bytes.Buffer
	if err := WriteTable(&md, snap.Subscriptions, snap.Folders, today, FormatMarkdown); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(md.String(), "| ID |") {
		t.Fatalf("markdown = %s", md.String())
	}

	if err := WriteTable(&md, nil, nil, today, FormatJSON); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}
