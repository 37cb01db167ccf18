// Package backup imports and exports subscription snapshots.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/subtrack/internal/model"
)

// ErrFormat is returned when an import document is not a valid snapshot.
var ErrFormat = errors.New("invalid snapshot format")

// ErrUnsupportedFormat is returned for unknown format names.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Format names a file encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatXLSX     Format = "xlsx"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts a format name or common file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FormatForPath guesses the format from a file name, falling back to JSON.
func FormatForPath(path string) Format {
	if f, err := ParseFormat(filepath.Ext(path)); err == nil {
		return f
	}
	return FormatJSON
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("snapshot.json", strings.NewReader(snapshotSchema)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile("snapshot.json")
	})
	return schema, schemaErr
}

// Export writes snap as JSON or YAML.
func Export(w io.Writer, snap model.Snapshot, format Format) error {
	snap = withEmptyCollections(snap)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("export as %s: %w", format, ErrUnsupportedFormat)
}

// Import reads a JSON or YAML snapshot. The document must carry both
// collections and every record must pass validation; otherwise nothing is
// returned.
func Import(r io.Reader, format Format) (model.Snapshot, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("reading snapshot: %w", err)
	}

	var doc any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(raw, &doc); err != nil {
			return model.Snapshot{}, fmt.Errorf("%w: %v", ErrFormat, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return model.Snapshot{}, fmt.Errorf("%w: %v", ErrFormat, err)
		}
	default:
		return model.Snapshot{}, fmt.Errorf("import from %s: %w", format, ErrUnsupportedFormat)
	}

	upgradeLegacy(doc)
	// Re-encode so the schema and the JSON decoder see the same document.
	if raw, err = json.Marshal(doc); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	sch, err := compiledSchema()
	if err != nil {
		return model.Snapshot{}, err
	}
	if err := sch.Validate(doc); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	var snap model.Snapshot
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	for i := range snap.Subscriptions {
		snap.Subscriptions[i] = snap.Subscriptions[i].Normalize()
	}
	for i := range snap.Folders {
		snap.Folders[i] = snap.Folders[i].Normalize()
	}
	if err := snap.Validate(); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	if err := checkUniqueIDs(snap); err != nil {
		return model.Snapshot{}, err
	}
	return withEmptyCollections(snap), nil
}

func checkUniqueIDs(snap model.Snapshot) error {
	seen := make(map[string]struct{}, len(snap.Subscriptions))
	for _, s := range snap.Subscriptions {
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("%w: duplicate subscription id %q", ErrFormat, s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	seen = make(map[string]struct{}, len(snap.Folders))
	for _, f := range snap.Folders {
		if _, dup := seen[f.ID]; dup {
			return fmt.Errorf("%w: duplicate folder id %q", ErrFormat, f.ID)
		}
		seen[f.ID] = struct{}{}
	}
	return nil
}

// withEmptyCollections keeps nil slices from encoding as null, which the
// schema would reject on the way back in.
func withEmptyCollections(snap model.Snapshot) model.Snapshot {
	if snap.Subscriptions == nil {
		snap.Subscriptions = []model.Subscription{}
	}
	if snap.Folders == nil {
		snap.Folders = []model.Folder{}
	}
	return snap
}
