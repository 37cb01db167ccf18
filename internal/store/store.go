// Package store persists the subscription snapshot in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/theirongolddev/subtrack/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

const (
	metaRevision  = "revision"
	metaSavedAt   = "saved_at"
	metaSortField = "sort_field"
	metaSortDir   = "sort_direction"
)

// Store is a SQLite-backed snapshot store.
type Store struct {
	db *sql.DB
}

// DataDir returns the XDG-compliant data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "subtrack")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "subtrack")
}

// DefaultPath returns the default database location.
func DefaultPath() string {
	return filepath.Join(DataDir(), "subtrack.db")
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the stored snapshot in a single transaction and bumps the
// revision counter.
func (s *Store) Save(snap model.Snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM subscriptions"); err != nil {
		return fmt.Errorf("clearing subscriptions: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM folders"); err != nil {
		return fmt.Errorf("clearing folders: %w", err)
	}

	for i, f := range snap.Folders {
		_, err := tx.Exec(`INSERT INTO folders (id, name, icon, position) VALUES (?, ?, ?, ?)`,
			f.ID, f.Name, f.Icon, i)
		if err != nil {
			return fmt.Errorf("saving folder %s: %w", f.ID, err)
		}
	}

	for i, sub := range snap.Subscriptions {
		archived := 0
		if sub.Archived {
			archived = 1
		}
		_, err := tx.Exec(`INSERT INTO subscriptions
			(id, name, amount, anchor_date, recurrence, tag, folder_id, link, archived, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sub.ID, sub.Name, sub.Amount, sub.Anchor.String(), sub.Recurrence.String(),
			sub.Tag, nullString(sub.FolderID), nullString(sub.Link), archived, i,
		)
		if err != nil {
			return fmt.Errorf("saving subscription %s: %w", sub.ID, err)
		}
	}

	if snap.Sort != nil {
		if err := setMeta(tx, metaSortField, string(snap.Sort.Field)); err != nil {
			return err
		}
		if err := setMeta(tx, metaSortDir, string(snap.Sort.Direction)); err != nil {
			return err
		}
	}

	_, err = tx.Exec(`INSERT INTO meta (key, value) VALUES (?, '1')
		ON CONFLICT(key) DO UPDATE SET value = CAST(value AS INTEGER) + 1`, metaRevision)
	if err != nil {
		return fmt.Errorf("bumping revision: %w", err)
	}
	if err := setMeta(tx, metaSavedAt, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	return tx.Commit()
}

// Load reads the stored snapshot. An empty database yields an empty snapshot.
func (s *Store) Load() (model.Snapshot, error) {
	var snap model.Snapshot

	folders, err := s.loadFolders()
	if err != nil {
		return snap, fmt.Errorf("loading folders: %w", err)
	}
	subs, err := s.loadSubscriptions()
	if err != nil {
		return snap, fmt.Errorf("loading subscriptions: %w", err)
	}
	snap.Folders = folders
	snap.Subscriptions = subs

	field, err := s.meta(metaSortField)
	if err != nil {
		return snap, err
	}
	dir, err := s.meta(metaSortDir)
	if err != nil {
		return snap, err
	}
	if field != "" {
		snap.Sort = &model.SortSettings{Field: model.SortField(field), Direction: model.SortDirection(dir)}
	}
	return snap, nil
}

func (s *Store) loadFolders() ([]model.Folder, error) {
	rows, err := s.db.Query("SELECT id, name, icon FROM folders ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var folders []model.Folder
	for rows.Next() {
		var f model.Folder
		if err := rows.Scan(&f.ID, &f.Name, &f.Icon); err != nil {
			return nil, err
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

func (s *Store) loadSubscriptions() ([]model.Subscription, error) {
	rows, err := s.db.Query(`SELECT
		id, name, amount, anchor_date, recurrence, tag, folder_id, link, archived
		FROM subscriptions ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var subs []model.Subscription
	for rows.Next() {
		var sub model.Subscription
		var anchor, rule string
		var folderID, link sql.NullString
		var archived int

		err := rows.Scan(&sub.ID, &sub.Name, &sub.Amount, &anchor, &rule, &sub.Tag, &folderID, &link, &archived)
		if err != nil {
			return nil, err
		}

		if sub.Anchor, err = model.ParseDate(anchor); err != nil {
			return nil, fmt.Errorf("subscription %s: %w", sub.ID, err)
		}
		if sub.Recurrence, err = model.ParseRecurrence(rule); err != nil {
			return nil, fmt.Errorf("subscription %s: %w", sub.ID, err)
		}
		sub.FolderID = folderID.String
		sub.Link = link.String
		sub.Archived = archived != 0
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// Revision returns a counter incremented by every Save. Zero means the
// database has never been written.
func (s *Store) Revision() (int64, error) {
	v, err := s.meta(metaRevision)
	if err != nil || v == "" {
		return 0, err
	}
	return strconv.ParseInt(v, 10, 64)
}

// SavedAt returns the time of the last Save.
func (s *Store) SavedAt() (time.Time, error) {
	v, err := s.meta(metaSavedAt)
	if err != nil || v == "" {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, v)
}

// Counts returns the number of stored subscriptions and folders.
func (s *Store) Counts() (subs, folders int, err error) {
	if err = s.db.QueryRow("SELECT COUNT(*) FROM subscriptions").Scan(&subs); err != nil {
		return 0, 0, err
	}
	err = s.db.QueryRow("SELECT COUNT(*) FROM folders").Scan(&folders)
	return subs, folders, err
}

func (s *Store) meta(key string) (string, error) {
	var v string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", key, err)
	}
	return v, nil
}

func setMeta(tx *sql.Tx, key, value string) error {
	_, err := tx.Exec(`INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
