package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Boundary validation errors. They arrive wrapped in a *ValidationError.
var (
	ErrInvalidRecurrence = errors.New("invalid recurrence")
	ErrInvalidDate       = errors.New("invalid date")
	ErrEmptyName         = errors.New("name is required")
	ErrNegativeAmount    = errors.New("amount must not be negative")
	ErrInvalidAmount     = errors.New("amount must be a finite number")
	ErrInvalidSort       = errors.New("invalid sort setting")
)

// ValidationError names the field that failed a boundary check.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// DefaultTag is applied to subscriptions created without a tag.
const DefaultTag = "General"

// DefaultFolderIcon is applied to folders created without an icon.
const DefaultFolderIcon = "📁"

// Recurrence is how often a subscription repeats.
type Recurrence int

const (
	RecurNone Recurrence = iota
	RecurDaily
	RecurWeekly
	RecurMonthly
	RecurYearly
)

// Recurrences lists every valid rule in display order.
var Recurrences = []Recurrence{RecurNone, RecurDaily, RecurWeekly, RecurMonthly, RecurYearly}

func (r Recurrence) String() string {
	switch r {
	case RecurNone:
		return "none"
	case RecurDaily:
		return "daily"
	case RecurWeekly:
		return "weekly"
	case RecurMonthly:
		return "monthly"
	case RecurYearly:
		return "yearly"
	}
	return fmt.Sprintf("Recurrence(%d)", int(r))
}

// Valid reports whether r is one of the defined rules.
func (r Recurrence) Valid() bool {
	return r >= RecurNone && r <= RecurYearly
}

// ParseRecurrence accepts the canonical names plus "one-time" for none.
func ParseRecurrence(s string) (Recurrence, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "one-time", "once", "":
		return RecurNone, nil
	case "daily", "day":
		return RecurDaily, nil
	case "weekly", "week":
		return RecurWeekly, nil
	case "monthly", "month":
		return RecurMonthly, nil
	case "yearly", "year", "annual":
		return RecurYearly, nil
	}
	return RecurNone, &ValidationError{Field: "recurrence", Value: s, Err: ErrInvalidRecurrence}
}

// MarshalText implements encoding.TextMarshaler.
func (r Recurrence) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, &ValidationError{Field: "recurrence", Value: r.String(), Err: ErrInvalidRecurrence}
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Recurrence) UnmarshalText(b []byte) error {
	parsed, err := ParseRecurrence(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Subscription is a recurring (or one-time) payment.
type Subscription struct {
	ID         string     `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Amount     float64    `json:"amount" yaml:"amount"`
	Anchor     Date       `json:"date" yaml:"date"`
	Recurrence Recurrence `json:"repeat" yaml:"repeat"`
	Tag        string     `json:"tag" yaml:"tag"`
	FolderID   string     `json:"folderId,omitempty" yaml:"folderId,omitempty"`
	Link       string     `json:"link,omitempty" yaml:"link,omitempty"`
	Archived   bool       `json:"archived" yaml:"archived"`
}

// Normalize fills defaults and trims user input.
func (s Subscription) Normalize() Subscription {
	s.Name = strings.TrimSpace(s.Name)
	s.Tag = strings.TrimSpace(s.Tag)
	if s.Tag == "" {
		s.Tag = DefaultTag
	}
	s.Link = strings.TrimSpace(s.Link)
	return s
}

// Validate checks the record's boundary rules.
func (s Subscription) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{Field: "name", Err: ErrEmptyName}
	}
	if math.IsNaN(s.Amount) || math.IsInf(s.Amount, 0) {
		return &ValidationError{Field: "amount", Value: fmt.Sprintf("%g", s.Amount), Err: ErrInvalidAmount}
	}
	if s.Amount < 0 {
		return &ValidationError{Field: "amount", Value: fmt.Sprintf("%g", s.Amount), Err: ErrNegativeAmount}
	}
	if s.Anchor.IsZero() {
		return &ValidationError{Field: "date", Err: ErrInvalidDate}
	}
	if !s.Recurrence.Valid() {
		return &ValidationError{Field: "recurrence", Value: s.Recurrence.String(), Err: ErrInvalidRecurrence}
	}
	return nil
}

// Folder groups subscriptions by reference.
type Folder struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Icon string `json:"icon" yaml:"icon"`
}

// Normalize fills defaults and trims user input.
func (f Folder) Normalize() Folder {
	f.Name = strings.TrimSpace(f.Name)
	f.Icon = strings.TrimSpace(f.Icon)
	if f.Icon == "" {
		f.Icon = DefaultFolderIcon
	}
	return f
}

// Validate checks the folder's boundary rules.
func (f Folder) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return &ValidationError{Field: "folder name", Err: ErrEmptyName}
	}
	return nil
}

// SortField selects the subscription ordering.
type SortField string

const (
	SortByName   SortField = "name"
	SortByAmount SortField = "amount"
	SortByDate   SortField = "date"
	SortByTag    SortField = "tag"
)

// SortDirection is ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortSettings is the persisted list ordering.
type SortSettings struct {
	Field     SortField     `json:"field" yaml:"field" toml:"field"`
	Direction SortDirection `json:"direction" yaml:"direction" toml:"direction"`
}

// DefaultSort orders by next due date, soonest first.
func DefaultSort() SortSettings {
	return SortSettings{Field: SortByDate, Direction: SortAsc}
}

// Validate rejects unknown fields or directions.
func (s SortSettings) Validate() error {
	switch s.Field {
	case SortByName, SortByAmount, SortByDate, SortByTag:
	default:
		return &ValidationError{Field: "sort field", Value: string(s.Field), Err: ErrInvalidSort}
	}
	switch s.Direction {
	case SortAsc, SortDesc:
	default:
		return &ValidationError{Field: "sort direction", Value: string(s.Direction), Err: ErrInvalidSort}
	}
	return nil
}

// ParseSortField accepts the field names plus "due" as an alias for date.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name":
		return SortByName, nil
	case "amount", "price":
		return SortByAmount, nil
	case "date", "due":
		return SortByDate, nil
	case "tag":
		return SortByTag, nil
	}
	return "", &ValidationError{Field: "sort field", Value: s, Err: ErrInvalidSort}
}

// Snapshot is the full persisted collection.
type Snapshot struct {
	Subscriptions []Subscription `json:"subscriptions" yaml:"subscriptions"`
	Folders       []Folder       `json:"folders" yaml:"folders"`
	Sort          *SortSettings  `json:"sortSettings,omitempty" yaml:"sortSettings,omitempty"`
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Subscriptions: append([]Subscription(nil), s.Subscriptions...),
		Folders:       append([]Folder(nil), s.Folders...),
	}
	if s.Sort != nil {
		sort := *s.Sort
		out.Sort = &sort
	}
	return out
}

// Validate checks every record. The first failure is returned with its position.
func (s Snapshot) Validate() error {
	for i, sub := range s.Subscriptions {
		if err := sub.Validate(); err != nil {
			return fmt.Errorf("subscription %d (%s): %w", i, sub.ID, err)
		}
	}
	for i, f := range s.Folders {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("folder %d (%s): %w", i, f.ID, err)
		}
	}
	if s.Sort != nil {
		if err := s.Sort.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Active returns the non-archived subscriptions.
func Active(subs []Subscription) []Subscription {
	out := make([]Subscription, 0, len(subs))
	for _, s := range subs {
		if !s.Archived {
			out = append(out, s)
		}
	}
	return out
}

// Archived returns the archived subscriptions.
func Archived(subs []Subscription) []Subscription {
	var out []Subscription
	for _, s := range subs {
		if s.Archived {
			out = append(out, s)
		}
	}
	return out
}
