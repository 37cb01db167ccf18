// Package state owns the canonical subscription and folder collections.
//
// Mutations are expressed as commands and applied by Reduce, a pure
// transition from one snapshot to the next. Container serializes those
// transitions, persists the result and broadcasts an Event per change.
package state

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/subtrack/internal/model"
)

var (
	// ErrNotFound is returned when a command names an unknown id.
	ErrNotFound = errors.New("not found")
	// ErrUnknownFolder is returned when a subscription references a folder that does not exist.
	ErrUnknownFolder = errors.New("unknown folder")
	// ErrUnknownCommand is returned for command types Reduce does not handle.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrAmbiguousID is returned when an id prefix matches more than one record.
	ErrAmbiguousID = errors.New("ambiguous id prefix")
)

// Command is a requested change to the collection.
type Command interface {
	commandName() string
}

// AddSubscription creates a subscription under a fresh id.
type AddSubscription struct{ Subscription model.Subscription }

// UpdateSubscription replaces the subscription with the same id.
type UpdateSubscription struct{ Subscription model.Subscription }

// RemoveSubscription deletes a subscription.
type RemoveSubscription struct{ ID string }

// ToggleArchive flips a subscription's archived flag.
type ToggleArchive struct{ ID string }

// AddFolder creates a folder under a fresh id.
type AddFolder struct{ Folder model.Folder }

// UpdateFolder replaces the folder with the same id.
type UpdateFolder struct{ Folder model.Folder }

// RemoveFolder deletes a folder and detaches its subscriptions.
type RemoveFolder struct{ ID string }

// SetSort stores the list ordering.
type SetSort struct{ Sort model.SortSettings }

// Load replaces the whole collection, keeping the ids it carries.
type Load struct{ Snapshot model.Snapshot }

// Clear deletes every subscription and folder.
type Clear struct{}

func (AddSubscription) commandName() string    { return "add_subscription" }
func (UpdateSubscription) commandName() string { return "update_subscription" }
func (RemoveSubscription) commandName() string { return "remove_subscription" }
func (ToggleArchive) commandName() string      { return "toggle_archive" }
func (AddFolder) commandName() string          { return "add_folder" }
func (UpdateFolder) commandName() string       { return "update_folder" }
func (RemoveFolder) commandName() string       { return "remove_folder" }
func (SetSort) commandName() string            { return "set_sort" }
func (Load) commandName() string               { return "load" }
func (Clear) commandName() string              { return "clear" }

// Event kinds.
const (
	EventSubscriptionAdded   = "subscription_added"
	EventSubscriptionUpdated = "subscription_updated"
	EventSubscriptionRemoved = "subscription_removed"
	EventArchiveToggled      = "archive_toggled"
	EventFolderAdded         = "folder_added"
	EventFolderUpdated       = "folder_updated"
	EventFolderRemoved       = "folder_removed"
	EventSortChanged         = "sort_changed"
	EventLoaded              = "loaded"
	EventCleared             = "cleared"
)

// Event describes an applied command.
type Event struct {
	Kind     string `json:"kind"`
	ID       string `json:"id,omitempty"`
	Archived bool   `json:"archived,omitempty"`
	Detached int    `json:"detached,omitempty"` // subscriptions unfiled by a folder removal
}

// Reduce applies cmd to snap and returns the next snapshot. snap is not
// modified. newID supplies ids for created records.
func Reduce(snap model.Snapshot, cmd Command, newID func() string) (model.Snapshot, Event, error) {
	next := snap.Clone()
	switch c := cmd.(type) {
	case AddSubscription:
		s := c.Subscription.Normalize()
		s.ID = newID()
		if err := checkSubscription(next, s); err != nil {
			return snap, Event{}, err
		}
		next.Subscriptions = append(next.Subscriptions, s)
		return next, Event{Kind: EventSubscriptionAdded, ID: s.ID}, nil

	case UpdateSubscription:
		s := c.Subscription.Normalize()
		i := subscriptionIndex(next, s.ID)
		if i < 0 {
			return snap, Event{}, fmt.Errorf("subscription %s: %w", s.ID, ErrNotFound)
		}
		if err := checkSubscription(next, s); err != nil {
			return snap, Event{}, err
		}
		next.Subscriptions[i] = s
		return next, Event{Kind: EventSubscriptionUpdated, ID: s.ID}, nil

	case RemoveSubscription:
		i := subscriptionIndex(next, c.ID)
		if i < 0 {
			return snap, Event{}, fmt.Errorf("subscription %s: %w", c.ID, ErrNotFound)
		}
		next.Subscriptions = append(next.Subscriptions[:i], next.Subscriptions[i+1:]...)
		return next, Event{Kind: EventSubscriptionRemoved, ID: c.ID}, nil

	case ToggleArchive:
		i := subscriptionIndex(next, c.ID)
		if i < 0 {
			return snap, Event{}, fmt.Errorf("subscription %s: %w", c.ID, ErrNotFound)
		}
		next.Subscriptions[i].Archived = !next.Subscriptions[i].Archived
		return next, Event{Kind: EventArchiveToggled, ID: c.ID, Archived: next.Subscriptions[i].Archived}, nil

	case AddFolder:
		f := c.Folder.Normalize()
		f.ID = newID()
		if err := f.Validate(); err != nil {
			return snap, Event{}, err
		}
		next.Folders = append(next.Folders, f)
		return next, Event{Kind: EventFolderAdded, ID: f.ID}, nil

	case UpdateFolder:
		f := c.Folder.Normalize()
		i := folderIndex(next, f.ID)
		if i < 0 {
			return snap, Event{}, fmt.Errorf("folder %s: %w", f.ID, ErrNotFound)
		}
		if err := f.Validate(); err != nil {
			return snap, Event{}, err
		}
		next.Folders[i] = f
		return next, Event{Kind: EventFolderUpdated, ID: f.ID}, nil

	case RemoveFolder:
		i := folderIndex(next, c.ID)
		if i < 0 {
			return snap, Event{}, fmt.Errorf("folder %s: %w", c.ID, ErrNotFound)
		}
		next.Folders = append(next.Folders[:i], next.Folders[i+1:]...)
		detached := 0
		for j := range next.Subscriptions {
			if next.Subscriptions[j].FolderID == c.ID {
				next.Subscriptions[j].FolderID = ""
				detached++
			}
		}
		return next, Event{Kind: EventFolderRemoved, ID: c.ID, Detached: detached}, nil

	case SetSort:
		if err := c.Sort.Validate(); err != nil {
			return snap, Event{}, err
		}
		sort := c.Sort
		next.Sort = &sort
		return next, Event{Kind: EventSortChanged}, nil

	case Load:
		loaded := c.Snapshot.Clone()
		for i := range loaded.Subscriptions {
			loaded.Subscriptions[i] = loaded.Subscriptions[i].Normalize()
		}
		for i := range loaded.Folders {
			loaded.Folders[i] = loaded.Folders[i].Normalize()
		}
		if err := loaded.Validate(); err != nil {
			return snap, Event{}, err
		}
		if loaded.Sort == nil {
			loaded.Sort = next.Sort
		}
		return loaded, Event{Kind: EventLoaded}, nil

	case Clear:
		next.Subscriptions = nil
		next.Folders = nil
		return next, Event{Kind: EventCleared}, nil
	}
	return snap, Event{}, fmt.Errorf("%T: %w", cmd, ErrUnknownCommand)
}

func checkSubscription(snap model.Snapshot, s model.Subscription) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.FolderID != "" && folderIndex(snap, s.FolderID) < 0 {
		return fmt.Errorf("folder %s: %w", s.FolderID, ErrUnknownFolder)
	}
	return nil
}

func subscriptionIndex(snap model.Snapshot, id string) int {
	for i, s := range snap.Subscriptions {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func folderIndex(snap model.Snapshot, id string) int {
	for i, f := range snap.Folders {
		if f.ID == id {
			return i
		}
	}
	return -1
}
