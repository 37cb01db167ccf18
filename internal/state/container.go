package state

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/theirongolddev/subtrack/internal/model"
)

// Persister stores a full snapshot after every applied command.
type Persister interface {
	Save(model.Snapshot) error
}

// Option configures a Container.
type Option func(*Container)

// WithPersister saves every new snapshot through p before it becomes visible.
func WithPersister(p Persister) Option {
	return func(c *Container) { c.persist = p }
}

// WithIDGenerator overrides uuid-based ids.
func WithIDGenerator(fn func() string) Option {
	return func(c *Container) { c.newID = fn }
}

// Container holds the canonical collection.
type Container struct {
	mu      sync.RWMutex
	snap    model.Snapshot
	persist Persister
	newID   func() string

	nextSubID int
	subs      map[int]chan Event
}

// New returns a container seeded with initial. The seed is not validated;
// use Dispatch(Load{...}) for untrusted input.
func New(initial model.Snapshot, opts ...Option) *Container {
	c := &Container{
		snap:  initial.Clone(),
		newID: uuid.NewString,
		subs:  make(map[int]chan Event),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dispatch applies cmd. On error the collection is unchanged.
func (c *Container) Dispatch(cmd Command) (Event, error) {
	c.mu.Lock()
	next, ev, err := Reduce(c.snap, cmd, c.newID)
	if err != nil {
		c.mu.Unlock()
		return Event{}, err
	}
	if c.persist != nil {
		if err := c.persist.Save(next); err != nil {
			c.mu.Unlock()
			return Event{}, fmt.Errorf("%s: saving snapshot: %w", cmd.commandName(), err)
		}
	}
	c.snap = next
	c.mu.Unlock()

	c.publish(ev)
	return ev, nil
}

// Snapshot returns a copy of the current collection.
func (c *Container) Snapshot() model.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.Clone()
}

// Subscriptions lists every subscription, archived included.
func (c *Container) Subscriptions() []model.Subscription {
	return c.Snapshot().Subscriptions
}

// Folders lists every folder.
func (c *Container) Folders() []model.Folder {
	return c.Snapshot().Folders
}

// Sort returns the stored ordering, or the default when none is stored.
func (c *Container) Sort() model.SortSettings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap.Sort == nil {
		return model.DefaultSort()
	}
	return *c.snap.Sort
}

// Subscription looks up one subscription by id or unique id prefix.
func (c *Container) Subscription(id string) (model.Subscription, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, err := lookup(len(c.snap.Subscriptions), func(i int) string { return c.snap.Subscriptions[i].ID }, id)
	if err != nil {
		return model.Subscription{}, fmt.Errorf("subscription %s: %w", id, err)
	}
	return c.snap.Subscriptions[i], nil
}

// Folder looks up one folder by id or unique id prefix.
func (c *Container) Folder(id string) (model.Folder, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, err := lookup(len(c.snap.Folders), func(i int) string { return c.snap.Folders[i].ID }, id)
	if err != nil {
		return model.Folder{}, fmt.Errorf("folder %s: %w", id, err)
	}
	return c.snap.Folders[i], nil
}

// lookup matches an exact id first, then a unique prefix of at least four
// characters so the CLI can accept shortened uuids.
func lookup(n int, idAt func(int) string, id string) (int, error) {
	match := -1
	for i := 0; i < n; i++ {
		if idAt(i) == id {
			return i, nil
		}
	}
	if len(id) < 4 {
		return -1, ErrNotFound
	}
	for i := 0; i < n; i++ {
		if len(idAt(i)) >= len(id) && idAt(i)[:len(id)] == id {
			if match >= 0 {
				return -1, ErrAmbiguousID
			}
			match = i
		}
	}
	if match < 0 {
		return -1, ErrNotFound
	}
	return match, nil
}

// Subscribe returns a channel of applied events and a cancel func. Slow
// receivers miss events rather than block Dispatch.
func (c *Container) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)
	c.mu.Lock()
	c.nextSubID++
	id := c.nextSubID
	c.subs[id] = ch
	c.mu.Unlock()

	return ch, func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Container) publish(ev Event) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, ch := range c.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
