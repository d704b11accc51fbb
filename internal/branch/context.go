// Package branch keeps track of which branch the operator is working in.
//
// A Context reconciles three inputs into one consistent state: the live
// branch list from the API, the selection persisted by the previous session,
// and the number of branches available. Views read the state and pass
// SelectedBranchID to their own API calls as a filter.
package branch

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/jacksmith/hris/internal/logging"
	"github.com/jacksmith/hris/internal/model"
)

// SelectionKey is the persisted key holding the selected branch id.
const SelectionKey = "selectedBranchId"

// Status summarizes the branch list and the outcome of the last refresh.
type Status string

const (
	StatusLoading  Status = "LOADING"
	StatusNoBranch Status = "NO_BRANCH"
	StatusSingle   Status = "SINGLE"
	StatusMultiple Status = "MULTIPLE"
	StatusError    Status = "ERROR"
)

// Lister fetches the tenant's branches. *api.Client satisfies it.
type Lister interface {
	ListBranches(ctx context.Context) ([]model.Branch, error)
}

// Store persists string values across sessions. *storage.Storage satisfies it.
type Store interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// Snapshot is a consistent copy of the context state.
type Snapshot struct {
	Status     Status
	Branches   []model.Branch
	SelectedID *int64
	Loading    bool
	Err        error
}

// CanProceed reports whether branch-scoped views have something to show.
func (s Snapshot) CanProceed() bool {
	return len(s.Branches) > 0 && s.Status != StatusError
}

// Selected returns the selected branch, or nil for all branches.
func (s Snapshot) Selected() *model.Branch {
	if s.SelectedID == nil {
		return nil
	}
	return model.FindBranch(s.Branches, *s.SelectedID)
}

// Context is the single source of truth for the active branch.
// It is safe for concurrent use.
type Context struct {
	lister Lister
	store  Store
	log    *logrus.Entry

	mu       sync.Mutex
	status   Status
	branches []model.Branch
	selected *int64
	inflight int
	lastErr  error
}

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the logger for refresh and selection events.
func WithLogger(entry *logrus.Entry) Option {
	return func(c *Context) { c.log = entry }
}

// New returns a Context in LOADING status with no branches.
// Call Refresh to populate it.
func New(lister Lister, store Store, opts ...Option) *Context {
	c := &Context{
		lister: lister,
		store:  store,
		log:    logging.Nop(),
		status: StatusLoading,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh fetches the branch list and reconciles the selection against it.
//
// Failures never escape: they move the context to ERROR and leave the
// previous branch list and selection in place. The resulting status is
// returned for convenience. Overlapping calls are not serialized; the one
// whose response is applied last determines the final state.
func (c *Context) Refresh(ctx context.Context) Status {
	c.mu.Lock()
	if c.status == StatusError {
		c.status = StatusLoading
	}
	c.inflight++
	c.mu.Unlock()

	branches, err := c.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() { c.inflight-- }()

	if err == nil {
		err = c.apply(branches)
	}
	if err != nil {
		c.status = StatusError
		c.lastErr = err
		c.log.WithError(err).Warn("branch refresh failed")
		return c.status
	}

	c.lastErr = nil
	c.log.WithFields(logrus.Fields{
		"status":   c.status,
		"branches": len(c.branches),
		"selected": formatSelection(c.selected),
	}).Debug("branches refreshed")
	return c.status
}

// fetch calls the lister, converting a panic into an error.
func (c *Context) fetch(ctx context.Context) (branches []model.Branch, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("list branches: panic: %v", r)
		}
	}()

	branches, err = c.lister.ListBranches(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list branches")
	}
	return branches, nil
}

// apply reconciles a freshly fetched list with the persisted selection.
// State is only committed once persistence has succeeded. Callers hold c.mu.
func (c *Context) apply(branches []model.Branch) error {
	var (
		status   Status
		selected *int64
	)

	switch len(branches) {
	case 0:
		status = StatusNoBranch
		if err := c.store.RemoveItem(SelectionKey); err != nil {
			return errors.Wrap(err, "clear branch selection")
		}

	case 1:
		status = StatusSingle
		id := branches[0].ID
		selected = &id
		if err := c.store.SetItem(SelectionKey, model.FormatBranchID(id)); err != nil {
			return errors.Wrap(err, "persist branch selection")
		}

	default:
		status = StatusMultiple
		raw, ok, err := c.store.GetItem(SelectionKey)
		if err != nil {
			// An unreadable selection is treated like a stale one.
			c.log.WithError(err).Warn("discarding unreadable branch selection")
			if err := c.store.RemoveItem(SelectionKey); err != nil {
				return errors.Wrap(err, "clear branch selection")
			}
		} else if ok {
			id, perr := model.ParseBranchID(raw)
			if perr == nil && model.ContainsBranch(branches, id) {
				selected = &id
			} else {
				c.log.WithField("persisted", raw).Debug("discarding stale branch selection")
				if err := c.store.RemoveItem(SelectionKey); err != nil {
					return errors.Wrap(err, "clear branch selection")
				}
			}
		}
	}

	c.status = status
	c.branches = append([]model.Branch(nil), branches...)
	c.selected = selected
	return nil
}

// ChangeBranch selects a branch, or all branches when id is nil.
//
// A nil id is always accepted and clears the persisted selection. A non-nil
// id is accepted only if it names a branch in the current list; otherwise
// nothing changes and accepted is false. err reports a persistence failure.
func (c *Context) ChangeBranch(id *int64) (accepted bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id == nil {
		c.selected = nil
		if err := c.store.RemoveItem(SelectionKey); err != nil {
			return true, errors.Wrap(err, "clear branch selection")
		}
		c.log.Debug("selected all branches")
		return true, nil
	}

	if !model.ContainsBranch(c.branches, *id) {
		c.log.WithField("branch_id", *id).Debug("ignoring selection of unknown branch")
		return false, nil
	}

	if err := c.store.SetItem(SelectionKey, model.FormatBranchID(*id)); err != nil {
		return false, errors.Wrap(err, "persist branch selection")
	}
	v := *id
	c.selected = &v
	c.log.WithField("branch_id", v).Debug("selected branch")
	return true, nil
}

// Snapshot returns a copy of the current state.
func (c *Context) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Status:     c.status,
		Branches:   append([]model.Branch(nil), c.branches...),
		SelectedID: copyID(c.selected),
		Loading:    c.inflight > 0,
		Err:        c.lastErr,
	}
}

// Status returns the current status.
func (c *Context) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Branches returns a copy of the current branch list.
func (c *Context) Branches() []model.Branch {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Branch(nil), c.branches...)
}

// SelectedBranchID returns the selected id, or nil for all branches.
func (c *Context) SelectedBranchID() *int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyID(c.selected)
}

// Selected returns the selected branch, or nil for all branches.
func (c *Context) Selected() *model.Branch {
	return c.Snapshot().Selected()
}

// IsLoading reports whether a refresh is in flight.
func (c *Context) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight > 0
}

// CanProceed reports whether the branch list is non-empty and the last
// refresh succeeded.
func (c *Context) CanProceed() bool {
	return c.Snapshot().CanProceed()
}

// IsSingleBranch reports whether exactly one branch exists.
func (c *Context) IsSingleBranch() bool {
	return c.Status() == StatusSingle
}

// LastError returns the error from the last failed refresh, or nil once a
// refresh succeeds.
func (c *Context) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func formatSelection(id *int64) string {
	if id == nil {
		return "all"
	}
	return model.FormatBranchID(*id)
}
