package branch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacksmith/hris/internal/model"
	"github.com/jacksmith/hris/internal/storage"
)

// memStore is an in-memory Store that can be told to fail writes.
type memStore struct {
	mu       sync.Mutex
	items    map[string]string
	failSet  bool
	failRm   bool
	failRead bool
}

func newMemStore() *memStore {
	return &memStore{items: map[string]string{}}
}

func (m *memStore) GetItem(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRead {
		return "", false, errors.New("read failed")
	}
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *memStore) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet {
		return errors.New("write failed")
	}
	m.items[key] = value
	return nil
}

func (m *memStore) RemoveItem(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRm {
		return errors.New("remove failed")
	}
	delete(m.items, key)
	return nil
}

func (m *memStore) get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok
}

// fakeLister returns a fixed list or error, or panics when told to.
type fakeLister struct {
	branches []model.Branch
	err      error
	panicMsg string
}

func (f *fakeLister) ListBranches(ctx context.Context) ([]model.Branch, error) {
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.branches, nil
}

func ids(ids ...int64) []model.Branch {
	out := make([]model.Branch, len(ids))
	for i, id := range ids {
		out[i] = model.Branch{ID: id, Name: "B" + model.FormatBranchID(id)}
	}
	return out
}

func int64p(v int64) *int64 { return &v }

func TestNew(t *testing.T) {
	c := New(&fakeLister{}, newMemStore())

	assert.Equal(t, StatusLoading, c.Status())
	assert.Empty(t, c.Branches())
	assert.Nil(t, c.SelectedBranchID())
	assert.False(t, c.IsLoading())
	assert.False(t, c.CanProceed())
}

func TestRefreshSingleBranch(t *testing.T) {
	tests := []struct {
		name      string
		persisted string
	}{
		{"nothing persisted", ""},
		{"same id persisted", "1"},
		{"other id persisted", "9"},
		{"garbage persisted", "hq"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			if tt.persisted != "" {
				store.items[SelectionKey] = tt.persisted
			}
			c := New(&fakeLister{branches: []model.Branch{{ID: 1, Name: "HQ"}}}, store)

			status := c.Refresh(context.Background())

			assert.Equal(t, StatusSingle, status)
			assert.True(t, c.IsSingleBranch())
			require.NotNil(t, c.SelectedBranchID())
			assert.Equal(t, int64(1), *c.SelectedBranchID())
			assert.Equal(t, "HQ", c.Selected().Name)
			assert.True(t, c.CanProceed())

			v, ok := store.get(SelectionKey)
			assert.True(t, ok)
			assert.Equal(t, "1", v)
		})
	}
}

func TestRefreshNoBranch(t *testing.T) {
	store := newMemStore()
	store.items[SelectionKey] = "7"
	c := New(&fakeLister{branches: []model.Branch{}}, store)

	status := c.Refresh(context.Background())

	assert.Equal(t, StatusNoBranch, status)
	assert.Nil(t, c.SelectedBranchID())
	assert.False(t, c.CanProceed())
	assert.False(t, c.IsSingleBranch())
	_, ok := store.get(SelectionKey)
	assert.False(t, ok, "persisted selection should be removed")
}

func TestRefreshNilListIsNoBranch(t *testing.T) {
	c := New(&fakeLister{branches: nil}, newMemStore())

	assert.Equal(t, StatusNoBranch, c.Refresh(context.Background()))
	assert.Nil(t, c.SelectedBranchID())
}

func TestRefreshMultiple(t *testing.T) {
	t.Run("nothing persisted selects all", func(t *testing.T) {
		store := newMemStore()
		c := New(&fakeLister{branches: ids(1, 2)}, store)

		assert.Equal(t, StatusMultiple, c.Refresh(context.Background()))
		assert.Nil(t, c.SelectedBranchID())
		assert.Nil(t, c.Selected())
		assert.True(t, c.CanProceed())
		_, ok := store.get(SelectionKey)
		assert.False(t, ok)
	})

	t.Run("valid persisted id is retained", func(t *testing.T) {
		store := newMemStore()
		store.items[SelectionKey] = "2"
		c := New(&fakeLister{branches: ids(1, 2, 3)}, store)

		c.Refresh(context.Background())

		require.NotNil(t, c.SelectedBranchID())
		assert.Equal(t, int64(2), *c.SelectedBranchID())
		v, _ := store.get(SelectionKey)
		assert.Equal(t, "2", v)
	})

	t.Run("stale persisted id is cleared", func(t *testing.T) {
		store := newMemStore()
		store.items[SelectionKey] = "42"
		c := New(&fakeLister{branches: ids(1, 2)}, store)

		c.Refresh(context.Background())

		assert.Equal(t, StatusMultiple, c.Status())
		assert.Nil(t, c.SelectedBranchID())
		_, ok := store.get(SelectionKey)
		assert.False(t, ok)
	})

	t.Run("unparseable persisted value is cleared", func(t *testing.T) {
		store := newMemStore()
		store.items[SelectionKey] = "north"
		c := New(&fakeLister{branches: ids(1, 2)}, store)

		c.Refresh(context.Background())

		assert.Nil(t, c.SelectedBranchID())
		_, ok := store.get(SelectionKey)
		assert.False(t, ok)
	})
}

func TestRefreshErrorPreservesState(t *testing.T) {
	store := newMemStore()
	store.items[SelectionKey] = "2"
	lister := &fakeLister{branches: ids(1, 2)}
	c := New(lister, store)

	require.Equal(t, StatusMultiple, c.Refresh(context.Background()))
	before := c.Snapshot()

	lister.err = errors.New("connection refused")
	status := c.Refresh(context.Background())

	assert.Equal(t, StatusError, status)
	assert.Equal(t, before.Branches, c.Branches())
	assert.Equal(t, before.SelectedID, c.SelectedBranchID())
	assert.False(t, c.CanProceed(), "error status blocks dependent views")
	assert.False(t, c.IsLoading())
	require.Error(t, c.LastError())
	assert.Contains(t, c.LastError().Error(), "connection refused")

	v, _ := store.get(SelectionKey)
	assert.Equal(t, "2", v, "persisted selection survives a failed refresh")
}

func TestRefreshRecoversFromError(t *testing.T) {
	lister := &fakeLister{err: errors.New("boom")}
	c := New(lister, newMemStore())

	require.Equal(t, StatusError, c.Refresh(context.Background()))

	lister.err = nil
	lister.branches = ids(5)
	assert.Equal(t, StatusSingle, c.Refresh(context.Background()))
	assert.NoError(t, c.LastError())
}

func TestRefreshPanicBecomesError(t *testing.T) {
	c := New(&fakeLister{panicMsg: "nil map"}, newMemStore())

	var status Status
	require.NotPanics(t, func() { status = c.Refresh(context.Background()) })
	assert.Equal(t, StatusError, status)
	assert.Contains(t, c.LastError().Error(), "nil map")
	assert.False(t, c.IsLoading())
}

func TestRefreshPersistenceFailure(t *testing.T) {
	t.Run("single branch write fails", func(t *testing.T) {
		store := newMemStore()
		store.failSet = true
		c := New(&fakeLister{branches: ids(1)}, store)

		assert.Equal(t, StatusError, c.Refresh(context.Background()))
		assert.Nil(t, c.SelectedBranchID())
		assert.Empty(t, c.Branches())
	})

	t.Run("unreadable selection is discarded", func(t *testing.T) {
		store := newMemStore()
		store.items[SelectionKey] = "2"
		store.failRead = true
		c := New(&fakeLister{branches: ids(1, 2)}, store)

		assert.Equal(t, StatusMultiple, c.Refresh(context.Background()))
		assert.Nil(t, c.SelectedBranchID())
		assert.Len(t, c.Branches(), 2)
		_, ok := store.get(SelectionKey)
		assert.False(t, ok)
	})

	t.Run("unreadable selection that cannot be cleared", func(t *testing.T) {
		store := newMemStore()
		store.failRead = true
		store.failRm = true
		c := New(&fakeLister{branches: ids(1, 2)}, store)

		assert.Equal(t, StatusError, c.Refresh(context.Background()))
		assert.Empty(t, c.Branches())
	})
}

func TestCorruptStateFileHeals(t *testing.T) {
	tests := []struct {
		name     string
		branches []model.Branch
		want     Status
		selected *int64
		persist  string
	}{
		{"no branches", nil, StatusNoBranch, nil, ""},
		{"single branch", ids(4), StatusSingle, int64p(4), "4"},
		{"multiple branches", ids(4, 5), StatusMultiple, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			s, err := storage.Init(dir)
			require.NoError(t, err)
			statePath := filepath.Join(dir, ".hris", "state.yaml")
			require.NoError(t, os.WriteFile(statePath, []byte("selectedBranchId: [oops"), 0644))

			c := New(&fakeLister{branches: tt.branches}, s)
			assert.Equal(t, tt.want, c.Refresh(context.Background()))
			assert.Equal(t, tt.selected, c.SelectedBranchID())
			assert.Equal(t, len(tt.branches) > 0, c.CanProceed())

			value, ok, err := s.GetItem(SelectionKey)
			require.NoError(t, err, "state file should be rewritten")
			assert.Equal(t, tt.persist != "", ok)
			assert.Equal(t, tt.persist, value)
		})
	}

	t.Run("clear rewrites the file", func(t *testing.T) {
		dir := t.TempDir()
		s, err := storage.Init(dir)
		require.NoError(t, err)
		statePath := filepath.Join(dir, ".hris", "state.yaml")
		require.NoError(t, os.WriteFile(statePath, []byte("selectedBranchId: [oops"), 0644))

		c := New(&fakeLister{branches: ids(1, 2)}, s)
		ok, err := c.ChangeBranch(nil)
		require.NoError(t, err)
		assert.True(t, ok)

		_, present, err := s.GetItem(SelectionKey)
		require.NoError(t, err)
		assert.False(t, present)
	})
}

// blockingLister blocks until released, so loading state can be observed.
type blockingLister struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingLister) ListBranches(ctx context.Context) ([]model.Branch, error) {
	close(b.started)
	<-b.release
	return ids(1, 2), nil
}

func TestRefreshLoadingFlag(t *testing.T) {
	lister := &blockingLister{started: make(chan struct{}), release: make(chan struct{})}
	c := New(lister, newMemStore())

	done := make(chan Status)
	go func() { done <- c.Refresh(context.Background()) }()

	<-lister.started
	assert.True(t, c.IsLoading())
	assert.True(t, c.Snapshot().Loading)

	close(lister.release)
	assert.Equal(t, StatusMultiple, <-done)
	assert.False(t, c.IsLoading())
}

func TestRefreshKeepsStatusWhileLoading(t *testing.T) {
	store := newMemStore()
	c := New(&fakeLister{branches: ids(1)}, store)
	require.Equal(t, StatusSingle, c.Refresh(context.Background()))

	lister := &blockingLister{started: make(chan struct{}), release: make(chan struct{})}
	c.lister = lister

	done := make(chan Status)
	go func() { done <- c.Refresh(context.Background()) }()

	<-lister.started
	assert.Equal(t, StatusSingle, c.Status(), "successful status does not flicker to LOADING")

	close(lister.release)
	assert.Equal(t, StatusMultiple, <-done)
}

func TestRefreshFromErrorShowsLoading(t *testing.T) {
	c := New(&fakeLister{err: errors.New("down")}, newMemStore())
	require.Equal(t, StatusError, c.Refresh(context.Background()))

	lister := &blockingLister{started: make(chan struct{}), release: make(chan struct{})}
	c.lister = lister

	done := make(chan Status)
	go func() { done <- c.Refresh(context.Background()) }()

	<-lister.started
	assert.Equal(t, StatusLoading, c.Status())

	close(lister.release)
	assert.Equal(t, StatusMultiple, <-done)
}

func TestChangeBranch(t *testing.T) {
	setup := func(t *testing.T) (*Context, *memStore) {
		t.Helper()
		store := newMemStore()
		c := New(&fakeLister{branches: ids(1, 2, 3)}, store)
		require.Equal(t, StatusMultiple, c.Refresh(context.Background()))
		return c, store
	}

	t.Run("known id is accepted and persisted", func(t *testing.T) {
		c, store := setup(t)

		ok, err := c.ChangeBranch(int64p(3))
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(3), *c.SelectedBranchID())
		v, _ := store.get(SelectionKey)
		assert.Equal(t, "3", v)
	})

	t.Run("foreign id is ignored", func(t *testing.T) {
		c, store := setup(t)
		_, err := c.ChangeBranch(int64p(2))
		require.NoError(t, err)

		ok, err := c.ChangeBranch(int64p(99))
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, int64(2), *c.SelectedBranchID())
		v, _ := store.get(SelectionKey)
		assert.Equal(t, "2", v)
	})

	t.Run("nil selects all and clears persisted key", func(t *testing.T) {
		c, store := setup(t)
		_, err := c.ChangeBranch(int64p(1))
		require.NoError(t, err)

		ok, err := c.ChangeBranch(nil)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Nil(t, c.SelectedBranchID())
		_, present := store.get(SelectionKey)
		assert.False(t, present)
	})

	t.Run("write failure leaves selection unchanged", func(t *testing.T) {
		c, store := setup(t)
		store.failSet = true

		ok, err := c.ChangeBranch(int64p(1))
		require.Error(t, err)
		assert.False(t, ok)
		assert.Nil(t, c.SelectedBranchID())
	})

	t.Run("nil still clears memory when removal fails", func(t *testing.T) {
		c, store := setup(t)
		_, err := c.ChangeBranch(int64p(2))
		require.NoError(t, err)
		store.failRm = true

		ok, err := c.ChangeBranch(nil)
		require.Error(t, err)
		assert.True(t, ok)
		assert.Nil(t, c.SelectedBranchID())
	})
}

func TestChangeBranchNilInAnyStatus(t *testing.T) {
	tests := []struct {
		name    string
		lister  *fakeLister
		refresh bool
		want    Status
	}{
		{"before refresh", &fakeLister{}, false, StatusLoading},
		{"no branch", &fakeLister{branches: ids()}, true, StatusNoBranch},
		{"single", &fakeLister{branches: ids(4)}, true, StatusSingle},
		{"error", &fakeLister{err: errors.New("down")}, true, StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			c := New(tt.lister, store)
			if tt.refresh {
				c.Refresh(context.Background())
			}
			require.Equal(t, tt.want, c.Status())
			store.items[SelectionKey] = "4"

			ok, err := c.ChangeBranch(nil)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Nil(t, c.SelectedBranchID())
			_, present := store.get(SelectionKey)
			assert.False(t, present)
		})
	}
}

func TestChangeBranchBeforeRefresh(t *testing.T) {
	store := newMemStore()
	c := New(&fakeLister{branches: ids(1, 2)}, store)

	ok, err := c.ChangeBranch(int64p(1))
	require.NoError(t, err)
	assert.False(t, ok, "list is empty until the first refresh")
	_, present := store.get(SelectionKey)
	assert.False(t, present)
}

func TestSnapshotIsACopy(t *testing.T) {
	c := New(&fakeLister{branches: ids(1, 2)}, newMemStore())
	c.Refresh(context.Background())
	_, err := c.ChangeBranch(int64p(1))
	require.NoError(t, err)

	snap := c.Snapshot()
	snap.Branches[0].Name = "mutated"
	*snap.SelectedID = 2

	assert.Equal(t, "B1", c.Branches()[0].Name)
	assert.Equal(t, int64(1), *c.SelectedBranchID())
}

func TestSelectionSurvivesSessions(t *testing.T) {
	dir := t.TempDir()
	_, err := storage.Init(dir)
	require.NoError(t, err)

	lister := &fakeLister{branches: ids(10, 20)}

	s1, err := storage.Open(dir)
	require.NoError(t, err)
	first := New(lister, s1)
	first.Refresh(context.Background())
	ok, err := first.ChangeBranch(int64p(20))
	require.NoError(t, err)
	require.True(t, ok)

	s2, err := storage.Open(dir)
	require.NoError(t, err)
	second := New(lister, s2)
	second.Refresh(context.Background())

	require.NotNil(t, second.SelectedBranchID())
	assert.Equal(t, int64(20), *second.SelectedBranchID())
}

func TestConcurrentRefreshAndChange(t *testing.T) {
	c := New(&fakeLister{branches: ids(1, 2, 3)}, newMemStore())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Refresh(context.Background())
		}()
		go func(id int64) {
			defer wg.Done()
			_, _ = c.ChangeBranch(&id)
		}(int64(i%3 + 1))
	}
	wg.Wait()

	snap := c.Snapshot()
	assert.Equal(t, StatusMultiple, snap.Status)
	assert.False(t, snap.Loading)
	if snap.SelectedID != nil {
		assert.True(t, model.ContainsBranch(snap.Branches, *snap.SelectedID))
	}
}
