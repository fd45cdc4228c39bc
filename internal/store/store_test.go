package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medrelease/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "document.json"))
}

func TestLoadSeedsOnFirstRun(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Load())

	// Seed must be persisted, not just in memory
	_, err := os.Stat(st.Path())
	require.NoError(t, err)

	err = st.View(func(doc *model.Document) error {
		assert.NotEmpty(t, doc.Users)
		assert.Empty(t, doc.Requests)
		assert.NotNil(t, doc.Settings)

		hasSuperAdmin := false
		for _, u := range doc.Users {
			if u.Role == model.RoleSuperAdmin && u.Status == model.UserStatusActive {
				hasSuperAdmin = true
			}
		}
		assert.True(t, hasSuperAdmin, "seed must contain a live Super Admin")
		return nil
	})
	require.NoError(t, err)
}

func TestLoadFailsOnCorruptBlob(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, os.WriteFile(st.Path(), []byte("{not json"), 0o644))

	err := st.Load()
	assert.ErrorIs(t, err, ErrCorruptStore)
}

func TestUpdatePersistsAndReadRefreshes(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Load())

	err := st.Update(func(doc *model.Document) error {
		doc.Settings.OrgName = "RS Harapan"
		return nil
	})
	require.NoError(t, err)

	// A second store over the same file sees the write
	other := New(st.Path())
	require.NoError(t, other.Load())
	require.NoError(t, other.View(func(doc *model.Document) error {
		assert.Equal(t, "RS Harapan", doc.Settings.OrgName)
		return nil
	}))

	// Mutate through the second handle, refresh the first via Read
	require.NoError(t, other.Update(func(doc *model.Document) error {
		doc.Settings.OrgName = "RS Sejahtera"
		return nil
	}))
	require.NoError(t, st.Read())
	require.NoError(t, st.View(func(doc *model.Document) error {
		assert.Equal(t, "RS Sejahtera", doc.Settings.OrgName)
		return nil
	}))
}

func TestViewBeforeLoad(t *testing.T) {
	st := newTestStore(t)

	err := st.View(func(doc *model.Document) error { return nil })
	assert.ErrorIs(t, err, ErrNotLoaded)

	err = st.Update(func(doc *model.Document) error { return nil })
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestUpdateErrorSkipsPersist(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Load())

	before, err := os.ReadFile(st.Path())
	require.NoError(t, err)

	require.Error(t, st.Update(func(doc *model.Document) error {
		return assert.AnError
	}))

	after, err := os.ReadFile(st.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
