package backup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medrelease/internal/model"
	"medrelease/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st := store.New(filepath.Join(t.TempDir(), "document.json"))
	require.NoError(t, st.Load())
	return st
}

func newTestManager(t *testing.T, st *store.Store) *Manager {
	t.Helper()
	m, err := NewManager(t.TempDir(), st, nil)
	require.NoError(t, err)
	return m
}

func enableAutoBackup(t *testing.T, st *store.Store, frequency, lastBackup string, retention int) {
	t.Helper()
	require.NoError(t, st.Update(func(doc *model.Document) error {
		doc.Settings.AutoBackup = &model.AutoBackupConfig{
			Enabled:    true,
			Frequency:  frequency,
			Retention:  retention,
			LastBackup: lastBackup,
		}
		return nil
	}))
}

func writeSnapshotFile(t *testing.T, m *Manager, name string, snap model.Snapshot) {
	t.Helper()
	raw, err := json.MarshalIndent(snap, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(m.Dir(), name), raw, 0o644))
}

func TestCreateManualBackup(t *testing.T) {
	st := newTestStore(t)
	m := newTestManager(t, st)

	info, err := m.Create(false)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(info.Name, "manual-backup-"))
	assert.False(t, info.IsAutomatic)
	assert.NotContains(t, info.Name, ":")
	assert.True(t, strings.HasSuffix(info.Name, ".json"))

	raw, err := os.ReadFile(filepath.Join(m.Dir(), info.Name))
	require.NoError(t, err)
	var snap model.Snapshot
	require.NoError(t, json.Unmarshal(raw, &snap))
	assert.NotNil(t, snap.Data)
	assert.False(t, snap.IsAutomatic)
	assert.NotEmpty(t, snap.Version)

	// Manual backups never stamp lastBackup
	require.NoError(t, st.View(func(doc *model.Document) error {
		assert.Nil(t, doc.Settings.AutoBackup)
		return nil
	}))
}

func TestCreateAutomaticBackupStampsLastBackup(t *testing.T) {
	st := newTestStore(t)
	m := newTestManager(t, st)
	enableAutoBackup(t, st, model.FrequencyDaily, "", 30)

	info, err := m.Create(true)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(info.Name, "auto-backup-"))

	require.NoError(t, st.View(func(doc *model.Document) error {
		last, err := time.Parse(time.RFC3339, doc.Settings.AutoBackup.LastBackup)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), last, time.Minute)
		return nil
	}))
}

func TestListBackups(t *testing.T) {
	st := newTestStore(t)
	m := newTestManager(t, st)

	_, err := m.Create(false)
	require.NoError(t, err)
	_, err = m.Create(true)
	require.NoError(t, err)

	// Unrelated files are ignored
	require.NoError(t, os.WriteFile(filepath.Join(m.Dir(), "notes.txt"), []byte("x"), 0o644))

	infos, err := m.List()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	for _, info := range infos {
		assert.NotEmpty(t, info.CreatedAt)
		assert.Greater(t, info.Size, int64(0))
	}
}

func TestRestoreReplacesDocument(t *testing.T) {
	st := newTestStore(t)
	m := newTestManager(t, st)

	snapDoc := model.Document{
		Users: map[int]model.User{
			1: {ID: 1, Name: "Admin Lama", Role: model.RoleSuperAdmin, Status: model.UserStatusActive, Password: "x"},
		},
		Requests: []model.Request{{
			ID: 1, RegNumber: "ASS/0001/01/2024", Status: model.StatusSelesai,
			CreatedAt: "2024-01-05T09:00:00Z",
			History:   []model.HistoryEntry{{Date: "2024-01-05", Status: model.StatusSelesai}},
		}},
		Settings: &model.Settings{OrgName: "Klinik Lama"},
	}
	writeSnapshotFile(t, m, "manual-backup-old.json", model.Snapshot{
		Version: "1.0.0", CreatedAt: "2024-01-06T00:00:00Z", Data: &snapDoc,
	})

	require.NoError(t, m.Restore("manual-backup-old.json"))

	require.NoError(t, st.View(func(doc *model.Document) error {
		assert.Equal(t, "Klinik Lama", doc.Settings.OrgName)
		require.Len(t, doc.Requests, 1)
		assert.Equal(t, "ASS/0001/01/2024", doc.Requests[0].RegNumber)
		return nil
	}))
}

func TestRestoreReinsertsSuperAdmin(t *testing.T) {
	st := newTestStore(t)
	m := newTestManager(t, st)

	// Snapshot predating the admin account: only a Petugas user
	snapDoc := model.Document{
		Users: map[int]model.User{
			1: {ID: 1, Name: "Siti", Role: model.RolePetugas, Status: model.UserStatusActive, Password: "x"},
		},
		Settings: &model.Settings{OrgName: "Klinik Lama"},
	}
	writeSnapshotFile(t, m, "manual-backup-noadmin.json", model.Snapshot{
		Version: "1.0.0", CreatedAt: "2024-01-06T00:00:00Z", Data: &snapDoc,
	})

	require.NoError(t, m.Restore("manual-backup-noadmin.json"))

	require.NoError(t, st.View(func(doc *model.Document) error {
		admins := 0
		for _, u := range doc.Users {
			if u.Role == model.RoleSuperAdmin {
				admins++
			}
		}
		assert.Equal(t, 1, admins, "restore must never leave the system without a Super Admin")
		// The snapshot's own user survives alongside
		assert.Len(t, doc.Users, 2)
		return nil
	}))
}

func TestRestoreInvalidFormat(t *testing.T) {
	st := newTestStore(t)
	m := newTestManager(t, st)

	require.NoError(t, os.WriteFile(filepath.Join(m.Dir(), "manual-backup-bad.json"), []byte("{broken"), 0o644))
	assert.ErrorIs(t, m.Restore("manual-backup-bad.json"), ErrInvalidBackupFormat)

	// Parseable but missing the data payload
	writeSnapshotFile(t, m, "manual-backup-empty.json", model.Snapshot{Version: "1.0.0", CreatedAt: "2024-01-06T00:00:00Z"})
	assert.ErrorIs(t, m.Restore("manual-backup-empty.json"), ErrInvalidBackupFormat)

	// A failed restore leaves the in-memory document untouched
	require.NoError(t, st.View(func(doc *model.Document) error {
		assert.NotEmpty(t, doc.Users)
		return nil
	}))
}

func TestRestoreMissingFile(t *testing.T) {
	m := newTestManager(t, newTestStore(t))
	assert.ErrorIs(t, m.Restore("manual-backup-ghost.json"), store.ErrNotFound)
}

func TestDeleteBackup(t *testing.T) {
	m := newTestManager(t, newTestStore(t))

	info, err := m.Create(false)
	require.NoError(t, err)

	require.NoError(t, m.Delete(info.Name))
	_, statErr := os.Stat(filepath.Join(m.Dir(), info.Name))
	assert.True(t, os.IsNotExist(statErr))

	assert.ErrorIs(t, m.Delete(info.Name), store.ErrNotFound)
}

func TestCleanupRetention(t *testing.T) {
	st := newTestStore(t)
	m := newTestManager(t, st)

	oldTime := time.Now().AddDate(0, 0, -10)

	oldAuto := filepath.Join(m.Dir(), "auto-backup-2024-01-01T00-00-00-000Z.json")
	require.NoError(t, os.WriteFile(oldAuto, []byte("{}"), 0o644))
	require.NoError(t, os.Chtimes(oldAuto, oldTime, oldTime))

	oldManual := filepath.Join(m.Dir(), "manual-backup-2024-01-01T00-00-00-000Z.json")
	require.NoError(t, os.WriteFile(oldManual, []byte("{}"), 0o644))
	require.NoError(t, os.Chtimes(oldManual, oldTime, oldTime))

	freshAuto := filepath.Join(m.Dir(), "auto-backup-2024-06-01T00-00-00-000Z.json")
	require.NoError(t, os.WriteFile(freshAuto, []byte("{}"), 0o644))

	m.Cleanup(7)

	_, err := os.Stat(oldAuto)
	assert.True(t, os.IsNotExist(err), "expired automatic snapshot must be deleted")

	_, err = os.Stat(oldManual)
	assert.NoError(t, err, "manual snapshots are exempt from retention")

	_, err = os.Stat(freshAuto)
	assert.NoError(t, err, "fresh automatic snapshots are kept")
}
