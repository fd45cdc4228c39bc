package service

import (
	"fmt"
	"path/filepath"
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

func TestCreateRequestSeedsEverything(t *testing.T) {
	svc := NewRequestService(newTestStore(t), nil)

	created, err := svc.Create("Budi", map[string]interface{}{
		"requester": "Andi Wijaya",
		"purpose":   "Klaim asuransi",
		"date":      "2024-03-15",
		"status":    model.StatusPending,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, created.ID)
	now := time.Now()
	assert.Equal(t, fmt.Sprintf("ASS/0001/%s/%s", now.Format("01"), now.Format("2006")), created.RegNumber)
	assert.NotEmpty(t, created.CreatedAt)
	assert.Equal(t, "Andi Wijaya", created.Extra["requester"])

	require.Len(t, created.History, 1)
	assert.Equal(t, "2024-03-15", created.History[0].Date)
	assert.Equal(t, model.StatusPending, created.History[0].Status)
	assert.Equal(t, "Budi", created.History[0].User)
	assert.Equal(t, created.Status, created.History[0].Status)
}

func TestCreateRequestDefaultsStatus(t *testing.T) {
	svc := NewRequestService(newTestStore(t), nil)

	created, err := svc.Create("", map[string]interface{}{"requester": "Andi"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, created.Status)
	assert.Equal(t, "Sistem", created.History[0].User)
}

func TestCreateRequestSequencesIDs(t *testing.T) {
	svc := NewRequestService(newTestStore(t), nil)

	first, err := svc.Create("Budi", map[string]interface{}{})
	require.NoError(t, err)
	second, err := svc.Create("Budi", map[string]interface{}{})
	require.NoError(t, err)

	assert.Equal(t, first.ID+1, second.ID)
	assert.NotEqual(t, first.RegNumber, second.RegNumber)
}

func TestAppendHistoryProjectsStatus(t *testing.T) {
	svc := NewRequestService(newTestStore(t), nil)

	created, err := svc.Create("Budi", map[string]interface{}{"status": model.StatusPending})
	require.NoError(t, err)

	updated, err := svc.AppendHistory(created.ID, model.HistoryEntry{
		Status: model.StatusProses,
		Note:   "Sedang diproses",
		User:   "Siti",
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusProses, updated.Status)
	require.Len(t, updated.History, 2)
	assert.Equal(t, updated.Status, updated.History[len(updated.History)-1].Status)
	assert.NotEmpty(t, updated.History[1].Date)
	assert.NotEmpty(t, updated.History[1].Timestamp)

	// Original entry untouched
	assert.Equal(t, model.StatusPending, updated.History[0].Status)
}

func TestAppendHistoryNotFound(t *testing.T) {
	svc := NewRequestService(newTestStore(t), nil)

	_, err := svc.AppendHistory(42, model.HistoryEntry{Status: model.StatusProses})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPatchRequestProtectsSystemFields(t *testing.T) {
	svc := NewRequestService(newTestStore(t), nil)

	created, err := svc.Create("Budi", map[string]interface{}{"requester": "Andi", "status": model.StatusPending})
	require.NoError(t, err)

	patched, err := svc.Patch(created.ID, map[string]interface{}{
		"requester": "Andi Wijaya",
		"doctor":    "dr. Ratna",
		"id":        999,
		"regNumber": "ASS/9999/01/1999",
		"status":    model.StatusSelesai,
		"createdAt": "1999-01-01T00:00:00Z",
		"history":   []string{"bogus"},
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, patched.ID)
	assert.Equal(t, created.RegNumber, patched.RegNumber)
	assert.Equal(t, created.CreatedAt, patched.CreatedAt)
	assert.Equal(t, model.StatusPending, patched.Status)
	require.Len(t, patched.History, 1)

	assert.Equal(t, "Andi Wijaya", patched.Extra["requester"])
	assert.Equal(t, "dr. Ratna", patched.Extra["doctor"])
	assert.NotContains(t, patched.Extra, "status")
	assert.NotContains(t, patched.Extra, "history")
}

func TestDeleteRequestRemovesWholeRecord(t *testing.T) {
	st := newTestStore(t)
	svc := NewRequestService(st, nil)

	created, err := svc.Create("Budi", map[string]interface{}{})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(created.ID))

	list, err := svc.List()
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, svc.Delete(created.ID), store.ErrNotFound)
}

func TestGetRequest(t *testing.T) {
	svc := NewRequestService(newTestStore(t), nil)

	created, err := svc.Create("Budi", map[string]interface{}{})
	require.NoError(t, err)

	got, err := svc.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.RegNumber, got.RegNumber)

	_, err = svc.Get(404)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
