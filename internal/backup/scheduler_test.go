package backup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medrelease/internal/model"
)

func TestSchedulerCatchUpWhenOverdue(t *testing.T) {
	st := newTestStore(t)
	m := newTestManager(t, st)

	// Daily policy whose last run was 40 hours ago: a backup is overdue.
	stale := time.Now().Add(-40 * time.Hour).Format(time.RFC3339)
	enableAutoBackup(t, st, model.FrequencyDaily, stale, 30)

	s := NewScheduler(m, st)
	s.Restart()
	defer s.Stop()

	infos, err := m.List()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.True(t, infos[0].IsAutomatic)

	require.NoError(t, st.View(func(doc *model.Document) error {
		last, err := time.Parse(time.RFC3339, doc.Settings.AutoBackup.LastBackup)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), last, time.Minute)
		return nil
	}))
}

func TestSchedulerNoCatchUpWhenFresh(t *testing.T) {
	st := newTestStore(t)
	m := newTestManager(t, st)

	recent := time.Now().Add(-2 * time.Hour).Format(time.RFC3339)
	enableAutoBackup(t, st, model.FrequencyDaily, recent, 30)

	s := NewScheduler(m, st)
	s.Restart()
	defer s.Stop()

	infos, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestSchedulerDisabledDoesNothing(t *testing.T) {
	st := newTestStore(t)
	m := newTestManager(t, st)

	s := NewScheduler(m, st)
	s.Restart()
	s.Stop()

	infos, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestSchedulerRestartIsIdempotent(t *testing.T) {
	st := newTestStore(t)
	m := newTestManager(t, st)
	enableAutoBackup(t, st, model.FrequencyWeekly, time.Now().Format(time.RFC3339), 30)

	s := NewScheduler(m, st)
	s.Restart()
	s.Restart()
	s.Stop()
	s.Stop()
}

func TestOverdue(t *testing.T) {
	day := 24 * time.Hour

	assert.True(t, overdue("", day), "unset lastBackup is always overdue")
	assert.True(t, overdue("kemarin", day), "unparseable lastBackup is treated as overdue")
	assert.True(t, overdue(time.Now().Add(-40*time.Hour).Format(time.RFC3339), day))
	assert.False(t, overdue(time.Now().Add(-2*time.Hour).Format(time.RFC3339), day))
	assert.False(t, overdue(time.Now().Add(-40*time.Hour).Format(time.RFC3339), 7*day))
}
