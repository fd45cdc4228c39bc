package store

import (
	"strings"
	"time"

	"medrelease/internal/model"
)

// Markers written into history entries synthesized by the migration.
const (
	migrationNote     = "Riwayat dibuat otomatis saat migrasi data"
	migrationFallback = "Sistem"
)

// migrate brings an older document shape up to the current one. Every step
// is idempotent: running it against an already-current document changes
// nothing and returns false, so Load never persists spuriously.
func migrate(doc *model.Document) bool {
	changed := false

	if doc.Settings == nil {
		doc.Settings = defaultSettings()
		changed = true
	}

	if doc.Requests == nil {
		doc.Requests = []model.Request{}
		changed = true
	} else {
		for i := range doc.Requests {
			if len(doc.Requests[i].History) == 0 {
				doc.Requests[i].History = []model.HistoryEntry{synthesizeHistory(&doc.Requests[i])}
				changed = true
			}
		}
	}

	for id, u := range doc.Users {
		dirty := false
		if u.Password == "" {
			u.Password = DefaultPassword
			dirty = true
		}
		if u.Username == "" && u.Email != "" {
			u.Username = u.Email
			if at := strings.Index(u.Email, "@"); at >= 0 {
				u.Username = u.Email[:at]
			}
			dirty = true
		}
		if dirty {
			doc.Users[id] = u
			changed = true
		}
	}

	return changed
}

// synthesizeHistory builds the single backfilled history entry for a
// request created before the history log existed. The entry mirrors the
// request's current status so the status projection invariant holds.
func synthesizeHistory(r *model.Request) model.HistoryEntry {
	now := time.Now()

	date := r.ExtraString("date")
	if date == "" {
		if t, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
			date = t.Format("2006-01-02")
		} else {
			date = now.Format("2006-01-02")
		}
	}

	user := r.ExtraString("receiver")
	if user == "" {
		user = migrationFallback
	}

	timestamp := r.CreatedAt
	if timestamp == "" {
		timestamp = now.Format(time.RFC3339)
	}

	return model.HistoryEntry{
		Date:      date,
		Status:    r.Status,
		Note:      migrationNote,
		User:      user,
		Timestamp: timestamp,
	}
}
