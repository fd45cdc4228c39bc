package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"medrelease/internal/model"
	"medrelease/internal/store"
	ws "medrelease/internal/websocket"
)

// snapshotVersion is stamped into every backup payload.
const snapshotVersion = "1.0.0"

// defaultRetentionDays bounds automatic snapshots when the policy has no
// usable retention value.
const defaultRetentionDays = 30

// ErrInvalidBackupFormat signals a backup file whose payload is not a
// parseable snapshot or lacks the data section.
var ErrInvalidBackupFormat = errors.New("invalid backup format")

// Info is the file-level metadata returned by listing and creation.
type Info struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	CreatedAt   string `json:"createdAt"`
	ModifiedAt  string `json:"modifiedAt"`
	IsAutomatic bool   `json:"isAutomatic"`
}

// Manager owns the backup directory: it captures snapshots of the
// document, restores from them, lists and deletes them, and enforces the
// retention window on automatic snapshots.
type Manager struct {
	dir   string
	store *store.Store
	hub   *ws.Hub
}

// NewManager binds a manager to its directory, creating it if needed.
// hub may be nil.
func NewManager(dir string, st *store.Store, hub *ws.Hub) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}
	return &Manager{dir: dir, store: st, hub: hub}, nil
}

// Dir returns the backup directory path.
func (m *Manager) Dir() string {
	return m.dir
}

// snapshotName builds the filesystem-safe file name: kind marker plus a
// millisecond ISO-8601 timestamp with colons and dots replaced by hyphens.
func snapshotName(now time.Time, isAutomatic bool) string {
	kind := "manual"
	if isAutomatic {
		kind = "auto"
	}
	ts := now.Format("2006-01-02T15:04:05.000Z07:00")
	ts = strings.ReplaceAll(ts, ":", "-")
	ts = strings.ReplaceAll(ts, ".", "-")
	return kind + "-backup-" + ts + ".json"
}

// Create captures a full snapshot of the document to a new file. Automatic
// snapshots additionally stamp settings.autoBackup.lastBackup and trigger
// retention cleanup; manual ones share the format and directory but are
// exempt from both.
func (m *Manager) Create(isAutomatic bool) (*Info, error) {
	now := time.Now()
	name := snapshotName(now, isAutomatic)
	path := filepath.Join(m.dir, name)

	var payload []byte
	err := m.store.View(func(doc *model.Document) error {
		snap := model.Snapshot{
			Version:     snapshotVersion,
			CreatedAt:   now.Format(time.RFC3339),
			IsAutomatic: isAutomatic,
			Data:        doc,
		}
		var err error
		payload, err = json.MarshalIndent(snap, "", "  ")
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot document: %w", err)
	}

	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return nil, fmt.Errorf("write backup file: %w", err)
	}

	retention := defaultRetentionDays
	if isAutomatic {
		err := m.store.Update(func(doc *model.Document) error {
			if doc.Settings == nil || doc.Settings.AutoBackup == nil {
				return nil
			}
			doc.Settings.AutoBackup.LastBackup = now.Format(time.RFC3339)
			if doc.Settings.AutoBackup.Retention > 0 {
				retention = doc.Settings.AutoBackup.Retention
			}
			return nil
		})
		if err != nil {
			log.Printf("backup: update lastBackup failed: %v", err)
		}
		m.Cleanup(retention)
	}

	info := Info{
		Name:        name,
		Size:        int64(len(payload)),
		CreatedAt:   now.Format(time.RFC3339),
		ModifiedAt:  now.Format(time.RFC3339),
		IsAutomatic: isAutomatic,
	}
	m.hub.BroadcastEvent("backup:completed", info)
	return &info, nil
}

// List returns the snapshots in the backup directory, newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	out := []Info{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		auto := strings.HasPrefix(name, "auto-backup-")
		if !auto && !strings.HasPrefix(name, "manual-backup-") {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		info := Info{
			Name:        name,
			Size:        fi.Size(),
			ModifiedAt:  fi.ModTime().Format(time.RFC3339),
			IsAutomatic: auto,
		}
		// createdAt from the payload when readable; the file's mtime stands in otherwise.
		var meta struct {
			CreatedAt string `json:"createdAt"`
		}
		if raw, err := os.ReadFile(filepath.Join(m.dir, name)); err == nil {
			if json.Unmarshal(raw, &meta) == nil && meta.CreatedAt != "" {
				info.CreatedAt = meta.CreatedAt
			}
		}
		if info.CreatedAt == "" {
			info.CreatedAt = info.ModifiedAt
		}
		out = append(out, info)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ModifiedAt > out[j].ModifiedAt
	})
	return out, nil
}

// Restore replaces the whole document with a snapshot's data. Before the
// replace it captures the current Super Admin (lowest user id with the
// role) and re-inserts it when the snapshot carries none, so a restore can
// never leave the system without an administrator. Parse failures happen
// before the in-memory document is touched; a persist failure after the
// replace leaves memory and disk inconsistent, matching the source.
func (m *Manager) Restore(name string) error {
	path := filepath.Join(m.dir, filepath.Base(name))
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read backup file: %w", err)
	}

	var snap model.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackupFormat, err)
	}
	if snap.Data == nil {
		return fmt.Errorf("%w: missing data payload", ErrInvalidBackupFormat)
	}

	err = m.store.Update(func(doc *model.Document) error {
		var captured *model.User
		for _, id := range sortedIDs(doc.Users) {
			if doc.Users[id].Role == model.RoleSuperAdmin {
				u := doc.Users[id]
				captured = &u
				break
			}
		}

		*doc = *snap.Data

		for _, id := range sortedIDs(doc.Users) {
			if doc.Users[id].Role == model.RoleSuperAdmin {
				return nil
			}
		}
		if captured == nil {
			return nil
		}
		if doc.Users == nil {
			doc.Users = make(map[int]model.User)
		}
		if _, taken := doc.Users[captured.ID]; taken {
			maxID := 0
			for id := range doc.Users {
				if id > maxID {
					maxID = id
				}
			}
			captured.ID = maxID + 1
		}
		doc.Users[captured.ID] = *captured
		log.Printf("backup: restored snapshot had no Super Admin, re-inserted %q", captured.Username)
		return nil
	})
	if err != nil {
		return err
	}

	m.hub.BroadcastEvent("backup:restored", map[string]string{"name": filepath.Base(name)})
	return nil
}

// Delete removes a backup file; the document is untouched.
func (m *Manager) Delete(name string) error {
	path := filepath.Join(m.dir, filepath.Base(name))
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return store.ErrNotFound
	}
	return err
}

// Cleanup deletes automatic snapshots whose modification time is older
// than the retention window. Manual snapshots are never touched. Errors
// are logged and swallowed: cleanup must never take the caller down.
func (m *Manager) Cleanup(retentionDays int) {
	if retentionDays <= 0 {
		retentionDays = defaultRetentionDays
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		log.Printf("backup: cleanup read dir failed: %v", err)
		return
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "auto-backup-") {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		if fi.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(m.dir, name)); err != nil {
			log.Printf("backup: cleanup remove %s failed: %v", name, err)
			continue
		}
		log.Printf("backup: removed expired automatic snapshot %s", name)
	}
}

func sortedIDs(users map[int]model.User) []int {
	ids := make([]int, 0, len(users))
	for id := range users {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
