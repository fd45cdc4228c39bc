package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"medrelease/internal/model"
	"medrelease/internal/store"
)

// SchedulerRestarter is the hook the settings service pulls whenever the
// auto-backup policy changes.
type SchedulerRestarter interface {
	Restart()
}

// SettingsService reads and merges the document's singleton settings
// record and its nested auto-backup policy.
type SettingsService interface {
	Get() (*model.Settings, error)
	Update(patch map[string]interface{}) (*model.Settings, error)
	GetAutoBackup() (*model.AutoBackupConfig, error)
	UpdateAutoBackup(patch map[string]interface{}) (*model.AutoBackupConfig, error)
}

type settingsService struct {
	store     *store.Store
	scheduler SchedulerRestarter
}

// NewSettingsService returns a new instance of SettingsService. scheduler
// may be nil when no backup scheduler is running (tests).
func NewSettingsService(st *store.Store, scheduler SchedulerRestarter) SettingsService {
	return &settingsService{store: st, scheduler: scheduler}
}

func (s *settingsService) Get() (*model.Settings, error) {
	var out model.Settings
	err := s.store.View(func(doc *model.Document) error {
		if doc.Settings == nil {
			return errors.New("settings record missing")
		}
		out = *doc.Settings
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Update merges the partial patch onto the current settings. lastBackup is
// owned by the scheduler and can not be patched from outside.
func (s *settingsService) Update(patch map[string]interface{}) (*model.Settings, error) {
	var out model.Settings
	err := s.store.Update(func(doc *model.Document) error {
		if doc.Settings == nil {
			doc.Settings = &model.Settings{}
		}
		merged := model.Settings{}
		if err := mergeJSON(doc.Settings, patch, &merged); err != nil {
			return err
		}
		if doc.Settings.AutoBackup != nil && merged.AutoBackup != nil {
			merged.AutoBackup.LastBackup = doc.Settings.AutoBackup.LastBackup
		}
		*doc.Settings = merged
		out = merged
		return nil
	})
	if err != nil {
		return nil, err
	}
	if _, patchedBackup := patch["autoBackup"]; patchedBackup && s.scheduler != nil {
		s.scheduler.Restart()
	}
	return &out, nil
}

func (s *settingsService) GetAutoBackup() (*model.AutoBackupConfig, error) {
	var out model.AutoBackupConfig
	err := s.store.View(func(doc *model.Document) error {
		if doc.Settings != nil && doc.Settings.AutoBackup != nil {
			out = *doc.Settings.AutoBackup
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAutoBackup merges the partial config and restarts the scheduler:
// every settings change tears the running timer down and rebuilds it.
func (s *settingsService) UpdateAutoBackup(patch map[string]interface{}) (*model.AutoBackupConfig, error) {
	var out model.AutoBackupConfig
	err := s.store.Update(func(doc *model.Document) error {
		if doc.Settings == nil {
			doc.Settings = &model.Settings{}
		}
		current := doc.Settings.AutoBackup
		if current == nil {
			current = &model.AutoBackupConfig{Frequency: model.FrequencyDaily, Retention: 30}
		}
		merged := model.AutoBackupConfig{}
		if err := mergeJSON(current, patch, &merged); err != nil {
			return err
		}
		merged.LastBackup = current.LastBackup
		if merged.Frequency != model.FrequencyDaily && merged.Frequency != model.FrequencyWeekly {
			return fmt.Errorf("frekuensi backup tidak valid: %q", merged.Frequency)
		}
		doc.Settings.AutoBackup = &merged
		out = merged
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.scheduler != nil {
		s.scheduler.Restart()
	}
	return &out, nil
}

// mergeJSON overlays patch onto current through a JSON round-trip so the
// same merge rules apply to every partially-updatable record.
func mergeJSON(current interface{}, patch map[string]interface{}, dst interface{}) error {
	base, err := json.Marshal(current)
	if err != nil {
		return err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(base, &m); err != nil {
		return err
	}
	if m == nil {
		m = map[string]interface{}{}
	}
	for k, v := range patch {
		m[k] = v
	}
	mergedRaw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(mergedRaw, dst)
}
