package store

import (
	"time"

	"medrelease/internal/model"
)

// DefaultPassword is assigned to seed users and to migrated users that
// predate the credential field. Plaintext on purpose; see model.User.
const DefaultPassword = "123456"

// defaultSettings is the settings record installed on first run and by the
// migration when an older document has none.
func defaultSettings() *model.Settings {
	return &model.Settings{
		OrgName: "Klinik Sehat Medika",
		Address: "Jl. Kesehatan No. 1",
		Phone:   "-",
		Email:   "-",
	}
}

// seedDocument is the hard-coded first-run document: two live users, empty
// collections, default settings. Seeding on first run is part of the store
// contract.
func seedDocument() *model.Document {
	today := time.Now().Format("2006-01-02")
	return &model.Document{
		Users: map[int]model.User{
			1: {
				ID:       1,
				Name:     "Administrator",
				Email:    "admin@klinik.local",
				Username: "admin",
				Role:     model.RoleSuperAdmin,
				Status:   model.UserStatusActive,
				JoinDate: today,
				Password: DefaultPassword,
			},
			2: {
				ID:       2,
				Name:     "Petugas Rekam Medis",
				Email:    "petugas@klinik.local",
				Username: "petugas",
				Role:     model.RolePetugas,
				Status:   model.UserStatusActive,
				JoinDate: today,
				Password: DefaultPassword,
			},
		},
		Requests:        []model.Request{},
		HandoverNotes:   []model.HandoverNote{},
		Settings:        defaultSettings(),
		Doctors:         []model.ReferenceItem{},
		Insurances:      []model.ReferenceItem{},
		Services:        []model.ReferenceItem{},
		RequestPurposes: []model.ReferenceItem{},
	}
}
