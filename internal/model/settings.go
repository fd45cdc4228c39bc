package model

// Backup frequencies accepted by the scheduler.
const (
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"
)

// AutoBackupConfig drives the backup scheduler.
type AutoBackupConfig struct {
	Enabled    bool   `json:"enabled"`
	Frequency  string `json:"frequency"`           // daily | weekly
	Time       string `json:"time,omitempty"`      // preferred time of day, informational
	Retention  int    `json:"retention"`           // days an automatic snapshot is kept
	LastBackup string `json:"lastBackup,omitempty"` // RFC3339
}

// Settings is the singleton configuration record of the document.
type Settings struct {
	OrgName    string            `json:"orgName"`
	Address    string            `json:"address"`
	Phone      string            `json:"phone"`
	Email      string            `json:"email"`
	AutoBackup *AutoBackupConfig `json:"autoBackup,omitempty"`
}
