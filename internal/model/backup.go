package model

// Snapshot is the payload of one backup file: a full copy of the document
// at capture time plus capture metadata.
type Snapshot struct {
	Version     string    `json:"version"`
	CreatedAt   string    `json:"createdAt"`
	IsAutomatic bool      `json:"isAutomatic"`
	Data        *Document `json:"data"`
}
