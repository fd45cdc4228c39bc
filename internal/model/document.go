package model

// Document is the single root object the whole application state lives in.
// It is persisted as one JSON blob and replaced wholesale on every write.
type Document struct {
	Users           map[int]User    `json:"users"`
	Requests        []Request       `json:"requests"`
	HandoverNotes   []HandoverNote  `json:"handoverNotes"`
	Settings        *Settings       `json:"settings"`
	Doctors         []ReferenceItem `json:"doctors"`
	Insurances      []ReferenceItem `json:"insurances"`
	Services        []ReferenceItem `json:"services"`
	RequestPurposes []ReferenceItem `json:"requestPurposes"`
}

// ReferenceItem is a free-form record in one of the reference lists
// (doctors, insurances, services, request purposes). The lists carry no
// cross-validation against requests.
type ReferenceItem map[string]interface{}

// ID returns the integer "id" key of the item, tolerating the float64
// that encoding/json produces for untyped numbers.
func (it ReferenceItem) ID() int {
	switch v := it["id"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
