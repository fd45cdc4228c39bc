package model

import "encoding/json"

// Request status conventions. The field itself is an open string; these
// are the values the UI and reports use.
const (
	StatusPending      = "Pending"
	StatusProses       = "Proses"
	StatusSelesai      = "Selesai"
	StatusSudahDiambil = "Sudah Diambil"
	StatusDitolak      = "Ditolak"
)

// HistoryEntry is one status-change event in a request's append-only log.
// The last entry's Status is the source of truth for the request status.
type HistoryEntry struct {
	Date      string `json:"date"`
	Status    string `json:"status"`
	Note      string `json:"note"`
	User      string `json:"user"`
	Timestamp string `json:"timestamp"`
}

// Request is a medical-information-release case. Besides the fixed fields
// it carries arbitrary caller-supplied attributes (requester, doctor,
// insurance, purpose, ...) which are preserved verbatim in Extra and
// marshalled flat alongside the fixed keys.
type Request struct {
	ID        int
	RegNumber string
	Status    string
	CreatedAt string
	History   []HistoryEntry
	Extra     map[string]interface{}
}

// reserved keys owned by the system, never sourced from Extra.
var requestFixedKeys = map[string]bool{
	"id": true, "regNumber": true, "status": true, "createdAt": true, "history": true,
}

func (r Request) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.Extra)+5)
	for k, v := range r.Extra {
		if requestFixedKeys[k] {
			continue
		}
		out[k] = v
	}
	out["id"] = r.ID
	out["regNumber"] = r.RegNumber
	out["status"] = r.Status
	out["createdAt"] = r.CreatedAt
	history := r.History
	if history == nil {
		history = []HistoryEntry{}
	}
	out["history"] = history
	return json.Marshal(out)
}

func (r *Request) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["id"]; ok {
		if err := json.Unmarshal(v, &r.ID); err != nil {
			return err
		}
	}
	if v, ok := raw["regNumber"]; ok {
		if err := json.Unmarshal(v, &r.RegNumber); err != nil {
			return err
		}
	}
	if v, ok := raw["status"]; ok {
		if err := json.Unmarshal(v, &r.Status); err != nil {
			return err
		}
	}
	if v, ok := raw["createdAt"]; ok {
		if err := json.Unmarshal(v, &r.CreatedAt); err != nil {
			return err
		}
	}
	if v, ok := raw["history"]; ok {
		if err := json.Unmarshal(v, &r.History); err != nil {
			return err
		}
	}
	r.Extra = make(map[string]interface{})
	for k, v := range raw {
		if requestFixedKeys[k] {
			continue
		}
		var val interface{}
		if err := json.Unmarshal(v, &val); err != nil {
			return err
		}
		r.Extra[k] = val
	}
	return nil
}

// ExtraString returns a string-typed attribute from Extra, or "" when
// absent or of another type.
func (r *Request) ExtraString(key string) string {
	s, _ := r.Extra[key].(string)
	return s
}
