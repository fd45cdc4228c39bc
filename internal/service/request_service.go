package service

import (
	"sort"
	"time"

	"medrelease/internal/model"
	"medrelease/internal/store"
	ws "medrelease/internal/websocket"
)

// Keys the patch and create paths never accept from the caller. Status is
// included: it is a projection of the history log and has no setter;
// create seeds it and AppendHistory is the only writer afterwards.
var protectedRequestKeys = map[string]bool{
	"id": true, "regNumber": true, "status": true, "createdAt": true, "history": true,
}

// RequestService defines the business logic around release requests and
// their history ledger.
type RequestService interface {
	List() ([]model.Request, error)
	Get(id int) (*model.Request, error)
	Create(actor string, fields map[string]interface{}) (*model.Request, error)
	Patch(id int, fields map[string]interface{}) (*model.Request, error)
	AppendHistory(id int, entry model.HistoryEntry) (*model.Request, error)
	Delete(id int) error
}

type requestService struct {
	store *store.Store
	hub   *ws.Hub
}

// NewRequestService returns a new instance of RequestService. hub may be
// nil when no live clients need change events.
func NewRequestService(st *store.Store, hub *ws.Hub) RequestService {
	return &requestService{store: st, hub: hub}
}

func (s *requestService) List() ([]model.Request, error) {
	var out []model.Request
	err := s.store.View(func(doc *model.Document) error {
		out = append(out, doc.Requests...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Newest first for listing; insertion order breaks ties.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out, nil
}

func (s *requestService) Get(id int) (*model.Request, error) {
	var found *model.Request
	err := s.store.View(func(doc *model.Document) error {
		for i := range doc.Requests {
			if doc.Requests[i].ID == id {
				r := doc.Requests[i]
				found = &r
				return nil
			}
		}
		return store.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// Create allocates id and registration number from the current state and
// seeds the history ledger with the request's first entry. The scan and
// the insert happen inside one store.Update so no second creator can see
// the same maximum.
func (s *requestService) Create(actor string, fields map[string]interface{}) (*model.Request, error) {
	if actor == "" {
		actor = "Sistem"
	}

	var created model.Request
	err := s.store.Update(func(doc *model.Document) error {
		now := time.Now()

		regNumber, err := NextRegistrationNumber(now, doc.Requests)
		if err != nil {
			return err
		}

		status, _ := fields["status"].(string)
		if status == "" {
			status = model.StatusPending
		}

		extra := make(map[string]interface{}, len(fields))
		for k, v := range fields {
			if protectedRequestKeys[k] {
				continue
			}
			extra[k] = v
		}

		date, _ := fields["date"].(string)
		if date == "" {
			date = now.Format("2006-01-02")
		}

		created = model.Request{
			ID:        NextRequestID(doc.Requests),
			RegNumber: regNumber,
			Status:    status,
			CreatedAt: now.Format(time.RFC3339),
			History: []model.HistoryEntry{{
				Date:      date,
				Status:    status,
				Note:      "Permohonan dibuat",
				User:      actor,
				Timestamp: now.Format(time.RFC3339),
			}},
			Extra: extra,
		}
		doc.Requests = append(doc.Requests, created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastEvent("request:created", created)
	return &created, nil
}

// Patch merges caller-supplied fields into the request. Protected keys
// (id, regNumber, status, createdAt, history) are discarded, never merged,
// so a field patch can not rewrite the ledger or the status projection.
func (s *requestService) Patch(id int, fields map[string]interface{}) (*model.Request, error) {
	var patched model.Request
	err := s.store.Update(func(doc *model.Document) error {
		for i := range doc.Requests {
			if doc.Requests[i].ID != id {
				continue
			}
			if doc.Requests[i].Extra == nil {
				doc.Requests[i].Extra = make(map[string]interface{}, len(fields))
			}
			for k, v := range fields {
				if protectedRequestKeys[k] {
					continue
				}
				doc.Requests[i].Extra[k] = v
			}
			patched = doc.Requests[i]
			return nil
		}
		return store.ErrNotFound
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastEvent("request:updated", patched)
	return &patched, nil
}

// AppendHistory appends a status-change event to the request's ledger and
// projects the request status from it. Entries are trusted as supplied and
// are never removed or reordered.
func (s *requestService) AppendHistory(id int, entry model.HistoryEntry) (*model.Request, error) {
	now := time.Now()
	if entry.Date == "" {
		entry.Date = now.Format("2006-01-02")
	}
	if entry.Timestamp == "" {
		entry.Timestamp = now.Format(time.RFC3339)
	}

	var updated model.Request
	err := s.store.Update(func(doc *model.Document) error {
		for i := range doc.Requests {
			if doc.Requests[i].ID != id {
				continue
			}
			doc.Requests[i].History = append(doc.Requests[i].History, entry)
			doc.Requests[i].Status = entry.Status
			updated = doc.Requests[i]
			return nil
		}
		return store.ErrNotFound
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastEvent("request:updated", updated)
	return &updated, nil
}

// Delete removes the whole record from the collection; requests are never
// soft-deleted or truncated in place.
func (s *requestService) Delete(id int) error {
	err := s.store.Update(func(doc *model.Document) error {
		for i := range doc.Requests {
			if doc.Requests[i].ID == id {
				doc.Requests = append(doc.Requests[:i], doc.Requests[i+1:]...)
				return nil
			}
		}
		return store.ErrNotFound
	})
	if err != nil {
		return err
	}

	s.hub.BroadcastEvent("request:deleted", map[string]int{"id": id})
	return nil
}
