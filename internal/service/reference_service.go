package service

import (
	"fmt"

	"medrelease/internal/model"
	"medrelease/internal/store"
)

// Reference list kinds, matching the document's collection keys.
const (
	RefDoctors         = "doctors"
	RefInsurances      = "insurances"
	RefServices        = "services"
	RefRequestPurposes = "requestPurposes"
)

// ReferenceService manages the four free-form reference lists. Items carry
// no cross-validation against requests.
type ReferenceService interface {
	List(kind string) ([]model.ReferenceItem, error)
	Create(kind string, item model.ReferenceItem) (model.ReferenceItem, error)
	Update(kind string, id int, item model.ReferenceItem) (model.ReferenceItem, error)
	Delete(kind string, id int) error
}

type referenceService struct {
	store *store.Store
}

// NewReferenceService returns a new instance of ReferenceService.
func NewReferenceService(st *store.Store) ReferenceService {
	return &referenceService{store: st}
}

// listFor selects the backing slice for a kind.
func listFor(doc *model.Document, kind string) (*[]model.ReferenceItem, error) {
	switch kind {
	case RefDoctors:
		return &doc.Doctors, nil
	case RefInsurances:
		return &doc.Insurances, nil
	case RefServices:
		return &doc.Services, nil
	case RefRequestPurposes:
		return &doc.RequestPurposes, nil
	}
	return nil, fmt.Errorf("jenis referensi tidak dikenal: %q", kind)
}

func (s *referenceService) List(kind string) ([]model.ReferenceItem, error) {
	var out []model.ReferenceItem
	err := s.store.View(func(doc *model.Document) error {
		list, err := listFor(doc, kind)
		if err != nil {
			return err
		}
		out = append(out, *list...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *referenceService) Create(kind string, item model.ReferenceItem) (model.ReferenceItem, error) {
	var created model.ReferenceItem
	err := s.store.Update(func(doc *model.Document) error {
		list, err := listFor(doc, kind)
		if err != nil {
			return err
		}
		maxID := 0
		for _, it := range *list {
			if it.ID() > maxID {
				maxID = it.ID()
			}
		}
		created = make(model.ReferenceItem, len(item)+1)
		for k, v := range item {
			created[k] = v
		}
		created["id"] = maxID + 1
		*list = append(*list, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *referenceService) Update(kind string, id int, item model.ReferenceItem) (model.ReferenceItem, error) {
	var updated model.ReferenceItem
	err := s.store.Update(func(doc *model.Document) error {
		list, err := listFor(doc, kind)
		if err != nil {
			return err
		}
		for i, it := range *list {
			if it.ID() != id {
				continue
			}
			for k, v := range item {
				if k == "id" {
					continue
				}
				it[k] = v
			}
			(*list)[i] = it
			updated = it
			return nil
		}
		return store.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *referenceService) Delete(kind string, id int) error {
	return s.store.Update(func(doc *model.Document) error {
		list, err := listFor(doc, kind)
		if err != nil {
			return err
		}
		for i, it := range *list {
			if it.ID() == id {
				*list = append((*list)[:i], (*list)[i+1:]...)
				return nil
			}
		}
		return store.ErrNotFound
	})
}
