package service

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"medrelease/internal/model"
	"medrelease/internal/store"
	ws "medrelease/internal/websocket"
)

// DTOs for note creation and comments.
type CreateNoteInput struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type NoteCommentInput struct {
	Text string `json:"text" binding:"required"`
}

// NoteService manages shift-handover notes and their append-only comments.
type NoteService interface {
	List() ([]model.HandoverNote, error)
	Create(actor string, input CreateNoteInput) (*model.HandoverNote, error)
	Toggle(id int, actor string) (*model.HandoverNote, error)
	AddComment(id int, actor string, input NoteCommentInput) (*model.HandoverNote, error)
	Delete(id int) error
}

type noteService struct {
	store *store.Store
	hub   *ws.Hub
}

// NewNoteService returns a new instance of NoteService.
func NewNoteService(st *store.Store, hub *ws.Hub) NoteService {
	return &noteService{store: st, hub: hub}
}

// List returns notes with open items first, newest first within each
// group. The stable sort keeps insertion order for equal timestamps.
func (s *noteService) List() ([]model.HandoverNote, error) {
	var out []model.HandoverNote
	err := s.store.View(func(doc *model.Document) error {
		out = append(out, doc.HandoverNotes...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsCompleted != out[j].IsCompleted {
			return !out[i].IsCompleted
		}
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out, nil
}

func (s *noteService) Create(actor string, input CreateNoteInput) (*model.HandoverNote, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, errors.New("judul catatan wajib diisi")
	}

	var created model.HandoverNote
	err := s.store.Update(func(doc *model.Document) error {
		maxID := 0
		for i := range doc.HandoverNotes {
			if doc.HandoverNotes[i].ID > maxID {
				maxID = doc.HandoverNotes[i].ID
			}
		}
		created = model.HandoverNote{
			ID:        maxID + 1,
			Title:     input.Title,
			Content:   input.Content,
			Author:    actor,
			CreatedAt: time.Now().Format(time.RFC3339),
			Comments:  []model.NoteComment{},
		}
		doc.HandoverNotes = append(doc.HandoverNotes, created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastEvent("note:created", created)
	return &created, nil
}

// Toggle flips the completion state. Completing stamps who and when;
// reopening clears both.
func (s *noteService) Toggle(id int, actor string) (*model.HandoverNote, error) {
	var toggled model.HandoverNote
	err := s.store.Update(func(doc *model.Document) error {
		for i := range doc.HandoverNotes {
			if doc.HandoverNotes[i].ID != id {
				continue
			}
			n := &doc.HandoverNotes[i]
			n.IsCompleted = !n.IsCompleted
			if n.IsCompleted {
				n.CompletedBy = actor
				n.CompletedAt = time.Now().Format(time.RFC3339)
			} else {
				n.CompletedBy = ""
				n.CompletedAt = ""
			}
			toggled = *n
			return nil
		}
		return store.ErrNotFound
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastEvent("note:updated", toggled)
	return &toggled, nil
}

// AddComment appends to the note's comment log; comments are never
// removed or reordered.
func (s *noteService) AddComment(id int, actor string, input NoteCommentInput) (*model.HandoverNote, error) {
	var updated model.HandoverNote
	err := s.store.Update(func(doc *model.Document) error {
		for i := range doc.HandoverNotes {
			if doc.HandoverNotes[i].ID != id {
				continue
			}
			doc.HandoverNotes[i].Comments = append(doc.HandoverNotes[i].Comments, model.NoteComment{
				ID:        uuid.NewString(),
				Text:      input.Text,
				User:      actor,
				CreatedAt: time.Now().Format(time.RFC3339),
			})
			updated = doc.HandoverNotes[i]
			return nil
		}
		return store.ErrNotFound
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastEvent("note:updated", updated)
	return &updated, nil
}

func (s *noteService) Delete(id int) error {
	err := s.store.Update(func(doc *model.Document) error {
		for i := range doc.HandoverNotes {
			if doc.HandoverNotes[i].ID == id {
				doc.HandoverNotes = append(doc.HandoverNotes[:i], doc.HandoverNotes[i+1:]...)
				return nil
			}
		}
		return store.ErrNotFound
	})
	if err != nil {
		return err
	}

	s.hub.BroadcastEvent("note:deleted", map[string]int{"id": id})
	return nil
}
