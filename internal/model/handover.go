package model

// NoteComment is one entry in a handover note's append-only comment log.
type NoteComment struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	User      string `json:"user"`
	CreatedAt string `json:"createdAt"`
}

// HandoverNote is a shift-handover item with a completion state and an
// appendable comment log (same append-only pattern as request history,
// at a smaller scale).
type HandoverNote struct {
	ID          int           `json:"id"`
	Title       string        `json:"title"`
	Content     string        `json:"content"`
	Author      string        `json:"author"`
	CreatedAt   string        `json:"createdAt"`
	IsCompleted bool          `json:"isCompleted"`
	CompletedBy string        `json:"completedBy,omitempty"`
	CompletedAt string        `json:"completedAt,omitempty"`
	Comments    []NoteComment `json:"comments"`
}
