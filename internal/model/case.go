package model

import "time"

// Case is a tracked legal/administrative matter.
type Case struct {
	// ID is the human-readable case identifier in the form
	// "<sequence>-<DDMMYYYY>", assigned once at creation and never changed.
	ID string `json:"id" db:"id"`

	// Name is the short display name of the case.
	Name string `json:"name" db:"name"`

	// Summary is free-form descriptive text; may be empty.
	Summary string `json:"summary" db:"summary"`

	// Notes holds free-form working notes; may be empty.
	Notes string `json:"notes" db:"notes"`

	// Mirror references the forum thread that shadows this case.
	// Both fields are empty until the mirror post has been created.
	Mirror MirrorRef `json:"mirror"`

	// CreatedAt is when the case record was inserted.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// MirrorRef locates the external forum thread that mirrors an entity:
// the thread itself plus its starter message, which is kept edited to a
// live summary of the entity.
type MirrorRef struct {
	ThreadID  string `json:"thread_id" db:"thread_id"`
	MessageID string `json:"message_id" db:"message_id"`
}

// IsSet reports whether both halves of the reference are recorded.
func (r MirrorRef) IsSet() bool {
	return r.ThreadID != "" && r.MessageID != ""
}
