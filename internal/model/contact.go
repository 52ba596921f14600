package model

import "time"

// Contact is a tracked party (client, witness, opposing counsel, ...)
// optionally linked to a chat-platform user.
type Contact struct {
	// ID is the store-assigned integer identifier. It is never reused
	// within the lifetime of a database.
	ID int64 `json:"id" db:"id"`

	// Name is the display name; required.
	Name string `json:"name" db:"name"`

	// Info holds free-form contact details (phone, email, address).
	Info string `json:"info" db:"info"`

	// Notes holds free-form working notes.
	Notes string `json:"notes" db:"notes"`

	// Status is a free-text label such as "Client" or "VIP".
	Status string `json:"status" db:"status"`

	// PlatformUserID is the chat-platform user id linked to this
	// contact, or empty when none is linked. Notifications mention
	// contacts through this id.
	PlatformUserID string `json:"platform_user_id" db:"platform_user_id"`

	// Mirror references the forum thread that shadows this contact.
	Mirror MirrorRef `json:"mirror"`

	// CreatedAt is when the contact record was inserted.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
