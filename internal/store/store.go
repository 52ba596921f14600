package store

import (
	"context"
	"errors"
	"time"

	"github.com/nhle/casebot/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// CaseUpdate is a partial update to a case; nil fields are left unchanged.
type CaseUpdate struct {
	Name    *string
	Summary *string
	Notes   *string
	Mirror  *model.MirrorRef
}

// ContactUpdate is a partial update to a contact; nil fields are left
// unchanged.
type ContactUpdate struct {
	Name           *string
	Info           *string
	Notes          *string
	Status         *string
	PlatformUserID *string
	Mirror         *model.MirrorRef
}

// Store defines the persistence interface for cases, contacts, their
// links, and case tasks.
type Store interface {
	// === Cases ===

	// CreateCase inserts a new case, allocating its day-scoped id
	// atomically with the insert, and returns the stored record.
	CreateCase(ctx context.Context, name, summary, notes string) (model.Case, error)
	GetCase(ctx context.Context, id string) (*model.Case, error)
	ListCases(ctx context.Context) ([]model.Case, error)
	UpdateCase(ctx context.Context, id string, upd CaseUpdate) error
	// DeleteCase removes the case together with its links and tasks.
	DeleteCase(ctx context.Context, id string) error
	// CountCasesCreatedOn counts cases whose creation timestamp falls on
	// the given calendar day.
	CountCasesCreatedOn(ctx context.Context, day time.Time) (int, error)

	// === Contacts ===

	CreateContact(ctx context.Context, c model.Contact) (int64, error)
	GetContact(ctx context.Context, id int64) (*model.Contact, error)
	ListContacts(ctx context.Context) ([]model.Contact, error)
	UpdateContact(ctx context.Context, id int64, upd ContactUpdate) error
	// DeleteContact removes the contact together with its case links.
	DeleteContact(ctx context.Context, id int64) error

	// === Case/contact links ===

	// LinkContact attaches a contact to a case under a role. A second
	// link for the same pair replaces the role (upsert, no duplicates).
	LinkContact(ctx context.Context, caseID string, contactID int64, role string) error
	UnlinkContact(ctx context.Context, caseID string, contactID int64) error
	ContactsForCase(ctx context.Context, caseID string) ([]model.LinkedContact, error)
	CasesForContact(ctx context.Context, contactID int64) ([]model.LinkedCase, error)

	// === Tasks ===

	AddTask(ctx context.Context, caseID, description, deadline string) (int64, error)
	GetTask(ctx context.Context, id int64) (*model.Task, error)
	TasksForCase(ctx context.Context, caseID string) ([]model.Task, error)
	AllTasks(ctx context.Context) ([]model.Task, error)
	// TasksDueBetween returns tasks with a deadline inside the window;
	// either bound may be nil to leave that side open.
	TasksDueBetween(ctx context.Context, start, end *time.Time) ([]model.Task, error)
	MarkTaskDone(ctx context.Context, id int64) error
	DeleteTask(ctx context.Context, id int64) error
}
