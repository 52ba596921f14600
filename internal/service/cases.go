// Package service implements the operator-facing operations on cases and
// contacts. Handlers validate input, write the record store, and hand the
// change to the mirror syncer; mirror failures never bubble out of here.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nhle/casebot/internal/deadline"
	"github.com/nhle/casebot/internal/mirror"
	"github.com/nhle/casebot/internal/model"
	"github.com/nhle/casebot/internal/store"
	"github.com/nhle/casebot/internal/transport"
)

// ErrBadDeadline is returned when a user-supplied deadline string matches
// none of the accepted formats.
var ErrBadDeadline = errors.New("invalid deadline, use DD.MM.YYYY or DD.MM.YYYY HH:MM")

// Cases bundles the case-side operations.
type Cases struct {
	store     store.Store
	transport transport.Transport
	mirror    *mirror.Syncer

	// forumID is the forum channel new case threads are created under.
	forumID string

	log zerolog.Logger
}

// NewCases creates the case service.
func NewCases(
	st store.Store,
	tr transport.Transport,
	mi *mirror.Syncer,
	forumID string,
	log zerolog.Logger,
) *Cases {
	return &Cases{store: st, transport: tr, mirror: mi, forumID: forumID, log: log}
}

// CaseDetail is a case with its linked records resolved, for view output.
type CaseDetail struct {
	Case     model.Case
	Contacts []model.LinkedContact
	Tasks    []model.Task
}

// Create allocates a new case, opens its mirror forum thread, and records
// the thread reference. An unreachable forum channel aborts the whole
// operation before anything is written.
func (s *Cases) Create(ctx context.Context, actor, name, summary, notes string) (model.Case, error) {
	if err := s.transport.ResolveChannel(ctx, s.forumID); err != nil {
		return model.Case{}, fmt.Errorf("case forum channel: %w", err)
	}

	c, err := s.store.CreateCase(ctx, name, summary, notes)
	if err != nil {
		return model.Case{}, err
	}

	title := fmt.Sprintf("[%s] %s", c.ID, c.Name)
	ref, err := s.transport.CreateThread(ctx, s.forumID, title, mirror.RenderCaseSummary(c, nil, nil))
	if err != nil {
		// The record is already authoritative; the mirror can be
		// recreated later. Log and move on.
		s.log.Warn().Err(err).Str("case_id", c.ID).Msg("creating case mirror thread")
		return c, nil
	}

	mref := model.MirrorRef{ThreadID: ref.ThreadID, MessageID: ref.MessageID}
	if err := s.store.UpdateCase(ctx, c.ID, store.CaseUpdate{Mirror: &mref}); err != nil {
		s.log.Warn().Err(err).Str("case_id", c.ID).Msg("recording case mirror reference")
		return c, nil
	}
	c.Mirror = mref

	return c, nil
}

// Get resolves a case together with its linked contacts and tasks.
func (s *Cases) Get(ctx context.Context, id string) (*CaseDetail, error) {
	c, err := s.store.GetCase(ctx, id)
	if err != nil {
		return nil, err
	}
	contacts, err := s.store.ContactsForCase(ctx, id)
	if err != nil {
		return nil, err
	}
	tasks, err := s.store.TasksForCase(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CaseDetail{Case: *c, Contacts: contacts, Tasks: tasks}, nil
}

// List returns all cases.
func (s *Cases) List(ctx context.Context) ([]model.Case, error) {
	return s.store.ListCases(ctx)
}

// Edit updates a case's descriptive fields and mirrors the change.
func (s *Cases) Edit(ctx context.Context, actor, id string, name, summary, notes *string) error {
	upd := store.CaseUpdate{Name: name, Summary: summary, Notes: notes}
	if err := s.store.UpdateCase(ctx, id, upd); err != nil {
		return err
	}

	c, err := s.store.GetCase(ctx, id)
	if err != nil {
		return err
	}
	description := fmt.Sprintf(
		"Case updated:\n• **Name:** %s\n• **Summary:** %s\n• **Notes:** %s",
		c.Name, orNA(c.Summary), orNA(c.Notes),
	)
	s.mirror.SyncCase(ctx, id, description, actor)
	return nil
}

// Delete logs the deletion to the mirror thread, then removes the case
// and its dependent links and tasks. The thread itself is left in place
// as the retired audit trail.
func (s *Cases) Delete(ctx context.Context, actor, id string) error {
	if _, err := s.store.GetCase(ctx, id); err != nil {
		return err
	}

	s.mirror.SyncCase(ctx, id, "❌ Case deleted", actor)
	return s.store.DeleteCase(ctx, id)
}

// Link attaches a contact to the case under a role. Relinking the same
// contact replaces its role.
func (s *Cases) Link(ctx context.Context, actor, caseID string, contactID int64, role string) error {
	if _, err := s.store.GetCase(ctx, caseID); err != nil {
		return err
	}
	if _, err := s.store.GetContact(ctx, contactID); err != nil {
		return err
	}

	if err := s.store.LinkContact(ctx, caseID, contactID, role); err != nil {
		return err
	}

	s.mirror.SyncCase(ctx, caseID,
		fmt.Sprintf("Linked contact %d as %s", contactID, role), actor)
	return nil
}

// Unlink removes a contact's link to the case.
func (s *Cases) Unlink(ctx context.Context, actor, caseID string, contactID int64) error {
	if err := s.store.UnlinkContact(ctx, caseID, contactID); err != nil {
		return err
	}

	s.mirror.SyncCase(ctx, caseID,
		fmt.Sprintf("Unlinked contact %d", contactID), actor)
	return nil
}

// AddTask attaches a task to the case. A non-empty deadline must parse in
// one of the accepted formats and is stored normalized.
func (s *Cases) AddTask(
	ctx context.Context,
	actor, caseID, description, deadlineInput string,
) (int64, error) {
	if _, err := s.store.GetCase(ctx, caseID); err != nil {
		return 0, err
	}

	stored := ""
	if deadlineInput != "" {
		due, ok := deadline.Parse(deadlineInput)
		if !ok {
			return 0, ErrBadDeadline
		}
		stored = due.Format(model.DeadlineStoreFormat)
	}

	id, err := s.store.AddTask(ctx, caseID, description, stored)
	if err != nil {
		return 0, err
	}

	s.mirror.SyncCase(ctx, caseID, fmt.Sprintf("New task added: %s", description), actor)
	return id, nil
}

// CompleteTask marks a task done and mirrors the change on its case.
func (s *Cases) CompleteTask(ctx context.Context, actor string, taskID int64) error {
	t, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.store.MarkTaskDone(ctx, taskID); err != nil {
		return err
	}

	s.mirror.SyncCase(ctx, t.CaseID, fmt.Sprintf("Task #%d marked as done ✅", taskID), actor)
	return nil
}

// RemoveTask deletes a task and mirrors the change on its case.
func (s *Cases) RemoveTask(ctx context.Context, actor string, taskID int64) error {
	t, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTask(ctx, taskID); err != nil {
		return err
	}

	s.mirror.SyncCase(ctx, t.CaseID, fmt.Sprintf("Task #%d removed", taskID), actor)
	return nil
}

// DueItem is one line of the due-tasks report.
type DueItem struct {
	Task     model.Task
	CaseName string
	Due      time.Time
}

// DueReport lists open tasks whose deadlines fall inside [from, to].
// from defaults to a day before now; a nil to leaves the end open.
func (s *Cases) DueReport(ctx context.Context, now time.Time, from, to *time.Time) ([]DueItem, error) {
	if from == nil {
		f := now.AddDate(0, 0, -1)
		from = &f
	}

	tasks, err := s.store.TasksDueBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	var items []DueItem
	for _, t := range tasks {
		if t.Done {
			continue
		}
		due, ok := deadline.Parse(t.Deadline)
		if !ok {
			continue
		}

		c, err := s.store.GetCase(ctx, t.CaseID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, err
		}
		items = append(items, DueItem{Task: t, CaseName: c.Name, Due: due})
	}
	return items, nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
