package mirror

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nhle/casebot/internal/model"
	"github.com/nhle/casebot/internal/store"
	"github.com/nhle/casebot/internal/transport"
)

// Syncer pushes record-store state out to mirror threads. Every failure
// here is a desync condition: logged and swallowed, never surfaced to the
// caller, because the store stays authoritative regardless of what the
// mirror looks like.
type Syncer struct {
	store     store.Store
	transport transport.Transport
	log       zerolog.Logger
}

// NewSyncer creates a Syncer.
func NewSyncer(st store.Store, tr transport.Transport, log zerolog.Logger) *Syncer {
	return &Syncer{store: st, transport: tr, log: log}
}

// SyncCase re-renders the case's starter message and appends an audit log
// entry describing the change, attributed to actor.
func (s *Syncer) SyncCase(ctx context.Context, caseID, description, actor string) {
	c, err := s.store.GetCase(ctx, caseID)
	if err != nil {
		s.log.Warn().Err(err).Str("case_id", caseID).Msg("mirror sync: loading case")
		return
	}

	render := func() (string, error) {
		contacts, err := s.store.ContactsForCase(ctx, caseID)
		if err != nil {
			return "", err
		}
		tasks, err := s.store.TasksForCase(ctx, caseID)
		if err != nil {
			return "", err
		}
		return RenderCaseSummary(*c, contacts, tasks), nil
	}

	s.sync(ctx, c.Mirror, render, fmt.Sprintf("Case ID: %s", caseID), description, actor)
}

// SyncContact re-renders the contact's starter message and appends an
// audit log entry describing the change, attributed to actor.
func (s *Syncer) SyncContact(ctx context.Context, contactID int64, description, actor string) {
	c, err := s.store.GetContact(ctx, contactID)
	if err != nil {
		s.log.Warn().Err(err).Int64("contact_id", contactID).Msg("mirror sync: loading contact")
		return
	}

	render := func() (string, error) {
		cases, err := s.store.CasesForContact(ctx, contactID)
		if err != nil {
			return "", err
		}
		return RenderContactSummary(*c, cases), nil
	}

	s.sync(ctx, c.Mirror, render, fmt.Sprintf("Contact ID: %d", contactID), description, actor)
}

// sync runs the shared protocol: resolve the thread, best-effort edit of
// the starter summary, then append the log entry. The log append is not
// gated on the edit succeeding.
func (s *Syncer) sync(
	ctx context.Context,
	ref model.MirrorRef,
	render func() (string, error),
	entityLabel, description, actor string,
) {
	log := s.log.With().Str("entity", entityLabel).Logger()

	if !ref.IsSet() {
		log.Debug().Msg("mirror sync: entity has no mirror thread")
		return
	}

	if err := s.transport.ResolveChannel(ctx, ref.ThreadID); err != nil {
		log.Warn().Err(err).Msg("mirror sync: thread unresolvable")
		return
	}

	// Best-effort summary refresh. The thread may have lost its starter
	// message; the audit entry below still goes out.
	if err := s.editSummary(ctx, ref, render); err != nil {
		log.Warn().Err(err).Msg("mirror sync: updating summary post")
	}

	entry := RenderLogEntry(entityLabel, description, actor, time.Now())
	if err := s.transport.Send(ctx, ref.ThreadID, entry); err != nil {
		log.Warn().Err(err).Msg("mirror sync: appending log entry")
	}
}

func (s *Syncer) editSummary(
	ctx context.Context,
	ref model.MirrorRef,
	render func() (string, error),
) error {
	if err := s.transport.FetchMessage(ctx, ref.ThreadID, ref.MessageID); err != nil {
		return err
	}
	content, err := render()
	if err != nil {
		return err
	}
	return s.transport.EditMessage(ctx, ref.ThreadID, ref.MessageID, content)
}
