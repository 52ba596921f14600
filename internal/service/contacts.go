package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nhle/casebot/internal/mirror"
	"github.com/nhle/casebot/internal/model"
	"github.com/nhle/casebot/internal/store"
	"github.com/nhle/casebot/internal/transport"
)

// Contacts bundles the contact-side operations.
type Contacts struct {
	store     store.Store
	transport transport.Transport
	mirror    *mirror.Syncer

	// forumID is the forum channel new contact threads are created under.
	forumID string

	log zerolog.Logger
}

// NewContacts creates the contact service.
func NewContacts(
	st store.Store,
	tr transport.Transport,
	mi *mirror.Syncer,
	forumID string,
	log zerolog.Logger,
) *Contacts {
	return &Contacts{store: st, transport: tr, mirror: mi, forumID: forumID, log: log}
}

// ContactDetail is a contact with its linked cases resolved.
type ContactDetail struct {
	Contact model.Contact
	Cases   []model.LinkedCase
}

// Add creates a contact and its mirror forum thread. The thread starts
// with a placeholder starter message that is edited to the full summary
// once the store has assigned the contact id.
func (s *Contacts) Add(ctx context.Context, actor string, c model.Contact) (model.Contact, error) {
	if err := s.transport.ResolveChannel(ctx, s.forumID); err != nil {
		return model.Contact{}, fmt.Errorf("contacts forum channel: %w", err)
	}

	ref, err := s.transport.CreateThread(ctx, s.forumID, c.Name, "📌 Contact created.")
	if err != nil {
		return model.Contact{}, fmt.Errorf("creating contact thread: %w", err)
	}
	c.Mirror = model.MirrorRef{ThreadID: ref.ThreadID, MessageID: ref.MessageID}

	id, err := s.store.CreateContact(ctx, c)
	if err != nil {
		return model.Contact{}, err
	}

	stored, err := s.store.GetContact(ctx, id)
	if err != nil {
		return model.Contact{}, err
	}

	// Swap the placeholder for the real summary. Best effort: the record
	// is already correct either way.
	summary := mirror.RenderContactSummary(*stored, nil)
	if err := s.transport.EditMessage(ctx, ref.ThreadID, ref.MessageID, summary); err != nil {
		s.log.Warn().Err(err).Int64("contact_id", id).Msg("writing contact summary post")
	}

	return *stored, nil
}

// Get resolves a contact together with the cases it is linked to.
func (s *Contacts) Get(ctx context.Context, id int64) (*ContactDetail, error) {
	c, err := s.store.GetContact(ctx, id)
	if err != nil {
		return nil, err
	}
	cases, err := s.store.CasesForContact(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ContactDetail{Contact: *c, Cases: cases}, nil
}

// List returns all contacts.
func (s *Contacts) List(ctx context.Context) ([]model.Contact, error) {
	return s.store.ListContacts(ctx)
}

// Edit updates a contact's fields and mirrors the change.
func (s *Contacts) Edit(ctx context.Context, actor string, id int64, upd store.ContactUpdate) error {
	if err := s.store.UpdateContact(ctx, id, upd); err != nil {
		return err
	}

	c, err := s.store.GetContact(ctx, id)
	if err != nil {
		return err
	}

	user := "None"
	if c.PlatformUserID != "" {
		user = transport.Mention(c.PlatformUserID)
	}
	description := fmt.Sprintf(
		"Contact updated:\n• **Name:** %s\n• **Contact:** %s\n• **Notes:** %s\n• **Status:** %s\n• **User:** %s",
		c.Name, orNA(c.Info), orNA(c.Notes), c.Status, user,
	)
	s.mirror.SyncContact(ctx, id, description, actor)
	return nil
}

// Delete logs the deletion to the mirror thread, then removes the contact
// and its case links.
func (s *Contacts) Delete(ctx context.Context, actor string, id int64) error {
	c, err := s.store.GetContact(ctx, id)
	if err != nil {
		return err
	}

	s.mirror.SyncContact(ctx, id, fmt.Sprintf("❌ Contact %q deleted", c.Name), actor)
	return s.store.DeleteContact(ctx, id)
}
