package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nhle/casebot/internal/model"
)

// CreateContact inserts a new contact and returns its store-assigned id.
func (s *SQLiteStore) CreateContact(ctx context.Context, c model.Contact) (int64, error) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO contacts (name, info, notes, status, platform_user_id, thread_id, message_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Name, c.Info, c.Notes, c.Status, c.PlatformUserID,
		c.Mirror.ThreadID, c.Mirror.MessageID, encodeTime(c.CreatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting contact %q: %w", c.Name, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading contact id: %w", err)
	}
	return id, nil
}

// GetContact retrieves a single contact by its identifier.
func (s *SQLiteStore) GetContact(ctx context.Context, id int64) (*model.Contact, error) {
	row := s.db.QueryRowxContext(ctx, `
		SELECT id, name, info, notes, status, platform_user_id, thread_id, message_id, created_at
		FROM contacts WHERE id = ?`, id)

	c, err := scanContact(row)
	if err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("getting contact %d", id))
	}
	return &c, nil
}

// ListContacts retrieves all contacts ordered by id.
func (s *SQLiteStore) ListContacts(ctx context.Context) ([]model.Contact, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, name, info, notes, status, platform_user_id, thread_id, message_id, created_at
		FROM contacts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying contacts: %w", err)
	}
	defer rows.Close()

	var contacts []model.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// UpdateContact applies a partial field update to a contact.
func (s *SQLiteStore) UpdateContact(ctx context.Context, id int64, upd ContactUpdate) error {
	var sets []string
	var args []interface{}

	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Info != nil {
		sets = append(sets, "info = ?")
		args = append(args, *upd.Info)
	}
	if upd.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *upd.Notes)
	}
	if upd.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *upd.Status)
	}
	if upd.PlatformUserID != nil {
		sets = append(sets, "platform_user_id = ?")
		args = append(args, *upd.PlatformUserID)
	}
	if upd.Mirror != nil {
		sets = append(sets, "thread_id = ?", "message_id = ?")
		args = append(args, upd.Mirror.ThreadID, upd.Mirror.MessageID)
	}

	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE contacts SET %s WHERE id = ?", strings.Join(sets, ", "))
	args = append(args, id)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating contact %d: %w", id, err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("updating contact %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteContact removes the contact together with its case links.
func (s *SQLiteStore) DeleteContact(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM case_contacts WHERE contact_id = ?", id); err != nil {
		return fmt.Errorf("deleting links for contact %d: %w", id, err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM contacts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting contact %d: %w", id, err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("deleting contact %d: %w", id, ErrNotFound)
	}

	return tx.Commit()
}

// scanContact scans a contact row in column order.
func scanContact(row rowScanner) (model.Contact, error) {
	var (
		c         model.Contact
		createdAt string
	)

	err := row.Scan(
		&c.ID, &c.Name, &c.Info, &c.Notes, &c.Status, &c.PlatformUserID,
		&c.Mirror.ThreadID, &c.Mirror.MessageID, &createdAt,
	)
	if err != nil {
		return model.Contact{}, err
	}

	c.CreatedAt, err = decodeTime(createdAt)
	if err != nil {
		return model.Contact{}, err
	}
	return c, nil
}
