package store

import (
	"context"
	"fmt"

	"github.com/nhle/casebot/internal/model"
)

// LinkContact attaches a contact to a case under a role. Linking an
// already-linked pair replaces the stored role instead of adding a row.
func (s *SQLiteStore) LinkContact(
	ctx context.Context,
	caseID string,
	contactID int64,
	role string,
) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO case_contacts (case_id, contact_id, role)
		VALUES (?, ?, ?)`,
		caseID, contactID, role,
	)
	if err != nil {
		return fmt.Errorf("linking contact %d to case %s: %w", contactID, caseID, err)
	}
	return nil
}

// UnlinkContact removes the link between a case and a contact.
func (s *SQLiteStore) UnlinkContact(ctx context.Context, caseID string, contactID int64) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM case_contacts WHERE case_id = ? AND contact_id = ?",
		caseID, contactID,
	)
	if err != nil {
		return fmt.Errorf("unlinking contact %d from case %s: %w", contactID, caseID, err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("unlinking contact %d from case %s: %w", contactID, caseID, ErrNotFound)
	}
	return nil
}

// ContactsForCase retrieves all contacts linked to a case, each with the
// role it holds in that case.
func (s *SQLiteStore) ContactsForCase(
	ctx context.Context,
	caseID string,
) ([]model.LinkedContact, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT c.id, c.name, c.info, c.notes, c.status, c.platform_user_id,
		       c.thread_id, c.message_id, c.created_at, cc.role
		FROM contacts c
		INNER JOIN case_contacts cc ON c.id = cc.contact_id
		WHERE cc.case_id = ?
		ORDER BY c.id`, caseID)
	if err != nil {
		return nil, fmt.Errorf("querying contacts for case %s: %w", caseID, err)
	}
	defer rows.Close()

	var linked []model.LinkedContact
	for rows.Next() {
		var (
			lc        model.LinkedContact
			createdAt string
		)
		err := rows.Scan(
			&lc.ID, &lc.Name, &lc.Info, &lc.Notes, &lc.Status, &lc.PlatformUserID,
			&lc.Mirror.ThreadID, &lc.Mirror.MessageID, &createdAt, &lc.Role,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning linked contact row: %w", err)
		}
		if lc.CreatedAt, err = decodeTime(createdAt); err != nil {
			return nil, err
		}
		linked = append(linked, lc)
	}
	return linked, rows.Err()
}

// CasesForContact retrieves all cases a contact is linked to, each with
// the contact's role in that case.
func (s *SQLiteStore) CasesForContact(
	ctx context.Context,
	contactID int64,
) ([]model.LinkedCase, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT ca.id, ca.name, cc.role
		FROM cases ca
		INNER JOIN case_contacts cc ON ca.id = cc.case_id
		WHERE cc.contact_id = ?
		ORDER BY ca.created_at, ca.id`, contactID)
	if err != nil {
		return nil, fmt.Errorf("querying cases for contact %d: %w", contactID, err)
	}
	defer rows.Close()

	var linked []model.LinkedCase
	for rows.Next() {
		var lc model.LinkedCase
		if err := rows.Scan(&lc.CaseID, &lc.CaseName, &lc.Role); err != nil {
			return nil, fmt.Errorf("scanning linked case row: %w", err)
		}
		linked = append(linked, lc)
	}
	return linked, rows.Err()
}
