package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/casebot/internal/caseid"
	"github.com/nhle/casebot/internal/model"
)

// CreateCase allocates the next day-scoped case id and inserts the record.
// The count and insert run inside a single transaction, and creations are
// additionally serialized through createMu, so two concurrent creations on
// the same day cannot allocate the same identifier.
func (s *SQLiteStore) CreateCase(
	ctx context.Context,
	name, summary, notes string,
) (model.Case, error) {
	s.createMu.Lock()
	defer s.createMu.Unlock()

	now := time.Now()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Case{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	count, err := countCasesOn(ctx, tx, now)
	if err != nil {
		return model.Case{}, err
	}

	c := model.Case{
		ID:        caseid.Allocate(now, count),
		Name:      name,
		Summary:   summary,
		Notes:     notes,
		CreatedAt: now.UTC().Truncate(time.Second),
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO cases (id, name, summary, notes, thread_id, message_id, created_at)
		VALUES (?, ?, ?, ?, '', '', ?)`,
		c.ID, c.Name, c.Summary, c.Notes, encodeTime(now),
	)
	if err != nil {
		return model.Case{}, fmt.Errorf("inserting case %s: %w", c.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return model.Case{}, fmt.Errorf("committing case %s: %w", c.ID, err)
	}

	return c, nil
}

// GetCase retrieves a single case by its identifier.
func (s *SQLiteStore) GetCase(ctx context.Context, id string) (*model.Case, error) {
	row := s.db.QueryRowxContext(ctx, `
		SELECT id, name, summary, notes, thread_id, message_id, created_at
		FROM cases WHERE id = ?`, id)

	c, err := scanCase(row)
	if err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("getting case %s", id))
	}
	return &c, nil
}

// ListCases retrieves all cases ordered by creation time.
func (s *SQLiteStore) ListCases(ctx context.Context) ([]model.Case, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, name, summary, notes, thread_id, message_id, created_at
		FROM cases ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("querying cases: %w", err)
	}
	defer rows.Close()

	var cases []model.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

// UpdateCase applies a partial field update to a case. A no-op update
// (all fields nil) returns without touching the database.
func (s *SQLiteStore) UpdateCase(ctx context.Context, id string, upd CaseUpdate) error {
	var sets []string
	var args []interface{}

	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Summary != nil {
		sets = append(sets, "summary = ?")
		args = append(args, *upd.Summary)
	}
	if upd.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *upd.Notes)
	}
	if upd.Mirror != nil {
		sets = append(sets, "thread_id = ?", "message_id = ?")
		args = append(args, upd.Mirror.ThreadID, upd.Mirror.MessageID)
	}

	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE cases SET %s WHERE id = ?", strings.Join(sets, ", "))
	args = append(args, id)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating case %s: %w", id, err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("updating case %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteCase removes the case together with its contact links and tasks.
// The dependent rows go first so a partial failure never leaves orphans
// pointing at a missing case.
func (s *SQLiteStore) DeleteCase(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM case_contacts WHERE case_id = ?", id); err != nil {
		return fmt.Errorf("deleting links for case %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM case_tasks WHERE case_id = ?", id); err != nil {
		return fmt.Errorf("deleting tasks for case %s: %w", id, err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM cases WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting case %s: %w", id, err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("deleting case %s: %w", id, ErrNotFound)
	}

	return tx.Commit()
}

// CountCasesCreatedOn counts cases created on the calendar day of day.
func (s *SQLiteStore) CountCasesCreatedOn(ctx context.Context, day time.Time) (int, error) {
	return countCasesOn(ctx, s.db, day)
}

// countCasesOn runs the day-scoped count against either the pool or an
// open transaction.
func countCasesOn(ctx context.Context, q sqlx.QueryerContext, day time.Time) (int, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var count int
	err := sqlx.GetContext(ctx, q, &count,
		"SELECT COUNT(*) FROM cases WHERE created_at >= ? AND created_at < ?",
		encodeTime(dayStart), encodeTime(dayEnd),
	)
	if err != nil {
		return 0, fmt.Errorf("counting cases for %s: %w", day.Format(caseid.DayFormat), err)
	}
	return count, nil
}

// rowScanner is satisfied by both *sqlx.Row and *sqlx.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanCase scans a case row in column order.
func scanCase(row rowScanner) (model.Case, error) {
	var (
		c         model.Case
		createdAt string
	)

	err := row.Scan(
		&c.ID, &c.Name, &c.Summary, &c.Notes,
		&c.Mirror.ThreadID, &c.Mirror.MessageID, &createdAt,
	)
	if err != nil {
		return model.Case{}, err
	}

	c.CreatedAt, err = decodeTime(createdAt)
	if err != nil {
		return model.Case{}, err
	}
	return c, nil
}
