package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/casebot/internal/model"
)

// AddTask attaches a task to a case and returns its store-assigned id.
// The deadline is the normalized store representation (or empty).
func (s *SQLiteStore) AddTask(
	ctx context.Context,
	caseID, description, deadline string,
) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO case_tasks (case_id, description, deadline, done)
		VALUES (?, ?, ?, 0)`,
		caseID, description, deadline,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting task for case %s: %w", caseID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading task id: %w", err)
	}
	return id, nil
}

// GetTask retrieves a single task by its identifier.
func (s *SQLiteStore) GetTask(ctx context.Context, id int64) (*model.Task, error) {
	row := s.db.QueryRowxContext(ctx, `
		SELECT id, case_id, description, deadline, done
		FROM case_tasks WHERE id = ?`, id)

	t, err := scanTask(row)
	if err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("getting task %d", id))
	}
	return &t, nil
}

// TasksForCase retrieves all tasks attached to a case, ordered by id.
func (s *SQLiteStore) TasksForCase(ctx context.Context, caseID string) ([]model.Task, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, case_id, description, deadline, done
		FROM case_tasks WHERE case_id = ? ORDER BY id`, caseID)
	if err != nil {
		return nil, fmt.Errorf("querying tasks for case %s: %w", caseID, err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// AllTasks retrieves every task in the store, ordered by id.
func (s *SQLiteStore) AllTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, case_id, description, deadline, done
		FROM case_tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// TasksDueBetween retrieves tasks whose deadline falls inside the window.
// Either bound may be nil to leave that side open; tasks without a
// deadline are excluded. The string comparison is sound because stored
// deadlines use a lexicographically ordered layout.
func (s *SQLiteStore) TasksDueBetween(
	ctx context.Context,
	start, end *time.Time,
) ([]model.Task, error) {
	query := `
		SELECT id, case_id, description, deadline, done
		FROM case_tasks WHERE deadline != ''`
	var args []interface{}

	if start != nil {
		query += " AND deadline >= ?"
		args = append(args, start.Format(model.DeadlineStoreFormat))
	}
	if end != nil {
		query += " AND deadline <= ?"
		args = append(args, end.Format(model.DeadlineStoreFormat))
	}
	query += " ORDER BY deadline, id"

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying due tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// MarkTaskDone flips a task's done flag. The transition is one-way;
// there is no reopen.
func (s *SQLiteStore) MarkTaskDone(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "UPDATE case_tasks SET done = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("marking task %d done: %w", id, err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("marking task %d done: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteTask removes a task by id.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM case_tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting task %d: %w", id, err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("deleting task %d: %w", id, ErrNotFound)
	}
	return nil
}

// scanTask scans a task row in column order.
func scanTask(row rowScanner) (model.Task, error) {
	var (
		t    model.Task
		done int
	)
	if err := row.Scan(&t.ID, &t.CaseID, &t.Description, &t.Deadline, &done); err != nil {
		return model.Task{}, err
	}
	t.Done = done != 0
	return t, nil
}

// collectTasks drains a task result set.
func collectTasks(rows *sqlx.Rows) ([]model.Task, error) {
	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
