package model

// DeadlineStoreFormat is the normalized layout task deadlines are stored
// in. User-facing input and output use DeadlineDisplayFormat.
const (
	DeadlineStoreFormat   = "2006-01-02 15:04"
	DeadlineDisplayFormat = "02.01.2006 15:04"
)

// Task is a unit of work attached to a case.
type Task struct {
	// ID is the store-assigned integer identifier.
	ID int64 `json:"id" db:"id"`

	// CaseID is the owning case's identifier.
	CaseID string `json:"case_id" db:"case_id"`

	// Description is the task text; required.
	Description string `json:"description" db:"description"`

	// Deadline is the raw stored deadline string in DeadlineStoreFormat,
	// or empty when the task has no deadline. A task without a deadline
	// is never classified or notified.
	Deadline string `json:"deadline" db:"deadline"`

	// Done marks the task complete. The transition is one-way; a done
	// task permanently leaves notification eligibility.
	Done bool `json:"done" db:"done"`
}
