package notify

// NotifiedSet tracks which tasks have already triggered a notification
// in this process lifetime. There is no eviction: a task stays marked
// until restart, so it is alerted at most once even if it later moves
// from due-soon to overdue. Only the scheduler's single timeline touches
// the set, so no locking is needed.
type NotifiedSet struct {
	ids map[int64]struct{}
}

// NewNotifiedSet creates an empty tracker.
func NewNotifiedSet() *NotifiedSet {
	return &NotifiedSet{ids: make(map[int64]struct{})}
}

// Has reports whether the task has already been notified.
func (n *NotifiedSet) Has(taskID int64) bool {
	_, ok := n.ids[taskID]
	return ok
}

// Mark records the task as notified.
func (n *NotifiedSet) Mark(taskID int64) {
	n.ids[taskID] = struct{}{}
}
