package notify_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/casebot/internal/model"
	"github.com/nhle/casebot/internal/notify"
	"github.com/nhle/casebot/internal/store"
	"github.com/nhle/casebot/tests/testutil"
)

const alertChannel = "alerts"

func newScheduler(s store.Store, tr *testutil.FakeTransport) *notify.Scheduler {
	cfg := notify.Config{ChannelID: alertChannel, Window: 24 * time.Hour}
	return notify.NewScheduler(s, tr, cfg, zerolog.Nop())
}

// addTask inserts a case with a single task whose stored deadline is due
// at the given instant.
func addTask(t *testing.T, s store.Store, desc string, due time.Time) (string, int64) {
	t.Helper()
	ctx := context.Background()

	c, err := s.CreateCase(ctx, "Smith v. Jones", "", "")
	require.NoError(t, err)
	id, err := s.AddTask(ctx, c.ID, desc, due.Format(model.DeadlineStoreFormat))
	require.NoError(t, err)
	return c.ID, id
}

func TestTickNotifiesDueSoonTaskOnce(t *testing.T) {
	s := testutil.NewTestStore(t)
	tr := testutil.NewFakeTransport(alertChannel)
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.Local)

	addTask(t, s, "File motion", now.Add(2*time.Hour))

	sched := newScheduler(s, tr)
	require.NoError(t, sched.Tick(context.Background(), now))

	require.Len(t, tr.Sent, 1)
	assert.Contains(t, tr.Sent[0].Content, "Task Due Soon")
	assert.Contains(t, tr.Sent[0].Content, "File motion")
	assert.Contains(t, tr.Sent[0].Content, "Smith v. Jones")
	assert.Contains(t, tr.Sent[0].Content, "No users linked")

	// The second pass must not re-notify the same task.
	require.NoError(t, sched.Tick(context.Background(), now))
	assert.Len(t, tr.Sent, 1)
}

func TestTickNotifiesOverdueTask(t *testing.T) {
	s := testutil.NewTestStore(t)
	tr := testutil.NewFakeTransport(alertChannel)
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.Local)

	addTask(t, s, "File motion", now.Add(-time.Hour))

	sched := newScheduler(s, tr)
	require.NoError(t, sched.Tick(context.Background(), now))

	require.Len(t, tr.Sent, 1)
	assert.Contains(t, tr.Sent[0].Content, "Task Overdue")
}

// A deadline two hours ahead on the operator's clock must never come
// out overdue just because the host zone is offset from UTC.
func TestTickUsesWallClockDeadlines(t *testing.T) {
	s := testutil.NewTestStore(t)
	tr := testutil.NewFakeTransport(alertChannel)
	ctx := context.Background()
	now := time.Date(2030, 1, 2, 12, 0, 0, 0, time.Local)

	c, err := s.CreateCase(ctx, "Smith v. Jones", "", "")
	require.NoError(t, err)
	_, err = s.AddTask(ctx, c.ID, "File motion", "2030-01-02 14:00")
	require.NoError(t, err)

	sched := notify.NewScheduler(s, tr, notify.Config{
		ChannelID: alertChannel,
		Window:    time.Hour,
	}, zerolog.Nop())
	require.NoError(t, sched.Tick(ctx, now))
	assert.Empty(t, tr.Sent, "a deadline beyond the window is not yet due")

	wide := newScheduler(s, tr)
	require.NoError(t, wide.Tick(ctx, now))
	require.Len(t, tr.Sent, 1)
	assert.Contains(t, tr.Sent[0].Content, "Task Due Soon")
}

func TestTickSkipsDoneAndFarFutureTasks(t *testing.T) {
	s := testutil.NewTestStore(t)
	tr := testutil.NewFakeTransport(alertChannel)
	ctx := context.Background()
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.Local)

	_, doneID := addTask(t, s, "Already handled", now.Add(time.Hour))
	require.NoError(t, s.MarkTaskDone(ctx, doneID))
	addTask(t, s, "Next month", now.Add(30*24*time.Hour))

	sched := newScheduler(s, tr)
	require.NoError(t, sched.Tick(ctx, now))

	assert.Empty(t, tr.Sent)
}

func TestTickSkipsTasksWithoutParsableDeadline(t *testing.T) {
	s := testutil.NewTestStore(t)
	tr := testutil.NewFakeTransport(alertChannel)
	ctx := context.Background()

	c, err := s.CreateCase(ctx, "Smith v. Jones", "", "")
	require.NoError(t, err)
	_, err = s.AddTask(ctx, c.ID, "No deadline", "")
	require.NoError(t, err)
	_, err = s.AddTask(ctx, c.ID, "Free-form deadline", "after the hearing")
	require.NoError(t, err)

	sched := newScheduler(s, tr)
	require.NoError(t, sched.Tick(ctx, time.Date(2030, 1, 1, 12, 0, 0, 0, time.Local)))

	assert.Empty(t, tr.Sent)
}

func TestTickIsNoOpWhenChannelUnresolvable(t *testing.T) {
	s := testutil.NewTestStore(t)
	tr := testutil.NewFakeTransport() // alert channel not registered
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.Local)

	addTask(t, s, "File motion", now.Add(time.Hour))

	sched := newScheduler(s, tr)
	require.NoError(t, sched.Tick(context.Background(), now))
	assert.Empty(t, tr.Sent)

	// Once the channel comes back the task is still eligible.
	tr2 := testutil.NewFakeTransport(alertChannel)
	sched2 := newScheduler(s, tr2)
	require.NoError(t, sched2.Tick(context.Background(), now))
	require.Len(t, tr2.Sent, 1)
	assert.Contains(t, tr2.Sent[0].Content, "File motion")
}

func TestTickSendsSeparatePingForLinkedUsers(t *testing.T) {
	s := testutil.NewTestStore(t)
	tr := testutil.NewFakeTransport(alertChannel)
	ctx := context.Background()
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.Local)

	caseID, _ := addTask(t, s, "File motion", now.Add(time.Hour))
	contactID, err := s.CreateContact(ctx, model.Contact{Name: "Ann Smith", PlatformUserID: "u-42"})
	require.NoError(t, err)
	require.NoError(t, s.LinkContact(ctx, caseID, contactID, "Plaintiff"))

	sched := newScheduler(s, tr)
	require.NoError(t, sched.Tick(ctx, now))

	require.Len(t, tr.Sent, 2)
	assert.Contains(t, tr.Sent[0].Content, "<@u-42>")
	assert.Equal(t, "🔔 <@u-42>", tr.Sent[1].Content)
}

func TestTickIsolatesPerTaskFailures(t *testing.T) {
	s := testutil.NewTestStore(t)
	tr := testutil.NewFakeTransport(alertChannel)
	ctx := context.Background()
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.Local)

	// The store does not validate case ids on task insert; a task whose
	// case is gone makes notifyTask fail without aborting the pass.
	_, err := s.AddTask(ctx, "99-01012030", "Orphaned task", now.Add(time.Hour).Format(model.DeadlineStoreFormat))
	require.NoError(t, err)

	healthyCase, _ := addTask(t, s, "Healthy task", now.Add(time.Hour))

	sched := newScheduler(s, tr)
	require.NoError(t, sched.Tick(ctx, now))

	require.Len(t, tr.Sent, 1)
	assert.Contains(t, tr.Sent[0].Content, "Healthy task")
	assert.Contains(t, tr.Sent[0].Content, healthyCase)
}

func TestStartStopIsIdempotent(t *testing.T) {
	s := testutil.NewTestStore(t)
	tr := testutil.NewFakeTransport(alertChannel)

	sched := newScheduler(s, tr)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched.Start(ctx)
	sched.Start(ctx)
	sched.Stop()
	sched.Stop()

	// A stopped scheduler restarts cleanly and stops again.
	sched.Start(ctx)
	sched.Stop()
}
