package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/casebot/internal/mirror"
	"github.com/nhle/casebot/internal/model"
	"github.com/nhle/casebot/internal/notify"
	"github.com/nhle/casebot/internal/service"
	"github.com/nhle/casebot/internal/store"
	"github.com/nhle/casebot/tests/testutil"
)

const (
	caseForum    = "case-forum"
	contactForum = "contact-forum"
	alertChannel = "alerts"
)

type fixture struct {
	store     *store.SQLiteStore
	transport *testutil.FakeTransport
	cases     *service.Cases
	contacts  *service.Contacts
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s := testutil.NewTestStore(t)
	tr := testutil.NewFakeTransport(caseForum, contactForum, alertChannel)
	sy := mirror.NewSyncer(s, tr, zerolog.Nop())

	return &fixture{
		store:     s,
		transport: tr,
		cases:     service.NewCases(s, tr, sy, caseForum, zerolog.Nop()),
		contacts:  service.NewContacts(s, tr, sy, contactForum, zerolog.Nop()),
	}
}

func TestCreateCaseOpensMirrorThread(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.cases.Create(ctx, "tester", "Smith v. Jones", "contract dispute", "")
	require.NoError(t, err)

	assert.True(t, c.Mirror.IsSet())
	require.Len(t, f.transport.Created, 1)
	assert.Equal(t, f.transport.Created[0].ThreadID, c.Mirror.ThreadID)

	stored, err := f.store.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Mirror, stored.Mirror)
}

func TestCreateCaseFailsWhenForumUnreachable(t *testing.T) {
	f := newFixture(t)
	f.transport.RemoveChannel(caseForum)

	_, err := f.cases.Create(context.Background(), "tester", "Smith v. Jones", "", "")
	require.Error(t, err)

	cases, err := f.store.ListCases(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cases, "nothing is written when the forum check fails")
}

func TestAddTaskRejectsBadDeadline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.cases.Create(ctx, "tester", "Smith v. Jones", "", "")
	require.NoError(t, err)

	_, err = f.cases.AddTask(ctx, "tester", c.ID, "File motion", "next tuesday")
	assert.ErrorIs(t, err, service.ErrBadDeadline)
}

func TestAddTaskNormalizesDeadline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.cases.Create(ctx, "tester", "Smith v. Jones", "", "")
	require.NoError(t, err)

	id, err := f.cases.AddTask(ctx, "tester", c.ID, "File motion", "05.01.2030 09:00")
	require.NoError(t, err)

	task, err := f.store.GetTask(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "2030-01-05 09:00", task.Deadline)
}

func TestDeleteCaseLogsBeforeRemoving(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.cases.Create(ctx, "tester", "Smith v. Jones", "", "")
	require.NoError(t, err)

	require.NoError(t, f.cases.Delete(ctx, "tester", c.ID))

	_, err = f.store.GetCase(ctx, c.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// The deletion notice landed in the thread before the record went away.
	require.NotEmpty(t, f.transport.Sent)
	last := f.transport.Sent[len(f.transport.Sent)-1]
	assert.Equal(t, c.Mirror.ThreadID, last.ChannelID)
	assert.Contains(t, last.Content, "Case deleted")
}

func TestLinkValidatesBothSides(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.cases.Create(ctx, "tester", "Smith v. Jones", "", "")
	require.NoError(t, err)

	err = f.cases.Link(ctx, "tester", c.ID, 999, "Plaintiff")
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = f.cases.Link(ctx, "tester", "99-01012030", 1, "Plaintiff")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDueReportFiltersWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.Local)

	c, err := f.cases.Create(ctx, "tester", "Smith v. Jones", "", "")
	require.NoError(t, err)

	_, err = f.cases.AddTask(ctx, "tester", c.ID, "Due tomorrow", "02.01.2030 09:00")
	require.NoError(t, err)
	_, err = f.cases.AddTask(ctx, "tester", c.ID, "Due next month", "01.02.2030")
	require.NoError(t, err)
	doneID, err := f.cases.AddTask(ctx, "tester", c.ID, "Done already", "02.01.2030 10:00")
	require.NoError(t, err)
	require.NoError(t, f.cases.CompleteTask(ctx, "tester", doneID))

	to := now.AddDate(0, 0, 7)
	items, err := f.cases.DueReport(ctx, now, nil, &to)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "Due tomorrow", items[0].Task.Description)
	assert.Equal(t, "Smith v. Jones", items[0].CaseName)
	assert.Equal(t, time.Date(2030, 1, 2, 9, 0, 0, 0, time.Local), items[0].Due)
}

// End to end: a freshly created case with a task due within the window is
// notified exactly once, with no ping since no contacts are linked.
func TestDeadlineFlowEndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.Local)

	c, err := f.cases.Create(ctx, "tester", "Smith v. Jones", "", "")
	require.NoError(t, err)
	_, err = f.cases.AddTask(ctx, "tester", c.ID, "File motion", "01.01.2030 13:00")
	require.NoError(t, err)

	sched := notify.NewScheduler(f.store, f.transport, notify.Config{
		ChannelID: alertChannel,
		Window:    24 * time.Hour,
	}, zerolog.Nop())

	before := len(f.transport.Sent)
	require.NoError(t, sched.Tick(ctx, now))

	alerts := f.transport.Sent[before:]
	require.Len(t, alerts, 1)
	assert.Equal(t, alertChannel, alerts[0].ChannelID)
	assert.Contains(t, alerts[0].Content, "Task Due Soon")
	assert.Contains(t, alerts[0].Content, "File motion")
	assert.Contains(t, alerts[0].Content, "No users linked")

	require.NoError(t, sched.Tick(ctx, now))
	assert.Len(t, f.transport.Sent, before+1)
}

func TestContactAddSwapsPlaceholderForSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.contacts.Add(ctx, "tester", model.Contact{
		Name:   "Ann Smith",
		Info:   "ann@example.com",
		Status: "Client",
	})
	require.NoError(t, err)

	assert.True(t, c.Mirror.IsSet())
	require.Len(t, f.transport.Edits, 1)
	assert.Equal(t, c.Mirror.MessageID, f.transport.Edits[0].MessageID)
	assert.Contains(t, f.transport.Edits[0].Content, "Ann Smith")
	assert.Contains(t, f.transport.Edits[0].Content, "ann@example.com")
}

func TestContactDeleteCleansLinks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.cases.Create(ctx, "tester", "Smith v. Jones", "", "")
	require.NoError(t, err)
	contact, err := f.contacts.Add(ctx, "tester", model.Contact{Name: "Ann Smith"})
	require.NoError(t, err)
	require.NoError(t, f.cases.Link(ctx, "tester", c.ID, contact.ID, "Plaintiff"))

	require.NoError(t, f.contacts.Delete(ctx, "tester", contact.ID))

	linked, err := f.store.ContactsForCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, linked)
}
