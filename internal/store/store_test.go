package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/casebot/internal/caseid"
	"github.com/nhle/casebot/internal/model"
	"github.com/nhle/casebot/internal/store"
	"github.com/nhle/casebot/tests/testutil"
)

func TestCreateCaseAllocatesDayScopedIDs(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	first, err := s.CreateCase(ctx, "Smith v. Jones", "", "")
	require.NoError(t, err)
	second, err := s.CreateCase(ctx, "Estate of Brown", "probate", "")
	require.NoError(t, err)

	today := time.Now().Format(caseid.DayFormat)
	assert.Equal(t, fmt.Sprintf("1-%s", today), first.ID)
	assert.Equal(t, fmt.Sprintf("2-%s", today), second.ID)

	count, err := s.CountCasesCreatedOn(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCaseRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	created, err := s.CreateCase(ctx, "Smith v. Jones", "contract dispute", "first notes")
	require.NoError(t, err)

	got, err := s.GetCase(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Smith v. Jones", got.Name)
	assert.Equal(t, "contract dispute", got.Summary)
	assert.Equal(t, "first notes", got.Notes)
	assert.False(t, got.Mirror.IsSet())
	assert.False(t, got.CreatedAt.IsZero())

	name := "Smith v. Jones (appeal)"
	mref := model.MirrorRef{ThreadID: "t-1", MessageID: "m-1"}
	require.NoError(t, s.UpdateCase(ctx, created.ID, store.CaseUpdate{Name: &name, Mirror: &mref}))

	got, err = s.GetCase(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, name, got.Name)
	assert.Equal(t, "contract dispute", got.Summary, "unset fields stay untouched")
	assert.Equal(t, mref, got.Mirror)
}

func TestGetCaseNotFound(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.GetCase(context.Background(), "9-01012030")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLinkContactUpsert(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	c, err := s.CreateCase(ctx, "Smith v. Jones", "", "")
	require.NoError(t, err)
	contactID, err := s.CreateContact(ctx, model.Contact{Name: "Ann Smith", Status: "Client"})
	require.NoError(t, err)

	require.NoError(t, s.LinkContact(ctx, c.ID, contactID, "Plaintiff"))
	require.NoError(t, s.LinkContact(ctx, c.ID, contactID, "Witness"))

	linked, err := s.ContactsForCase(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, linked, 1, "relinking the same pair must not add a row")
	assert.Equal(t, "Witness", linked[0].Role)
	assert.Equal(t, "Ann Smith", linked[0].Name)

	cases, err := s.CasesForContact(ctx, contactID)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, c.ID, cases[0].CaseID)
	assert.Equal(t, "Witness", cases[0].Role)
}

func TestDeleteCaseCascades(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	c, err := s.CreateCase(ctx, "Smith v. Jones", "", "")
	require.NoError(t, err)
	contactID, err := s.CreateContact(ctx, model.Contact{Name: "Ann Smith", Status: "Client"})
	require.NoError(t, err)
	require.NoError(t, s.LinkContact(ctx, c.ID, contactID, "Plaintiff"))
	_, err = s.AddTask(ctx, c.ID, "File motion", "2030-01-01 09:00")
	require.NoError(t, err)

	require.NoError(t, s.DeleteCase(ctx, c.ID))

	cases, err := s.CasesForContact(ctx, contactID)
	require.NoError(t, err)
	assert.Empty(t, cases, "links must be removed with the case")

	tasks, err := s.AllTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks, "tasks must be removed with the case")

	// The contact itself survives.
	_, err = s.GetContact(ctx, contactID)
	assert.NoError(t, err)
}

func TestDeleteContactCascadesLinks(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	c, err := s.CreateCase(ctx, "Smith v. Jones", "", "")
	require.NoError(t, err)
	contactID, err := s.CreateContact(ctx, model.Contact{Name: "Ann Smith", Status: "Client"})
	require.NoError(t, err)
	require.NoError(t, s.LinkContact(ctx, c.ID, contactID, "Plaintiff"))

	require.NoError(t, s.DeleteContact(ctx, contactID))

	linked, err := s.ContactsForCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, linked)
}

func TestContactUpdatePartial(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	id, err := s.CreateContact(ctx, model.Contact{
		Name: "Ann Smith", Info: "ann@example.com", Status: "Client",
	})
	require.NoError(t, err)

	status := "VIP"
	user := "u-100"
	require.NoError(t, s.UpdateContact(ctx, id, store.ContactUpdate{
		Status: &status, PlatformUserID: &user,
	}))

	got, err := s.GetContact(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "VIP", got.Status)
	assert.Equal(t, "u-100", got.PlatformUserID)
	assert.Equal(t, "ann@example.com", got.Info)
}

func TestTasksDueBetween(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	c, err := s.CreateCase(ctx, "Smith v. Jones", "", "")
	require.NoError(t, err)

	_, err = s.AddTask(ctx, c.ID, "early", "2030-01-01 09:00")
	require.NoError(t, err)
	_, err = s.AddTask(ctx, c.ID, "late", "2030-06-01 09:00")
	require.NoError(t, err)
	_, err = s.AddTask(ctx, c.ID, "no deadline", "")
	require.NoError(t, err)

	from := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2030, 3, 1, 0, 0, 0, 0, time.UTC)

	got, err := s.TasksDueBetween(ctx, &from, &to)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "early", got[0].Description)

	// Open-ended on both sides returns every dated task.
	got, err = s.TasksDueBetween(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestMarkTaskDone(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	c, err := s.CreateCase(ctx, "Smith v. Jones", "", "")
	require.NoError(t, err)
	id, err := s.AddTask(ctx, c.ID, "File motion", "")
	require.NoError(t, err)

	require.NoError(t, s.MarkTaskDone(ctx, id))

	got, err := s.GetTask(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.Done)

	assert.ErrorIs(t, s.MarkTaskDone(ctx, 999), store.ErrNotFound)
}
