package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"availability-bot/internal/models"
	"availability-bot/internal/notify"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVacationService_CreateNotifiesManagers(t *testing.T) {
	f := newFixture(t)
	f.employee(t, "boss@x.com", "Boss", models.RoleManager)
	f.employee(t, "jane@x.com", "Jane", models.RoleEmployee)
	require.NoError(t, f.employees.InitializeManager(f.ctx, 999))

	req, err := f.vacations.Create(f.ctx, "Jane@x.com", day(2025, 8, 1), day(2025, 8, 15))
	require.NoError(t, err)
	assert.NotZero(t, req.ID)
	assert.Equal(t, models.StatusPending, req.Status)
	assert.Equal(t, "jane@x.com", req.EmployeeEmail)

	stored, err := f.vacations.Get(f.ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)

	assert.ElementsMatch(t,
		[]notify.EventType{notify.EventPendingCountUpdated, notify.EventVacationRequestCreated},
		f.dispatcher.Types())
	assert.Equal(t, []string{"boss@x.com"}, f.dispatcher.Recipients(), "placeholder managers have no mailbox")

	for _, ev := range f.dispatcher.events {
		switch p := ev.Payload.(type) {
		case notify.PendingCount:
			assert.EqualValues(t, 1, p.Count)
		case notify.RequestSummary:
			assert.Equal(t, req.ID, p.ID)
			assert.Equal(t, "jane@x.com", p.User)
			assert.Equal(t, "2025-08-01", p.From)
			assert.Equal(t, "2025-08-15", p.To)
		}
	}

	assert.Contains(t, f.dispatcher.emails[0].Subject, "jane@x.com")
	assert.Contains(t, f.dispatcher.emails[0].HTMLBody, "https://dash.example.com")
}

func TestVacationService_CreateValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.vacations.Create(f.ctx, "jane@x.com", day(2025, 8, 15), day(2025, 8, 1))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.vacations.Create(f.ctx, "", day(2025, 8, 1), day(2025, 8, 1))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.vacations.Create(f.ctx, "jane@x.com", time.Time{}, day(2025, 8, 1))
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Empty(t, f.dispatcher.Types())
	count, err := f.vacations.PendingCount(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestVacationService_SingleDayRequest(t *testing.T) {
	f := newFixture(t)

	req, err := f.vacations.Create(f.ctx, "jane@x.com", time.Date(2025, 8, 1, 18, 30, 0, 0, time.UTC), day(2025, 8, 1))
	require.NoError(t, err)
	assert.Equal(t, day(2025, 8, 1), req.From)
}

func TestVacationService_Decide(t *testing.T) {
	f := newFixture(t)
	f.employee(t, "boss@x.com", "Boss", models.RoleManager)
	f.employee(t, "jane@x.com", "Jane", models.RoleEmployee)

	req, err := f.vacations.Create(f.ctx, "jane@x.com", day(2025, 8, 1), day(2025, 8, 15))
	require.NoError(t, err)
	f.dispatcher.events, f.dispatcher.emails = nil, nil

	t.Run("manager identity required", func(t *testing.T) {
		_, err := f.vacations.Decide(f.ctx, req.ID, "", true)
		assert.ErrorIs(t, err, ErrForbidden)

		_, err = f.vacations.Decide(f.ctx, req.ID, "jane@x.com", true)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown request", func(t *testing.T) {
		_, err := f.vacations.Decide(f.ctx, 9999, "boss@x.com", true)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("approve", func(t *testing.T) {
		decided, err := f.vacations.Decide(f.ctx, req.ID, "Boss@x.com", true)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, decided.Status)
		require.NotNil(t, decided.DecidedBy)
		assert.Equal(t, "boss@x.com", *decided.DecidedBy)
		require.NotNil(t, decided.DecidedAt)
		assert.Equal(t, time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC), *decided.DecidedAt)

		stored, err := f.vacations.Get(f.ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, stored.Status)

		assert.ElementsMatch(t,
			[]notify.EventType{notify.EventPendingCountUpdated, notify.EventVacationRequestDecided},
			f.dispatcher.Types())
		assert.Equal(t, []string{"jane@x.com"}, f.dispatcher.Recipients())
	})

	t.Run("terminal once decided", func(t *testing.T) {
		_, err := f.vacations.Decide(f.ctx, req.ID, "boss@x.com", false)
		assert.ErrorIs(t, err, ErrAlreadyDecided)
	})
}

func TestVacationService_Correct(t *testing.T) {
	f := newFixture(t)
	f.employee(t, "boss@x.com", "Boss", models.RoleManager)

	req, err := f.vacations.Create(f.ctx, "jane@x.com", day(2025, 8, 1), day(2025, 8, 2))
	require.NoError(t, err)
	_, err = f.vacations.Decide(f.ctx, req.ID, "boss@x.com", true)
	require.NoError(t, err)

	corrected, err := f.vacations.Correct(f.ctx, req.ID, "boss@x.com", models.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, corrected.Status)

	reopened, err := f.vacations.Correct(f.ctx, req.ID, "boss@x.com", models.StatusPending)
	require.NoError(t, err)
	assert.Nil(t, reopened.DecidedAt)
	assert.Nil(t, reopened.DecidedBy)

	pending, err := f.vacations.Pending(f.ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	_, err = f.vacations.Correct(f.ctx, req.ID, "boss@x.com", "Cancelled")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.vacations.Correct(f.ctx, req.ID, "jane@x.com", models.StatusApproved)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestVacationService_ForEmployee(t *testing.T) {
	f := newFixture(t)

	_, err := f.vacations.Create(f.ctx, "jane@x.com", day(2025, 8, 1), day(2025, 8, 2))
	require.NoError(t, err)
	_, err = f.vacations.Create(f.ctx, "bob@x.com", day(2025, 8, 1), day(2025, 8, 2))
	require.NoError(t, err)

	list, err := f.vacations.ForEmployee(f.ctx, "Jane@x.com")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

type collectingNotifier struct {
	mu    sync.Mutex
	count int
}

func (n *collectingNotifier) Name() string { return "collect" }

func (n *collectingNotifier) Notify(context.Context, notify.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.count++
	return nil
}

type failingMailer struct{}

func (failingMailer) Send(context.Context, notify.Message) error { return errors.New("smtp down") }

func TestVacationService_EmailFailureDoesNotFailCreate(t *testing.T) {
	f := newFixture(t)
	f.employee(t, "boss@x.com", "Boss", models.RoleManager)

	sink := &collectingNotifier{}
	outbox := notify.NewOutbox(notify.OutboxConfig{Workers: 2, Size: 16}, failingMailer{}, sink)
	quiet, _ := test.NewNullLogger()
	outbox.SetLogger(quiet)

	svc := NewVacationService(f.vacationRepo, f.employeeRepo, outbox, "")
	svc.SetLogger(quiet)

	req, err := svc.Create(f.ctx, "jane@x.com", day(2025, 8, 1), day(2025, 8, 2))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, outbox.Close(ctx))

	assert.Equal(t, 2, sink.count)
	stored, err := svc.Get(f.ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
}
