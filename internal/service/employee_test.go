package service

import (
	"testing"

	"availability-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	got, err := NormalizeEmail("  Jane.Doe@X.com ")
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@x.com", got)

	for _, bad := range []string{"", "jane", "Jane <jane@x.com>", "a@"} {
		_, err := NormalizeEmail(bad)
		assert.ErrorIs(t, err, ErrInvalidInput, bad)
	}
}

func TestEmployeeService_Register(t *testing.T) {
	f := newFixture(t)
	chat := int64(100)

	e, err := f.employees.Register(f.ctx, RegisterInput{Email: "Jane@X.com", DisplayName: "Jane", ChatID: &chat})
	require.NoError(t, err)
	assert.Equal(t, "jane@x.com", e.Email)
	assert.Equal(t, "ES", e.CountryCode)
	assert.Equal(t, "Europe/Madrid", e.TimeZoneID)
	assert.Equal(t, models.RoleEmployee, e.Role)

	t.Run("validation", func(t *testing.T) {
		_, err := f.employees.Register(f.ctx, RegisterInput{Email: "a@x.com", CountryCode: "ESP"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "country", verr.Field)

		_, err = f.employees.Register(f.ctx, RegisterInput{Email: "a@x.com", TimeZoneID: "Mars/Olympus"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := f.employees.Register(f.ctx, RegisterInput{Email: "jane@x.com"})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("chat bound to someone else", func(t *testing.T) {
		_, err := f.employees.Register(f.ctx, RegisterInput{Email: "other@x.com", ChatID: &chat})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("known employee claims a chat", func(t *testing.T) {
		f.employee(t, "bob@x.com", "", models.RoleEmployee)
		bobChat := int64(200)

		e, err := f.employees.Register(f.ctx, RegisterInput{Email: "bob@x.com", DisplayName: "Bob", CountryCode: "us", ChatID: &bobChat})
		require.NoError(t, err)
		assert.Equal(t, "US", e.CountryCode)

		got, err := f.employees.GetByChatID(f.ctx, 200)
		require.NoError(t, err)
		assert.Equal(t, "Bob", got.DisplayName)
	})
}

func TestEmployeeService_Lookups(t *testing.T) {
	f := newFixture(t)
	f.employee(t, "jane@x.com", "Jane", models.RoleEmployee)

	_, err := f.employees.Get(f.ctx, "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.employees.GetByChatID(f.ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := f.employees.List(f.ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestEmployeeService_Managers(t *testing.T) {
	f := newFixture(t)
	jane := f.employee(t, "jane@x.com", "Jane", models.RoleEmployee)
	boss := f.employee(t, "boss@x.com", "Boss", models.RoleEmployee)

	_, err := f.employees.RequireManager(f.ctx, "boss@x.com")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.employees.RequireManager(f.ctx, "")
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, f.employees.SetRole(f.ctx, "boss@x.com", models.RoleManager))
	assert.ErrorIs(t, f.employees.SetRole(f.ctx, "boss@x.com", "owner"), ErrInvalidInput)

	m, err := f.employees.RequireManager(f.ctx, "BOSS@x.com")
	require.NoError(t, err)
	assert.Equal(t, boss.ID, m.ID)

	require.NoError(t, f.employees.AssignManager(f.ctx, "jane@x.com", "boss@x.com"))
	got, err := f.employees.Get(f.ctx, "jane@x.com")
	require.NoError(t, err)
	require.NotNil(t, got.ManagerID)
	assert.Equal(t, boss.ID, *got.ManagerID)

	assert.ErrorIs(t, f.employees.AssignManager(f.ctx, "jane@x.com", "jane@x.com"), ErrInvalidInput)
	assert.ErrorIs(t, f.employees.AssignManager(f.ctx, "jane@x.com", "ghost@x.com"), ErrNotFound)

	require.NoError(t, f.employees.Delete(f.ctx, "boss@x.com"))
	got, err = f.employees.Get(f.ctx, jane.Email)
	require.NoError(t, err)
	assert.Nil(t, got.ManagerID)
}

func TestEmployeeService_InitializeManager(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.employees.InitializeManager(f.ctx, 0))
	list, err := f.employees.List(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, f.employees.InitializeManager(f.ctx, 555))
	m, err := f.employees.GetByChatID(f.ctx, 555)
	require.NoError(t, err)
	assert.True(t, m.IsManager())
	assert.False(t, m.HasMailbox())

	ids, err := f.employees.ManagerChatIDs(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{555}, ids)

	chat := int64(777)
	_, err = f.employees.Register(f.ctx, RegisterInput{Email: "lead@x.com", ChatID: &chat})
	require.NoError(t, err)
	require.NoError(t, f.employees.InitializeManager(f.ctx, 777))
	lead, err := f.employees.Get(f.ctx, "lead@x.com")
	require.NoError(t, err)
	assert.True(t, lead.IsManager())
}
