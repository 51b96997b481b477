package member

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

func TestNewMember(t *testing.T) {
	t.Run("SuccessfulRegistration", func(t *testing.T) {
		joinDate := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
		m, err := NewMember(Registration{
			Name:     "  Asha Patel ",
			Phone:    "9876543210",
			Email:    "asha@example.com",
			JoinDate: joinDate,
		}, now)

		require.NoError(t, err)
		assert.NotEmpty(t, m.ID)
		assert.Equal(t, "Asha Patel", m.Name)
		assert.Equal(t, joinDate, m.JoinDate)
		assert.Equal(t, StatusActive, m.Status)
		assert.True(t, m.TotalDeposits.IsZero())
		assert.True(t, m.TotalLoans.IsZero())
		assert.Equal(t, now, m.CreatedAt)
	})

	t.Run("JoinDateDefaultsToNow", func(t *testing.T) {
		m, err := NewMember(Registration{Name: "Ravi"}, now)
		require.NoError(t, err)
		assert.Equal(t, now, m.JoinDate)
	})

	t.Run("EmptyName", func(t *testing.T) {
		_, err := NewMember(Registration{Name: "   "}, now)
		assert.ErrorIs(t, err, ErrEmptyName)
	})
}

func TestMember_AddDeposit(t *testing.T) {
	m, err := NewMember(Registration{Name: "Asha"}, now)
	require.NoError(t, err)

	later := now.Add(time.Hour)
	require.NoError(t, m.AddDeposit(decimal.NewFromInt(1000), later))
	require.NoError(t, m.AddDeposit(decimal.NewFromInt(500), later))

	assert.True(t, decimal.NewFromInt(1500).Equal(m.TotalDeposits))
	assert.Equal(t, later, m.UpdatedAt)

	err = m.AddDeposit(decimal.NewFromInt(-1), later)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.True(t, decimal.NewFromInt(1500).Equal(m.TotalDeposits), "Rejected deposit must not change totals")
}

func TestMember_AddLoan(t *testing.T) {
	m, err := NewMember(Registration{Name: "Asha"}, now)
	require.NoError(t, err)

	require.NoError(t, m.AddLoan(decimal.NewFromInt(12000), now))
	assert.True(t, decimal.NewFromInt(12000).Equal(m.TotalLoans))
	assert.ErrorIs(t, m.AddLoan(decimal.NewFromInt(-5), now), ErrInvalidAmount)
}

func TestMember_UpdateContact(t *testing.T) {
	m, err := NewMember(Registration{Name: "Asha", Phone: "111"}, now)
	require.NoError(t, err)

	phone := "222"
	require.NoError(t, m.UpdateContact(Contact{Phone: &phone}, now))
	assert.Equal(t, "222", m.Phone)
	assert.Equal(t, "Asha", m.Name, "Nil fields stay unchanged")

	blank := " "
	assert.ErrorIs(t, m.UpdateContact(Contact{Name: &blank}, now), ErrEmptyName)
}

func TestMember_SetStatus(t *testing.T) {
	m, err := NewMember(Registration{Name: "Asha"}, now)
	require.NoError(t, err)

	require.NoError(t, m.SetStatus(StatusInactive, now))
	assert.False(t, m.IsActive())

	assert.ErrorIs(t, m.SetStatus(StatusInactive, now), ErrStatusUnchanged)

	var statusErr ErrInvalidStatus
	assert.True(t, errors.As(m.SetStatus("archived", now), &statusErr))
	assert.Equal(t, "archived", statusErr.Status)
}

func TestErrMemberNotFound_Is(t *testing.T) {
	err := fmt.Errorf("append entry: %w", ErrMemberNotFound{MemberID: "m-1"})

	assert.ErrorIs(t, err, ErrMemberNotFound{})
	assert.ErrorIs(t, err, ErrMemberNotFound{MemberID: "m-1"})
	assert.NotErrorIs(t, err, ErrMemberNotFound{MemberID: "m-2"})
	assert.Equal(t, "member not found: m-1", ErrMemberNotFound{MemberID: "m-1"}.Error())
}
