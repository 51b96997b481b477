package maturity

import (
	"testing"
	"time"

	"github.com/cooperative-society-ledger/internal/domain/member"
	"github.com/cooperative-society-ledger/internal/domain/passbook"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var joinDate = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func depositEntry(date time.Time, amount int64) passbook.Entry {
	return passbook.Entry{
		MemberID:   "m-1",
		Date:       date,
		Type:       passbook.TypeDeposit,
		Components: passbook.Components{DepositAmount: d(amount)},
	}
}

func TestProject_Arithmetic(t *testing.T) {
	m := member.Member{ID: "m-1", Name: "Asha", JoinDate: joinDate}
	now := joinDate.AddDate(0, 0, 12*daysPerMonth+5)

	p := Project(Input{
		Member:          m,
		Entries:         []passbook.Entry{depositEntry(joinDate, 1000)},
		OutstandingLoan: d(5000),
		Now:             now,
	})

	assert.True(t, d(1000).Equal(p.MonthlyDeposit))
	assert.True(t, d(36000).Equal(p.TargetDeposit))
	assert.True(t, d(4320).Equal(p.ProjectedInterest))
	assert.True(t, d(4320).Equal(p.SettledInterest))
	assert.True(t, d(40320).Equal(p.MaturityAmount))
	assert.Equal(t, 12, p.MonthsCompleted)
	assert.True(t, d(120).Equal(p.MonthlyInterestShare))
	assert.True(t, d(1440).Equal(p.CurrentAccruedInterest))
	assert.True(t, d(35320).Equal(p.NetPayable))
	assert.Equal(t, StatusRunning, p.Status)
	assert.False(t, p.IsOverride)
	assert.Equal(t, joinDate.AddDate(0, 36, 0), p.MaturityDate)
}

func TestProject_Override(t *testing.T) {
	m := member.Member{ID: "m-1", JoinDate: joinDate}
	override, err := NewOverride("m-1", d(3600), joinDate)
	require.NoError(t, err)

	p := Project(Input{
		Member:   m,
		Entries:  []passbook.Entry{depositEntry(joinDate, 1000)},
		Override: &override,
		Now:      joinDate.AddDate(5, 0, 0),
	})

	assert.True(t, p.IsOverride)
	assert.True(t, d(4320).Equal(p.ProjectedInterest), "Projection is still reported")
	assert.True(t, d(3600).Equal(p.SettledInterest))
	assert.True(t, d(39600).Equal(p.MaturityAmount))
	assert.Equal(t, SchemeMonths, p.MonthsCompleted)
	assert.True(t, d(3600).Equal(p.CurrentAccruedInterest))
	assert.Equal(t, StatusMatured, p.Status)

	_, err = NewOverride("m-1", d(-1), joinDate)
	assert.ErrorIs(t, err, ErrInvalidInterest)
}

func TestProject_AccruedInterestNotDivisibleByScheme(t *testing.T) {
	m := member.Member{ID: "m-1", JoinDate: joinDate}
	override, err := NewOverride("m-1", d(1000), joinDate)
	require.NoError(t, err)

	tests := []struct {
		name     string
		days     int
		expected decimal.Decimal
	}{
		{"Matured", SchemeMonths * daysPerMonth, d(1000)},
		{"HalfWay", 18 * daysPerMonth, d(500)},
		{"OneThird", 12 * daysPerMonth, d(1000).Mul(d(12)).Div(d(SchemeMonths))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Project(Input{
				Member:   m,
				Override: &override,
				Now:      joinDate.AddDate(0, 0, tt.days),
			})

			assert.Equal(t, "27.78", p.MonthlyInterestShare.String())
			assert.True(t, tt.expected.Equal(p.CurrentAccruedInterest), "got %s", p.CurrentAccruedInterest)
			assert.False(t, p.CurrentAccruedInterest.GreaterThan(p.SettledInterest))
		})
	}
}

func TestMonthlyDeposit(t *testing.T) {
	t.Run("EarliestByDate", func(t *testing.T) {
		entries := []passbook.Entry{
			depositEntry(joinDate.AddDate(0, 2, 0), 1500),
			{Type: passbook.TypeFine, Date: joinDate.AddDate(0, -1, 0), Components: passbook.Components{FineAmount: d(10)}},
			depositEntry(joinDate, 1000),
			depositEntry(joinDate, 2000),
		}
		assert.True(t, d(1000).Equal(MonthlyDeposit(entries)), "Ties resolve to the first appended")
	})

	t.Run("NoDeposits", func(t *testing.T) {
		assert.True(t, MonthlyDeposit(nil).IsZero())
	})
}

func TestMonthsCompleted(t *testing.T) {
	testCases := []struct {
		name     string
		now      time.Time
		expected int
	}{
		{"BeforeJoin", joinDate.AddDate(0, 0, -3), 0},
		{"SameDay", joinDate, 0},
		{"29Days", joinDate.AddDate(0, 0, 29), 0},
		{"30Days", joinDate.AddDate(0, 0, 30), 1},
		{"Capped", joinDate.AddDate(10, 0, 0), SchemeMonths},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, MonthsCompleted(joinDate, tc.now))
		})
	}
}
