package loan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func TestNewLoan(t *testing.T) {
	stockID := uint(9)
	l := NewLoan(1, 2, &stockID, base, DefaultPolicy())

	assert.Equal(t, base.Add(14*24*time.Hour), l.DueDate)
	assert.Equal(t, StateActive, l.State())
	assert.Equal(t, int64(0), l.Fine)
}

func TestLoan_Return(t *testing.T) {
	policy := DefaultPolicy()

	cases := []struct {
		name     string
		returned time.Time
		fine     int64
	}{
		{"提前归还", base.Add(3 * 24 * time.Hour), 0},
		{"到期当天归还", base.Add(14 * 24 * time.Hour), 0},
		{"逾期3天", base.Add(17 * 24 * time.Hour), 3 * 50},
		{"逾期不足一天舍去", base.Add(14*24*time.Hour + 23*time.Hour), 0},
		{"逾期2天半", base.Add(16*24*time.Hour + 12*time.Hour), 2 * 50},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := NewLoan(1, 2, nil, base, policy)
			require.NoError(t, l.Return(tc.returned, policy))
			assert.Equal(t, tc.fine, l.Fine)
			assert.Equal(t, StateReturned, l.State())
			require.NotNil(t, l.ReturnDate)
			assert.Equal(t, tc.returned, *l.ReturnDate)
		})
	}
}

func TestLoan_ReturnTwice(t *testing.T) {
	policy := DefaultPolicy()
	l := NewLoan(1, 2, nil, base, policy)
	first := base.Add(20 * 24 * time.Hour)
	require.NoError(t, l.Return(first, policy))
	fine := l.Fine

	err := l.Return(first.Add(10*24*time.Hour), policy)
	assert.ErrorIs(t, err, ErrLoanNotFound)
	assert.Equal(t, fine, l.Fine, "滞纳金只计算一次")
	assert.Equal(t, first, *l.ReturnDate)
}

func TestLoan_ChangeDueDate(t *testing.T) {
	policy := DefaultPolicy()

	t.Run("延期", func(t *testing.T) {
		l := NewLoan(1, 2, nil, base, policy)
		due := base.Add(30 * 24 * time.Hour)
		require.NoError(t, l.ChangeDueDate(due, base))
		assert.Equal(t, due, l.DueDate)
	})

	t.Run("早于借出日期", func(t *testing.T) {
		l := NewLoan(1, 2, nil, base, policy)
		assert.ErrorIs(t, l.ChangeDueDate(base.Add(-time.Hour), base), ErrInvalidDueDate)
	})

	t.Run("已归还不可修改", func(t *testing.T) {
		l := NewLoan(1, 2, nil, base, policy)
		require.NoError(t, l.Return(base, policy))
		assert.ErrorIs(t, l.ChangeDueDate(base.Add(30*24*time.Hour), base), ErrLoanNotFound)
	})
}

func TestPolicy_CanBorrow(t *testing.T) {
	p := DefaultPolicy()
	assert.True(t, p.CanBorrow(4))
	assert.False(t, p.CanBorrow(5))
	assert.False(t, p.CanBorrow(6))
}

func TestLoan_IsOverdue(t *testing.T) {
	l := NewLoan(1, 2, nil, base, DefaultPolicy())
	assert.False(t, l.IsOverdue(base.Add(24*time.Hour)))
	assert.True(t, l.IsOverdue(base.Add(15*24*time.Hour)))
}
