package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func TestReservation_Transitions(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusAvailable, true},
		{StatusPending, StatusCancelled, true},
		{StatusAvailable, StatusCompleted, true},
		{StatusAvailable, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusAvailable, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			r := &Reservation{Status: tc.from}
			err := r.TransitionTo(tc.to, now)
			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, tc.to, r.Status)
			} else {
				assert.ErrorIs(t, err, ErrInvalidStatusTransition)
				assert.Equal(t, tc.from, r.Status)
			}
		})
	}
}

func TestReservation_MarkAvailable(t *testing.T) {
	r := NewReservation(1, 2, now, 72*time.Hour)
	require.NoError(t, r.MarkAvailable(7, now.Add(time.Hour)))

	assert.Equal(t, StatusAvailable, r.Status)
	require.NotNil(t, r.StockID)
	assert.Equal(t, uint(7), *r.StockID)
	require.NotNil(t, r.NotifiedAt)

	assert.ErrorIs(t, r.MarkAvailable(7, now), ErrInvalidStatusTransition, "不能重复晋升")
}

func TestReservation_IsExpired(t *testing.T) {
	r := NewReservation(1, 2, now, time.Hour)
	assert.False(t, r.IsExpired(now.Add(30*time.Minute)))
	assert.True(t, r.IsExpired(now.Add(2*time.Hour)))

	require.NoError(t, r.Cancel(now))
	assert.False(t, r.IsExpired(now.Add(2*time.Hour)), "终态不再过期")

	noTTL := NewReservation(1, 2, now, 0)
	assert.Nil(t, noTTL.ExpiresAt)
	assert.False(t, noTTL.IsExpired(now.Add(1000*time.Hour)))
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("Available")
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, s)

	_, err = ParseStatus("available")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestQueuePosition(t *testing.T) {
	pending := []*Reservation{
		{ID: 3, CreatedAt: now.Add(2 * time.Minute)},
		{ID: 1, CreatedAt: now},
		{ID: 5, CreatedAt: now.Add(time.Minute)},
		{ID: 4, CreatedAt: now.Add(time.Minute)},
	}

	assert.Equal(t, 1, QueuePosition(pending, 1))
	assert.Equal(t, 2, QueuePosition(pending, 4), "同一时间按ID排序")
	assert.Equal(t, 3, QueuePosition(pending, 5))
	assert.Equal(t, 4, QueuePosition(pending, 3))
	assert.Equal(t, 0, QueuePosition(pending, 99))
	assert.Equal(t, uint(3), pending[0].ID, "不修改入参顺序")
}
