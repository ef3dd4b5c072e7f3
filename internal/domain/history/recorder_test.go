package history

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	events []*Event
	err    error
}

func (m *memRepo) Create(_ context.Context, e *Event) error {
	if m.err != nil {
		return m.err
	}
	e.ID = uint(len(m.events) + 1)
	m.events = append(m.events, e)
	return nil
}

func (m *memRepo) List(context.Context, ListParams) ([]*Event, int64, error) {
	return m.events, int64(len(m.events)), nil
}

type memAudit struct {
	entries []*AuditEntry
	err     error
}

func (m *memAudit) Insert(_ context.Context, e *AuditEntry) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, e)
	return nil
}

func TestRecorder_LogEvent(t *testing.T) {
	repo := &memRepo{}
	r := NewRecorder(repo, nil)
	loanID := uint(11)

	require.NoError(t, r.LogEvent(context.Background(), 3, EventLoan, &loanID, nil))
	require.Len(t, repo.events, 1)
	assert.Equal(t, EventLoan, repo.events[0].EventType)
	assert.Equal(t, uint(11), *repo.events[0].LoanID)
	assert.Nil(t, repo.events[0].ReservationID)
	assert.False(t, repo.events[0].CreatedAt.IsZero())

	assert.NoError(t, r.Audit(context.Background(), AuditEntry{Action: "x"}), "没有审计存储时为空操作")
}

func TestEmit(t *testing.T) {
	t.Run("写入历史和审计", func(t *testing.T) {
		repo, audit := &memRepo{}, &memAudit{}
		r := NewRecorder(repo, audit)
		loanID := uint(5)

		Emit(context.Background(), r, r, 2, EventReturn, &loanID, nil, AuditEntry{Entity: "loan", EntityID: 5})

		require.Len(t, repo.events, 1)
		require.Len(t, audit.entries, 1)
		assert.Equal(t, "Return", audit.entries[0].Action)
		assert.Equal(t, uint(2), audit.entries[0].UserID)
		assert.False(t, audit.entries[0].CreatedAt.IsZero())
	})

	t.Run("失败被吞掉", func(t *testing.T) {
		repo := &memRepo{err: errors.New("db down")}
		audit := &memAudit{err: errors.New("mongo down")}
		r := NewRecorder(repo, audit)

		assert.NotPanics(t, func() {
			Emit(context.Background(), r, r, 2, EventLoan, nil, nil, AuditEntry{})
		})
	})

	t.Run("nil契约跳过", func(t *testing.T) {
		assert.NotPanics(t, func() {
			Emit(context.Background(), nil, nil, 1, EventLoan, nil, nil, AuditEntry{})
		})
	})
}
