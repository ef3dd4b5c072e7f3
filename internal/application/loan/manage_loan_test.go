package loan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/history"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/reservation"
)

func TestUpdateLoan(t *testing.T) {
	f := newFixture(t)
	uid := f.addUser(t, "u@example.com")
	bid := f.addBook(t, "9787111111111", "Go语言", 2)
	created, err := f.create.Execute(f.ctx, CreateLoanRequest{UserID: uid, BookID: bid})
	require.NoError(t, err)

	t.Run("延长应还日期", func(t *testing.T) {
		due := created.DueDate.Add(7 * 24 * time.Hour)
		dto, err := f.update.Execute(f.ctx, UpdateLoanRequest{LoanID: created.Loan.ID, DueDate: due})
		require.NoError(t, err)
		assert.Equal(t, due, dto.DueDate)
		assert.Len(t, f.events(t, history.EventLoanUpdated), 1)
	})

	t.Run("应还日期早于借出日期", func(t *testing.T) {
		_, err := f.update.Execute(f.ctx, UpdateLoanRequest{LoanID: created.Loan.ID, DueDate: f.now.Add(-time.Hour)})
		assert.ErrorIs(t, err, loan.ErrInvalidDueDate)
	})

	t.Run("已归还不可修改", func(t *testing.T) {
		_, err := f.ret.Execute(f.ctx, ReturnLoanRequest{LoanID: created.Loan.ID})
		require.NoError(t, err)

		_, err = f.update.Execute(f.ctx, UpdateLoanRequest{LoanID: created.Loan.ID, DueDate: f.now.Add(time.Hour)})
		assert.ErrorIs(t, err, loan.ErrLoanNotFound)
	})

	t.Run("不存在", func(t *testing.T) {
		_, err := f.update.Execute(f.ctx, UpdateLoanRequest{LoanID: 999, DueDate: f.now.Add(time.Hour)})
		assert.ErrorIs(t, err, loan.ErrLoanNotFound)
	})
}

func TestDeleteLoan(t *testing.T) {
	t.Run("删除在借记录归还库存", func(t *testing.T) {
		f := newFixture(t)
		uid := f.addUser(t, "u@example.com")
		bid := f.addBook(t, "9787111111111", "Go语言", 1)
		created, err := f.create.Execute(f.ctx, CreateLoanRequest{UserID: uid, BookID: bid})
		require.NoError(t, err)
		require.Equal(t, 0, f.quantity(t, bid))

		require.NoError(t, f.del.Execute(f.ctx, DeleteLoanRequest{LoanID: created.Loan.ID}))
		assert.Equal(t, 1, f.quantity(t, bid))

		_, err = f.query.Get(f.ctx, created.Loan.ID)
		assert.ErrorIs(t, err, loan.ErrLoanNotFound)
		assert.Len(t, f.events(t, history.EventLoanDeleted), 1)
	})

	t.Run("库存从0恢复时晋升队首预约", func(t *testing.T) {
		f := newFixture(t)
		borrower := f.addUser(t, "u@example.com")
		alice := f.addUser(t, "alice@example.com")
		bob := f.addUser(t, "bob@example.com")
		bid := f.addBook(t, "9787111111111", "Go语言", 1)
		created, err := f.create.Execute(f.ctx, CreateLoanRequest{UserID: borrower, BookID: bid})
		require.NoError(t, err)
		first := f.reserve(t, alice, bid)
		second := f.reserve(t, bob, bid)

		require.NoError(t, f.del.Execute(f.ctx, DeleteLoanRequest{LoanID: created.Loan.ID}))
		assert.Equal(t, 1, f.quantity(t, bid))

		got, err := f.store.Reservations().FindByID(f.ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusAvailable, got.Status)
		got, err = f.store.Reservations().FindByID(f.ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusPending, got.Status)

		require.Len(t, f.notifier.sent, 1)
		assert.Equal(t, alice, f.notifier.sent[0].userID)
		assert.Contains(t, f.notifier.sent[0].message, "available")
		assert.Len(t, f.events(t, history.EventReservationAvailable), 1)
	})

	t.Run("删除已归还记录不改变库存", func(t *testing.T) {
		f := newFixture(t)
		uid := f.addUser(t, "u@example.com")
		bid := f.addBook(t, "9787111111111", "Go语言", 1)
		created, err := f.create.Execute(f.ctx, CreateLoanRequest{UserID: uid, BookID: bid})
		require.NoError(t, err)
		_, err = f.ret.Execute(f.ctx, ReturnLoanRequest{LoanID: created.Loan.ID})
		require.NoError(t, err)

		require.NoError(t, f.del.Execute(f.ctx, DeleteLoanRequest{LoanID: created.Loan.ID}))
		assert.Equal(t, 1, f.quantity(t, bid))
	})

	t.Run("不存在", func(t *testing.T) {
		f := newFixture(t)
		assert.ErrorIs(t, f.del.Execute(f.ctx, DeleteLoanRequest{LoanID: 1}), loan.ErrLoanNotFound)
	})
}

func TestQueryLoan_List(t *testing.T) {
	f := newFixture(t)
	alice := f.addUser(t, "alice@example.com")
	bob := f.addUser(t, "bob@example.com")
	bid := f.addBook(t, "9787111111111", "Go语言", 5)

	var first uint
	for i, uid := range []uint{alice, alice, bob} {
		resp, err := f.create.Execute(f.ctx, CreateLoanRequest{UserID: uid, BookID: bid})
		require.NoError(t, err)
		if i == 0 {
			first = resp.Loan.ID
		}
	}
	_, err := f.ret.Execute(f.ctx, ReturnLoanRequest{LoanID: first})
	require.NoError(t, err)

	all, err := f.query.List(f.ctx, ListLoansRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)
	assert.Equal(t, 20, all.PageSize)

	active, err := f.query.List(f.ctx, ListLoansRequest{UserID: alice, ActiveOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), active.Total)

	paged, err := f.query.List(f.ctx, ListLoansRequest{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, paged.List, 1)
	assert.Equal(t, 2, paged.TotalPages)
}
