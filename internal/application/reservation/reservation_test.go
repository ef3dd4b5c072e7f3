package reservation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/history"
	"github.com/xiebiao/library/internal/domain/reservation"
	"github.com/xiebiao/library/internal/domain/stock"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/persistence/memory"
)

type fixture struct {
	ctx    context.Context
	store  *memory.Store
	now    time.Time
	create *CreateReservationUseCase
	manage *ManageReservationUseCase
	query  *QueryReservationUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	recorder := history.NewRecorder(store.History(), store.Audit())

	f := &fixture{
		ctx:   context.Background(),
		store: store,
		now:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }

	f.create = NewCreateReservationUseCase(store.Users(), store.Stocks(), store.Reservations(), store, recorder, 72*time.Hour)
	f.create.now = clock
	f.manage = NewManageReservationUseCase(store.Reservations(), store, recorder)
	f.manage.now = clock
	f.query = NewQueryReservationUseCase(store.Reservations())
	f.query.now = clock
	return f
}

func (f *fixture) addUser(t *testing.T, email string) uint {
	t.Helper()
	u := user.NewUser(email, "hashed", "reader")
	require.NoError(t, f.store.Users().Create(f.ctx, u))
	return u.ID
}

func (f *fixture) addBook(t *testing.T, isbn string, quantity int) uint {
	t.Helper()
	b := book.NewBook(isbn, "title", "author", "press", "", "", 1)
	require.NoError(t, f.store.Books().Create(f.ctx, b))
	if quantity >= 0 {
		require.NoError(t, f.store.Stocks().Create(f.ctx, stock.NewStock(b.ID, quantity)))
	}
	return b.ID
}

func (f *fixture) reserve(t *testing.T, userID, bookID uint) *ReservationDTO {
	t.Helper()
	dto, err := f.create.Execute(f.ctx, CreateReservationRequest{UserID: userID, BookID: bookID, RequestingUserID: userID})
	require.NoError(t, err)
	f.now = f.now.Add(time.Second)
	return dto
}

func reader(id uint) Actor    { return Actor{UserID: id, Role: user.RoleUser} }
func librarian(id uint) Actor { return Actor{UserID: id, Role: user.RoleLibrarian} }

func TestCreateReservation(t *testing.T) {
	t.Run("库存为0也可以预约", func(t *testing.T) {
		f := newFixture(t)
		uid := f.addUser(t, "u@example.com")
		bid := f.addBook(t, "9787111111111", 0)

		dto, err := f.create.Execute(f.ctx, CreateReservationRequest{UserID: uid, BookID: bid, RequestingUserID: uid})
		require.NoError(t, err)
		assert.Equal(t, "Pending", dto.Status)
		assert.Equal(t, f.now, dto.CreatedAt)
		require.NotNil(t, dto.ExpiresAt)
		assert.Equal(t, f.now.Add(72*time.Hour), *dto.ExpiresAt)
		assert.Equal(t, 1, dto.QueuePosition)

		events, _, err := f.store.History().List(f.ctx, history.ListParams{EventType: history.EventReservation})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, dto.ID, *events[0].ReservationID)
	})

	t.Run("重复预约", func(t *testing.T) {
		f := newFixture(t)
		uid := f.addUser(t, "u@example.com")
		bid := f.addBook(t, "9787111111111", 0)
		f.reserve(t, uid, bid)

		_, err := f.create.Execute(f.ctx, CreateReservationRequest{UserID: uid, BookID: bid, RequestingUserID: uid})
		assert.ErrorIs(t, err, reservation.ErrDuplicateReservation)
	})

	t.Run("取消后可以再次预约", func(t *testing.T) {
		f := newFixture(t)
		uid := f.addUser(t, "u@example.com")
		bid := f.addBook(t, "9787111111111", 0)
		first := f.reserve(t, uid, bid)
		_, err := f.manage.Cancel(f.ctx, first.ID, reader(uid))
		require.NoError(t, err)

		_, err = f.create.Execute(f.ctx, CreateReservationRequest{UserID: uid, BookID: bid, RequestingUserID: uid})
		assert.NoError(t, err)
	})

	t.Run("没有库存记录", func(t *testing.T) {
		f := newFixture(t)
		uid := f.addUser(t, "u@example.com")
		bid := f.addBook(t, "9787111111111", -1)

		_, err := f.create.Execute(f.ctx, CreateReservationRequest{UserID: uid, BookID: bid, RequestingUserID: uid})
		assert.ErrorIs(t, err, reservation.ErrNoStockConfigured)
	})

	t.Run("替他人预约", func(t *testing.T) {
		f := newFixture(t)
		x := f.addUser(t, "x@example.com")
		y := f.addUser(t, "y@example.com")
		bid := f.addBook(t, "9787111111111", 1)

		_, err := f.create.Execute(f.ctx, CreateReservationRequest{UserID: y, BookID: bid, RequestingUserID: x})
		assert.ErrorIs(t, err, reservation.ErrForbidden)

		list, err := f.query.GetPendingForBook(f.ctx, bid)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("用户不存在", func(t *testing.T) {
		f := newFixture(t)
		bid := f.addBook(t, "9787111111111", 1)
		_, err := f.create.Execute(f.ctx, CreateReservationRequest{UserID: 7, BookID: bid, RequestingUserID: 7})
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})
}

func TestCreateReservation_ConcurrentDuplicate(t *testing.T) {
	f := newFixture(t)
	uid := f.addUser(t, "u@example.com")
	bid := f.addBook(t, "9787111111111", 0)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.create.Execute(f.ctx, CreateReservationRequest{UserID: uid, BookID: bid, RequestingUserID: uid})
		}()
	}
	wg.Wait()

	list, err := f.query.GetPendingForBook(f.ctx, bid)
	require.NoError(t, err)
	assert.Len(t, list, 1, "同一用户同一本书最多一个Pending预约")
}

func TestGetPendingForBook_Order(t *testing.T) {
	f := newFixture(t)
	bid := f.addBook(t, "9787111111111", 0)
	a := f.addUser(t, "a@example.com")
	b := f.addUser(t, "b@example.com")
	c := f.addUser(t, "c@example.com")

	ra := f.reserve(t, a, bid)
	rb := f.reserve(t, b, bid)
	rc := f.reserve(t, c, bid)
	_, err := f.manage.Cancel(f.ctx, rb.ID, reader(b))
	require.NoError(t, err)

	list, err := f.query.GetPendingForBook(f.ctx, bid)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ra.ID, list[0].ID)
	assert.Equal(t, 1, list[0].QueuePosition)
	assert.Equal(t, rc.ID, list[1].ID)
	assert.Equal(t, 2, list[1].QueuePosition)

	got, err := f.manage.Get(f.ctx, rc.ID, reader(c))
	require.NoError(t, err)
	assert.Equal(t, 2, got.QueuePosition)
}

func TestManageReservation_Access(t *testing.T) {
	f := newFixture(t)
	owner := f.addUser(t, "owner@example.com")
	other := f.addUser(t, "other@example.com")
	bid := f.addBook(t, "9787111111111", 0)
	r := f.reserve(t, owner, bid)

	t.Run("本人可以查看", func(t *testing.T) {
		_, err := f.manage.Get(f.ctx, r.ID, reader(owner))
		assert.NoError(t, err)
	})

	t.Run("他人不能查看", func(t *testing.T) {
		_, err := f.manage.Get(f.ctx, r.ID, reader(other))
		assert.ErrorIs(t, err, reservation.ErrForbidden)
	})

	t.Run("馆员可以查看", func(t *testing.T) {
		_, err := f.manage.Get(f.ctx, r.ID, librarian(other))
		assert.NoError(t, err)
	})

	t.Run("不存在优先于权限", func(t *testing.T) {
		_, err := f.manage.Get(f.ctx, 999, reader(other))
		assert.ErrorIs(t, err, reservation.ErrReservationNotFound)
	})

	t.Run("他人不能删除", func(t *testing.T) {
		assert.ErrorIs(t, f.manage.Delete(f.ctx, r.ID, reader(other)), reservation.ErrForbidden)
	})

	t.Run("本人删除", func(t *testing.T) {
		require.NoError(t, f.manage.Delete(f.ctx, r.ID, reader(owner)))
		_, err := f.manage.Get(f.ctx, r.ID, reader(owner))
		assert.ErrorIs(t, err, reservation.ErrReservationNotFound)

		events, _, err := f.store.History().List(f.ctx, history.ListParams{EventType: history.EventReservationDeleted})
		require.NoError(t, err)
		assert.Len(t, events, 1)
	})
}

func TestManageReservation_Update(t *testing.T) {
	status := func(s reservation.Status) *reservation.Status { return &s }

	t.Run("读者只能取消", func(t *testing.T) {
		f := newFixture(t)
		uid := f.addUser(t, "u@example.com")
		r := f.reserve(t, uid, f.addBook(t, "9787111111111", 0))

		_, err := f.manage.Update(f.ctx, UpdateReservationRequest{ID: r.ID, Actor: reader(uid), Status: status(reservation.StatusAvailable)})
		assert.ErrorIs(t, err, reservation.ErrForbidden)
	})

	t.Run("馆员按合法流转修改", func(t *testing.T) {
		f := newFixture(t)
		uid := f.addUser(t, "u@example.com")
		r := f.reserve(t, uid, f.addBook(t, "9787111111111", 0))

		dto, err := f.manage.Update(f.ctx, UpdateReservationRequest{ID: r.ID, Actor: librarian(99), Status: status(reservation.StatusAvailable)})
		require.NoError(t, err)
		assert.Equal(t, "Available", dto.Status)
		assert.Zero(t, dto.QueuePosition)

		_, err = f.manage.Update(f.ctx, UpdateReservationRequest{ID: r.ID, Actor: librarian(99), Status: status(reservation.StatusPending)})
		assert.ErrorIs(t, err, reservation.ErrInvalidStatusTransition)
	})

	t.Run("终态不能再流转", func(t *testing.T) {
		f := newFixture(t)
		uid := f.addUser(t, "u@example.com")
		r := f.reserve(t, uid, f.addBook(t, "9787111111111", 0))
		_, err := f.manage.Cancel(f.ctx, r.ID, reader(uid))
		require.NoError(t, err)

		_, err = f.manage.Cancel(f.ctx, r.ID, reader(uid))
		assert.NoError(t, err, "状态未变化视为无操作")

		_, err = f.manage.Update(f.ctx, UpdateReservationRequest{ID: r.ID, Actor: librarian(99), Status: status(reservation.StatusAvailable)})
		assert.ErrorIs(t, err, reservation.ErrInvalidStatusTransition)
	})

	t.Run("重复取消不写库也不记历史", func(t *testing.T) {
		f := newFixture(t)
		uid := f.addUser(t, "u@example.com")
		r := f.reserve(t, uid, f.addBook(t, "9787111111111", 0))

		first, err := f.manage.Cancel(f.ctx, r.ID, reader(uid))
		require.NoError(t, err)
		stored, err := f.store.Reservations().FindByID(f.ctx, r.ID)
		require.NoError(t, err)
		updatedAt := stored.UpdatedAt

		f.now = f.now.Add(time.Hour)
		second, err := f.manage.Cancel(f.ctx, r.ID, reader(uid))
		require.NoError(t, err)
		assert.Equal(t, first.Status, second.Status)

		stored, err = f.store.Reservations().FindByID(f.ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, updatedAt, stored.UpdatedAt)

		_, total, err := f.store.History().List(f.ctx, history.ListParams{UserID: uid, EventType: history.EventReservationUpdated})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("修改过期时间", func(t *testing.T) {
		f := newFixture(t)
		uid := f.addUser(t, "u@example.com")
		r := f.reserve(t, uid, f.addBook(t, "9787111111111", 0))

		past := f.now.Add(-time.Hour)
		dto, err := f.manage.Update(f.ctx, UpdateReservationRequest{ID: r.ID, Actor: reader(uid), ExpiresAt: &past})
		require.NoError(t, err)
		assert.True(t, dto.Expired)
		assert.Equal(t, "Pending", dto.Status, "过期只是提示，不改变状态")
	})
}

func TestQueryReservation_List(t *testing.T) {
	f := newFixture(t)
	a := f.addUser(t, "a@example.com")
	b := f.addUser(t, "b@example.com")
	bid := f.addBook(t, "9787111111111", 0)
	f.reserve(t, a, bid)
	f.reserve(t, b, bid)

	t.Run("读者只能看到自己的", func(t *testing.T) {
		resp, err := f.query.List(f.ctx, ListReservationsRequest{Actor: reader(a), UserID: b})
		require.NoError(t, err)
		require.Len(t, resp.List, 1)
		assert.Equal(t, a, resp.List[0].UserID)
	})

	t.Run("馆员看到全部", func(t *testing.T) {
		resp, err := f.query.List(f.ctx, ListReservationsRequest{Actor: librarian(9)})
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Total)
	})

	t.Run("非法状态过滤", func(t *testing.T) {
		_, err := f.query.List(f.ctx, ListReservationsRequest{Actor: librarian(9), Status: "Lost"})
		assert.ErrorIs(t, err, reservation.ErrInvalidStatus)
	})
}
