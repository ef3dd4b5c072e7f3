package stock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appreservation "github.com/xiebiao/library/internal/application/reservation"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/history"
	"github.com/xiebiao/library/internal/domain/reservation"
	"github.com/xiebiao/library/internal/domain/stock"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/persistence/memory"
)

func setup(t *testing.T) (*memory.Store, *AdjustStockUseCase, *GetStockUseCase, uint) {
	t.Helper()
	store := memory.NewStore()
	recorder := history.NewRecorder(store.History(), store.Audit())

	b := book.NewBook("9787111111111", "Go语言", "author", "press", "", "", 1)
	require.NoError(t, store.Books().Create(context.Background(), b))

	adjust := NewAdjustStockUseCase(store.Books(), store.Stocks(), stock.NewLedger(store.Stocks()), nil, store, recorder)
	return store, adjust, NewGetStockUseCase(store.Stocks()), b.ID
}

func TestAdjustStock(t *testing.T) {
	ctx := context.Background()

	t.Run("没有库存记录时自动创建", func(t *testing.T) {
		store, adjust, get, bid := setup(t)

		_, err := get.Execute(ctx, bid)
		require.ErrorIs(t, err, stock.ErrStockNotFound)

		dto, err := adjust.Execute(ctx, AdjustStockRequest{BookID: bid, Delta: 3, OperatorID: 9})
		require.NoError(t, err)
		assert.Equal(t, 3, dto.Quantity)
		assert.True(t, dto.IsAvailable)

		events, _, err := store.History().List(ctx, history.ListParams{EventType: history.EventStockAdjusted})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, uint(9), events[0].UserID)
	})

	t.Run("减少到负数截断为0", func(t *testing.T) {
		_, adjust, get, bid := setup(t)
		_, err := adjust.Execute(ctx, AdjustStockRequest{BookID: bid, Delta: 2})
		require.NoError(t, err)

		dto, err := adjust.Execute(ctx, AdjustStockRequest{BookID: bid, Delta: -5})
		require.NoError(t, err)
		assert.Equal(t, 0, dto.Quantity)
		assert.False(t, dto.IsAvailable)

		got, err := get.Execute(ctx, bid)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Quantity)
	})

	t.Run("调整量为0", func(t *testing.T) {
		_, adjust, _, bid := setup(t)
		_, err := adjust.Execute(ctx, AdjustStockRequest{BookID: bid})
		assert.ErrorIs(t, err, stock.ErrInvalidDelta)
	})

	t.Run("图书不存在", func(t *testing.T) {
		_, adjust, _, _ := setup(t)
		_, err := adjust.Execute(ctx, AdjustStockRequest{BookID: 404, Delta: 1})
		assert.ErrorIs(t, err, book.ErrBookNotFound)
	})
}

// recordingNotifier 记录收到通知的读者
type recordingNotifier struct {
	users []uint
}

func (n *recordingNotifier) NotifyUser(_ context.Context, userID uint, _ string) error {
	n.users = append(n.users, userID)
	return nil
}

func TestAdjustStock_PromotesQueue(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	setupQueue := func(t *testing.T, readers int) (*memory.Store, *AdjustStockUseCase, *recordingNotifier, uint, []*reservation.Reservation) {
		t.Helper()
		store := memory.NewStore()
		recorder := history.NewRecorder(store.History(), store.Audit())
		notifier := &recordingNotifier{}

		b := book.NewBook("9787111111111", "Go语言", "author", "press", "", "", 1)
		require.NoError(t, store.Books().Create(ctx, b))
		require.NoError(t, store.Stocks().Create(ctx, stock.NewStock(b.ID, 0)))

		var queue []*reservation.Reservation
		for i := 0; i < readers; i++ {
			u := user.NewUser(string(rune('a'+i))+"@example.com", "hashed", "reader")
			require.NoError(t, store.Users().Create(ctx, u))
			r := reservation.NewReservation(u.ID, b.ID, now.Add(time.Duration(i)*time.Second), 72*time.Hour)
			require.NoError(t, store.Reservations().Create(ctx, r))
			queue = append(queue, r)
		}

		promoter := appreservation.NewPromoter(store.Reservations(), store.Books(), recorder, notifier)
		adjust := NewAdjustStockUseCase(store.Books(), store.Stocks(), stock.NewLedger(store.Stocks()), promoter, store, recorder)
		adjust.now = func() time.Time { return now.Add(time.Hour) }
		return store, adjust, notifier, b.ID, queue
	}

	status := func(t *testing.T, store *memory.Store, id uint) reservation.Status {
		t.Helper()
		r, err := store.Reservations().FindByID(ctx, id)
		require.NoError(t, err)
		return r.Status
	}

	t.Run("从0补充按新增数量晋升", func(t *testing.T) {
		store, adjust, notifier, bid, queue := setupQueue(t, 3)

		_, err := adjust.Execute(ctx, AdjustStockRequest{BookID: bid, Delta: 2})
		require.NoError(t, err)

		assert.Equal(t, reservation.StatusAvailable, status(t, store, queue[0].ID))
		assert.Equal(t, reservation.StatusAvailable, status(t, store, queue[1].ID))
		assert.Equal(t, reservation.StatusPending, status(t, store, queue[2].ID))
		assert.Equal(t, []uint{queue[0].UserID, queue[1].UserID}, notifier.users)
	})

	t.Run("原本有库存时不晋升", func(t *testing.T) {
		store, adjust, notifier, bid, queue := setupQueue(t, 1)
		_, err := adjust.Execute(ctx, AdjustStockRequest{BookID: bid, Delta: 1})
		require.NoError(t, err)
		notifier.users = nil

		_, err = adjust.Execute(ctx, AdjustStockRequest{BookID: bid, Delta: 1})
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusAvailable, status(t, store, queue[0].ID))
		assert.Empty(t, notifier.users)
	})

	t.Run("减少库存不晋升", func(t *testing.T) {
		store, adjust, notifier, bid, queue := setupQueue(t, 1)
		_, err := adjust.Execute(ctx, AdjustStockRequest{BookID: bid, Delta: -1})
		require.NoError(t, err)

		assert.Equal(t, reservation.StatusPending, status(t, store, queue[0].ID))
		assert.Empty(t, notifier.users)
	})
}
