package loan

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	appreservation "github.com/xiebiao/library/internal/application/reservation"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/history"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/reservation"
	"github.com/xiebiao/library/internal/domain/stock"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/persistence/memory"
)

type sentMessage struct {
	userID  uint
	message string
}

// fakeNotifier 记录发送的通知
type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (n *fakeNotifier) NotifyUser(_ context.Context, userID uint, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMessage{userID: userID, message: message})
	return nil
}

type fixture struct {
	ctx      context.Context
	store    *memory.Store
	notifier *fakeNotifier
	now      time.Time
	policy   loan.Policy

	create *CreateLoanUseCase
	ret    *ReturnLoanUseCase
	update *UpdateLoanUseCase
	del    *DeleteLoanUseCase
	query  *QueryLoanUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	recorder := history.NewRecorder(store.History(), store.Audit())
	ledger := stock.NewLedger(store.Stocks())
	notifier := &fakeNotifier{}
	policy := loan.DefaultPolicy()

	f := &fixture{
		ctx:      context.Background(),
		store:    store,
		notifier: notifier,
		now:      time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		policy:   policy,
	}
	clock := func() time.Time { return f.now }

	f.create = NewCreateLoanUseCase(store.Users(), store.Stocks(), store.Loans(), store.Reservations(), ledger, store, recorder, policy)
	f.create.now = clock
	f.ret = NewReturnLoanUseCase(store.Loans(), store.Stocks(), store.Reservations(), store.Books(), ledger, store, recorder, notifier, policy)
	f.ret.now = clock
	f.update = NewUpdateLoanUseCase(store.Loans(), store, recorder)
	f.update.now = clock
	promoter := appreservation.NewPromoter(store.Reservations(), store.Books(), recorder, notifier)
	f.del = NewDeleteLoanUseCase(store.Loans(), store.Stocks(), ledger, promoter, store, recorder)
	f.del.now = clock
	f.query = NewQueryLoanUseCase(store.Loans())
	f.query.now = clock
	return f
}

func (f *fixture) addUser(t *testing.T, email string) uint {
	t.Helper()
	u := user.NewUser(email, "hashed", "reader")
	require.NoError(t, f.store.Users().Create(f.ctx, u))
	return u.ID
}

// addBook 创建图书，quantity<0表示不创建库存记录
func (f *fixture) addBook(t *testing.T, isbn, title string, quantity int) uint {
	t.Helper()
	b := book.NewBook(isbn, title, "author", "press", "", "", 1)
	require.NoError(t, f.store.Books().Create(f.ctx, b))
	if quantity >= 0 {
		require.NoError(t, f.store.Stocks().Create(f.ctx, stock.NewStock(b.ID, quantity)))
	}
	return b.ID
}

func (f *fixture) quantity(t *testing.T, bookID uint) int {
	t.Helper()
	st, err := f.store.Stocks().FindByBookID(f.ctx, bookID)
	require.NoError(t, err)
	require.Equal(t, st.Quantity > 0, st.IsAvailable, "可借标记必须与数量一致")
	return st.Quantity
}

func (f *fixture) reserve(t *testing.T, userID, bookID uint) *reservation.Reservation {
	t.Helper()
	r := reservation.NewReservation(userID, bookID, f.now, 72*time.Hour)
	require.NoError(t, f.store.Reservations().Create(f.ctx, r))
	f.now = f.now.Add(time.Second)
	return r
}

func (f *fixture) events(t *testing.T, eventType history.EventType) []*history.Event {
	t.Helper()
	events, _, err := f.store.History().List(f.ctx, history.ListParams{EventType: eventType})
	require.NoError(t, err)
	return events
}
