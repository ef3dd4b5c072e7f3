package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/history"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/reservation"
	"github.com/xiebiao/library/internal/domain/stock"
	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// ========== users ==========

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.data.users {
		if existing.Email == u.Email {
			return apperrors.ErrEmailDuplicate
		}
	}
	u.ID = r.s.nextID("users")
	stamp(&u.CreatedAt)
	stamp(&u.UpdatedAt)
	r.s.data.users[u.ID] = *u
	return nil
}

func (r *userRepo) FindByID(ctx context.Context, id uint) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.data.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *userRepo) LockByID(ctx context.Context, id uint) (*user.User, error) {
	return r.FindByID(ctx, id)
}

func (r *userRepo) Update(ctx context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.users[u.ID]; !ok {
		return user.ErrUserNotFound
	}
	r.s.data.users[u.ID] = *u
	return nil
}

// ========== books ==========

type bookRepo struct{ s *Store }

func (r *bookRepo) Create(ctx context.Context, b *book.Book) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.data.books {
		if existing.ISBN == b.ISBN {
			return book.ErrISBNDuplicate
		}
	}
	b.ID = r.s.nextID("books")
	stamp(&b.CreatedAt)
	stamp(&b.UpdatedAt)
	r.s.data.books[b.ID] = *b
	return nil
}

func (r *bookRepo) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.data.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return &b, nil
}

func (r *bookRepo) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.data.books {
		if b.ISBN == isbn {
			found := b
			return &found, nil
		}
	}
	return nil, book.ErrBookNotFound
}

func (r *bookRepo) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	kw := strings.ToLower(params.Keyword)
	var all []*book.Book
	for _, b := range r.s.data.books {
		if kw != "" &&
			!strings.Contains(strings.ToLower(b.Title), kw) &&
			!strings.Contains(strings.ToLower(b.Author), kw) &&
			!strings.Contains(strings.ToLower(b.Publisher), kw) {
			continue
		}
		found := b
		all = append(all, &found)
	}

	sort.Slice(all, func(i, j int) bool {
		if params.SortBy == "title_asc" {
			return all[i].Title < all[j].Title
		}
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	return page(all, params.Page, params.PageSize), int64(len(all)), nil
}

// ========== stocks ==========

type stockRepo struct{ s *Store }

func (r *stockRepo) Create(ctx context.Context, st *stock.Stock) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.data.stocks {
		if existing.BookID == st.BookID {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "库存记录已存在")
		}
	}
	st.ID = r.s.nextID("stocks")
	stamp(&st.UpdatedAt)
	r.s.data.stocks[st.ID] = *st
	return nil
}

func (r *stockRepo) FindByBookID(ctx context.Context, bookID uint) (*stock.Stock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, st := range r.s.data.stocks {
		if st.BookID == bookID {
			found := st
			return &found, nil
		}
	}
	return nil, stock.ErrStockNotFound
}

func (r *stockRepo) LockByBookID(ctx context.Context, bookID uint) (*stock.Stock, error) {
	return r.FindByBookID(ctx, bookID)
}

func (r *stockRepo) CompareAndSwap(ctx context.Context, st *stock.Stock, expected int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.data.stocks[st.ID]
	if !ok || current.Quantity != expected {
		return stock.ErrStockConflict
	}
	current.Quantity = st.Quantity
	current.IsAvailable = st.IsAvailable
	current.UpdatedAt = st.UpdatedAt
	r.s.data.stocks[st.ID] = current
	return nil
}

// ========== loans ==========

type loanRepo struct{ s *Store }

func (r *loanRepo) Create(ctx context.Context, l *loan.Loan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l.ID = r.s.nextID("loans")
	r.s.data.loans[l.ID] = *l
	return nil
}

func (r *loanRepo) FindByID(ctx context.Context, id uint) (*loan.Loan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.data.loans[id]
	if !ok {
		return nil, loan.ErrLoanNotFound
	}
	return &l, nil
}

func (r *loanRepo) LockActiveByID(ctx context.Context, id uint) (*loan.Loan, error) {
	l, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !l.IsActive() {
		return nil, loan.ErrLoanNotFound
	}
	return l, nil
}

func (r *loanRepo) LockByID(ctx context.Context, id uint) (*loan.Loan, error) {
	return r.FindByID(ctx, id)
}

func (r *loanRepo) Update(ctx context.Context, l *loan.Loan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.loans[l.ID]; !ok {
		return loan.ErrLoanNotFound
	}
	r.s.data.loans[l.ID] = *l
	return nil
}

func (r *loanRepo) Delete(ctx context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.loans[id]; !ok {
		return loan.ErrLoanNotFound
	}
	delete(r.s.data.loans, id)
	return nil
}

func (r *loanRepo) CountActiveByUser(ctx context.Context, userID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, l := range r.s.data.loans {
		if l.UserID == userID && l.IsActive() {
			n++
		}
	}
	return n, nil
}

func (r *loanRepo) List(ctx context.Context, params loan.ListParams) ([]*loan.Loan, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*loan.Loan
	for _, l := range r.s.data.loans {
		if params.UserID != 0 && l.UserID != params.UserID {
			continue
		}
		if params.BookID != 0 && l.BookID != params.BookID {
			continue
		}
		if params.ActiveOnly && !l.IsActive() {
			continue
		}
		found := l
		all = append(all, &found)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return page(all, params.Page, params.PageSize), int64(len(all)), nil
}

// ========== reservations ==========

type reservationRepo struct{ s *Store }

func (r *reservationRepo) Create(ctx context.Context, res *reservation.Reservation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res.ID = r.s.nextID("reservations")
	r.s.data.reservations[res.ID] = *res
	return nil
}

func (r *reservationRepo) FindByID(ctx context.Context, id uint) (*reservation.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res, ok := r.s.data.reservations[id]
	if !ok {
		return nil, reservation.ErrReservationNotFound
	}
	return &res, nil
}

func (r *reservationRepo) Update(ctx context.Context, res *reservation.Reservation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.reservations[res.ID]; !ok {
		return reservation.ErrReservationNotFound
	}
	r.s.data.reservations[res.ID] = *res
	return nil
}

func (r *reservationRepo) Delete(ctx context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.reservations[id]; !ok {
		return reservation.ErrReservationNotFound
	}
	delete(r.s.data.reservations, id)
	return nil
}

func (r *reservationRepo) ExistsPending(ctx context.Context, userID, bookID uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, res := range r.s.data.reservations {
		if res.UserID == userID && res.BookID == bookID && res.Status == reservation.StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *reservationRepo) FindPendingByBook(ctx context.Context, bookID uint) ([]*reservation.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var pending []*reservation.Reservation
	for _, res := range r.s.data.reservations {
		if res.BookID == bookID && res.Status == reservation.StatusPending {
			found := res
			pending = append(pending, &found)
		}
	}
	reservation.SortQueue(pending)
	return pending, nil
}

func (r *reservationRepo) LockOldestPending(ctx context.Context, bookID uint) (*reservation.Reservation, error) {
	pending, err := r.FindPendingByBook(ctx, bookID)
	if err != nil || len(pending) == 0 {
		return nil, err
	}
	return pending[0], nil
}

func (r *reservationRepo) FindAvailableForUser(ctx context.Context, userID, bookID uint) (*reservation.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var oldest *reservation.Reservation
	for _, res := range r.s.data.reservations {
		if res.UserID != userID || res.BookID != bookID || res.Status != reservation.StatusAvailable {
			continue
		}
		if oldest == nil || res.ID < oldest.ID {
			found := res
			oldest = &found
		}
	}
	return oldest, nil
}

func (r *reservationRepo) List(ctx context.Context, params reservation.ListParams) ([]*reservation.Reservation, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*reservation.Reservation
	for _, res := range r.s.data.reservations {
		if params.UserID != 0 && res.UserID != params.UserID {
			continue
		}
		if params.BookID != 0 && res.BookID != params.BookID {
			continue
		}
		if params.Status != "" && res.Status != params.Status {
			continue
		}
		found := res
		all = append(all, &found)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return page(all, params.Page, params.PageSize), int64(len(all)), nil
}

// ========== history ==========

type historyRepo struct{ s *Store }

func (r *historyRepo) Create(ctx context.Context, e *history.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.ID = r.s.nextID("histories")
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	r.s.data.events = append(r.s.data.events, *e)
	return nil
}

func (r *historyRepo) List(ctx context.Context, params history.ListParams) ([]*history.Event, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*history.Event
	for i := len(r.s.data.events) - 1; i >= 0; i-- {
		e := r.s.data.events[i]
		if params.UserID != 0 && e.UserID != params.UserID {
			continue
		}
		if params.EventType != "" && e.EventType != params.EventType {
			continue
		}
		all = append(all, &e)
	}
	return page(all, params.Page, params.PageSize), int64(len(all)), nil
}

type auditStore struct{ s *Store }

func (a *auditStore) Insert(ctx context.Context, entry *history.AuditEntry) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	a.s.audits = append(a.s.audits, *entry)
	return nil
}
