package reservation

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/history"
	"github.com/xiebiao/library/internal/domain/notification"
	"github.com/xiebiao/library/internal/domain/reservation"
	"github.com/xiebiao/library/internal/domain/stock"
	"github.com/xiebiao/library/pkg/metrics"
)

// Promoter 空出库存时把队首的Pending预约改为Available
// Promote/Refill在事务内调用，Announce在提交后调用
type Promoter struct {
	reservations reservation.Repository
	books        book.Repository
	history      history.Logger
	auditor      history.Auditor
	notifier     notification.Notifier
}

// NewPromoter 创建预约晋升器
func NewPromoter(reservations reservation.Repository, books book.Repository, recorder *history.Recorder, notifier notification.Notifier) *Promoter {
	hl, ha := sinks(recorder)
	return &Promoter{
		reservations: reservations,
		books:        books,
		history:      hl,
		auditor:      ha,
		notifier:     notifier,
	}
}

// Promote 锁定最早的Pending预约（created_at + id）并分配库存，队列为空返回nil
func (p *Promoter) Promote(ctx context.Context, st *stock.Stock, now time.Time) (*reservation.Reservation, error) {
	r, err := p.reservations.LockOldestPending(ctx, st.BookID)
	if err != nil || r == nil {
		return nil, err
	}
	if err := r.MarkAvailable(st.ID, now); err != nil {
		return nil, err
	}
	if err := p.reservations.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Refill 库存从0变为正数时，按当前数量依次晋升排队预约
func (p *Promoter) Refill(ctx context.Context, st *stock.Stock, before int, now time.Time) ([]*reservation.Reservation, error) {
	if before > 0 || st.Quantity <= 0 {
		return nil, nil
	}

	var promoted []*reservation.Reservation
	for len(promoted) < st.Quantity {
		r, err := p.Promote(ctx, st, now)
		if err != nil {
			return nil, err
		}
		if r == nil {
			break
		}
		promoted = append(promoted, r)
	}
	return promoted, nil
}

// Announce 记录ReservationAvailable并通知读者，失败不影响已提交的事务
func (p *Promoter) Announce(ctx context.Context, promoted ...*reservation.Reservation) {
	for _, r := range promoted {
		metrics.IncCounter(metrics.ReservationsPromotedTotal)

		history.Emit(ctx, p.history, p.auditor, r.UserID, history.EventReservationAvailable, nil, &r.ID, history.AuditEntry{
			Entity:   "reservation",
			EntityID: r.ID,
			Details:  map[string]interface{}{"book_id": r.BookID},
		})

		var title string
		if b, err := p.books.FindByID(ctx, r.BookID); err == nil {
			title = b.Title
		}
		notification.Send(ctx, p.notifier, r.UserID, notification.BookAvailableMessage(title))
	}
}
