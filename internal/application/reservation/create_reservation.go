package reservation

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/history"
	"github.com/xiebiao/library/internal/domain/reservation"
	"github.com/xiebiao/library/internal/domain/stock"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// CreateReservationUseCase 预约用例
type CreateReservationUseCase struct {
	users        user.Repository
	stocks       stock.Repository
	reservations reservation.Repository
	tx           Transactor
	history      history.Logger
	auditor      history.Auditor
	ttl          time.Duration
	now          func() time.Time
}

// NewCreateReservationUseCase 创建预约用例，ttl为预约的提示性有效期
func NewCreateReservationUseCase(
	users user.Repository,
	stocks stock.Repository,
	reservations reservation.Repository,
	tx Transactor,
	recorder *history.Recorder,
	ttl time.Duration,
) *CreateReservationUseCase {
	hl, ha := sinks(recorder)
	return &CreateReservationUseCase{
		users:        users,
		stocks:       stocks,
		reservations: reservations,
		tx:           tx,
		history:      hl,
		auditor:      ha,
		ttl:          ttl,
		now:          time.Now,
	}
}

// CreateReservationRequest 预约请求
type CreateReservationRequest struct {
	UserID           uint // 请求体中的读者ID
	BookID           uint
	RequestingUserID uint // JWT中的用户ID
}

// Execute 创建预约
// 图书有库存记录即可预约，数量为0也可以
func (uc *CreateReservationUseCase) Execute(ctx context.Context, req CreateReservationRequest) (*ReservationDTO, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "CreateReservation")
	defer span.End()
	span.SetAttributes(attribute.Int64("user_id", int64(req.UserID)), attribute.Int64("book_id", int64(req.BookID)))

	if req.RequestingUserID != req.UserID {
		return nil, reservation.ErrForbidden
	}

	var created *reservation.Reservation
	err := uc.tx.Transaction(ctx, func(txCtx context.Context) error {
		// 锁用户行：重复检查与插入之间不会插入同一用户的并发预约
		if _, err := uc.users.LockByID(txCtx, req.UserID); err != nil {
			return err
		}

		exists, err := uc.reservations.ExistsPending(txCtx, req.UserID, req.BookID)
		if err != nil {
			return err
		}
		if exists {
			return reservation.ErrDuplicateReservation
		}

		if _, err := uc.stocks.FindByBookID(txCtx, req.BookID); err != nil {
			if errors.Is(err, stock.ErrStockNotFound) {
				return reservation.ErrNoStockConfigured
			}
			return err
		}

		created = reservation.NewReservation(req.UserID, req.BookID, uc.now(), uc.ttl)
		return uc.reservations.Create(txCtx, created)
	})
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	metrics.IncCounter(metrics.ReservationsCreatedTotal)
	logger.L().Info("reservation created",
		zap.Uint("reservation_id", created.ID),
		zap.Uint("user_id", created.UserID),
		zap.Uint("book_id", created.BookID),
	)

	history.Emit(ctx, uc.history, uc.auditor, created.UserID, history.EventReservation, nil, &created.ID, history.AuditEntry{
		Entity:   "reservation",
		EntityID: created.ID,
		Details:  map[string]interface{}{"book_id": created.BookID},
	})

	dto := toDTO(created, uc.now())
	dto.QueuePosition = queuePosition(ctx, uc.reservations, created)
	return &dto, nil
}
