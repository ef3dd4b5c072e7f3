package loan

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	appreservation "github.com/xiebiao/library/internal/application/reservation"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/history"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/notification"
	"github.com/xiebiao/library/internal/domain/reservation"
	"github.com/xiebiao/library/internal/domain/stock"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// ReturnLoanUseCase 归还用例
type ReturnLoanUseCase struct {
	loans    loan.Repository
	stocks   stock.Repository
	ledger   *stock.Ledger
	promoter *appreservation.Promoter
	tx       Transactor
	history  history.Logger
	auditor  history.Auditor
	policy   loan.Policy
	now      func() time.Time
}

// NewReturnLoanUseCase 创建归还用例
func NewReturnLoanUseCase(
	loans loan.Repository,
	stocks stock.Repository,
	reservations reservation.Repository,
	books book.Repository,
	ledger *stock.Ledger,
	tx Transactor,
	recorder *history.Recorder,
	notifier notification.Notifier,
	policy loan.Policy,
) *ReturnLoanUseCase {
	hl, ha := sinks(recorder)
	return &ReturnLoanUseCase{
		loans:    loans,
		stocks:   stocks,
		ledger:   ledger,
		promoter: appreservation.NewPromoter(reservations, books, recorder, notifier),
		tx:       tx,
		history:  hl,
		auditor:  ha,
		policy:   policy,
		now:      time.Now,
	}
}

// ReturnLoanRequest 归还请求
type ReturnLoanRequest struct {
	LoanID     uint
	OperatorID uint
}

// ReturnLoanResponse 归还结果
type ReturnLoanResponse struct {
	Message             string  `json:"message"`
	ReservationNotified bool    `json:"reservation_notified"`
	Loan                LoanDTO `json:"loan"`
}

// Execute 执行归还
// 不存在和已归还返回同一个ErrLoanNotFound，且不会再次修改库存
func (uc *ReturnLoanUseCase) Execute(ctx context.Context, req ReturnLoanRequest) (*ReturnLoanResponse, error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, tracerName, "ReturnLoan")
	defer span.End()
	span.SetAttributes(attribute.Int64("loan_id", int64(req.LoanID)))

	var (
		returned *loan.Loan
		promoted *reservation.Reservation
	)

	err := uc.tx.Transaction(ctx, func(txCtx context.Context) error {
		l, err := uc.loans.LockActiveByID(txCtx, req.LoanID)
		if err != nil {
			return err
		}

		now := uc.now()
		if err := l.Return(now, uc.policy); err != nil {
			return err
		}
		if err := uc.loans.Update(txCtx, l); err != nil {
			return err
		}
		returned = l

		st, err := uc.lockOrCreateStock(txCtx, l.BookID)
		if err != nil {
			return err
		}
		if err := uc.ledger.Increase(txCtx, st); err != nil {
			return err
		}

		// 每次归还都晋升一个，跨用户按created_at + id排序
		promoted, err = uc.promoter.Promote(txCtx, st, now)
		return err
	})

	metrics.ObserveHistogramVec(metrics.LoanOperationDuration, map[string]string{"operation": "return"}, time.Since(start).Seconds())
	if err != nil {
		tracing.RecordError(span, err)
		metrics.IncCounterVec(metrics.LoansFailedTotal, map[string]string{"operation": "return", "reason": failureReason(err)})
		return nil, err
	}

	metrics.IncCounter(metrics.LoansReturnedTotal)
	metrics.AddCounter(metrics.LateFeesTotal, float64(returned.Fine))
	logger.L().Info("loan returned",
		zap.Uint("loan_id", returned.ID),
		zap.Int64("fine", returned.Fine),
		zap.Bool("reservation_promoted", promoted != nil),
	)

	history.Emit(ctx, uc.history, uc.auditor, returned.UserID, history.EventReturn, &returned.ID, nil, history.AuditEntry{
		UserID:   req.OperatorID,
		Entity:   "loan",
		EntityID: returned.ID,
		Details: map[string]interface{}{
			"borrower_id": returned.UserID,
			"book_id":     returned.BookID,
			"fine":        returned.Fine,
		},
	})

	if promoted != nil {
		uc.promoter.Announce(ctx, promoted)
	}

	return &ReturnLoanResponse{
		Message:             "Loan returned successfully",
		ReservationNotified: promoted != nil,
		Loan:                toLoanDTO(returned, uc.now()),
	}, nil
}

// lockOrCreateStock 锁库存行，图书还没有库存记录时以数量0创建
func (uc *ReturnLoanUseCase) lockOrCreateStock(ctx context.Context, bookID uint) (*stock.Stock, error) {
	st, err := uc.stocks.LockByBookID(ctx, bookID)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, stock.ErrStockNotFound) {
		return nil, err
	}

	st = stock.NewStock(bookID, 0)
	if err := uc.stocks.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}
