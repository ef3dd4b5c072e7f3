package loan

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/history"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/reservation"
	"github.com/xiebiao/library/internal/domain/stock"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// CreateLoanUseCase 借出用例
type CreateLoanUseCase struct {
	users        user.Repository
	stocks       stock.Repository
	loans        loan.Repository
	reservations reservation.Repository
	ledger       *stock.Ledger
	tx           Transactor
	history      history.Logger
	auditor      history.Auditor
	policy       loan.Policy
	now          func() time.Time
}

// NewCreateLoanUseCase 创建借出用例
func NewCreateLoanUseCase(
	users user.Repository,
	stocks stock.Repository,
	loans loan.Repository,
	reservations reservation.Repository,
	ledger *stock.Ledger,
	tx Transactor,
	recorder *history.Recorder,
	policy loan.Policy,
) *CreateLoanUseCase {
	hl, ha := sinks(recorder)
	return &CreateLoanUseCase{
		users:        users,
		stocks:       stocks,
		loans:        loans,
		reservations: reservations,
		ledger:       ledger,
		tx:           tx,
		history:      hl,
		auditor:      ha,
		policy:       policy,
		now:          time.Now,
	}
}

// CreateLoanRequest 借出请求
type CreateLoanRequest struct {
	UserID     uint // 借书读者
	BookID     uint
	OperatorID uint // 办理的馆员（从JWT中提取）
}

// CreateLoanResponse 借出结果
type CreateLoanResponse struct {
	Message                string    `json:"message"`
	DueDate                time.Time `json:"due_date"`
	Loan                   LoanDTO   `json:"loan"`
	FulfilledReservationID *uint     `json:"fulfilled_reservation_id,omitempty"`
}

// Execute 执行借出
// 前置条件按顺序校验：用户存在 → 在借数量未达上限 → 图书有库存且数量>0
func (uc *CreateLoanUseCase) Execute(ctx context.Context, req CreateLoanRequest) (*CreateLoanResponse, error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, tracerName, "CreateLoan")
	defer span.End()
	span.SetAttributes(attribute.Int64("user_id", int64(req.UserID)), attribute.Int64("book_id", int64(req.BookID)))

	var (
		created   *loan.Loan
		fulfilled *reservation.Reservation
	)

	err := uc.tx.Transaction(ctx, func(txCtx context.Context) error {
		// 锁用户行：同一用户的并发借书在此串行，在借计数不会被并发绕过
		if _, err := uc.users.LockByID(txCtx, req.UserID); err != nil {
			return err
		}

		active, err := uc.loans.CountActiveByUser(txCtx, req.UserID)
		if err != nil {
			return err
		}
		if !uc.policy.CanBorrow(active) {
			return loan.ErrMaxActiveLoans
		}

		st, err := uc.stocks.LockByBookID(txCtx, req.BookID)
		if errors.Is(err, stock.ErrStockNotFound) {
			return loan.ErrBookUnavailable
		}
		if err != nil {
			return err
		}
		if st.Quantity <= 0 {
			return loan.ErrBookUnavailable
		}

		now := uc.now()
		stockID := st.ID
		created = loan.NewLoan(req.UserID, req.BookID, &stockID, now, uc.policy)
		if err := uc.loans.Create(txCtx, created); err != nil {
			return err
		}

		if err := uc.ledger.Decrease(txCtx, st); err != nil {
			return err
		}

		// 读者凭到书通知来借书：完成其Available预约
		r, err := uc.reservations.FindAvailableForUser(txCtx, req.UserID, req.BookID)
		if err != nil {
			return err
		}
		if r != nil {
			if err := r.Complete(now); err != nil {
				return err
			}
			if err := uc.reservations.Update(txCtx, r); err != nil {
				return err
			}
			fulfilled = r
		}
		return nil
	})

	metrics.ObserveHistogramVec(metrics.LoanOperationDuration, map[string]string{"operation": "create"}, time.Since(start).Seconds())
	if err != nil {
		tracing.RecordError(span, err)
		metrics.IncCounterVec(metrics.LoansFailedTotal, map[string]string{"operation": "create", "reason": failureReason(err)})
		return nil, err
	}

	metrics.IncCounter(metrics.LoansCreatedTotal)
	logger.L().Info("loan created",
		zap.Uint("loan_id", created.ID),
		zap.Uint("user_id", created.UserID),
		zap.Uint("book_id", created.BookID),
		zap.Time("due_date", created.DueDate),
	)

	history.Emit(ctx, uc.history, uc.auditor, req.UserID, history.EventLoan, &created.ID, nil, history.AuditEntry{
		UserID:   req.OperatorID,
		Entity:   "loan",
		EntityID: created.ID,
		Details: map[string]interface{}{
			"borrower_id": req.UserID,
			"book_id":     req.BookID,
			"due_date":    created.DueDate,
		},
	})

	resp := &CreateLoanResponse{
		Message: "Loan created successfully",
		DueDate: created.DueDate,
		Loan:    toLoanDTO(created, uc.now()),
	}
	if fulfilled != nil {
		resp.FulfilledReservationID = &fulfilled.ID
	}
	return resp, nil
}
