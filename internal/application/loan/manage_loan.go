package loan

import (
	"context"
	"errors"
	"time"

	appreservation "github.com/xiebiao/library/internal/application/reservation"
	"github.com/xiebiao/library/internal/domain/history"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/reservation"
	"github.com/xiebiao/library/internal/domain/stock"
)

// UpdateLoanUseCase 修改应还日期
type UpdateLoanUseCase struct {
	loans   loan.Repository
	tx      Transactor
	history history.Logger
	auditor history.Auditor
	now     func() time.Time
}

// NewUpdateLoanUseCase 创建修改用例
func NewUpdateLoanUseCase(loans loan.Repository, tx Transactor, recorder *history.Recorder) *UpdateLoanUseCase {
	hl, ha := sinks(recorder)
	return &UpdateLoanUseCase{loans: loans, tx: tx, history: hl, auditor: ha, now: time.Now}
}

// UpdateLoanRequest 修改请求
type UpdateLoanRequest struct {
	LoanID     uint
	DueDate    time.Time
	OperatorID uint
}

// Execute 修改应还日期，已归还的借阅同样返回ErrLoanNotFound
func (uc *UpdateLoanUseCase) Execute(ctx context.Context, req UpdateLoanRequest) (*LoanDTO, error) {
	var updated *loan.Loan
	err := uc.tx.Transaction(ctx, func(txCtx context.Context) error {
		l, err := uc.loans.LockByID(txCtx, req.LoanID)
		if err != nil {
			return err
		}
		if err := l.ChangeDueDate(req.DueDate, uc.now()); err != nil {
			return err
		}
		updated = l
		return uc.loans.Update(txCtx, l)
	})
	if err != nil {
		return nil, err
	}

	history.Emit(ctx, uc.history, uc.auditor, updated.UserID, history.EventLoanUpdated, &updated.ID, nil, history.AuditEntry{
		UserID:   req.OperatorID,
		Entity:   "loan",
		EntityID: updated.ID,
		Details:  map[string]interface{}{"due_date": updated.DueDate},
	})

	dto := toLoanDTO(updated, uc.now())
	return &dto, nil
}

// DeleteLoanUseCase 删除借阅（管理员）
// 删除在借记录时把库存还回去；库存从0恢复时晋升排队预约
type DeleteLoanUseCase struct {
	loans    loan.Repository
	stocks   stock.Repository
	ledger   *stock.Ledger
	promoter *appreservation.Promoter
	tx       Transactor
	history  history.Logger
	auditor  history.Auditor
	now      func() time.Time
}

// NewDeleteLoanUseCase 创建删除用例，promoter为nil时不晋升预约
func NewDeleteLoanUseCase(loans loan.Repository, stocks stock.Repository, ledger *stock.Ledger, promoter *appreservation.Promoter, tx Transactor, recorder *history.Recorder) *DeleteLoanUseCase {
	hl, ha := sinks(recorder)
	return &DeleteLoanUseCase{
		loans:    loans,
		stocks:   stocks,
		ledger:   ledger,
		promoter: promoter,
		tx:       tx,
		history:  hl,
		auditor:  ha,
		now:      time.Now,
	}
}

// DeleteLoanRequest 删除请求
type DeleteLoanRequest struct {
	LoanID     uint
	OperatorID uint
}

// Execute 删除借阅
func (uc *DeleteLoanUseCase) Execute(ctx context.Context, req DeleteLoanRequest) error {
	var (
		deleted  *loan.Loan
		promoted []*reservation.Reservation
	)
	err := uc.tx.Transaction(ctx, func(txCtx context.Context) error {
		l, err := uc.loans.LockByID(txCtx, req.LoanID)
		if err != nil {
			return err
		}
		deleted = l

		if l.IsActive() {
			st, err := uc.stocks.LockByBookID(txCtx, l.BookID)
			switch {
			case errors.Is(err, stock.ErrStockNotFound):
				// 没有库存记录时无需归还
			case err != nil:
				return err
			default:
				before := st.Quantity
				if err := uc.ledger.Increase(txCtx, st); err != nil {
					return err
				}
				if uc.promoter != nil {
					if promoted, err = uc.promoter.Refill(txCtx, st, before, uc.now()); err != nil {
						return err
					}
				}
			}
		}

		return uc.loans.Delete(txCtx, l.ID)
	})
	if err != nil {
		return err
	}
	if len(promoted) > 0 {
		uc.promoter.Announce(ctx, promoted...)
	}

	history.Emit(ctx, uc.history, uc.auditor, deleted.UserID, history.EventLoanDeleted, &deleted.ID, nil, history.AuditEntry{
		UserID:   req.OperatorID,
		Entity:   "loan",
		EntityID: deleted.ID,
		Details:  map[string]interface{}{"was_active": deleted.IsActive(), "book_id": deleted.BookID},
	})
	return nil
}
