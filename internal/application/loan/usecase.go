// Package loan 借阅用例：借出、归还、修改、删除、查询
//
// 借出与归还各自在一个数据库事务中完成：
//
//	借出：锁用户行 → 校验在借上限 → 锁库存行 → 创建借阅 → 库存-1 → 完成该用户的Available预约
//	归还：锁在借记录 → 计算滞纳金 → 锁库存行 → 库存+1 → 最早的Pending预约晋升为Available
//
// 历史、审计、通知在提交之后尽力而为地执行，失败不影响主流程。
package loan

import (
	"context"
	"errors"
	"time"

	"github.com/xiebiao/library/internal/domain/history"
	"github.com/xiebiao/library/internal/domain/loan"
)

const tracerName = "library/loan"

// Transactor 事务执行器（mysql.TxManager实现）
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// LoanDTO 借阅信息
type LoanDTO struct {
	ID         uint       `json:"id"`
	UserID     uint       `json:"user_id"`
	BookID     uint       `json:"book_id"`
	StockID    *uint      `json:"stock_id,omitempty"`
	LoanDate   time.Time  `json:"loan_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	Fine       int64      `json:"fine"` // 分
	State      string     `json:"state"`
	Overdue    bool       `json:"overdue"`
}

func toLoanDTO(l *loan.Loan, now time.Time) LoanDTO {
	return LoanDTO{
		ID:         l.ID,
		UserID:     l.UserID,
		BookID:     l.BookID,
		StockID:    l.StockID,
		LoanDate:   l.LoanDate,
		DueDate:    l.DueDate,
		ReturnDate: l.ReturnDate,
		Fine:       l.Fine,
		State:      l.State().String(),
		Overdue:    l.IsOverdue(now),
	}
}

// sinks 历史和审计的写入端，recorder为nil时都跳过
func sinks(r *history.Recorder) (history.Logger, history.Auditor) {
	if r == nil {
		return nil, nil
	}
	return r, r
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, loan.ErrMaxActiveLoans):
		return "max_loans"
	case errors.Is(err, loan.ErrBookUnavailable):
		return "unavailable"
	case errors.Is(err, loan.ErrLoanNotFound):
		return "not_found"
	}
	return "other"
}
