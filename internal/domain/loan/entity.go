package loan

import (
	"time"
)

// State 借阅状态，由ReturnDate推导
type State int

const (
	StateActive   State = iota // 在借（ReturnDate为空）
	StateReturned              // 已归还
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "Active"
	case StateReturned:
		return "Returned"
	default:
		return "Unknown"
	}
}

// Loan 借阅聚合根
// 只通过ID引用用户和图书，不嵌入实体
type Loan struct {
	ID         uint
	UserID     uint
	BookID     uint
	StockID    *uint // 借出时扣减的库存记录
	LoanDate   time.Time
	DueDate    time.Time
	ReturnDate *time.Time
	Fine       int64 // 滞纳金（分），归还时计算一次
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewLoan 创建借阅记录，DueDate = now + policy.LoanDuration
func NewLoan(userID, bookID uint, stockID *uint, now time.Time, policy Policy) *Loan {
	return &Loan{
		UserID:    userID,
		BookID:    bookID,
		StockID:   stockID,
		LoanDate:  now,
		DueDate:   now.Add(policy.LoanDuration),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// State 当前状态
func (l *Loan) State() State {
	if l.ReturnDate == nil {
		return StateActive
	}
	return StateReturned
}

// IsActive 是否在借
func (l *Loan) IsActive() bool {
	return l.State() == StateActive
}

// Return 归还：记录归还时间并计算滞纳金
// 已归还的借阅返回ErrLoanNotFound（与不存在同一个错误）
func (l *Loan) Return(now time.Time, policy Policy) error {
	if !l.IsActive() {
		return ErrLoanNotFound
	}
	l.ReturnDate = &now
	l.Fine = policy.FineFor(l.DueDate, now)
	l.UpdatedAt = now
	return nil
}

// ChangeDueDate 修改应还日期，已归还的借阅不可修改
func (l *Loan) ChangeDueDate(due time.Time, now time.Time) error {
	if !l.IsActive() {
		return ErrLoanNotFound
	}
	if !due.After(l.LoanDate) {
		return ErrInvalidDueDate
	}
	l.DueDate = due
	l.UpdatedAt = now
	return nil
}

// IsOverdue 在借且已超过应还日期
func (l *Loan) IsOverdue(now time.Time) bool {
	return l.IsActive() && now.After(l.DueDate)
}
