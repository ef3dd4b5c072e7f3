package reservation

import (
	"time"
)

// Status 预约状态
type Status string

const (
	StatusPending   Status = "Pending"   // 排队中
	StatusAvailable Status = "Available" // 有书可取（已通知）
	StatusCompleted Status = "Completed" // 已借出
	StatusCancelled Status = "Cancelled" // 已取消
)

func (s Status) String() string {
	return string(s)
}

// ParseStatus 解析状态字符串，非法值返回ErrInvalidStatus
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusAvailable, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// transitions 合法的状态流转
// Pending → Available → Completed
// Pending / Available → Cancelled
var transitions = map[Status][]Status{
	StatusPending:   {StatusAvailable, StatusCancelled},
	StatusAvailable: {StatusCompleted, StatusCancelled},
}

// Reservation 预约聚合根
type Reservation struct {
	ID         uint
	UserID     uint
	BookID     uint
	Status     Status
	CreatedAt  time.Time // 预约时间，也是排队顺序
	ExpiresAt  *time.Time
	StockID    *uint      // 晋升为Available时分配的库存记录
	NotifiedAt *time.Time // 发出到书通知的时间
	UpdatedAt  time.Time
}

// NewReservation 创建Pending预约，ttl<=0时不设置过期时间
func NewReservation(userID, bookID uint, now time.Time, ttl time.Duration) *Reservation {
	r := &Reservation{
		UserID:    userID,
		BookID:    bookID,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if ttl > 0 {
		exp := now.Add(ttl)
		r.ExpiresAt = &exp
	}
	return r
}

// CanTransitionTo 检查是否可以转换到目标状态
func (r *Reservation) CanTransitionTo(target Status) bool {
	for _, s := range transitions[r.Status] {
		if s == target {
			return true
		}
	}
	return false
}

// TransitionTo 状态转换
func (r *Reservation) TransitionTo(target Status, now time.Time) error {
	if !r.CanTransitionTo(target) {
		return ErrInvalidStatusTransition
	}
	r.Status = target
	r.UpdatedAt = now
	return nil
}

// MarkAvailable 归还触发的晋升：记录分配的库存和通知时间
func (r *Reservation) MarkAvailable(stockID uint, now time.Time) error {
	if err := r.TransitionTo(StatusAvailable, now); err != nil {
		return err
	}
	r.StockID = &stockID
	r.NotifiedAt = &now
	return nil
}

// Complete 借出完成
func (r *Reservation) Complete(now time.Time) error {
	return r.TransitionTo(StatusCompleted, now)
}

// Cancel 取消
func (r *Reservation) Cancel(now time.Time) error {
	return r.TransitionTo(StatusCancelled, now)
}

// IsOwnedBy 是否属于指定用户
func (r *Reservation) IsOwnedBy(userID uint) bool {
	return r.UserID == userID
}

// IsExpired 过期时间只作为提示信息，不会自动改变状态
// 只有Pending/Available的预约才会"过期"
func (r *Reservation) IsExpired(now time.Time) bool {
	if r.ExpiresAt == nil {
		return false
	}
	if r.Status != StatusPending && r.Status != StatusAvailable {
		return false
	}
	return now.After(*r.ExpiresAt)
}
