// Package reservation 预约用例：排队、查询、修改、取消、删除
//
// 预约按同一本书的created_at、id排队；归还时由借阅用例晋升队首为Available。
// 普通读者只能操作自己的预约，馆员和管理员可以操作全部预约。
package reservation

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/history"
	"github.com/xiebiao/library/internal/domain/reservation"
	"github.com/xiebiao/library/internal/domain/user"
)

const tracerName = "library/reservation"

// Transactor 事务执行器
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Actor 当前操作者（从JWT中提取）
type Actor struct {
	UserID uint
	Role   user.Role
}

// CanAccess 本人或馆员/管理员
func (a Actor) CanAccess(r *reservation.Reservation) bool {
	return a.Role.IsPrivileged() || r.IsOwnedBy(a.UserID)
}

// ReservationDTO 预约信息
type ReservationDTO struct {
	ID            uint       `json:"id"`
	UserID        uint       `json:"user_id"`
	BookID        uint       `json:"book_id"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Expired       bool       `json:"expired"`
	StockID       *uint      `json:"stock_id,omitempty"`
	NotifiedAt    *time.Time `json:"notified_at,omitempty"`
	QueuePosition int        `json:"queue_position,omitempty"` // 仅Pending预约有值
}

func toDTO(r *reservation.Reservation, now time.Time) ReservationDTO {
	return ReservationDTO{
		ID:         r.ID,
		UserID:     r.UserID,
		BookID:     r.BookID,
		Status:     r.Status.String(),
		CreatedAt:  r.CreatedAt,
		ExpiresAt:  r.ExpiresAt,
		Expired:    r.IsExpired(now),
		StockID:    r.StockID,
		NotifiedAt: r.NotifiedAt,
	}
}

func sinks(r *history.Recorder) (history.Logger, history.Auditor) {
	if r == nil {
		return nil, nil
	}
	return r, r
}

// queuePosition 查询Pending预约在队列中的位置，查询失败返回0
func queuePosition(ctx context.Context, repo reservation.Repository, r *reservation.Reservation) int {
	if r.Status != reservation.StatusPending {
		return 0
	}
	pending, err := repo.FindPendingByBook(ctx, r.BookID)
	if err != nil {
		return 0
	}
	return reservation.QueuePosition(pending, r.ID)
}
