package reservation

import "context"

// Repository 预约仓储接口
type Repository interface {
	Create(ctx context.Context, r *Reservation) error

	// FindByID 不存在返回ErrReservationNotFound
	FindByID(ctx context.Context, id uint) (*Reservation, error)

	Update(ctx context.Context, r *Reservation) error

	Delete(ctx context.Context, id uint) error

	// ExistsPending 用户对该书是否已有Pending预约
	ExistsPending(ctx context.Context, userID, bookID uint) (bool, error)

	// FindPendingByBook 图书的全部Pending预约，按created_at、id升序
	FindPendingByBook(ctx context.Context, bookID uint) ([]*Reservation, error)

	// LockOldestPending 锁定图书最早的Pending预约，没有时返回nil, nil
	LockOldestPending(ctx context.Context, bookID uint) (*Reservation, error)

	// FindAvailableForUser 用户对该书处于Available的预约，没有时返回nil, nil
	FindAvailableForUser(ctx context.Context, userID, bookID uint) (*Reservation, error)

	List(ctx context.Context, params ListParams) ([]*Reservation, int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	UserID   uint // 0表示不过滤
	BookID   uint
	Status   Status // 空表示不过滤
	Page     int
	PageSize int
}
