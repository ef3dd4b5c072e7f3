package loan

import "context"

// Repository 借阅仓储接口
type Repository interface {
	Create(ctx context.Context, loan *Loan) error

	// FindByID 不存在返回ErrLoanNotFound
	FindByID(ctx context.Context, id uint) (*Loan, error)

	// LockActiveByID 悲观锁查询在借记录（return_date IS NULL）
	// 不存在或已归还都返回ErrLoanNotFound
	LockActiveByID(ctx context.Context, id uint) (*Loan, error)

	// LockByID 悲观锁查询（含已归还），不存在返回ErrLoanNotFound
	LockByID(ctx context.Context, id uint) (*Loan, error)

	Update(ctx context.Context, loan *Loan) error

	// Delete 物理删除（管理员操作）
	Delete(ctx context.Context, id uint) error

	// CountActiveByUser 用户在借数量
	CountActiveByUser(ctx context.Context, userID uint) (int64, error)

	List(ctx context.Context, params ListParams) ([]*Loan, int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	UserID     uint // 0表示不过滤
	BookID     uint
	ActiveOnly bool
	Page       int
	PageSize   int
}
