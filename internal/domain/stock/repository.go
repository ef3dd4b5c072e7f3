package stock

import "context"

// Repository 库存仓储接口
type Repository interface {
	// Create 创建库存记录（book_id唯一）
	Create(ctx context.Context, stock *Stock) error

	// FindByBookID 查询图书的库存记录，不存在返回ErrStockNotFound
	FindByBookID(ctx context.Context, bookID uint) (*Stock, error)

	// LockByBookID 悲观锁查询（SELECT ... FOR UPDATE），必须在事务中调用
	LockByBookID(ctx context.Context, bookID uint) (*Stock, error)

	// CompareAndSwap 仅当数据库中的数量仍为expected时写入stock的数量和可借标记
	// 影响行数为0返回ErrStockConflict
	CompareAndSwap(ctx context.Context, stock *Stock, expected int) error
}
