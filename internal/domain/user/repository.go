package user

import (
	"context"
)

// Repository 用户仓储接口
// 接口定义在domain层，实现在infrastructure/persistence/mysql
type Repository interface {
	// Create 创建用户，邮箱已存在返回errors.ErrEmailDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 不存在返回errors.ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail 不存在返回errors.ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)

	// LockByID 悲观锁查询用户行（SELECT ... FOR UPDATE）
	// 借书和预约以用户行为锁，串行化同一用户的并发请求
	LockByID(ctx context.Context, id uint) (*User, error)

	Update(ctx context.Context, user *User) error
}
