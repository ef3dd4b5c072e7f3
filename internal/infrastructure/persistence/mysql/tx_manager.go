package mysql

import (
	"context"

	"gorm.io/gorm"
)

// TxManager 事务管理器
// fn中通过ctx调用的仓储方法都会使用同一个事务；fn返回错误时回滚
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务，已在事务中时使用SavePoint嵌套
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return getDB(ctx, m.db).Transaction(func(tx *gorm.DB) error {
		return fn(withTx(ctx, tx))
	})
}
