package stock

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 库存领域错误定义
var (
	// ErrStockNotFound 图书没有库存记录
	ErrStockNotFound = apperrors.New(apperrors.ErrCodeStockNotFound, "库存记录不存在")

	// ErrStockConflict 持久化时数量已被并发修改
	ErrStockConflict = apperrors.New(apperrors.ErrCodeStockConflict, "库存已被并发修改，请重试")

	// ErrInvalidDelta 调整量为0
	ErrInvalidDelta = apperrors.New(apperrors.ErrCodeInvalidParams, "库存调整量不能为0")
)
