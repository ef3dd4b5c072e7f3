package reservation

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 预约领域错误定义
var (
	ErrReservationNotFound = apperrors.New(apperrors.ErrCodeReservationNotFound, "预约不存在")

	// ErrDuplicateReservation 同一用户对同一本书已有Pending预约
	ErrDuplicateReservation = apperrors.New(apperrors.ErrCodeDuplicateReservation, "已存在该图书的排队预约")

	// ErrNoStockConfigured 图书没有库存记录（数量为0可以预约）
	ErrNoStockConfigured = apperrors.New(apperrors.ErrCodeNoStockConfigured, "该图书未配置库存，无法预约")

	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeInvalidStatusTransition, "预约状态流转非法")

	ErrInvalidStatus = apperrors.New(apperrors.ErrCodeInvalidParams, "预约状态非法")

	// ErrForbidden 只能操作自己的预约（管理员和馆员除外）
	ErrForbidden = apperrors.New(apperrors.ErrCodeForbidden, "无权操作该预约")
)
