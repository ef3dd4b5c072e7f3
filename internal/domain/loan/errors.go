package loan

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 借阅领域错误定义
var (
	// ErrLoanNotFound 借阅不存在或已归还
	ErrLoanNotFound = apperrors.New(apperrors.ErrCodeLoanNotFound, "借阅记录不存在")

	// ErrMaxActiveLoans 在借数量达到上限
	ErrMaxActiveLoans = apperrors.New(apperrors.ErrCodeMaxActiveLoans, "在借数量已达上限")

	// ErrBookUnavailable 图书没有库存或库存为0
	ErrBookUnavailable = apperrors.New(apperrors.ErrCodeBookUnavailable, "图书暂无可借库存")

	// ErrInvalidDueDate 应还日期早于借出日期
	ErrInvalidDueDate = apperrors.New(apperrors.ErrCodeInvalidParams, "应还日期必须晚于借出日期")
)
