package book

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 图书领域错误定义
var (
	ErrBookNotFound = apperrors.ErrBookNotFound

	ErrISBNDuplicate = apperrors.ErrISBNDuplicate

	ErrInvalidISBN = apperrors.New(apperrors.ErrCodeInvalidParams, "ISBN格式不正确")

	ErrInvalidTitle = apperrors.New(apperrors.ErrCodeInvalidParams, "书名不能为空")

	ErrInvalidStock = apperrors.New(apperrors.ErrCodeInvalidParams, "初始库存不能为负数")
)
