package user

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

var (
	ErrUserNotFound = apperrors.ErrUserNotFound

	ErrInvalidRole = apperrors.New(apperrors.ErrCodeInvalidParams, "角色非法（User/Librarian/Admin）")

	ErrInvalidEmail = apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")

	ErrInvalidNickname = apperrors.New(apperrors.ErrCodeInvalidParams, "昵称长度应为2-50个字符")
)
