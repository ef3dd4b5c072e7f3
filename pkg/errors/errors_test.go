package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		code int
		want int
	}{
		{"图书不存在", ErrCodeBookNotFound, http.StatusNotFound},
		{"借阅不存在", ErrCodeLoanNotFound, http.StatusNotFound},
		{"重复预约", ErrCodeDuplicateReservation, http.StatusConflict},
		{"邮箱重复", ErrCodeEmailDuplicate, http.StatusConflict},
		{"无权限", ErrCodeForbidden, http.StatusForbidden},
		{"Token过期", ErrCodeTokenExpired, http.StatusUnauthorized},
		{"在借上限", ErrCodeMaxActiveLoans, http.StatusBadRequest},
		{"参数错误", ErrCodeInvalidParams, http.StatusBadRequest},
		{"库存写冲突", ErrCodeStockConflict, http.StatusInternalServerError},
		{"数据库错误", ErrCodeDatabaseError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.code))
		})
	}
}

func TestGetAppError(t *testing.T) {
	t.Run("包装链中的AppError", func(t *testing.T) {
		err := fmt.Errorf("create loan: %w", ErrBookNotFound)
		assert.Same(t, ErrBookNotFound, GetAppError(err))
		assert.True(t, HasCode(err, ErrCodeBookNotFound))
	})

	t.Run("普通错误转为Internal", func(t *testing.T) {
		raw := errors.New("connection reset")
		appErr := GetAppError(raw)
		assert.Equal(t, ErrCodeInternal, appErr.Code)
		assert.ErrorIs(t, appErr, raw)
		assert.False(t, IsAppError(raw))
	})
}

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "[40402] 图书不存在", ErrBookNotFound.Error())
	assert.Contains(t, Wrap(errors.New("timeout"), "查询失败").Error(), "timeout")
}
