// Package errors 定义带业务错误码的AppError。
// 领域包在各自的errors.go里预定义错误值，HTTP层通过HTTPStatus推导状态码。
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 业务错误：Code给客户端，Err只进日志
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%d] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

// New 创建业务错误
func New(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap 把基础设施错误（数据库、网络）包装为内部错误
func Wrap(err error, message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message, Err: err}
}

// 错误码：4xxxx客户端错误，5xxxx服务端错误
const (
	ErrCodeInternal      = 50000
	ErrCodeDatabaseError = 50001
	ErrCodeStockConflict = 50003 // 库存CAS写冲突

	// 401xx 认证，40104单独映射为403
	ErrCodeUnauthorized    = 40100
	ErrCodeInvalidToken    = 40101
	ErrCodeTokenExpired    = 40102
	ErrCodeInvalidPassword = 40103
	ErrCodeForbidden       = 40104

	// 404xx 资源不存在
	ErrCodeUserNotFound        = 40401
	ErrCodeBookNotFound        = 40402
	ErrCodeLoanNotFound        = 40403
	ErrCodeReservationNotFound = 40404
	ErrCodeStockNotFound       = 40405

	// 400xx 借阅规则
	ErrCodeInvalidStatusTransition = 40002
	ErrCodeEmailDuplicate          = 40003
	ErrCodeISBNDuplicate           = 40004
	ErrCodeWeakPassword            = 40005
	ErrCodeMaxActiveLoans          = 40006
	ErrCodeBookUnavailable         = 40007
	ErrCodeNoStockConfigured       = 40008
	ErrCodeDuplicateEntry          = 40009
	ErrCodeDuplicateReservation    = 40010

	ErrCodeInvalidParams = 40900
)

// 跨领域共用的错误值
var (
	ErrUnauthorized    = New(ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken    = New(ErrCodeInvalidToken, "无效的Token")
	ErrTokenExpired    = New(ErrCodeTokenExpired, "Token已过期")
	ErrInvalidPassword = New(ErrCodeInvalidPassword, "密码错误")
	ErrForbidden       = New(ErrCodeForbidden, "无权限访问")

	ErrUserNotFound = New(ErrCodeUserNotFound, "用户不存在")
	ErrBookNotFound = New(ErrCodeBookNotFound, "图书不存在")

	ErrEmailDuplicate = New(ErrCodeEmailDuplicate, "邮箱已被注册")
	ErrISBNDuplicate  = New(ErrCodeISBNDuplicate, "ISBN号已存在")
	ErrWeakPassword   = New(ErrCodeWeakPassword, "密码强度不足（需8-20位，包含字母和数字）")
)

// IsAppError 错误链中是否有AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 取出错误链中的AppError，没有则包装为内部错误
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// HasCode 错误链中的AppError是否为指定错误码
func HasCode(err error, code int) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// HTTPStatus 业务错误码映射为HTTP状态码
func HTTPStatus(code int) int {
	switch code {
	case ErrCodeEmailDuplicate, ErrCodeISBNDuplicate, ErrCodeDuplicateEntry, ErrCodeDuplicateReservation:
		return http.StatusConflict
	case ErrCodeForbidden:
		return http.StatusForbidden
	}

	switch {
	case code >= 40100 && code < 40200:
		return http.StatusUnauthorized
	case code >= 40400 && code < 40500:
		return http.StatusNotFound
	case code >= 40000 && code < 50000:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
