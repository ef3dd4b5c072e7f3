package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appreservation "github.com/xiebiao/library/internal/application/reservation"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// bindError 参数绑定失败
func bindError(c *gin.Context, err error) {
	response.Error(c, apperrors.New(apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error()))
}

// pathID 解析路径中的正整数ID，失败时已写入响应
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, apperrors.New(apperrors.ErrCodeInvalidParams, "参数错误: 无效的"+name))
		return 0, false
	}
	return uint(id), true
}

// actor 当前登录用户
func actor(c *gin.Context) appreservation.Actor {
	return appreservation.Actor{
		UserID: middleware.GetUserID(c),
		Role:   middleware.GetRole(c),
	}
}
