package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/domain/notification"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

const defaultInboxLimit = 20

// NotificationHandler 通知收件箱
type NotificationHandler struct {
	inbox notification.Inbox
}

// NewNotificationHandler 创建处理器，inbox为nil时收件箱始终为空
func NewNotificationHandler(inbox notification.Inbox) *NotificationHandler {
	return &NotificationHandler{inbox: inbox}
}

// ListNotifications 当前用户最近的通知
// @Summary      我的通知
// @Description  返回最近的通知，新消息在前
// @Tags         通知
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "数量上限"
// @Success      200 {object} response.Response{data=[]notification.Message}
// @Router       /api/v1/notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	var req dto.ListNotificationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.Limit == 0 {
		req.Limit = defaultInboxLimit
	}

	messages := []notification.Message{}
	if h.inbox != nil {
		recent, err := h.inbox.Recent(c.Request.Context(), middleware.GetUserID(c), req.Limit)
		if err != nil {
			response.Error(c, err)
			return
		}
		messages = append(messages, recent...)
	}
	response.Success(c, messages)
}
