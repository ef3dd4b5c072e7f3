package handler

import (
	"github.com/gin-gonic/gin"

	apphistory "github.com/xiebiao/library/internal/application/history"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// HistoryHandler 历史记录查询（馆员/管理员）
type HistoryHandler struct {
	historyUseCase *apphistory.ListHistoryUseCase
}

// NewHistoryHandler 创建历史记录处理器
func NewHistoryHandler(historyUseCase *apphistory.ListHistoryUseCase) *HistoryHandler {
	return &HistoryHandler{historyUseCase: historyUseCase}
}

// ListHistory 借阅/预约历史
// @Summary      历史记录
// @Tags         历史
// @Produce      json
// @Security     BearerAuth
// @Param        user_id    query int    false "读者ID"
// @Param        event_type query string false "事件类型"
// @Param        page       query int    false "页码"
// @Param        page_size  query int    false "每页数量"
// @Success      200 {object} response.Response{data=apphistory.ListHistoryResponse}
// @Router       /api/v1/history [get]
func (h *HistoryHandler) ListHistory(c *gin.Context) {
	var req dto.ListHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.historyUseCase.Execute(c.Request.Context(), apphistory.ListHistoryRequest{
		UserID:    req.UserID,
		EventType: req.EventType,
		Page:      req.Page,
		PageSize:  req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
