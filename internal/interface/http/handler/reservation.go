package handler

import (
	"github.com/gin-gonic/gin"

	appreservation "github.com/xiebiao/library/internal/application/reservation"
	"github.com/xiebiao/library/internal/domain/reservation"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// ReservationHandler 预约HTTP处理器
// 普通读者只能操作自己的预约，权限判断在应用层
type ReservationHandler struct {
	createUseCase *appreservation.CreateReservationUseCase
	manageUseCase *appreservation.ManageReservationUseCase
	queryUseCase  *appreservation.QueryReservationUseCase
}

// NewReservationHandler 创建预约处理器
func NewReservationHandler(
	createUseCase *appreservation.CreateReservationUseCase,
	manageUseCase *appreservation.ManageReservationUseCase,
	queryUseCase *appreservation.QueryReservationUseCase,
) *ReservationHandler {
	return &ReservationHandler{
		createUseCase: createUseCase,
		manageUseCase: manageUseCase,
		queryUseCase:  queryUseCase,
	}
}

// CreateReservation 预约图书
// @Summary      预约图书
// @Description  读者为自己预约，图书数量为0时也可以排队
// @Tags         预约
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateReservationRequest true "预约信息"
// @Success      201 {object} response.Response{data=appreservation.ReservationDTO}
// @Failure      400 {object} response.Response "图书未配置库存"
// @Failure      403 {object} response.Response "只能为自己预约"
// @Failure      409 {object} response.Response "已有排队中的预约"
// @Router       /api/v1/reservations [post]
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var req dto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), appreservation.CreateReservationRequest{
		UserID:           req.UserID,
		BookID:           req.BookID,
		RequestingUserID: middleware.GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// GetReservation 预约详情
// @Summary      预约详情
// @Tags         预约
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "预约ID"
// @Success      200 {object} response.Response{data=appreservation.ReservationDTO}
// @Failure      403 {object} response.Response "无权查看"
// @Failure      404 {object} response.Response "预约不存在"
// @Router       /api/v1/reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.manageUseCase.Get(c.Request.Context(), id, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListReservations 预约列表
// @Summary      预约列表
// @Description  普通读者只返回自己的预约
// @Tags         预约
// @Produce      json
// @Security     BearerAuth
// @Param        user_id   query int    false "读者ID（馆员可用）"
// @Param        book_id   query int    false "图书ID"
// @Param        status    query string false "状态" Enums(Pending, Available, Completed, Cancelled)
// @Param        page      query int    false "页码"
// @Param        page_size query int    false "每页数量"
// @Success      200 {object} response.Response{data=appreservation.ListReservationsResponse}
// @Router       /api/v1/reservations [get]
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	var req dto.ListReservationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.queryUseCase.List(c.Request.Context(), appreservation.ListReservationsRequest{
		Actor:    actor(c),
		UserID:   req.UserID,
		BookID:   req.BookID,
		Status:   req.Status,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateReservation 修改预约
// @Summary      修改预约
// @Description  修改状态和/或过期时间，状态必须按合法流转修改
// @Tags         预约
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                          true "预约ID"
// @Param        request body dto.UpdateReservationRequest true "修改内容"
// @Success      200 {object} response.Response{data=appreservation.ReservationDTO}
// @Failure      400 {object} response.Response "状态流转非法"
// @Failure      403 {object} response.Response "无权修改"
// @Failure      404 {object} response.Response "预约不存在"
// @Router       /api/v1/reservations/{id} [put]
func (h *ReservationHandler) UpdateReservation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	update := appreservation.UpdateReservationRequest{
		ID:        id,
		Actor:     actor(c),
		ExpiresAt: req.ExpiresAt,
	}
	if req.Status != nil {
		status, err := reservation.ParseStatus(*req.Status)
		if err != nil {
			response.Error(c, err)
			return
		}
		update.Status = &status
	}

	result, err := h.manageUseCase.Update(c.Request.Context(), update)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CancelReservation 取消预约
// @Summary      取消预约
// @Tags         预约
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "预约ID"
// @Success      200 {object} response.Response{data=appreservation.ReservationDTO}
// @Failure      400 {object} response.Response "当前状态不能取消"
// @Failure      403 {object} response.Response "无权取消"
// @Failure      404 {object} response.Response "预约不存在"
// @Router       /api/v1/reservations/{id}/cancel [put]
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.manageUseCase.Cancel(c.Request.Context(), id, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteReservation 删除预约
// @Summary      删除预约
// @Tags         预约
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "预约ID"
// @Success      200 {object} response.Response
// @Failure      403 {object} response.Response "无权删除"
// @Failure      404 {object} response.Response "预约不存在"
// @Router       /api/v1/reservations/{id} [delete]
func (h *ReservationHandler) DeleteReservation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.manageUseCase.Delete(c.Request.Context(), id, actor(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Reservation deleted successfully"})
}
