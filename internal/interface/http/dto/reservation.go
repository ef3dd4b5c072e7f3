package dto

import "time"

// CreateReservationRequest 创建预约，user_id必须是当前登录用户
type CreateReservationRequest struct {
	UserID uint `json:"user_id" binding:"required" example:"1"`
	BookID uint `json:"book_id" binding:"required" example:"1"`
}

// UpdateReservationRequest 修改预约，字段省略表示不修改
type UpdateReservationRequest struct {
	Status    *string    `json:"status" binding:"omitempty,oneof=Pending Available Completed Cancelled" example:"Cancelled"`
	ExpiresAt *time.Time `json:"expires_at" example:"2024-02-01T00:00:00Z"`
}

// ListReservationsRequest 预约列表查询
type ListReservationsRequest struct {
	UserID   uint   `form:"user_id"`
	BookID   uint   `form:"book_id"`
	Status   string `form:"status" binding:"omitempty,oneof=Pending Available Completed Cancelled"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ListNotificationsRequest 通知收件箱查询
type ListNotificationsRequest struct {
	Limit int64 `form:"limit" binding:"omitempty,min=1,max=100" example:"20"`
}
