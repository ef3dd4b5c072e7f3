package dto

import "time"

// CreateLoanRequest 办理借阅
type CreateLoanRequest struct {
	UserID uint `json:"user_id" binding:"required" example:"1"`
	BookID uint `json:"book_id" binding:"required" example:"1"`
}

// UpdateLoanRequest 修改应还日期
type UpdateLoanRequest struct {
	DueDate time.Time `json:"due_date" binding:"required" example:"2024-02-01T00:00:00Z"`
}

// ListLoansRequest 借阅列表查询
type ListLoansRequest struct {
	UserID     uint `form:"user_id"`
	BookID     uint `form:"book_id"`
	ActiveOnly bool `form:"active_only"`
	Page       int  `form:"page" binding:"omitempty,min=1"`
	PageSize   int  `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ListHistoryRequest 历史记录查询
type ListHistoryRequest struct {
	UserID    uint   `form:"user_id"`
	EventType string `form:"event_type" example:"Loan"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}
