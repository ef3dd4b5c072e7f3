// Package history 历史记录查询
package history

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/application/paging"
	"github.com/xiebiao/library/internal/domain/history"
)

// Reader 历史记录读取（history.Recorder实现）
type Reader interface {
	List(ctx context.Context, params history.ListParams) ([]*history.Event, int64, error)
}

// ListHistoryUseCase 历史记录分页查询
type ListHistoryUseCase struct {
	reader Reader
}

// NewListHistoryUseCase 创建查询用例
func NewListHistoryUseCase(reader Reader) *ListHistoryUseCase {
	return &ListHistoryUseCase{reader: reader}
}

// ListHistoryRequest 查询请求
type ListHistoryRequest struct {
	UserID    uint
	EventType string
	Page      int
	PageSize  int
}

// EventDTO 历史事件
type EventDTO struct {
	ID            uint      `json:"id"`
	UserID        uint      `json:"user_id"`
	EventType     string    `json:"event_type"`
	LoanID        *uint     `json:"loan_id,omitempty"`
	ReservationID *uint     `json:"reservation_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListHistoryResponse 查询结果
type ListHistoryResponse struct {
	List       []EventDTO `json:"list"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// Execute 新记录在前
func (uc *ListHistoryUseCase) Execute(ctx context.Context, req ListHistoryRequest) (*ListHistoryResponse, error) {
	page, size := paging.Normalize(req.Page, req.PageSize)

	events, total, err := uc.reader.List(ctx, history.ListParams{
		UserID:    req.UserID,
		EventType: history.EventType(req.EventType),
		Page:      page,
		PageSize:  size,
	})
	if err != nil {
		return nil, err
	}

	list := make([]EventDTO, len(events))
	for i, e := range events {
		list[i] = EventDTO{
			ID:            e.ID,
			UserID:        e.UserID,
			EventType:     string(e.EventType),
			LoanID:        e.LoanID,
			ReservationID: e.ReservationID,
			CreatedAt:     e.CreatedAt,
		}
	}

	return &ListHistoryResponse{
		List:       list,
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: paging.TotalPages(total, size),
	}, nil
}
