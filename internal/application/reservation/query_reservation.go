package reservation

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/application/paging"
	"github.com/xiebiao/library/internal/domain/reservation"
)

// QueryReservationUseCase 预约列表和排队队列
type QueryReservationUseCase struct {
	reservations reservation.Repository
	now          func() time.Time
}

// NewQueryReservationUseCase 创建查询用例
func NewQueryReservationUseCase(reservations reservation.Repository) *QueryReservationUseCase {
	return &QueryReservationUseCase{reservations: reservations, now: time.Now}
}

// GetPendingForBook 图书的Pending队列，按created_at、id升序，附带位置
func (uc *QueryReservationUseCase) GetPendingForBook(ctx context.Context, bookID uint) ([]ReservationDTO, error) {
	pending, err := uc.reservations.FindPendingByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	reservation.SortQueue(pending)

	now := uc.now()
	list := make([]ReservationDTO, len(pending))
	for i, r := range pending {
		list[i] = toDTO(r, now)
		list[i].QueuePosition = i + 1
	}
	return list, nil
}

// ListReservationsRequest 列表请求
type ListReservationsRequest struct {
	Actor    Actor
	UserID   uint
	BookID   uint
	Status   string
	Page     int
	PageSize int
}

// ListReservationsResponse 列表结果
type ListReservationsResponse struct {
	List       []ReservationDTO `json:"list"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// List 分页查询，普通读者只能看到自己的预约
func (uc *QueryReservationUseCase) List(ctx context.Context, req ListReservationsRequest) (*ListReservationsResponse, error) {
	params := reservation.ListParams{
		UserID: req.UserID,
		BookID: req.BookID,
	}
	if !req.Actor.Role.IsPrivileged() {
		params.UserID = req.Actor.UserID
	}
	if req.Status != "" {
		status, err := reservation.ParseStatus(req.Status)
		if err != nil {
			return nil, err
		}
		params.Status = status
	}
	params.Page, params.PageSize = paging.Normalize(req.Page, req.PageSize)

	items, total, err := uc.reservations.List(ctx, params)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	list := make([]ReservationDTO, len(items))
	for i, r := range items {
		list[i] = toDTO(r, now)
	}

	return &ListReservationsResponse{
		List:       list,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: paging.TotalPages(total, params.PageSize),
	}, nil
}
