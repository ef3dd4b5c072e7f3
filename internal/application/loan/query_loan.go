package loan

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/application/paging"
	"github.com/xiebiao/library/internal/domain/loan"
)

// QueryLoanUseCase 借阅查询
type QueryLoanUseCase struct {
	loans loan.Repository
	now   func() time.Time
}

// NewQueryLoanUseCase 创建查询用例
func NewQueryLoanUseCase(loans loan.Repository) *QueryLoanUseCase {
	return &QueryLoanUseCase{loans: loans, now: time.Now}
}

// Get 查询单条借阅
func (uc *QueryLoanUseCase) Get(ctx context.Context, id uint) (*LoanDTO, error) {
	l, err := uc.loans.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toLoanDTO(l, uc.now())
	return &dto, nil
}

// ListLoansRequest 列表请求
type ListLoansRequest struct {
	UserID     uint
	BookID     uint
	ActiveOnly bool
	Page       int
	PageSize   int
}

// ListLoansResponse 列表结果
type ListLoansResponse struct {
	List       []LoanDTO `json:"list"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

// List 分页查询
func (uc *QueryLoanUseCase) List(ctx context.Context, req ListLoansRequest) (*ListLoansResponse, error) {
	page, size := paging.Normalize(req.Page, req.PageSize)

	loans, total, err := uc.loans.List(ctx, loan.ListParams{
		UserID:     req.UserID,
		BookID:     req.BookID,
		ActiveOnly: req.ActiveOnly,
		Page:       page,
		PageSize:   size,
	})
	if err != nil {
		return nil, err
	}

	now := uc.now()
	list := make([]LoanDTO, len(loans))
	for i, l := range loans {
		list[i] = toLoanDTO(l, now)
	}

	return &ListLoansResponse{
		List:       list,
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: paging.TotalPages(total, size),
	}, nil
}
