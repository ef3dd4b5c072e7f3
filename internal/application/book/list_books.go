package book

import (
	"context"

	"github.com/xiebiao/library/internal/application/paging"
	"github.com/xiebiao/library/internal/domain/book"
)

// ListBooksUseCase 图书列表
// 列表不返回description，也不查询库存
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{bookService: bookService}
}

// ListBooksRequest 列表请求
type ListBooksRequest struct {
	Page     int
	PageSize int
	Keyword  string // 搜索书名、作者、出版社
	SortBy   string // title_asc | created_at_desc
}

// BookListItem 列表项
type BookListItem struct {
	ID        uint   `json:"id"`
	ISBN      string `json:"isbn"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Publisher string `json:"publisher"`
	CoverURL  string `json:"cover_url"`
	CreatedAt string `json:"created_at"`
}

// ListBooksResponse 列表结果
type ListBooksResponse struct {
	List       []BookListItem `json:"list"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// Execute 执行列表查询
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	page, size := paging.Normalize(req.Page, req.PageSize)

	books, total, err := uc.bookService.ListBooks(ctx, book.ListParams{
		Page:     page,
		PageSize: size,
		Keyword:  req.Keyword,
		SortBy:   req.SortBy,
	})
	if err != nil {
		return nil, err
	}

	list := make([]BookListItem, len(books))
	for i, b := range books {
		list[i] = BookListItem{
			ID:        b.ID,
			ISBN:      b.ISBN,
			Title:     b.Title,
			Author:    b.Author,
			Publisher: b.Publisher,
			CoverURL:  b.CoverURL,
			CreatedAt: b.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}

	return &ListBooksResponse{
		List:       list,
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: paging.TotalPages(total, size),
	}, nil
}
