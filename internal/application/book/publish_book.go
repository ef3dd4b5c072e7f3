package book

import (
	"context"
	"errors"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/history"
	"github.com/xiebiao/library/internal/domain/stock"
)

// Transactor 事务执行器
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// PublishBookUseCase 图书上架
// 图书和库存记录在同一个事务中创建
type PublishBookUseCase struct {
	bookService book.Service
	stocks      stock.Repository
	tx          Transactor
	history     history.Logger
	auditor     history.Auditor
}

// NewPublishBookUseCase 创建上架用例
func NewPublishBookUseCase(bookService book.Service, stocks stock.Repository, tx Transactor, recorder *history.Recorder) *PublishBookUseCase {
	uc := &PublishBookUseCase{bookService: bookService, stocks: stocks, tx: tx}
	if recorder != nil {
		uc.history, uc.auditor = recorder, recorder
	}
	return uc
}

// PublishBookRequest 上架请求
type PublishBookRequest struct {
	ISBN         string
	Title        string
	Author       string
	Publisher    string
	CoverURL     string
	Description  string
	InitialStock int  // 初始馆藏数量
	PublisherID  uint // 上架馆员（从认证中间件获取）
}

// BookDTO 图书详情
type BookDTO struct {
	ID          uint   `json:"id"`
	ISBN        string `json:"isbn"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Publisher   string `json:"publisher"`
	CoverURL    string `json:"cover_url"`
	Description string `json:"description"`
	PublisherID uint   `json:"publisher_id"`
	Quantity    int    `json:"quantity"`
	IsAvailable bool   `json:"is_available"`
	CreatedAt   string `json:"created_at"`
}

func toBookDTO(b *book.Book, st *stock.Stock) BookDTO {
	dto := BookDTO{
		ID:          b.ID,
		ISBN:        b.ISBN,
		Title:       b.Title,
		Author:      b.Author,
		Publisher:   b.Publisher,
		CoverURL:    b.CoverURL,
		Description: b.Description,
		PublisherID: b.PublisherID,
		CreatedAt:   b.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if st != nil {
		dto.Quantity = st.Quantity
		dto.IsAvailable = st.IsAvailable
	}
	return dto
}

// Execute 执行上架
func (uc *PublishBookUseCase) Execute(ctx context.Context, req PublishBookRequest) (*BookDTO, error) {
	if req.InitialStock < 0 {
		return nil, book.ErrInvalidStock
	}

	var (
		created *book.Book
		st      *stock.Stock
	)
	err := uc.tx.Transaction(ctx, func(txCtx context.Context) error {
		b, err := uc.bookService.PublishBook(txCtx,
			req.ISBN, req.Title, req.Author, req.Publisher,
			req.CoverURL, req.Description, req.PublisherID,
		)
		if err != nil {
			return err
		}

		s := stock.NewStock(b.ID, req.InitialStock)
		if err := uc.stocks.Create(txCtx, s); err != nil {
			return err
		}
		created, st = b, s
		return nil
	})
	if err != nil {
		return nil, err
	}

	history.Emit(ctx, nil, uc.auditor, req.PublisherID, history.EventStockAdjusted, nil, nil, history.AuditEntry{
		Action:   "BookPublished",
		Entity:   "book",
		EntityID: created.ID,
		Details:  map[string]interface{}{"isbn": created.ISBN, "initial_stock": st.Quantity},
	})

	dto := toBookDTO(created, st)
	return &dto, nil
}

// GetBookUseCase 图书详情（含库存）
type GetBookUseCase struct {
	bookService book.Service
	stocks      stock.Repository
}

// NewGetBookUseCase 创建详情用例
func NewGetBookUseCase(bookService book.Service, stocks stock.Repository) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService, stocks: stocks}
}

// Execute 查询图书，没有库存记录时数量为0
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*BookDTO, error) {
	b, err := uc.bookService.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}

	st, err := uc.stocks.FindByBookID(ctx, id)
	if err != nil && !errors.Is(err, stock.ErrStockNotFound) {
		return nil, err
	}

	dto := toBookDTO(b, st)
	return &dto, nil
}
