// Package stock 库存管理用例：馆员手动调整馆藏数量、查询库存
package stock

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	appreservation "github.com/xiebiao/library/internal/application/reservation"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/history"
	"github.com/xiebiao/library/internal/domain/reservation"
	"github.com/xiebiao/library/internal/domain/stock"
	"github.com/xiebiao/library/pkg/logger"
)

// Transactor 事务执行器
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// StockDTO 库存信息
type StockDTO struct {
	ID          uint      `json:"id"`
	BookID      uint      `json:"book_id"`
	Quantity    int       `json:"quantity"`
	IsAvailable bool      `json:"is_available"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToDTO 转换库存实体
func ToDTO(s *stock.Stock) StockDTO {
	return StockDTO{
		ID:          s.ID,
		BookID:      s.BookID,
		Quantity:    s.Quantity,
		IsAvailable: s.IsAvailable,
		UpdatedAt:   s.UpdatedAt,
	}
}

// AdjustStockUseCase 调整库存
// 库存从0补充到正数时，按新数量晋升排队预约
type AdjustStockUseCase struct {
	books    book.Repository
	stocks   stock.Repository
	ledger   *stock.Ledger
	promoter *appreservation.Promoter
	tx       Transactor
	history  history.Logger
	auditor  history.Auditor
	now      func() time.Time
}

// NewAdjustStockUseCase 创建调整用例，promoter为nil时不晋升预约
func NewAdjustStockUseCase(books book.Repository, stocks stock.Repository, ledger *stock.Ledger, promoter *appreservation.Promoter, tx Transactor, recorder *history.Recorder) *AdjustStockUseCase {
	uc := &AdjustStockUseCase{books: books, stocks: stocks, ledger: ledger, promoter: promoter, tx: tx, now: time.Now}
	if recorder != nil {
		uc.history, uc.auditor = recorder, recorder
	}
	return uc
}

// AdjustStockRequest 调整请求
type AdjustStockRequest struct {
	BookID     uint
	Delta      int // 正数入库，负数出库，结果低于0时截断为0
	OperatorID uint
}

// Execute 调整库存，图书没有库存记录时先按0创建
func (uc *AdjustStockUseCase) Execute(ctx context.Context, req AdjustStockRequest) (*StockDTO, error) {
	if req.Delta == 0 {
		return nil, stock.ErrInvalidDelta
	}

	var (
		adjusted *stock.Stock
		before   int
		promoted []*reservation.Reservation
	)
	err := uc.tx.Transaction(ctx, func(txCtx context.Context) error {
		if _, err := uc.books.FindByID(txCtx, req.BookID); err != nil {
			return err
		}

		st, err := uc.stocks.LockByBookID(txCtx, req.BookID)
		if errors.Is(err, stock.ErrStockNotFound) {
			st = stock.NewStock(req.BookID, 0)
			err = uc.stocks.Create(txCtx, st)
		}
		if err != nil {
			return err
		}

		before = st.Quantity
		if err := uc.ledger.AdjustQuantity(txCtx, st, req.Delta); err != nil {
			return err
		}
		adjusted = st

		if uc.promoter == nil {
			return nil
		}
		promoted, err = uc.promoter.Refill(txCtx, st, before, uc.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.L().Info("stock adjusted",
		zap.Uint("book_id", req.BookID),
		zap.Int("delta", req.Delta),
		zap.Int("before", before),
		zap.Int("after", adjusted.Quantity),
		zap.Int("promoted", len(promoted)),
	)

	history.Emit(ctx, uc.history, uc.auditor, req.OperatorID, history.EventStockAdjusted, nil, nil, history.AuditEntry{
		Entity:   "stock",
		EntityID: adjusted.ID,
		Details: map[string]interface{}{
			"book_id": req.BookID,
			"delta":   req.Delta,
			"before":  before,
			"after":   adjusted.Quantity,
		},
	})

	if len(promoted) > 0 {
		uc.promoter.Announce(ctx, promoted...)
	}

	dto := ToDTO(adjusted)
	return &dto, nil
}

// GetStockUseCase 查询库存
type GetStockUseCase struct {
	stocks stock.Repository
}

// NewGetStockUseCase 创建查询用例
func NewGetStockUseCase(stocks stock.Repository) *GetStockUseCase {
	return &GetStockUseCase{stocks: stocks}
}

// Execute 查询图书的库存记录
func (uc *GetStockUseCase) Execute(ctx context.Context, bookID uint) (*StockDTO, error) {
	st, err := uc.stocks.FindByBookID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	dto := ToDTO(st)
	return &dto, nil
}
