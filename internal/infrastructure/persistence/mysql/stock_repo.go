package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/stock"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// stockRepository 库存仓储（MySQL）
type stockRepository struct {
	db *gorm.DB
}

// NewStockRepository 创建库存仓储
func NewStockRepository(db *gorm.DB) stock.Repository {
	return &stockRepository{db: db}
}

func (r *stockRepository) Create(ctx context.Context, s *stock.Stock) error {
	model := &StockModel{
		BookID:      s.BookID,
		Quantity:    s.Quantity,
		IsAvailable: s.IsAvailable,
		UpdatedAt:   s.UpdatedAt,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "库存记录已存在")
		}
		return apperrors.Wrap(err, "创建库存失败")
	}
	s.ID = model.ID
	return nil
}

func (r *stockRepository) FindByBookID(ctx context.Context, bookID uint) (*stock.Stock, error) {
	return r.find(getDB(ctx, r.db), bookID)
}

// LockByBookID SELECT ... FOR UPDATE
func (r *stockRepository) LockByBookID(ctx context.Context, bookID uint) (*stock.Stock, error) {
	return r.find(forUpdate(getDB(ctx, r.db)), bookID)
}

func (r *stockRepository) find(db *gorm.DB, bookID uint) (*stock.Stock, error) {
	var model StockModel
	if err := db.Where("book_id = ?", bookID).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, stock.ErrStockNotFound
		}
		return nil, apperrors.Wrap(err, "查询库存失败")
	}
	return toStockEntity(&model), nil
}

// CompareAndSwap UPDATE stocks SET quantity=?, is_available=? WHERE id=? AND quantity=<expected>
func (r *stockRepository) CompareAndSwap(ctx context.Context, s *stock.Stock, expected int) error {
	result := getDB(ctx, r.db).Model(&StockModel{}).
		Where("id = ? AND quantity = ?", s.ID, expected).
		Updates(map[string]interface{}{
			"quantity":     s.Quantity,
			"is_available": s.IsAvailable,
			"updated_at":   s.UpdatedAt,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新库存失败")
	}
	if result.RowsAffected == 0 {
		return stock.ErrStockConflict
	}
	return nil
}

func toStockEntity(m *StockModel) *stock.Stock {
	return &stock.Stock{
		ID:          m.ID,
		BookID:      m.BookID,
		Quantity:    m.Quantity,
		IsAvailable: m.IsAvailable,
		UpdatedAt:   m.UpdatedAt,
	}
}
