package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/loan"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// loanRepository 借阅仓储（MySQL）
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository 创建借阅仓储
func NewLoanRepository(db *gorm.DB) loan.Repository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, l *loan.Loan) error {
	model := toLoanModel(l)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建借阅失败")
	}
	l.ID = model.ID
	l.CreatedAt = model.CreatedAt
	l.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *loanRepository) FindByID(ctx context.Context, id uint) (*loan.Loan, error) {
	return r.first(getDB(ctx, r.db), id)
}

// LockActiveByID 只锁在借记录，已归还视为不存在
func (r *loanRepository) LockActiveByID(ctx context.Context, id uint) (*loan.Loan, error) {
	return r.first(forUpdate(getDB(ctx, r.db)).Where("return_date IS NULL"), id)
}

func (r *loanRepository) LockByID(ctx context.Context, id uint) (*loan.Loan, error) {
	return r.first(forUpdate(getDB(ctx, r.db)), id)
}

func (r *loanRepository) first(db *gorm.DB, id uint) (*loan.Loan, error) {
	var model LoanModel
	if err := db.First(&model, id).Error; err != nil {
		if isNotFound(err) {
			return nil, loan.ErrLoanNotFound
		}
		return nil, apperrors.Wrap(err, "查询借阅失败")
	}
	return toLoanEntity(&model), nil
}

func (r *loanRepository) Update(ctx context.Context, l *loan.Loan) error {
	result := getDB(ctx, r.db).Model(&LoanModel{}).Where("id = ?", l.ID).Updates(map[string]interface{}{
		"due_date":    l.DueDate,
		"return_date": l.ReturnDate,
		"fine":        l.Fine,
		"updated_at":  l.UpdatedAt,
	})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新借阅失败")
	}
	if result.RowsAffected > 0 {
		return nil
	}
	exists, err := existsByID(getDB(ctx, r.db), &LoanModel{}, l.ID)
	if err != nil {
		return apperrors.Wrap(err, "查询借阅失败")
	}
	if !exists {
		return loan.ErrLoanNotFound
	}
	return nil
}

func (r *loanRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&LoanModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除借阅失败")
	}
	if result.RowsAffected == 0 {
		return loan.ErrLoanNotFound
	}
	return nil
}

func (r *loanRepository) CountActiveByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&LoanModel{}).
		Where("user_id = ? AND return_date IS NULL", userID).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "统计在借数量失败")
	}
	return count, nil
}

func (r *loanRepository) List(ctx context.Context, params loan.ListParams) ([]*loan.Loan, int64, error) {
	query := getDB(ctx, r.db).Model(&LoanModel{})
	if params.UserID != 0 {
		query = query.Where("user_id = ?", params.UserID)
	}
	if params.BookID != 0 {
		query = query.Where("book_id = ?", params.BookID)
	}
	if params.ActiveOnly {
		query = query.Where("return_date IS NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借阅总数失败")
	}

	var models []LoanModel
	if err := paginate(query.Order("id DESC"), params.Page, params.PageSize).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借阅列表失败")
	}

	loans := make([]*loan.Loan, len(models))
	for i := range models {
		loans[i] = toLoanEntity(&models[i])
	}
	return loans, total, nil
}

func toLoanModel(l *loan.Loan) *LoanModel {
	return &LoanModel{
		ID:         l.ID,
		UserID:     l.UserID,
		BookID:     l.BookID,
		StockID:    l.StockID,
		LoanDate:   l.LoanDate,
		DueDate:    l.DueDate,
		ReturnDate: l.ReturnDate,
		Fine:       l.Fine,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}

func toLoanEntity(m *LoanModel) *loan.Loan {
	return &loan.Loan{
		ID:         m.ID,
		UserID:     m.UserID,
		BookID:     m.BookID,
		StockID:    m.StockID,
		LoanDate:   m.LoanDate,
		DueDate:    m.DueDate,
		ReturnDate: m.ReturnDate,
		Fine:       m.Fine,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
