package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/history"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// historyRepository 历史记录仓储（MySQL，只追加）
type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository 创建历史记录仓储
func NewHistoryRepository(db *gorm.DB) history.Repository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Create(ctx context.Context, e *history.Event) error {
	model := &HistoryModel{
		UserID:        e.UserID,
		EventType:     string(e.EventType),
		LoanID:        e.LoanID,
		ReservationID: e.ReservationID,
		CreatedAt:     e.CreatedAt,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "写入历史记录失败")
	}
	e.ID = model.ID
	return nil
}

// List 按时间倒序
func (r *historyRepository) List(ctx context.Context, params history.ListParams) ([]*history.Event, int64, error) {
	query := getDB(ctx, r.db).Model(&HistoryModel{})
	if params.UserID != 0 {
		query = query.Where("user_id = ?", params.UserID)
	}
	if params.EventType != "" {
		query = query.Where("event_type = ?", string(params.EventType))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询历史总数失败")
	}

	var models []HistoryModel
	if err := paginate(query.Order("id DESC"), params.Page, params.PageSize).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询历史记录失败")
	}

	events := make([]*history.Event, len(models))
	for i, m := range models {
		events[i] = &history.Event{
			ID:            m.ID,
			UserID:        m.UserID,
			EventType:     history.EventType(m.EventType),
			LoanID:        m.LoanID,
			ReservationID: m.ReservationID,
			CreatedAt:     m.CreatedAt,
		}
	}
	return events, total, nil
}
