package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/reservation"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// reservationRepository 预约仓储（MySQL）
type reservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository 创建预约仓储
func NewReservationRepository(db *gorm.DB) reservation.Repository {
	return &reservationRepository{db: db}
}

// queueOrder 排队顺序
const queueOrder = "created_at ASC, id ASC"

func (r *reservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	model := toReservationModel(res)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建预约失败")
	}
	res.ID = model.ID
	return nil
}

func (r *reservationRepository) FindByID(ctx context.Context, id uint) (*reservation.Reservation, error) {
	var model ReservationModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if isNotFound(err) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, apperrors.Wrap(err, "查询预约失败")
	}
	return toReservationEntity(&model), nil
}

func (r *reservationRepository) Update(ctx context.Context, res *reservation.Reservation) error {
	result := getDB(ctx, r.db).Model(&ReservationModel{}).Where("id = ?", res.ID).Updates(map[string]interface{}{
		"status":      string(res.Status),
		"expires_at":  res.ExpiresAt,
		"stock_id":    res.StockID,
		"notified_at": res.NotifiedAt,
		"updated_at":  res.UpdatedAt,
	})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新预约失败")
	}
	if result.RowsAffected > 0 {
		return nil
	}
	exists, err := existsByID(getDB(ctx, r.db), &ReservationModel{}, res.ID)
	if err != nil {
		return apperrors.Wrap(err, "查询预约失败")
	}
	if !exists {
		return reservation.ErrReservationNotFound
	}
	return nil
}

func (r *reservationRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&ReservationModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除预约失败")
	}
	if result.RowsAffected == 0 {
		return reservation.ErrReservationNotFound
	}
	return nil
}

func (r *reservationRepository) ExistsPending(ctx context.Context, userID, bookID uint) (bool, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&ReservationModel{}).
		Where("user_id = ? AND book_id = ? AND status = ?", userID, bookID, string(reservation.StatusPending)).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(err, "查询预约失败")
	}
	return count > 0, nil
}

func (r *reservationRepository) FindPendingByBook(ctx context.Context, bookID uint) ([]*reservation.Reservation, error) {
	var models []ReservationModel
	err := getDB(ctx, r.db).
		Where("book_id = ? AND status = ?", bookID, string(reservation.StatusPending)).
		Order(queueOrder).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询排队预约失败")
	}
	return toReservationEntities(models), nil
}

// LockOldestPending 锁定队首，队列为空返回nil, nil
func (r *reservationRepository) LockOldestPending(ctx context.Context, bookID uint) (*reservation.Reservation, error) {
	var model ReservationModel
	err := forUpdate(getDB(ctx, r.db)).
		Where("book_id = ? AND status = ?", bookID, string(reservation.StatusPending)).
		Order(queueOrder).
		First(&model).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "锁定排队预约失败")
	}
	return toReservationEntity(&model), nil
}

func (r *reservationRepository) FindAvailableForUser(ctx context.Context, userID, bookID uint) (*reservation.Reservation, error) {
	var model ReservationModel
	err := getDB(ctx, r.db).
		Where("user_id = ? AND book_id = ? AND status = ?", userID, bookID, string(reservation.StatusAvailable)).
		Order("id ASC").
		First(&model).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "查询预约失败")
	}
	return toReservationEntity(&model), nil
}

func (r *reservationRepository) List(ctx context.Context, params reservation.ListParams) ([]*reservation.Reservation, int64, error) {
	query := getDB(ctx, r.db).Model(&ReservationModel{})
	if params.UserID != 0 {
		query = query.Where("user_id = ?", params.UserID)
	}
	if params.BookID != 0 {
		query = query.Where("book_id = ?", params.BookID)
	}
	if params.Status != "" {
		query = query.Where("status = ?", string(params.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询预约总数失败")
	}

	var models []ReservationModel
	if err := paginate(query.Order("id DESC"), params.Page, params.PageSize).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询预约列表失败")
	}
	return toReservationEntities(models), total, nil
}

func toReservationModel(r *reservation.Reservation) *ReservationModel {
	return &ReservationModel{
		ID:         r.ID,
		UserID:     r.UserID,
		BookID:     r.BookID,
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt,
		ExpiresAt:  r.ExpiresAt,
		StockID:    r.StockID,
		NotifiedAt: r.NotifiedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func toReservationEntity(m *ReservationModel) *reservation.Reservation {
	return &reservation.Reservation{
		ID:         m.ID,
		UserID:     m.UserID,
		BookID:     m.BookID,
		Status:     reservation.Status(m.Status),
		CreatedAt:  m.CreatedAt,
		ExpiresAt:  m.ExpiresAt,
		StockID:    m.StockID,
		NotifiedAt: m.NotifiedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toReservationEntities(models []ReservationModel) []*reservation.Reservation {
	list := make([]*reservation.Reservation, len(models))
	for i := range models {
		list[i] = toReservationEntity(&models[i])
	}
	return list
}
