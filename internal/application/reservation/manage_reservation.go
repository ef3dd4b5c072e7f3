package reservation

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/history"
	"github.com/xiebiao/library/internal/domain/reservation"
)

// ManageReservationUseCase 预约的查询、修改、取消、删除
type ManageReservationUseCase struct {
	reservations reservation.Repository
	tx           Transactor
	history      history.Logger
	auditor      history.Auditor
	now          func() time.Time
}

// NewManageReservationUseCase 创建用例
func NewManageReservationUseCase(reservations reservation.Repository, tx Transactor, recorder *history.Recorder) *ManageReservationUseCase {
	hl, ha := sinks(recorder)
	return &ManageReservationUseCase{
		reservations: reservations,
		tx:           tx,
		history:      hl,
		auditor:      ha,
		now:          time.Now,
	}
}

// Get 查询预约：先判断存在，再判断权限
func (uc *ManageReservationUseCase) Get(ctx context.Context, id uint, actor Actor) (*ReservationDTO, error) {
	r, err := uc.reservations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(r) {
		return nil, reservation.ErrForbidden
	}

	dto := toDTO(r, uc.now())
	dto.QueuePosition = queuePosition(ctx, uc.reservations, r)
	return &dto, nil
}

// UpdateReservationRequest 修改请求，字段为nil表示不修改
type UpdateReservationRequest struct {
	ID        uint
	Actor     Actor
	Status    *reservation.Status
	ExpiresAt *time.Time
}

// Update 修改状态和/或过期时间
// 状态必须按合法流转修改；普通读者只能把自己的预约改为Cancelled
func (uc *ManageReservationUseCase) Update(ctx context.Context, req UpdateReservationRequest) (*ReservationDTO, error) {
	var (
		updated *reservation.Reservation
		changed bool
	)
	err := uc.tx.Transaction(ctx, func(txCtx context.Context) error {
		r, err := uc.reservations.FindByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		if !req.Actor.CanAccess(r) {
			return reservation.ErrForbidden
		}
		updated = r

		now := uc.now()
		if req.Status != nil && *req.Status != r.Status {
			if !req.Actor.Role.IsPrivileged() && *req.Status != reservation.StatusCancelled {
				return reservation.ErrForbidden
			}
			if err := r.TransitionTo(*req.Status, now); err != nil {
				return err
			}
			changed = true
		}
		if req.ExpiresAt != nil {
			exp := *req.ExpiresAt
			r.ExpiresAt = &exp
			r.UpdatedAt = now
			changed = true
		}

		// 状态未变化且没有新的过期时间：不写库
		if !changed {
			return nil
		}
		return uc.reservations.Update(txCtx, r)
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		dto := toDTO(updated, uc.now())
		dto.QueuePosition = queuePosition(ctx, uc.reservations, updated)
		return &dto, nil
	}

	history.Emit(ctx, uc.history, uc.auditor, updated.UserID, history.EventReservationUpdated, nil, &updated.ID, history.AuditEntry{
		UserID:   req.Actor.UserID,
		Entity:   "reservation",
		EntityID: updated.ID,
		Details:  map[string]interface{}{"status": updated.Status.String(), "expires_at": updated.ExpiresAt},
	})

	dto := toDTO(updated, uc.now())
	dto.QueuePosition = queuePosition(ctx, uc.reservations, updated)
	return &dto, nil
}

// Cancel 取消预约
func (uc *ManageReservationUseCase) Cancel(ctx context.Context, id uint, actor Actor) (*ReservationDTO, error) {
	cancelled := reservation.StatusCancelled
	return uc.Update(ctx, UpdateReservationRequest{ID: id, Actor: actor, Status: &cancelled})
}

// Delete 删除预约
func (uc *ManageReservationUseCase) Delete(ctx context.Context, id uint, actor Actor) error {
	var deleted *reservation.Reservation
	err := uc.tx.Transaction(ctx, func(txCtx context.Context) error {
		r, err := uc.reservations.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if !actor.CanAccess(r) {
			return reservation.ErrForbidden
		}
		deleted = r
		return uc.reservations.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	history.Emit(ctx, uc.history, uc.auditor, deleted.UserID, history.EventReservationDeleted, nil, &deleted.ID, history.AuditEntry{
		UserID:   actor.UserID,
		Entity:   "reservation",
		EntityID: deleted.ID,
		Details:  map[string]interface{}{"book_id": deleted.BookID, "status": deleted.Status.String()},
	})
	return nil
}
