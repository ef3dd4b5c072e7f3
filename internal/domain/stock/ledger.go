package stock

import (
	"context"
	"time"
)

// Ledger 库存账本，库存数量的唯一修改入口
//
// 规则：
// 1. quantity ← max(0, quantity + delta)，越界不报错，直接截断为0
// 2. 每次修改后重新计算IsAvailable
// 3. 挂载了Repository时，修改在本次调用内用CAS持久化；CAS失败时回滚内存中的值
type Ledger struct {
	repo Repository
	now  func() time.Time
}

// NewLedger 创建账本，repo为nil时只修改内存对象
func NewLedger(repo Repository) *Ledger {
	return &Ledger{repo: repo, now: time.Now}
}

// SetAvailability 根据数量重新计算可借标记（幂等）
func (l *Ledger) SetAvailability(s *Stock) {
	s.IsAvailable = s.Quantity > 0
}

// AdjustQuantity 调整库存数量
func (l *Ledger) AdjustQuantity(ctx context.Context, s *Stock, delta int) error {
	prevQty, prevAvail, prevUpdated := s.Quantity, s.IsAvailable, s.UpdatedAt

	next := s.Quantity + delta
	if next < 0 {
		next = 0
	}
	s.Quantity = next
	l.SetAvailability(s)

	if next == prevQty {
		return nil
	}
	s.UpdatedAt = l.now()

	if l.repo == nil {
		return nil
	}
	if err := l.repo.CompareAndSwap(ctx, s, prevQty); err != nil {
		s.Quantity, s.IsAvailable, s.UpdatedAt = prevQty, prevAvail, prevUpdated
		return err
	}
	return nil
}

// Increase 库存+1（归还）
func (l *Ledger) Increase(ctx context.Context, s *Stock) error {
	return l.AdjustQuantity(ctx, s, 1)
}

// Decrease 库存-1（借出）
func (l *Ledger) Decrease(ctx context.Context, s *Stock) error {
	return l.AdjustQuantity(ctx, s, -1)
}
