package stock

import "time"

// Stock 图书库存（每本书一条记录）
// 不变式：Quantity >= 0，且IsAvailable == (Quantity > 0)
// Quantity只能经由Ledger修改
type Stock struct {
	ID          uint
	BookID      uint
	Quantity    int
	IsAvailable bool
	UpdatedAt   time.Time
}

// NewStock 创建库存记录，负数初始库存按0处理
func NewStock(bookID uint, quantity int) *Stock {
	if quantity < 0 {
		quantity = 0
	}
	s := &Stock{
		BookID:    bookID,
		Quantity:  quantity,
		UpdatedAt: time.Now(),
	}
	s.IsAvailable = s.Quantity > 0
	return s
}
