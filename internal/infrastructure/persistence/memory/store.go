// Package memory 仓储接口的内存实现
//
// 行为与MySQL实现保持一致：事务串行执行，失败时整体回滚；
// 写入和读出都做值拷贝，调用方修改实体不会影响存储。
// 用于单元测试和无数据库的本地演示。
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/history"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/reservation"
	"github.com/xiebiao/library/internal/domain/stock"
	"github.com/xiebiao/library/internal/domain/user"
)

type txKey struct{}

type tables struct {
	users        map[uint]user.User
	books        map[uint]book.Book
	stocks       map[uint]stock.Stock
	loans        map[uint]loan.Loan
	reservations map[uint]reservation.Reservation
	events       []history.Event
	seq          map[string]uint
}

func newTables() tables {
	return tables{
		users:        make(map[uint]user.User),
		books:        make(map[uint]book.Book),
		stocks:       make(map[uint]stock.Stock),
		loans:        make(map[uint]loan.Loan),
		reservations: make(map[uint]reservation.Reservation),
		seq:          make(map[string]uint),
	}
}

func (t tables) clone() tables {
	c := newTables()
	for k, v := range t.users {
		c.users[k] = v
	}
	for k, v := range t.books {
		c.books[k] = v
	}
	for k, v := range t.stocks {
		c.stocks[k] = v
	}
	for k, v := range t.loans {
		c.loans[k] = v
	}
	for k, v := range t.reservations {
		c.reservations[k] = v
	}
	c.events = append(c.events, t.events...)
	for k, v := range t.seq {
		c.seq[k] = v
	}
	return c
}

// Store 内存数据库
type Store struct {
	txMu sync.Mutex // 串行化事务，等价于行锁
	mu   sync.Mutex // 保护data
	data tables

	audits []history.AuditEntry
}

// NewStore 创建空存储
func NewStore() *Store {
	return &Store{data: newTables()}
}

// Transaction 执行事务，fn返回错误时回滚全部修改
// 嵌套调用复用外层事务
func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) nextID(table string) uint {
	s.data.seq[table]++
	return s.data.seq[table]
}

// Users 用户仓储
func (s *Store) Users() user.Repository { return &userRepo{s} }

// Books 图书仓储
func (s *Store) Books() book.Repository { return &bookRepo{s} }

// Stocks 库存仓储
func (s *Store) Stocks() stock.Repository { return &stockRepo{s} }

// Loans 借阅仓储
func (s *Store) Loans() loan.Repository { return &loanRepo{s} }

// Reservations 预约仓储
func (s *Store) Reservations() reservation.Repository { return &reservationRepo{s} }

// History 历史记录仓储
func (s *Store) History() history.Repository { return &historyRepo{s} }

// Audit 审计存储
func (s *Store) Audit() history.AuditStore { return &auditStore{s} }

// AuditEntries 已写入的审计文档副本
func (s *Store) AuditEntries() []history.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]history.AuditEntry(nil), s.audits...)
}

func page[T any](items []T, p, size int) []T {
	if size <= 0 {
		return items
	}
	if p < 1 {
		p = 1
	}
	start := (p - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func stamp(t *time.Time) {
	if t.IsZero() {
		*t = time.Now()
	}
}
