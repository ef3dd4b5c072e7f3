package history

import "context"

// Logger 历史事件写入契约
type Logger interface {
	LogEvent(ctx context.Context, userID uint, eventType EventType, loanID, reservationID *uint) error
}

// Auditor 审计日志写入契约
type Auditor interface {
	Audit(ctx context.Context, entry AuditEntry) error
}

// Repository 历史记录仓储（关系库）
type Repository interface {
	Create(ctx context.Context, e *Event) error
	List(ctx context.Context, params ListParams) ([]*Event, int64, error)
}

// AuditStore 审计文档存储（文档库）
type AuditStore interface {
	Insert(ctx context.Context, entry *AuditEntry) error
}

// ListParams 列表查询参数
type ListParams struct {
	UserID    uint
	EventType EventType
	Page      int
	PageSize  int
}
