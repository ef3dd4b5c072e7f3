package history

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// Recorder 同时实现Logger和Auditor
// 历史写关系库，审计写文档库；audit为nil时审计为空操作
type Recorder struct {
	repo  Repository
	audit AuditStore
	now   func() time.Time
}

// NewRecorder 创建记录器
func NewRecorder(repo Repository, audit AuditStore) *Recorder {
	return &Recorder{repo: repo, audit: audit, now: time.Now}
}

// LogEvent 追加一条历史记录
func (r *Recorder) LogEvent(ctx context.Context, userID uint, eventType EventType, loanID, reservationID *uint) error {
	return r.repo.Create(ctx, &Event{
		UserID:        userID,
		EventType:     eventType,
		LoanID:        loanID,
		ReservationID: reservationID,
		CreatedAt:     r.now(),
	})
}

// Audit 写入审计文档，自动补充时间和TraceID
func (r *Recorder) Audit(ctx context.Context, entry AuditEntry) error {
	if r.audit == nil {
		return nil
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.now()
	}
	if entry.TraceID == "" {
		entry.TraceID = tracing.ExtractTraceID(ctx)
	}
	return r.audit.Insert(ctx, &entry)
}

// List 查询历史记录
func (r *Recorder) List(ctx context.Context, params ListParams) ([]*Event, int64, error) {
	return r.repo.List(ctx, params)
}

// Emit 提交后的尽力而为写入：失败只记日志和指标，不返回错误
// logger或auditor为nil时跳过对应写入
func Emit(ctx context.Context, l Logger, a Auditor, userID uint, eventType EventType, loanID, reservationID *uint, entry AuditEntry) {
	if l != nil {
		if err := l.LogEvent(ctx, userID, eventType, loanID, reservationID); err != nil {
			metrics.IncCounterVec(metrics.SideEffectFailuresTotal, map[string]string{"kind": "history"})
			logger.L().Warn("history write failed",
				zap.Uint("user_id", userID),
				zap.String("event", string(eventType)),
				zap.Error(err),
			)
		}
	}

	if a != nil {
		if entry.UserID == 0 {
			entry.UserID = userID
		}
		if entry.Action == "" {
			entry.Action = string(eventType)
		}
		if err := a.Audit(ctx, entry); err != nil {
			metrics.IncCounterVec(metrics.SideEffectFailuresTotal, map[string]string{"kind": "audit"})
			logger.L().Warn("audit write failed",
				zap.String("action", entry.Action),
				zap.String("entity", entry.Entity),
				zap.Uint("entity_id", entry.EntityID),
				zap.Error(err),
			)
		}
	}
}
