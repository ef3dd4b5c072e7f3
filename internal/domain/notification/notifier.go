package notification

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
)

// Notifier 向用户发送消息（实时通道和/或邮件）
// 尽力而为：调用方不因返回错误回滚业务
type Notifier interface {
	NotifyUser(ctx context.Context, userID uint, message string) error
}

// Message 通知消息
type Message struct {
	UserID  uint      `json:"user_id"`
	Email   string    `json:"email,omitempty"`
	Content string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
}

// Inbox 用户最近的通知（轮询客户端使用）
type Inbox interface {
	Recent(ctx context.Context, userID uint, limit int64) ([]Message, error)
}

// Send 提交后的尽力而为通知：失败只记日志和指标
func Send(ctx context.Context, n Notifier, userID uint, message string) {
	if n == nil {
		return
	}
	if err := n.NotifyUser(ctx, userID, message); err != nil {
		metrics.IncCounterVec(metrics.SideEffectFailuresTotal, map[string]string{"kind": "notification"})
		logger.L().Warn("notify user failed", zap.Uint("user_id", userID), zap.Error(err))
	}
}

// BookAvailableMessage 预约到书通知
func BookAvailableMessage(title string) string {
	if title == "" {
		return "Your reserved book is now available for pickup."
	}
	return "Your reserved book \"" + title + "\" is now available for pickup."
}
