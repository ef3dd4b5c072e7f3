package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/notification"
	"github.com/xiebiao/library/pkg/logger"
)

// EmailSender 投递邮件
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogSender 只把邮件写入日志，用于开发环境
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender 创建日志发送器，l为nil时使用全局Logger
func NewLogSender(l *zap.Logger) *LogSender {
	if l == nil {
		l = logger.L()
	}
	return &LogSender{logger: l}
}

// Send 记录邮件内容
func (s *LogSender) Send(_ context.Context, to, subject, body string) error {
	s.logger.Info("email sent",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}

const emailSubject = "图书馆通知"

// EmailHandler 邮件队列消费者的消息处理函数（mq.Handler）
// 消息格式错误或缺少收件人时返回错误，由消费端决定是否重投
func EmailHandler(sender EmailSender) func(ctx context.Context, body []byte) error {
	return func(ctx context.Context, body []byte) error {
		var msg notification.Message
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("解析通知消息失败: %w", err)
		}
		if msg.Email == "" {
			return fmt.Errorf("通知缺少收件人: user_id=%d", msg.UserID)
		}
		return sender.Send(ctx, msg.Email, emailSubject, msg.Content)
	}
}
