// Package notification 通知分发：Redis实时通道 + RabbitMQ邮件队列
package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/notification"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/pkg/circuitbreaker"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
)

// RealtimeChannel 实时通道（redis.NotificationChannel）
type RealtimeChannel interface {
	Deliver(ctx context.Context, msg notification.Message) error
}

// EmailPublisher 邮件队列（mq.Publisher）
type EmailPublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// Dispatcher 实现notification.Notifier
// 每个通道各自挂一个熔断器，一个通道故障不影响另一个
type Dispatcher struct {
	users    user.Repository
	realtime RealtimeChannel
	email    EmailPublisher
	emailKey string

	realtimeBreaker *circuitbreaker.CircuitBreaker
	emailBreaker    *circuitbreaker.CircuitBreaker
	now             func() time.Time
}

// NewDispatcher 创建分发器，realtime或email为nil时跳过对应通道
func NewDispatcher(users user.Repository, realtime RealtimeChannel, email EmailPublisher, emailRoutingKey string) *Dispatcher {
	return &Dispatcher{
		users:           users,
		realtime:        realtime,
		email:           email,
		emailKey:        emailRoutingKey,
		realtimeBreaker: circuitbreaker.New("notification.realtime", circuitbreaker.DefaultConfig()),
		emailBreaker:    circuitbreaker.New("notification.email", circuitbreaker.DefaultConfig()),
		now:             time.Now,
	}
}

// NotifyUser 向所有通道发送，返回各通道错误的合并
func (d *Dispatcher) NotifyUser(ctx context.Context, userID uint, message string) error {
	msg := notification.Message{
		UserID:  userID,
		Content: message,
		SentAt:  d.now(),
	}

	var errs []error
	if d.realtime != nil {
		err := d.realtimeBreaker.Execute(ctx, func(ctx context.Context) error {
			return d.realtime.Deliver(ctx, msg)
		})
		errs = append(errs, d.record("realtime", userID, err))
	}

	if d.email != nil {
		err := d.emailBreaker.Execute(ctx, func(ctx context.Context) error {
			u, err := d.users.FindByID(ctx, userID)
			if err != nil {
				return err
			}
			emailMsg := msg
			emailMsg.Email = u.Email
			return d.email.Publish(ctx, d.emailKey, emailMsg)
		})
		errs = append(errs, d.record("email", userID, err))
	}

	return errors.Join(errs...)
}

func (d *Dispatcher) record(channel string, userID uint, err error) error {
	if err == nil {
		metrics.IncCounterVec(metrics.NotificationsTotal, map[string]string{"channel": channel, "result": "success"})
		return nil
	}

	result := "failure"
	if errors.Is(err, circuitbreaker.ErrOpenState) {
		result = "rejected"
	}
	metrics.IncCounterVec(metrics.NotificationsTotal, map[string]string{"channel": channel, "result": result})
	logger.L().Warn("notification channel failed",
		zap.String("channel", channel),
		zap.Uint("user_id", userID),
		zap.Error(err),
	)
	return fmt.Errorf("%s: %w", channel, err)
}
