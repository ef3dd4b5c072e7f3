package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/library/internal/domain/notification"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// DefaultInboxSize 每个用户保留的最近通知数
const DefaultInboxSize int64 = 50

// NotificationChannel 实时通知通道
// 1. PUBLISH notifications:user:{id}，在线客户端订阅
// 2. LPUSH + LTRIM notifications:inbox:{id}，轮询客户端读取最近消息
type NotificationChannel struct {
	client    *redis.Client
	inboxSize int64
}

// NewNotificationChannel 创建通知通道，inboxSize<=0时使用默认值
func NewNotificationChannel(client *redis.Client, inboxSize int64) *NotificationChannel {
	if inboxSize <= 0 {
		inboxSize = DefaultInboxSize
	}
	return &NotificationChannel{client: client, inboxSize: inboxSize}
}

// ChannelKey 用户的订阅频道
func ChannelKey(userID uint) string { return fmt.Sprintf("notifications:user:%d", userID) }

// InboxKey 用户的收件箱列表
func InboxKey(userID uint) string { return fmt.Sprintf("notifications:inbox:%d", userID) }

// Deliver 发布消息并写入收件箱
func (c *NotificationChannel) Deliver(ctx context.Context, msg notification.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return apperrors.Wrap(err, "序列化通知失败")
	}

	pipe := c.client.TxPipeline()
	pipe.Publish(ctx, ChannelKey(msg.UserID), payload)
	pipe.LPush(ctx, InboxKey(msg.UserID), payload)
	pipe.LTrim(ctx, InboxKey(msg.UserID), 0, c.inboxSize-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.Wrap(err, "发送通知失败")
	}
	return nil
}

// Recent 最近的通知，新消息在前
func (c *NotificationChannel) Recent(ctx context.Context, userID uint, limit int64) ([]notification.Message, error) {
	if limit <= 0 || limit > c.inboxSize {
		limit = c.inboxSize
	}

	raw, err := c.client.LRange(ctx, InboxKey(userID), 0, limit-1).Result()
	if err != nil {
		return nil, apperrors.Wrap(err, "读取通知失败")
	}

	messages := make([]notification.Message, 0, len(raw))
	for _, item := range raw {
		var msg notification.Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// Subscribe 订阅用户频道，返回的PubSub由调用方关闭
func (c *NotificationChannel) Subscribe(ctx context.Context, userID uint) *redis.PubSub {
	return c.client.Subscribe(ctx, ChannelKey(userID))
}
