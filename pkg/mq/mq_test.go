package mq

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAck struct {
	acked    bool
	nacked   bool
	requeued bool
}

func (f *fakeAck) Ack(bool) error { f.acked = true; return nil }

func (f *fakeAck) Nack(_, requeue bool) error {
	f.nacked = true
	f.requeued = requeue
	return nil
}

func TestHandleDelivery(t *testing.T) {
	ok := func(context.Context, []byte) error { return nil }
	bad := func(context.Context, []byte) error { return errors.New("smtp down") }

	t.Run("处理成功Ack", func(t *testing.T) {
		d := &fakeAck{}
		handleDelivery(context.Background(), "q", d, false, []byte(`{}`), ok)
		assert.True(t, d.acked)
		assert.False(t, d.nacked)
	})

	t.Run("首次失败重新入队", func(t *testing.T) {
		d := &fakeAck{}
		handleDelivery(context.Background(), "q", d, false, []byte(`{}`), bad)
		assert.True(t, d.nacked)
		assert.True(t, d.requeued)
	})

	t.Run("重投递后仍失败则丢弃", func(t *testing.T) {
		d := &fakeAck{}
		handleDelivery(context.Background(), "q", d, true, []byte(`{}`), bad)
		assert.True(t, d.nacked)
		assert.False(t, d.requeued)
	})
}

// TestPublishConsume 需要真实RabbitMQ，设置 LIBRARY_TEST_AMQP_URL 后运行
func TestPublishConsume(t *testing.T) {
	url := os.Getenv("LIBRARY_TEST_AMQP_URL")
	if url == "" {
		t.Skip("未设置LIBRARY_TEST_AMQP_URL，跳过RabbitMQ集成测试")
	}

	const exchange = "library.test.events"

	consumer, err := NewConsumer(url, exchange, "topic", "library.test.queue", []string{"notification.*"})
	require.NoError(t, err)
	defer consumer.Close()

	publisher, err := NewPublisher(url, exchange, "topic")
	require.NoError(t, err)
	defer publisher.Close()

	type event struct {
		UserID  uint   `json:"user_id"`
		Message string `json:"message"`
	}
	require.NoError(t, publisher.Publish(context.Background(), "notification.email", event{UserID: 1, Message: "hi"}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan event, 1)
	go func() {
		_ = consumer.Consume(ctx, func(_ context.Context, body []byte) error {
			var e event
			if err := json.Unmarshal(body, &e); err != nil {
				return err
			}
			received <- e
			return nil
		})
	}()

	select {
	case e := <-received:
		assert.Equal(t, uint(1), e.UserID)
		assert.Equal(t, "hi", e.Message)
	case <-ctx.Done():
		t.Fatal("等待消息超时")
	}
}
