package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/notification"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "notifications:user:7", ChannelKey(7))
	assert.Equal(t, "notifications:inbox:7", InboxKey(7))
	assert.Equal(t, "session:7", sessionKey(7))
	assert.Equal(t, "blacklist:abc", blacklistKey("abc"))
}

// newTestClient 需要真实Redis：LIBRARY_TEST_REDIS_ADDR=localhost:6379
func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("LIBRARY_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LIBRARY_TEST_REDIS_ADDR未设置，跳过Redis集成测试")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})
	return client
}

func TestNotificationChannel(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	ch := NewNotificationChannel(client, 3)

	sub := ch.Subscribe(ctx, 1)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, ch.Deliver(ctx, notification.Message{UserID: 1, Content: string(rune('a' + i)), SentAt: time.Now()}))
	}

	t.Run("收件箱只保留最近N条", func(t *testing.T) {
		msgs, err := ch.Recent(ctx, 1, 0)
		require.NoError(t, err)
		require.Len(t, msgs, 3)
		assert.Equal(t, "e", msgs[0].Content)
	})

	t.Run("订阅者收到消息", func(t *testing.T) {
		select {
		case m := <-sub.Channel():
			assert.Contains(t, m.Payload, `"message":"a"`)
		case <-time.After(2 * time.Second):
			t.Fatal("没有收到发布的消息")
		}
	})
}

func TestSessionStore(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	store := NewSessionStore(client)

	require.NoError(t, store.SaveSession(ctx, 1, map[string]interface{}{"email": "a@b.com"}, time.Minute))
	data, err := store.GetSession(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", data["email"])

	require.NoError(t, store.DeleteSession(ctx, 1))
	_, err = store.GetSession(ctx, 1)
	assert.Error(t, err)

	require.NoError(t, store.AddToBlacklist(ctx, "tok", time.Minute))
	black, err := store.IsInBlacklist(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, black)
}
