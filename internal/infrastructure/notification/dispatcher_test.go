package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/notification"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/library/pkg/circuitbreaker"
)

type fakeRealtime struct {
	delivered []notification.Message
	err       error
}

func (f *fakeRealtime) Deliver(_ context.Context, msg notification.Message) error {
	if f.err != nil {
		return f.err
	}
	f.delivered = append(f.delivered, msg)
	return nil
}

type fakePublisher struct {
	keys     []string
	messages []notification.Message
	err      error
}

func (f *fakePublisher) Publish(_ context.Context, routingKey string, message interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, routingKey)
	f.messages = append(f.messages, message.(notification.Message))
	return nil
}

func setup(t *testing.T) (*memory.Store, uint) {
	t.Helper()
	store := memory.NewStore()
	u := user.NewUser("reader@test.com", "hashed", "reader")
	require.NoError(t, store.Users().Create(context.Background(), u))
	return store, u.ID
}

func TestDispatcher_FanOut(t *testing.T) {
	store, uid := setup(t)
	realtime := &fakeRealtime{}
	publisher := &fakePublisher{}
	d := NewDispatcher(store.Users(), realtime, publisher, "notification.email")

	require.NoError(t, d.NotifyUser(context.Background(), uid, notification.BookAvailableMessage("Go语言")))

	require.Len(t, realtime.delivered, 1)
	assert.Contains(t, realtime.delivered[0].Content, "available")
	assert.Empty(t, realtime.delivered[0].Email)

	require.Len(t, publisher.messages, 1)
	assert.Equal(t, "notification.email", publisher.keys[0])
	assert.Equal(t, "reader@test.com", publisher.messages[0].Email)
}

func TestDispatcher_ChannelFailure(t *testing.T) {
	store, uid := setup(t)
	realtime := &fakeRealtime{err: errors.New("redis down")}
	publisher := &fakePublisher{}
	d := NewDispatcher(store.Users(), realtime, publisher, "notification.email")

	err := d.NotifyUser(context.Background(), uid, "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, realtime.err)
	assert.Len(t, publisher.messages, 1, "实时通道失败不影响邮件通道")
}

func TestDispatcher_UnknownUserSkipsEmail(t *testing.T) {
	store, _ := setup(t)
	realtime := &fakeRealtime{}
	publisher := &fakePublisher{}
	d := NewDispatcher(store.Users(), realtime, publisher, "notification.email")

	err := d.NotifyUser(context.Background(), 404, "hello")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	assert.Len(t, realtime.delivered, 1)
	assert.Empty(t, publisher.messages)
}

func TestDispatcher_BreakerOpens(t *testing.T) {
	store, uid := setup(t)
	realtime := &fakeRealtime{err: errors.New("redis down")}
	d := NewDispatcher(store.Users(), realtime, nil, "")

	for i := 0; i < 5; i++ {
		_ = d.NotifyUser(context.Background(), uid, "hello")
	}
	require.Equal(t, circuitbreaker.StateOpen, d.realtimeBreaker.State())

	err := d.NotifyUser(context.Background(), uid, "hello")
	assert.ErrorIs(t, err, circuitbreaker.ErrOpenState)
}
