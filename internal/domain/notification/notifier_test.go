package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failingNotifier struct{ calls int }

func (f *failingNotifier) NotifyUser(context.Context, uint, string) error {
	f.calls++
	return errors.New("redis down")
}

func TestSend(t *testing.T) {
	n := &failingNotifier{}
	assert.NotPanics(t, func() { Send(context.Background(), n, 1, "hi") })
	assert.Equal(t, 1, n.calls)

	assert.NotPanics(t, func() { Send(context.Background(), nil, 1, "hi") })
}

func TestBookAvailableMessage(t *testing.T) {
	assert.Contains(t, BookAvailableMessage("Dune"), "available")
	assert.Contains(t, BookAvailableMessage("Dune"), "Dune")
	assert.Contains(t, BookAvailableMessage(""), "available")
}
