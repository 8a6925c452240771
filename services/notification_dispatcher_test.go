package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hydrateMeAPI/internal/notification"
)

type chanProvider struct {
	sent chan *notification.Notification
	err  error
}

func (p *chanProvider) SendPush(ctx context.Context, n *notification.Notification) error {
	p.sent <- n
	return p.err
}

func TestDispatcherDeliversThroughProvider(t *testing.T) {
	provider := &chanProvider{sent: make(chan *notification.Notification, 1)}
	d := NewNotificationDispatcher(2, 4)
	d.SetPushProvider(provider)
	defer d.Stop()

	n := notification.FriendAdded("user-1", "Alice")
	d.Notify(n)

	select {
	case got := <-provider.sent:
		assert.Equal(t, n.ID, got.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not delivered")
	}
}

func TestDispatcherSurvivesProviderErrors(t *testing.T) {
	provider := &chanProvider{sent: make(chan *notification.Notification, 2), err: errors.New("fcm down")}
	d := NewNotificationDispatcher(1, 4)
	d.SetPushProvider(provider)
	defer d.Stop()

	d.Notify(notification.FriendAdded("user-1", "Alice"))
	d.Notify(notification.FriendAdded("user-2", "Bob"))

	for i := 0; i < 2; i++ {
		select {
		case <-provider.sent:
		case <-time.After(2 * time.Second):
			t.Fatal("worker stopped after a failed push")
		}
	}
}

func TestDispatcherStopIsIdempotent(t *testing.T) {
	d := NewNotificationDispatcher(1, 1)
	d.Stop()
	d.Stop()

	require.NotPanics(t, func() {
		d.Notify(notification.FriendAdded("user-1", "Alice"))
		d.Notify(nil)
	})
}

func TestLogPushProvider(t *testing.T) {
	assert.NoError(t, LogPushProvider{}.SendPush(context.Background(), notification.FriendAdded("u", "A")))
}
