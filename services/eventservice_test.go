package services

import (
	"testing"

	"myassistant/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBrokerFanOut(t *testing.T) {
	b := NewBroker(zap.NewNop())
	a, cancelA := b.Subscribe()
	c, cancelC := b.Subscribe()
	defer cancelC()
	assert.Equal(t, 2, b.Subscribers())

	b.Publish(model.EventTasks, []model.Task{})
	assert.Equal(t, model.EventTasks, (<-a).Type)
	assert.Equal(t, model.EventTasks, (<-c).Type)

	cancelA()
	cancelA()
	_, open := <-a
	assert.False(t, open)
	assert.Equal(t, 1, b.Subscribers())
}

func TestBrokerDropsForSlowSubscriber(t *testing.T) {
	b := NewBroker(zap.NewNop())
	ch, cancel := b.Subscribe()
	defer cancel()

	for i := 0; i < subscriberBuffer+10; i++ {
		b.Publish(model.EventTone, i)
	}
	require.Len(t, ch, subscriberBuffer)
	assert.Equal(t, 0, (<-ch).Data)
}

func TestNotifierRequiresPermission(t *testing.T) {
	pub := &recordingPublisher{}
	n := NewNotifier(pub, zap.NewNop())
	assert.Equal(t, model.PermissionDefault, n.Permission())

	n.Notify(model.Notification{Title: "ignored"})
	assert.Empty(t, pub.ofType(model.EventNotification))

	n.RequestPermission()
	n.RequestPermission()
	assert.Len(t, pub.ofType(model.EventPermissionRequest), 1)

	n.SetPermission(model.PermissionGranted)
	n.Notify(model.Notification{Title: "Upcoming Task: Pay rent"})
	sent := pub.ofType(model.EventNotification)
	require.Len(t, sent, 1)
	assert.Equal(t, "Upcoming Task: Pay rent", sent[0].Data.(model.Notification).Title)

	n.SetPermission(model.PermissionDenied)
	n.Notify(model.Notification{Title: "dropped"})
	assert.Len(t, pub.ofType(model.EventNotification), 1)
}
