package ws

import (
	"encoding/json"
	"testing"
	"time"

	"go-societe-admin/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishEncodesEvent(t *testing.T) {
	h := NewHub(logger.Discard())
	h.Publish("admin.assigned", map[string]string{"admin_id": "a"})

	var ev Event
	require.NoError(t, json.Unmarshal(<-h.Broadcast, &ev))
	assert.Equal(t, "admin.assigned", ev.Type)
	assert.Equal(t, map[string]interface{}{"admin_id": "a"}, ev.Data)
	assert.False(t, ev.At.IsZero())
}

func TestPublishDropsWhenQueueFull(t *testing.T) {
	h := NewHub(logger.Discard())
	for i := 0; i < cap(h.Broadcast)+10; i++ {
		h.Publish("societe.updated", i)
	}
	assert.Len(t, h.Broadcast, cap(h.Broadcast))
}

func TestPublishSkipsUnencodable(t *testing.T) {
	h := NewHub(logger.Discard())
	h.Publish("bad", make(chan int))
	assert.Empty(t, h.Broadcast)
}

func TestStopEndsRun(t *testing.T) {
	h := NewHub(logger.Discard())
	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()

	h.Publish("societe.created", nil)
	h.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}
	assert.Zero(t, h.ClientCount())
}
