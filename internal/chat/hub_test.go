package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain pushes a global frame through the hub and waits for it on every
// client, guaranteeing the run loop has processed earlier channel ops.
func drain(t *testing.T, hub *Hub, clients ...*Client) {
	t.Helper()

	hub.Broadcast <- []byte("sync")
	for _, client := range clients {
		select {
		case <-client.Send:
		case <-time.After(time.Second):
			t.Fatal("client never received broadcast")
		}
	}
}

func TestBroadcastToReachesEveryUserConnection(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// Two tabs for one student, one for another.
	tabA := NewClient(hub, nil, "user-1")
	tabB := NewClient(hub, nil, "user-1")
	other := NewClient(hub, nil, "user-2")
	hub.Register <- tabA
	hub.Register <- tabB
	hub.Register <- other
	drain(t, hub, tabA, tabB, other)

	message := NewNotificationMessage("forum_reply_created", map[string]string{"postId": "p1"})
	hub.BroadcastTo("user-1", message)

	for _, tab := range []*Client{tabA, tabB} {
		select {
		case got := <-tab.Send:
			assert.Equal(t, message, got)
		case <-time.After(time.Second):
			t.Fatal("connection never received targeted message")
		}
	}

	select {
	case got := <-other.Send:
		t.Fatalf("other user received targeted message: %s", got)
	default:
	}
}

func TestBroadcastToUnknownUserIsNoOp(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient(hub, nil, "user-1")
	hub.Register <- client
	drain(t, hub, client)

	hub.BroadcastTo("nobody", []byte("hello"))

	select {
	case got := <-client.Send:
		t.Fatalf("unexpected message: %s", got)
	default:
	}
}

func TestUnregisterDropsUserConnections(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient(hub, nil, "user-1")
	hub.Register <- client
	drain(t, hub, client)

	hub.Unregister <- client
	// The closed Send channel signals the unregister was processed.
	_, open := <-client.Send
	require.False(t, open)

	hub.BroadcastTo("user-1", []byte("hello")) // must not panic on closed channel
}
