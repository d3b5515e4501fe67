package stream

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("user-1")
	defer hub.Unregister(client)

	payload := []byte("hello")
	hub.Broadcast("user-1", payload)

	select {
	case msg := <-client.Send:
		if string(msg) != "hello" {
			t.Fatalf("unexpected message")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for message")
	}
}

func TestHubHelpers(t *testing.T) {
	ch := redisChannel("abc")
	if ch != "diary:abc:events" {
		t.Fatalf("unexpected channel: %s", ch)
	}
	if userIDFromChannel(ch) != "abc" {
		t.Fatalf("unexpected user id")
	}
	if userIDFromChannel("bad") != "" {
		t.Fatalf("expected empty user id")
	}
}

func TestUnregisterCloses(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("user-2")
	hub.Unregister(client)
	_, ok := <-client.Send
	if ok {
		t.Fatalf("expected channel closed")
	}
}

func TestHubRedisRoundTrip(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	hub := NewHub(client)
	ws := hub.Register("user-redis")
	defer hub.Unregister(ws)

	// give the pattern subscription time to establish
	time.Sleep(50 * time.Millisecond)
	hub.Broadcast("user-redis", []byte("ping"))

	select {
	case msg := <-ws.Send:
		if string(msg) != "ping" {
			t.Fatalf("unexpected message")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timeout waiting for broadcast via redis")
	}
}

func TestHubDeliversPerUserChannelPublish(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	hub := NewHub(client)
	ws := hub.Register("user-1")
	defer hub.Unregister(ws)

	time.Sleep(50 * time.Millisecond)
	if err := client.Publish(context.Background(), redisChannel("user-1"), "pong").Err(); err != nil {
		t.Fatalf("publish error: %v", err)
	}

	select {
	case msg := <-ws.Send:
		if string(msg) != "pong" {
			t.Fatalf("unexpected message from redis")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timeout waiting for per-user channel message")
	}
}

func TestHubFanOutAcrossInstances(t *testing.T) {
	s := miniredis.RunT(t)
	clientA := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer clientA.Close()
	clientB := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer clientB.Close()

	hubA := NewHub(clientA)
	hubB := NewHub(clientB)

	wsB := hubB.Register("user-shared")
	defer hubB.Unregister(wsB)

	time.Sleep(50 * time.Millisecond)
	hubA.Broadcast("user-shared", []byte("cross"))

	select {
	case msg := <-wsB.Send:
		if string(msg) != "cross" {
			t.Fatalf("unexpected message on second instance")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timeout waiting for cross-instance delivery")
	}
}

func TestHubRedisPublishErrorFallsBackLocal(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	server.Close()
	defer client.Close()

	hub := NewHub(client)
	ws := hub.Register("user-bad")
	defer hub.Unregister(ws)

	hub.Broadcast("user-bad", []byte("ping"))

	select {
	case msg := <-ws.Send:
		if string(msg) != "ping" {
			t.Fatalf("unexpected message")
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("expected local fallback delivery")
	}
}

func TestHubBroadcastDuringUnregister(t *testing.T) {
	hub := NewHub(nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			c := hub.Register("user-x")
			hub.Broadcast("user-x", []byte("m"))
			hub.Unregister(c)
		}
	}()

	for {
		select {
		case <-done:
			return
		default:
			hub.Broadcast("user-x", []byte("m"))
		}
	}
}
