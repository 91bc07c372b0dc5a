package server

import (
	"testing"
	"time"

	"github.com/sharivan/XSharp-sub001/pkg/api"
	"github.com/sharivan/XSharp-sub001/pkg/logger"
)

func newBareClient(buffer int) *Client {
	return &Client{
		Send: make(chan interface{}, buffer),
		ID:   "ws-test",
		done: make(chan struct{}),
		log:  logger.Component("ws"),
	}
}

func waitReturn(t *testing.T, finished <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatalf("%s did not return", what)
	}
}

func TestClient_ForwardStopsWithWriter(t *testing.T) {
	c := newBareClient(1)
	updates := make(chan api.TickSummary, 4)
	updates <- api.TickSummary{Tick: 0}
	updates <- api.TickSummary{Tick: 1}

	finished := make(chan struct{})
	go func() {
		c.forward(updates)
		close(finished)
	}()

	// the first summary fills Send, the second blocks until the writer stops
	deadline := time.Now().Add(2 * time.Second)
	for len(c.Send) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("nothing forwarded")
		}
		time.Sleep(time.Millisecond)
	}
	c.stop()
	c.stop()
	waitReturn(t, finished, "forward")

	// a stopped client still accepts acks without blocking
	c.reply(Ack{Type: "ACK"})
}

func TestClient_ForwardClosesSendWithHub(t *testing.T) {
	c := newBareClient(4)
	updates := make(chan api.TickSummary, 1)
	updates <- api.TickSummary{Tick: 7}
	close(updates)

	finished := make(chan struct{})
	go func() {
		c.forward(updates)
		close(finished)
	}()
	waitReturn(t, finished, "forward")

	msg, ok := <-c.Send
	if !ok || msg.(api.TickSummary).Tick != 7 {
		t.Errorf("first message = %v, %v", msg, ok)
	}
	if _, ok := <-c.Send; ok {
		t.Error("Send not closed after the hub closed updates")
	}
}
