package server

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/constracti/the-gexa-war/internal/game"
)

func TestBrokerPublishSubscribe(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(GameEvent{
		Type:      "success",
		Station:   1,
		Team:      2,
		Success:   game.SuccessConquest,
		Timestamp: 42,
	})

	select {
	case msg := <-ch:
		var event GameEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			t.Fatalf("decoding event: %v", err)
		}
		if event.Station != 1 || event.Team != 2 || event.Success != game.SuccessConquest {
			t.Errorf("unexpected event: %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
}

func TestBrokerUnsubscribedChannelGetsNothing(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe()
	b.Unsubscribe(ch)

	b.Publish(GameEvent{Type: "undo", Station: 1})

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("received event on unsubscribed channel")
		}
	default:
	}
}
