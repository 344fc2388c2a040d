package server

import (
	"encoding/json"
	"sync"

	"github.com/constracti/the-gexa-war/internal/game"
)

// GameEvent is the payload published to scoreboard subscribers whenever
// the success log changes.
type GameEvent struct {
	Type      string           `json:"type"`
	Station   int64            `json:"station,omitempty"`
	Team      int64            `json:"team,omitempty"`
	Success   game.SuccessType `json:"successType,omitempty"`
	Timestamp int64            `json:"timestamp,omitempty"`
}

// Broker is an in-process pub/sub for live scoreboard updates. The
// whole game shares one stream: every console and scoreboard refreshes
// from the same log.
type Broker struct {
	mu   sync.RWMutex
	subs map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded game events.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

// Publish sends an event to all subscribers.
func (b *Broker) Publish(event GameEvent) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
