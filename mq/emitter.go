package mq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"acmex/rdx"
)

// Channel carries all domain events for the admin live feed.
const Channel = "acmex-events"

// Event is a broadcast domain event (trip published, application status
// change, sponsorship paid, cubes computed).
type Event struct {
	Type     string    `json:"type"`
	EntityID string    `json:"entity_id"`
	ActorID  string    `json:"actor_id,omitempty"`
	Detail   string    `json:"detail,omitempty"`
	At       time.Time `json:"at"`
}

// Emit publishes an event to the Redis channel. Failures are logged, never
// propagated; the event feed is best-effort.
func Emit(ctx context.Context, eventType, entityID, actorID, detail string) {
	evt := Event{
		Type:     eventType,
		EntityID: entityID,
		ActorID:  actorID,
		Detail:   detail,
		At:       time.Now(),
	}
	data, err := json.Marshal(evt)
	if err != nil {
		log.Printf("[Emit] marshal error: %v", err)
		return
	}
	if err := rdx.Conn.Publish(ctx, Channel, data).Err(); err != nil {
		log.Printf("[Emit] publish error: %v", err)
	}
}

// Subscribe returns a channel of raw event payloads and a cancel func.
func Subscribe(ctx context.Context) (<-chan string, func()) {
	sub := rdx.Conn.Subscribe(ctx, Channel)
	out := make(chan string, 16)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			out <- msg.Payload
		}
	}()
	return out, func() { _ = sub.Close() }
}
