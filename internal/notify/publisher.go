package notify

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/rueidis"
)

// Event is the payload pushed to a user when an item they care about
// changes.
type Event struct {
	Kind    string `json:"kind"`
	ItemID  string `json:"item_id"`
	Action  string `json:"action"`
	Message string `json:"message"`
	ActorID string `json:"actor_id"`
}

// Publisher delivers events over Redis pub/sub, one topic per user id, so
// any instance holding the user's connection can pick them up. A nil client
// makes publishing a no-op; the registry still answers local presence.
type Publisher struct {
	client   rueidis.Client
	registry *Registry
}

func NewPublisher(client rueidis.Client, registry *Registry) *Publisher {
	return &Publisher{client: client, registry: registry}
}

func topicFor(userID string) string {
	return "notify:user:" + userID
}

// Publish sends the event to every listed user's topic. Delivery is
// best-effort; a failed publish is logged, not propagated.
func (p *Publisher) Publish(ctx context.Context, event Event, userIDs ...string) {
	if p.client == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("notify: marshal event: %v", err)
		return
	}

	for _, userID := range userIDs {
		if userID == "" {
			continue
		}
		if err := p.client.Do(
			ctx,
			p.client.B().Publish().Channel(topicFor(userID)).Message(string(payload)).Build(),
		).Error(); err != nil {
			log.Printf("notify: publish to %s failed: %v", userID, err)
		}
	}
}

// Registry exposes local presence for transport layers.
func (p *Publisher) Registry() *Registry {
	return p.registry
}
