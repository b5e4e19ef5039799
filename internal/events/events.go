// Package events publishes and decodes the domain events emitted when
// articles and comments are created or deleted.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ncnews/apiserver/internal/mq"
)

// Type identifies the kind of domain event.
type Type string

const (
	ArticleCreated Type = "article.created"
	ArticleDeleted Type = "article.deleted"
	CommentCreated Type = "comment.created"
	CommentDeleted Type = "comment.deleted"
)

// attrType is the message attribute carrying the event type so consumers
// can filter without decoding the payload.
const attrType = "event_type"

// Event is the JSON payload published for every domain change.
type Event struct {
	Type       Type      `json:"type"`
	Actor      string    `json:"actor"`
	ArticleID  int       `json:"article_id"`
	CommentID  int       `json:"comment_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Sender is the subset of the message queue used for publishing.
type Sender interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// Publisher encodes events and sends them on a fixed channel.
type Publisher struct {
	sender  Sender
	channel string
	now     func() time.Time
}

// NewPublisher constructs a Publisher that sends events on channel.
func NewPublisher(sender Sender, channel string) *Publisher {
	return &Publisher{sender: sender, channel: channel, now: time.Now}
}

// Publish sends the event and returns the broker message id.
func (p *Publisher) Publish(ctx context.Context, event Event) (string, error) {
	if event.Type == "" {
		return "", errors.New("event type is required")
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = p.now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("encode %s event: %w", event.Type, err)
	}

	id, err := p.sender.Publish(ctx, p.channel, data, map[string]string{attrType: string(event.Type)})
	if err != nil {
		return "", fmt.Errorf("publish %s event: %w", event.Type, err)
	}
	return id, nil
}

// Discard drops every event. It is used when no broker is configured.
type Discard struct{}

func (Discard) Publish(context.Context, Event) (string, error) {
	return "", nil
}

// Decode parses a delivered message back into an Event.
func Decode(msg mq.Message) (Event, error) {
	var event Event
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		return Event{}, fmt.Errorf("decode message %s: %w", msg.ID, err)
	}
	if event.Type == "" {
		event.Type = Type(msg.Attributes[attrType])
	}
	if event.Type == "" {
		return Event{}, fmt.Errorf("message %s has no event type", msg.ID)
	}
	return event, nil
}
