package mq

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/ncnews/apiserver/config"
	"google.golang.org/api/option"
)

// AttrContentType is set on every published Pub/Sub message. Pub/Sub has no
// content-type field of its own.
const AttrContentType = "content_type"

const (
	contentTypeJSON     = "application/json"
	pubsubAckDeadline   = 30 * time.Second
	pubsubDefaultSuffix = "-sub"
)

// PubSubClient publishes events to Pub/Sub topics named after the channel and
// consumes them through one subscription per channel.
type PubSubClient struct {
	client             *pubsub.Client
	subscriptionSuffix string

	mu     sync.Mutex
	topics map[string]*pubsub.Topic
}

// NewPubSubClient constructs a Pub/Sub client from config.
func NewPubSubClient(ctx context.Context, cfg config.PubSubConfig) (*PubSubClient, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, errors.New("pubsub project id is required")
	}

	var opts []option.ClientOption
	if strings.TrimSpace(cfg.CredentialsFile) != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := pubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, err
	}

	return &PubSubClient{
		client:             client,
		subscriptionSuffix: subscriptionSuffix(cfg.SubscriptionSuffix),
		topics:             map[string]*pubsub.Topic{},
	}, nil
}

// Publish sends a JSON event to the named topic and returns the server
// assigned message id.
func (p *PubSubClient) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if strings.TrimSpace(channel) == "" {
		return "", errors.New("pubsub channel is required")
	}

	topic, err := p.topic(ctx, channel)
	if err != nil {
		return "", err
	}
	return topic.Publish(ctx, newPubSubMessage(data, attrs)).Get(ctx)
}

// Subscribe receives events from the channel's subscription until ctx is
// done. A failed message is nacked for redelivery, and dropped after its
// second attempt when the subscription reports attempt counts.
func (p *PubSubClient) Subscribe(ctx context.Context, channel string, handler Handler) error {
	if strings.TrimSpace(channel) == "" {
		return errors.New("pubsub channel is required")
	}

	topic, err := p.topic(ctx, channel)
	if err != nil {
		return err
	}

	sub, err := p.ensureSubscription(ctx, channel+p.subscriptionSuffix, topic)
	if err != nil {
		return err
	}

	return sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if err := handler(ctx, fromPubSubMessage(msg)); err != nil {
			if retryable(msg.DeliveryAttempt) {
				msg.Nack()
				return
			}
		}
		msg.Ack()
	})
}

// Close flushes pending publishes and closes the client.
func (p *PubSubClient) Close() error {
	p.mu.Lock()
	for _, topic := range p.topics {
		topic.Stop()
	}
	p.topics = map[string]*pubsub.Topic{}
	p.mu.Unlock()

	return p.client.Close()
}

// topic returns the cached handle for name, creating the topic on first use.
func (p *PubSubClient) topic(ctx context.Context, name string) (*pubsub.Topic, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if topic, ok := p.topics[name]; ok {
		return topic, nil
	}

	topic := p.client.Topic(name)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		if topic, err = p.client.CreateTopic(ctx, name); err != nil {
			return nil, err
		}
	}
	p.topics[name] = topic
	return topic, nil
}

func (p *PubSubClient) ensureSubscription(ctx context.Context, name string, topic *pubsub.Topic) (*pubsub.Subscription, error) {
	sub := p.client.Subscription(name)
	exists, err := sub.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return p.client.CreateSubscription(ctx, name, pubsub.SubscriptionConfig{
			Topic:       topic,
			AckDeadline: pubsubAckDeadline,
		})
	}
	return sub, nil
}

func newPubSubMessage(data []byte, attrs map[string]string) *pubsub.Message {
	attributes := make(map[string]string, len(attrs)+1)
	for key, value := range attrs {
		attributes[key] = value
	}
	attributes[AttrContentType] = contentTypeJSON
	return &pubsub.Message{Data: data, Attributes: attributes}
}

func fromPubSubMessage(msg *pubsub.Message) Message {
	var attrs map[string]string
	for key, value := range msg.Attributes {
		if key == AttrContentType {
			continue
		}
		if attrs == nil {
			attrs = make(map[string]string, len(msg.Attributes))
		}
		attrs[key] = value
	}
	return Message{ID: msg.ID, Data: msg.Data, Attributes: attrs}
}

// retryable reports whether a failed delivery should be nacked. Without a
// dead-letter policy Pub/Sub leaves the attempt count unset and every
// failure is retried.
func retryable(deliveryAttempt *int) bool {
	return deliveryAttempt == nil || *deliveryAttempt < 2
}

func subscriptionSuffix(suffix string) string {
	if strings.TrimSpace(suffix) == "" {
		return pubsubDefaultSuffix
	}
	return suffix
}
