// Package services implements the news use-cases on top of the repositories:
// validation, existence checks, ownership rules and domain events.
package services

import (
	"context"
	"errors"

	"github.com/ncnews/apiserver/internal/apperr"
	"github.com/ncnews/apiserver/internal/events"
	"github.com/ncnews/apiserver/internal/store"
	"github.com/rs/zerolog/log"
)

// EventPublisher sends domain events to a broker.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) (string, error)
}

// notFound turns the store sentinel into a client-facing 404.
func notFound(err error, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(msg)
	}
	return err
}

// publish sends an event without failing the request that caused it.
func publish(ctx context.Context, publisher EventPublisher, event events.Event) {
	if publisher == nil {
		return
	}
	if _, err := publisher.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("event", string(event.Type)).Msg("failed to publish event")
	}
}
