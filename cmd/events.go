/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/ncnews/apiserver/internal/events"
	"github.com/ncnews/apiserver/internal/mq"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// eventsCmd represents the events command
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Logs the domain events published by the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		queue, err := mq.Open(ctx, cfg.MQ)
		if err != nil {
			return err
		}
		if queue == nil {
			return errors.New("MQ_BACKEND is not configured")
		}
		defer queue.Close()

		log.Info().Str("channel", cfg.MQ.Channel).Msg("listening for events")
		err = queue.Subscribe(ctx, cfg.MQ.Channel, func(_ context.Context, msg mq.Message) error {
			event, err := events.Decode(msg)
			if err != nil {
				log.Warn().Err(err).Msg("dropping malformed event")
				return nil
			}
			log.Info().
				Str("id", msg.ID).
				Str("type", string(event.Type)).
				Str("actor", event.Actor).
				Int("article_id", event.ArticleID).
				Int("comment_id", event.CommentID).
				Time("occurred_at", event.OccurredAt).
				Msg("event")
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}
