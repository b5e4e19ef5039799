/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/ncnews/apiserver/internal/db"
	"github.com/ncnews/apiserver/internal/db/seed"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace all data with the bundled dataset",
	Long: `Empties every table and loads the bundled topics, users, articles and
comments. Each seeded user's password is its username.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		data, err := seed.TestData()
		if err != nil {
			return err
		}

		conn, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := seed.Run(cmd.Context(), conn, data); err != nil {
			return err
		}
		log.Info().
			Int("topics", len(data.Topics)).
			Int("users", len(data.Users)).
			Int("articles", len(data.Articles)).
			Int("comments", len(data.Comments)).
			Msg("database seeded")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
