/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/ncnews/apiserver/internal/db"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrationsDir string

// migrateCmd represents the migrate command.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all up migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if err := db.MigrateUp(migrationsPath(cfg.MigrationsDir), db.PostgresURL(cfg)); err != nil {
			return err
		}
		log.Info().Msg("migrations applied")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert all migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if err := db.MigrateDown(migrationsPath(cfg.MigrationsDir), db.PostgresURL(cfg)); err != nil {
			return err
		}
		log.Info().Msg("migrations reverted")
		return nil
	},
}

func migrationsPath(fromConfig string) string {
	if migrationsDir != "" {
		return migrationsDir
	}
	return fromConfig
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)

	migrateCmd.PersistentFlags().StringVar(&migrationsDir, "dir", "", "migrations directory (overrides MIGRATIONS_DIR)")
}
