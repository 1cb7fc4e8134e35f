package main

import (
	"paisawise/internal/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		if err := database.AutoMigrate(db); err != nil {
			log.WithError(err).Error("migration failed")
			return err
		}
		log.Info("schema is up to date")
		return nil
	},
}
