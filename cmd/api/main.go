package main

import (
	"os"

	_ "paisawise/api/swagger" // swagger docs
	"paisawise/internal/config"
	"paisawise/internal/database"
	"paisawise/internal/logger"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:          "api",
	Short:        "Paisawise budget and balance-sheet service",
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "TOML config file (overrides APP_CONFIG)")
	rootCmd.AddCommand(serveCmd, migrateCmd, reconcileCmd)
}

// @title           Paisawise API
// @version         1.0
// @description     Multi-tenant department budgets, cash flow and budget request approval.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads configuration and opens the database shared by every command.
func bootstrap() (config.Config, *logrus.Logger, *gorm.DB, error) {
	if flagConfig != "" {
		_ = os.Setenv("APP_CONFIG", flagConfig)
	}
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	db, err := database.Open(cfg.Database, cfg.Log.Level == "debug")
	if err != nil {
		log.WithError(err).Error("database connection failed")
		return cfg, log, nil, err
	}
	log.WithField("driver", cfg.Database.Driver).Info("connected to database")
	return cfg, log, db, nil
}
