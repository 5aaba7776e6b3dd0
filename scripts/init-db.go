package main

import (
	"context"
	"os"
	"time"

	"garage_manager/internal/config"
	"garage_manager/internal/database"
	"garage_manager/internal/migrations"
	"garage_manager/pkg/logger"

	"github.com/spf13/pflag"
)

func main() {
	var (
		drop      = pflag.Bool("drop", false, "drop every table before migrating")
		seedFile  = pflag.String("seed-file", "", "YAML file with admin account and catalog rows")
		adminUser = pflag.String("admin-username", "admin", "username of the bootstrap admin")
		adminPass = pflag.String("admin-password", "admin123", "password of the bootstrap admin")
		adminTel  = pflag.String("admin-phone", "0900000000", "phone of the bootstrap admin")
	)
	pflag.Parse()

	cfg := config.Load()
	log := logger.New(cfg.Env)

	db, err := database.Initialize(cfg.DatabaseURL, database.Options{Debug: cfg.Env == "dev"}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	err = migrations.RunMigrations(ctx, db, migrations.Options{
		Drop:     *drop,
		SeedFile: *seedFile,
		Admin: migrations.AdminSeed{
			Username: *adminUser,
			Password: *adminPass,
			Phone:    *adminTel,
		},
	}, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("database initialization failed")
		cancel()
		os.Exit(1)
	}
	log.Info().Msg("database initialization completed")
}
