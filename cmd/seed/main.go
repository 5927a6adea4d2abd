package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/glassworks-backend/internal/piecetypes"
	"github.com/angelmondragon/glassworks-backend/internal/users"
	"github.com/angelmondragon/glassworks-backend/pkg/config"
	"github.com/angelmondragon/glassworks-backend/pkg/db"
	"github.com/angelmondragon/glassworks-backend/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	email := flag.String("email", "", "email of the account that owns the catalog")
	catalogPath := flag.String("catalog", "configs/piece_catalog.yaml", "path to the piece type catalog")
	flag.Parse()

	if strings.TrimSpace(*email) == "" {
		fmt.Fprintln(os.Stderr, "missing -email")
		os.Exit(1)
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"catalog": *catalogPath,
	})

	f, err := os.Open(*catalogPath)
	requireResource(ctx, logg, "catalog file", err)
	defer f.Close()

	catalog, err := piecetypes.LoadCatalog(f)
	requireResource(ctx, logg, "catalog", err)

	dbClient, err := db.Open(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	user, err := users.NewRepository(dbClient.DB()).FindByEmail(ctx, *email)
	if db.IsNotFound(err) {
		fmt.Fprintf(os.Stderr, "no account with email %q\n", *email)
		os.Exit(1)
	}
	requireResource(ctx, logg, "user lookup", err)

	svc, err := piecetypes.NewService(dbClient)
	requireResource(ctx, logg, "piece type service", err)

	result, err := svc.ImportCatalog(ctx, user.ID, catalog)
	requireResource(ctx, logg, "catalog import", err)

	ctx = logg.WithFields(ctx, map[string]any{
		"user_id":          user.ID.String(),
		"types_created":    result.TypesCreated,
		"subtypes_created": result.SubtypesCreated,
		"skipped":          result.Skipped,
	})
	logg.Info(ctx, "catalog imported")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
