// Command migrate creates the schema, or drops and recreates it with -reset -yes.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/xhfmvls/c-buy/config"
	"github.com/xhfmvls/c-buy/database"
	"github.com/xhfmvls/c-buy/logger"
)

func main() {
	reset := flag.Bool("reset", false, "drop every table before migrating")
	yes := flag.Bool("yes", false, "confirm -reset")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}
	log := logger.New(logger.Options{Service: "c-buy-migrate", Env: cfg.AppEnv, Level: cfg.LogLevel})

	if *reset && !*yes {
		log.Error("refusing to reset without -yes")
		os.Exit(2)
	}

	db, err := database.Open(cfg, log)
	if err != nil {
		log.Error("open database", slog.Any("err", err))
		os.Exit(1)
	}

	if *reset {
		err = database.Reset(db)
	} else {
		err = database.Migrate(db)
	}
	if err != nil {
		log.Error("migrate failed", slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("schema ready", slog.Bool("reset", *reset))
}
