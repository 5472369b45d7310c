// Copyright (C) 2025 Zidio Development (opensource@zidio.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zidio-dev/inkpress/cmd/inkpress/config"
	"github.com/zidio-dev/inkpress/pkg/logging"
	"github.com/zidio-dev/inkpress/services/client/api"
	"github.com/zidio-dev/inkpress/services/client/content"
	"github.com/zidio-dev/inkpress/services/client/events"
	"github.com/zidio-dev/inkpress/services/client/notify"
	"github.com/zidio-dev/inkpress/services/client/session"
	"github.com/zidio-dev/inkpress/services/client/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the shell API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	path := configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(cfg.Logging.Level),
		LogDir:  cfg.Logging.Dir,
		Service: "inkpress",
		Format:  logging.Format(cfg.Logging.Format),
		Quiet:   cfg.Logging.Quiet,
	})
	defer logger.Close()
	slog.SetDefault(logger.Slog())

	var db *storage.DB
	if cfg.Storage.InMemory {
		db, err = storage.OpenInMemory()
	} else {
		storageCfg := storage.DefaultConfig(cfg.Storage.Path)
		storageCfg.SyncWrites = cfg.Storage.SyncWrites
		storageCfg.Logger = logger.Slog()
		db, err = storage.Open(storageCfg)
	}
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	bus := events.NewBus()

	sess, err := session.New(session.Config{
		Bucket:              db.Bucket("session"),
		Bus:                 bus,
		LoginDelay:          cfg.Session.LoginDelay(),
		ClosurePollInterval: cfg.Session.PollInterval(),
		TrustedOrigin:       cfg.Server.TrustedOrigin,
		Logger:              logger.Slog(),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := sess.Initialize(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	feed := notify.NewStore(bus, logger.Slog())
	catalog := content.NewCatalog(bus, logger.Slog())

	srv, err := api.New(api.Config{
		Addr:       cfg.Server.Addr,
		LoginRate:  cfg.Server.LoginRate,
		LoginBurst: cfg.Server.LoginBurst,
		Logger:     logger.Slog(),
	}, sess, feed, catalog, bus)
	if err != nil {
		return err
	}

	return srv.Run(ctx)
}
