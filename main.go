package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"ftpshell/config"
	"ftpshell/core"
	"ftpshell/logging"
	"ftpshell/metrics"
	"ftpshell/protocols"
	"ftpshell/shell"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "ftpshell.toml", "Path to config file")
	host := flag.String("host", "", "Server host, overrides the config file")
	user := flag.String("user", "", "Login user, overrides the config file")
	protocol := flag.String("protocol", "", "ftp or sftp, overrides the config file")
	flag.Parse()

	// 1. Load Config
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 2
	}
	if *host != "" {
		cfg.Connection.Host = *host
	}
	if *user != "" {
		cfg.Connection.User = *user
	}
	if *protocol != "" {
		cfg.Connection.Protocol = *protocol
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		return 2
	}
	timeout, _ := cfg.Connection.TimeoutDuration()

	// 2. Init Logging
	if err := logging.Init(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logging: %v\n", err)
		return 2
	}
	defer logging.Sync()

	if cfg.Metrics.Listen != "" {
		srv := metrics.Serve(cfg.Metrics.Listen)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	// 3. Init History
	hm := core.NewHistoryManager(cfg.History)
	if err := hm.Load(); err != nil {
		logging.Warn("failed to load history", zap.String("path", cfg.History), zap.Error(err))
	}
	defer func() {
		if err := hm.Save(); err != nil {
			logging.Warn("failed to save history", zap.String("path", cfg.History), zap.Error(err))
		}
	}()

	local, err := protocols.NewLocalFileSystem(cfg.Local.Dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid local directory: %v\n", err)
		return 2
	}

	// 4. Connect
	password := cfg.Connection.Password
	if password == "" && cfg.Connection.User != "anonymous" {
		password, err = shell.ReadPassword(os.Stdin, os.Stdout, "Password: ")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	client, err := protocols.New(cfg.Connection.Protocol, timeout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	display := shell.NewDisplay(os.Stdout)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	session, err := core.Open(ctx, client, core.Credentials{
		Address:  cfg.Connection.Address(),
		User:     cfg.Connection.User,
		Password: password,
	})
	cancel()
	if err != nil {
		var cerr *core.Error
		if errors.As(err, &cerr) {
			display.Status(cerr.Status())
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
	defer session.Close()

	// 5. Run Shell
	interp := core.NewInterpreter(session, local, hm)
	sh := shell.New(interp, display, shell.Options{
		Host:    cfg.Connection.Host,
		History: hm.Commands(),
		Input:   os.Stdin,
	})

	display.Welcome(session.Welcome())
	listing, err := session.Listing()
	if err != nil {
		logging.Error("initial listing failed", zap.Error(err))
		display.Alert(core.SessionAlertTitle, core.SessionAlertText)
		return 1
	}
	sh.Refresh(listing)

	if err := sh.Run(); err != nil {
		logging.Error("session ended", zap.Error(err))
		return 1
	}
	logging.Info("shutting down")
	return 0
}
