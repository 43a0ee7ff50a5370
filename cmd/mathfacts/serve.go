package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mathfacts/internal/config"
	"github.com/vovakirdan/mathfacts/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that lets users connect and practice.

Each SSH connection gets its own game, starting at the level list.
Runs are recorded in the server's history database (all users share it).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise uses ssh.host_key_path from the config, then ~/.mathfacts/host_key
  - A missing key file is generated on first start

Examples:
  mathfacts serve                           # Listen on the configured address
  mathfacts serve --ssh :2222               # Listen on port 2222
  mathfacts serve --host-key ./my_host_key  # Use specific host key
  mathfacts serve --db ./history.db         # Use specific database

Users can connect with:
  ssh localhost -p 2323`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Disconnect idle clients after this long")
}

func runServe(cmd *cobra.Command, _ []string) {
	flags := cmd.Flags()
	cfg, _ := loadConfig(cmd, func(cfg *config.Config) {
		if flags.Changed("ssh") {
			cfg.SSH.Address = flagSSHAddr
		}
		if flags.Changed("host-key") {
			cfg.SSH.HostKeyPath = flagHostKey
		}
		if flags.Changed("idle-timeout") {
			cfg.SSH.IdleTimeout = flagIdleTimeout
		}
	})

	logger := newLogger(cfg, "ssh")

	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}

	server, err := tui.NewSSHServer(cfg.SSH, cfg.Display, store, logger)
	if err != nil {
		exitf("creating server: %v", err)
	}

	fmt.Printf("Starting Math Facts SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.ListenAndServe(ctx); err != nil {
		logger.Error("server stopped", "error", err)
		if store != nil {
			store.Close()
		}
		os.Exit(1)
	}
}
