package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mathfacts/internal/config"
	"github.com/vovakirdan/mathfacts/internal/platform/web"
)

var flagWebAddr string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the HTTP server",
	Long: `Start an HTTP server for playing in the browser.

Each browser gets its own game, tracked by a session cookie. Sessions idle
for longer than web.session_idle are dropped and their run recorded.

Endpoints:
  GET  /            - Play page
  GET  /api/state   - Current game as JSON
  POST /api/start   - {"level": N}
  POST /api/answer  - {"answer": "7"}
  POST /api/reset   - Start over
  GET  /healthz     - Liveness check
  GET  /metrics     - Prometheus metrics

Examples:
  mathfacts web
  mathfacts web --addr 127.0.0.1:9000`,
	Run: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", "", "HTTP listen address (host:port)")
}

func runWeb(cmd *cobra.Command, _ []string) {
	cfg, _ := loadConfig(cmd, func(cfg *config.Config) {
		if cmd.Flags().Changed("addr") {
			cfg.Web.Address = flagWebAddr
		}
	})

	logger := newLogger(cfg, "web")

	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}

	server, err := web.NewServer(web.Options{
		Config:  cfg.Web,
		Display: cfg.Display,
		Store:   store,
		Logger:  logger,
		Seed:    flagSeed,
	})
	if err != nil {
		exitf("creating server: %v", err)
	}

	fmt.Printf("Starting Math Facts web server on %s\n", server.Addr())
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
