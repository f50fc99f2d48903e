package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/talentscout/talentscout/internal/api"
	"github.com/talentscout/talentscout/internal/config"
	"github.com/talentscout/talentscout/internal/storage"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			a.cfg.Server.Port = port
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServer(ctx, a)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (overrides server.port)")
}

func runServer(ctx context.Context, a *app) error {
	fmt.Fprintf(stderr, "talentscout version %s\n", version)

	handler := api.NewHandler(api.AppDeps{Store: a.store, Questions: a.gen})
	addr := net.JoinHostPort(a.cfg.Server.Host, strconv.Itoa(a.cfg.Server.Port))
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("talentscout listening", "addr", addr, "store", a.store.Path())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server and store status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		showStatus(cmd.Context(), cfg, newAPIClient(cfg))
		return nil
	},
}

func showStatus(ctx context.Context, cfg config.Config, client *apiClient) {
	resp, err := client.get(ctx, "/health")
	running := false
	if err != nil {
		printStatus("Server", "stopped")
	} else {
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			running = true
			printStatus("Server", "running on %s:%d", cfg.Server.Host, cfg.Server.Port)
		} else {
			printStatus("Server", "error (HTTP %d)", resp.StatusCode)
		}
	}

	var st storage.Stats
	if running {
		statsResp, err := client.get(ctx, "/v1/stats")
		if err == nil && decodeJSON(statsResp, &st) == nil {
			printStatus("Candidates", "%d (%d in last 24h)", st.Total, st.Recent24h)
		}
	} else {
		st = storage.NewReader(cfg.Storage.Path).Stats()
		printStatus("Candidates", "%d (%d in last 24h)", st.Total, st.Recent24h)
	}

	if cfg.Inference.APIToken != "" {
		printStatus("Model", "%s", cfg.Inference.Model)
	} else {
		printStatus("Model", "not configured (local templates only)")
	}
	printStatus("Store", "%s", cfg.Storage.Path)
}
