// Command arcana-server starts the memory game room coordinator.
//
// It serves the line protocol over TCP (the desktop client's
// transport) and over WebSocket, plus a small read-only HTTP API and
// an /mcp endpoint. The "mcp" subcommand runs the MCP tools over
// stdio instead.
//
// Flags control the listen addresses, log destination, debug logging,
// and optional ngrok tunneling of the HTTP side for external access
// during development.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/aristel/arcana-server/api"
	"github.com/aristel/arcana-server/game/lobby"
	"github.com/aristel/arcana-server/logger"
	"github.com/aristel/arcana-server/transport/mcp"
	"github.com/aristel/arcana-server/transport/tcp"
	"github.com/aristel/arcana-server/transport/websocket"
)

const (
	version = "1.0.0"
	appName = "Arcana Memory Game Server"
)

func main() {
	// Load .env if present; a missing file is the normal case.
	if err := godotenv.Load(); err == nil {
		fmt.Fprintln(os.Stderr, "loaded environment from .env")
	}

	root := &cli.Command{
		Name:    "arcana-server",
		Usage:   appName,
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "tcp-addr",
				Value:   ":12345",
				Usage:   "TCP listen address for the game protocol",
				Sources: cli.EnvVars("ARCANA_TCP_ADDR"),
			},
			&cli.StringFlag{
				Name:    "http-addr",
				Value:   ":8080",
				Usage:   "HTTP listen address for API, WebSocket and MCP",
				Sources: cli.EnvVars("ARCANA_HTTP_ADDR"),
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "also write logs to this file (rotated)",
				Sources: cli.EnvVars("ARCANA_LOG_FILE"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("ARCANA_DEBUG"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "expose the HTTP server through an ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "custom ngrok domain",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Action: runServer,
		Commands: []*cli.Command{
			{
				Name:   "mcp",
				Usage:  "run the MCP tools over stdio",
				Action: runStdioMCP,
			},
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runServer is the default mode: TCP game listener plus HTTP server,
// both shut down on SIGINT/SIGTERM.
func runServer(ctx context.Context, cmd *cli.Command) error {
	log := logger.New(cmd.String("log-file"), cmd.Bool("debug"))
	defer log.Sync()

	log.Infow("starting", "app", appName, "version", version)

	reg := lobby.NewRegistry(log)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	// TCP game listener.
	tcpSrv := tcp.NewServer(cmd.String("tcp-addr"), reg, log)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.ListenAndServe(ctx); err != nil {
			errCh <- fmt.Errorf("tcp server: %w", err)
		}
	}()

	// HTTP side: API, WebSocket bridge and the MCP endpoint.
	bridge := websocket.NewBridge(reg, log)
	apiSrv := api.NewServer(reg, bridge)
	apiSrv.Handle("/mcp", mcpHandler(mcp.NewObserver(reg)))

	httpAddr := cmd.String("http-addr")
	httpSrv := &http.Server{
		Addr:         httpAddr,
		Handler:      apiSrv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Infow("http server listening", "addr", httpAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, cmd, apiSrv, log)
		}()
	}

	select {
	case <-ctx.Done():
		log.Infow("shutdown signal received")
	case err := <-errCh:
		cancel()
		log.Errorw("fatal server error", "err", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warnw("http shutdown", "err", err)
	}

	wg.Wait()
	log.Infow("server stopped")
	return nil
}

// runNgrok tunnels the HTTP handler through ngrok until ctx ends.
func runNgrok(ctx context.Context, cmd *cli.Command, handler http.Handler, log *zap.SugaredLogger) {
	authToken := cmd.String("ngrok-auth")
	if authToken == "" {
		log.Warnw("ngrok enabled but no auth token provided")
		return
	}

	var tunnel ngrokConfig.Tunnel
	if domain := cmd.String("ngrok-domain"); domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Errorw("ngrok tunnel failed", "err", err)
		return
	}
	defer tun.Close()

	log.Infow("ngrok tunnel established", "url", tun.URL())
	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Debugw("ngrok server ended", "err", err)
	}
}

// mcpHandler exposes the MCP server over a plain POST endpoint.
func mcpHandler(o *mcp.Observer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := o.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		data, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(data)
	})
}

// runStdioMCP serves the MCP tools over stdio against an in-process
// registry. Useful for local MCP clients that want to watch a server
// embedded in their own process tree.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	log := logger.New(cmd.String("log-file"), cmd.Bool("debug"))
	defer log.Sync()

	reg := lobby.NewRegistry(log)

	// The TCP listener still runs so the rooms being observed exist.
	tcpSrv := tcp.NewServer(cmd.String("tcp-addr"), reg, log)
	go func() {
		if err := tcpSrv.ListenAndServe(ctx); err != nil {
			log.Errorw("tcp server", "err", err)
		}
	}()

	log.Infow("mcp stdio server ready")
	return mcpserver.ServeStdio(mcp.NewObserver(reg).GetMCPServer())
}
