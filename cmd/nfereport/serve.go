package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/viant/mcp-protocol/schema"
	mcpsrv "github.com/viant/mcp/server"

	emcp "github.com/viant/nfereport/mcp"
	"github.com/viant/nfereport/server"
	"github.com/viant/nfereport/service"
	"github.com/viant/nfereport/source"
)

const (
	defaultAddr    = "127.0.0.1:8080"
	pruneInterval  = 5 * time.Minute
	shutdownWindow = 5 * time.Second
)

func serveCmd(args []string) {
	flags := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := flags.String("config", "", "config yaml (optional, defaults to ~/nfereport/config.yaml if present)")
	addr := flags.String("addr", "", "HTTP API address (default from config or 127.0.0.1:8080)")
	mcpAddr := flags.String("mcp-addr", "", "MCP server address (default from config; disabled when empty)")
	jobsDB := flags.String("jobs-db", "", "SQLite job store path (default from config or in-memory)")
	metricsLog := flags.Bool("metrics-log", false, "log mcp metric lines")
	debugSleep := flags.Int("debug-sleep", 0, "debug: sleep N seconds before execution (for gops)")
	flags.Parse(args)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	maybeDebugSleep("serve", *debugSleep)

	cfg := loadConfig(*configPath)
	if cfg == nil {
		cfg = &service.Config{}
	}
	if *jobsDB != "" {
		cfg.Jobs.Driver = "sqlite"
		cfg.Jobs.DSN = *jobsDB
	}
	svc, err := service.NewServiceFromConfig(ctx, cfg, service.WithLogf(log.Printf))
	if err != nil {
		log.Fatalf("service init: %v", err)
	}
	defer func() { _ = svc.Close() }()

	startPruneLoop(ctx, svc, cfg.Jobs.TTLSeconds)

	api := server.New(svc,
		server.WithMaxUploadBytes(cfg.Server.MaxUploadBytes),
		server.WithCORS(cfg.Server.CORS.AllowedOrigins, cfg.Server.CORS.AllowCredentials || len(cfg.Server.CORS.AllowedOrigins) == 0),
		server.WithLogf(log.Printf),
	)
	servers := []*http.Server{{
		Addr:              resolveAddr(*addr, cfg),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}}

	if mcpAddrVal := resolveMCPAddr(*mcpAddr, cfg); mcpAddrVal != "" {
		mcpServer, err := mcpsrv.New(
			mcpsrv.WithImplementation(schema.Implementation{Name: "nfereport-mcp", Version: "0.1.0"}),
			mcpsrv.WithNewHandler(emcp.NewHandler(svc, source.NewLoader(), *metricsLog)),
			mcpsrv.WithEndpointAddress(mcpAddrVal),
			mcpsrv.WithRootRedirect(true),
			mcpsrv.WithStreamableURI("/mcp"),
		)
		if err != nil {
			log.Fatal(err)
		}
		mcpServer.UseStreamableHTTP(true)
		httpServer := mcpServer.HTTP(ctx, mcpAddrVal)
		httpServer.ReadHeaderTimeout = 10 * time.Second
		httpServer.ReadTimeout = 60 * time.Second
		httpServer.WriteTimeout = 5 * time.Minute
		httpServer.IdleTimeout = 120 * time.Second
		servers = append(servers, httpServer)
	}

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		log.Printf("nfereport listening on %s", srv.Addr)
		go func(srv *http.Server) {
			errCh <- srv.ListenAndServe()
		}(srv)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %v", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Printf("server error: %v", err)
		}
	}
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), shutdownWindow)
	defer cancelShutdown()
	for _, srv := range servers {
		if err := srv.Shutdown(ctxShutdown); err != nil {
			log.Printf("http shutdown error: %v", err)
		}
	}
	log.Printf("nfereport stopped")
}

func resolveAddr(flagAddr string, cfg *service.Config) string {
	if flagAddr != "" {
		return flagAddr
	}
	if cfg != nil && cfg.Server.Addr != "" {
		return cfg.Server.Addr
	}
	return defaultAddr
}

func resolveMCPAddr(flagAddr string, cfg *service.Config) string {
	if flagAddr != "" {
		return flagAddr
	}
	if cfg == nil {
		return ""
	}
	if cfg.MCPServer.Addr != "" {
		return cfg.MCPServer.Addr
	}
	if cfg.MCPServer.Port > 0 {
		return "127.0.0.1:" + strconv.Itoa(cfg.MCPServer.Port)
	}
	return ""
}

// startPruneLoop drops finished jobs older than ttlSeconds until ctx ends.
func startPruneLoop(ctx context.Context, svc *service.Service, ttlSeconds int) {
	if ttlSeconds <= 0 {
		return
	}
	ttl := time.Duration(ttlSeconds) * time.Second
	go func() {
		ticker := time.NewTicker(pruneInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := svc.Prune(ctx, ttl)
				if err != nil {
					log.Printf("jobs: prune err=%v", err)
					continue
				}
				if n > 0 {
					log.Printf("jobs: pruned=%d", n)
				}
			}
		}
	}()
}
