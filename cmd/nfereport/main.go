package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/gops/agent"

	"github.com/viant/nfereport/export"
	"github.com/viant/nfereport/extractor"
	"github.com/viant/nfereport/filter"
	"github.com/viant/nfereport/job"
	emcp "github.com/viant/nfereport/mcp"
	"github.com/viant/nfereport/service"
	"github.com/viant/nfereport/source"
)

func main() {
	startGops()
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "report":
		reportCmd(os.Args[2:])
	case "serve":
		serveCmd(os.Args[2:])
	case "jobs":
		jobsCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: nfereport <command> [options]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  report  Build an xlsx report from NFe XML files, folders or zip archives")
	fmt.Fprintln(os.Stderr, "  serve   Run the HTTP API and MCP server")
	fmt.Fprintln(os.Stderr, "  jobs    Maintenance of the background job store (prune)")
}

func reportCmd(args []string) {
	flags := flag.NewFlagSet("report", flag.ExitOnError)
	input := flags.String("input", "", "file, folder or zip archive; any afs URL (required)")
	output := flags.String("output", export.DefaultFileName, "output xlsx location")
	configPath := flags.String("config", "", "config yaml (optional, defaults to ~/nfereport/config.yaml if present)")
	modeName := flags.String("mode", "summary", "rows per invoice: summary|detailed|aggregate")
	dateFrom := flags.String("date-from", "", "earliest issue date YYYY-MM-DD")
	dateTo := flags.String("date-to", "", "latest issue date YYYY-MM-DD")
	cfop := flags.String("cfop", "", "CFOP code")
	docType := flags.String("type", "", "document type: Entrada|Saída")
	ncm := flags.String("ncm", "", "NCM code")
	product := flags.String("product", "", "product code")
	mcpAddr := flags.String("mcp-addr", "", "delegate to a running MCP server (host:port)")
	debugSleep := flags.Int("debug-sleep", 0, "debug: sleep N seconds before execution (for gops)")
	flags.Parse(args)
	if strings.TrimSpace(*input) == "" {
		flags.Usage()
		os.Exit(2)
	}
	maybeDebugSleep("report", *debugSleep)

	mode, err := extractor.ParseMode(*modeName)
	if err != nil {
		log.Fatalf("report: %v", err)
	}
	criteria := filter.Criteria{
		DateFrom:     *dateFrom,
		DateTo:       *dateTo,
		CFOP:         *cfop,
		DocumentType: *docType,
		NCM:          *ncm,
		ProductCode:  *product,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if *mcpAddr != "" {
		out, err := remoteReport(ctx, *mcpAddr, &emcp.ReportInput{
			Location: absLocation(*input),
			Output:   absLocation(*output),
			Mode:     mode.String(),
			Filters:  criteria,
		})
		if err != nil {
			log.Fatalf("report: %v", err)
		}
		fmt.Printf("output=%s documents=%d rows=%d failed=%d\n", out.Output, out.Documents, out.Rows, len(out.Errors))
		return
	}

	cfg := loadConfig(*configPath)
	svc, err := service.NewServiceFromConfig(ctx, cfg, service.WithLogf(log.Printf))
	if err != nil {
		log.Fatalf("service init: %v", err)
	}
	defer func() { _ = svc.Close() }()

	sources, err := source.NewLoader().Load(ctx, *input)
	if err != nil {
		log.Fatalf("report: %v", err)
	}
	rep, err := svc.Generate(ctx, service.GenerateRequest{Sources: sources, Mode: mode, Filters: criteria})
	if err != nil {
		log.Fatalf("report: %v", err)
	}
	saved, err := source.Save(ctx, *output, rep.Data)
	if err != nil {
		log.Fatalf("report: %v", err)
	}
	fmt.Printf("output=%s documents=%d rows=%d failed=%d\n", saved, rep.Documents, rep.Rows, len(rep.Errors))
}

func jobsCmd(args []string) {
	flags := flag.NewFlagSet("jobs", flag.ExitOnError)
	dbPath := flags.String("db", "", "SQLite job store path (required unless config has jobs.dsn)")
	configPath := flags.String("config", "", "config yaml (optional)")
	pruneSeconds := flags.Int("prune-seconds", 0, "remove finished jobs older than N seconds (default config jobs.ttlSeconds)")
	flags.Parse(args)

	cfg := loadConfig(*configPath)
	dsn := *dbPath
	ttl := *pruneSeconds
	if cfg != nil {
		if dsn == "" {
			dsn = cfg.Jobs.DSN
		}
		if ttl <= 0 {
			ttl = cfg.Jobs.TTLSeconds
		}
	}
	if dsn == "" || ttl <= 0 {
		flags.Usage()
		os.Exit(2)
	}
	ctx := context.Background()
	store, err := job.OpenSQLite(ctx, dsn)
	if err != nil {
		log.Fatalf("jobs: open store: %v", err)
	}
	defer func() { _ = store.Close() }()
	n, err := store.Prune(ctx, time.Now().Add(-time.Duration(ttl)*time.Second))
	if err != nil {
		log.Fatalf("jobs: prune: %v", err)
	}
	fmt.Printf("pruned=%d\n", n)
}

// resolveConfigPath returns the flag value, or the default config when it exists.
func resolveConfigPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	candidate := filepath.Join(home, "nfereport", "config.yaml")
	if _, err := os.Stat(candidate); err != nil {
		return ""
	}
	return candidate
}

func loadConfig(flagPath string) *service.Config {
	path := resolveConfigPath(flagPath)
	if path == "" {
		return nil
	}
	cfg, err := service.LoadConfig(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	return cfg
}

// absLocation resolves local paths so a remote server writes where the caller expects.
func absLocation(location string) string {
	if strings.Contains(location, "://") {
		return location
	}
	abs, err := filepath.Abs(location)
	if err != nil {
		return location
	}
	return abs
}

func maybeDebugSleep(cmd string, seconds int) {
	if seconds <= 0 {
		seconds = debugSleepFromEnv()
	}
	if seconds <= 0 {
		return
	}
	log.Printf("debug: cmd=%s pid=%d sleep=%ds", cmd, os.Getpid(), seconds)
	time.Sleep(time.Duration(seconds) * time.Second)
}

func startGops() {
	if err := agent.Listen(agent.Options{ShutdownCleanup: true}); err != nil {
		log.Printf("gops: %v", err)
	}
}

func debugSleepFromEnv() int {
	val := strings.TrimSpace(os.Getenv("NFEREPORT_DEBUG_SLEEP"))
	if val == "" {
		return 0
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
