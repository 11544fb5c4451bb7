package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/viant/nfereport/export"
	"github.com/viant/nfereport/extractor"
	"github.com/viant/nfereport/filter"
	"github.com/viant/nfereport/internal/nfetest"
	"github.com/viant/nfereport/job"
	"github.com/viant/nfereport/report"
)

func batch() []report.Source {
	return []report.Source{
		{Name: "a.xml", Data: nfetest.Sample().XML()},
		{Name: "broken.xml", Data: []byte("not xml at all <<<")},
	}
}

func TestGenerate(t *testing.T) {
	var logged []string
	svc, err := NewService(WithSheet("Notas"), WithLogf(func(format string, args ...any) {
		logged = append(logged, format)
	}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	defer svc.Close()

	rep, err := svc.Generate(context.Background(), GenerateRequest{
		Sources: batch(),
		Mode:    extractor.Detailed,
		Filters: filter.Criteria{CFOP: "5102", NCM: "string"},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if rep.Rows != 2 || rep.Documents != 1 || len(rep.Errors) != 1 {
		t.Fatalf("unexpected report stats: rows=%d docs=%d errors=%d", rep.Rows, rep.Documents, len(rep.Errors))
	}
	if rep.FileName != export.DefaultFileName || !strings.HasPrefix(rep.ETag, `"`) {
		t.Fatalf("unexpected file name %q or etag %q", rep.FileName, rep.ETag)
	}
	f, err := excelize.OpenReader(bytes.NewReader(rep.Data))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Notas")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	var sawSourceError bool
	for _, line := range logged {
		if strings.Contains(line, "source=") {
			sawSourceError = true
		}
	}
	if !sawSourceError {
		t.Fatalf("expected per-document failure to be logged: %v", logged)
	}
}

func TestGenerate_Errors(t *testing.T) {
	svc, _ := NewService()
	defer svc.Close()
	ctx := context.Background()

	if _, err := svc.Generate(ctx, GenerateRequest{}); !errors.Is(err, ErrNoInput) {
		t.Fatalf("expected ErrNoInput, got %v", err)
	}
	_, err := svc.Generate(ctx, GenerateRequest{Sources: batch(), Filters: filter.Criteria{DateFrom: "2030-01-01"}})
	if !errors.Is(err, export.ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
	_, err = svc.Generate(ctx, GenerateRequest{Sources: batch()[1:]})
	if !errors.Is(err, export.ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult when every document fails, got %v", err)
	}
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err = svc.Generate(cancelled, GenerateRequest{Sources: batch()}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSubmitStatusArtifact(t *testing.T) {
	store, err := job.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "jobs.sqlite"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	svc, _ := NewService(WithStore(store))
	defer svc.Close()
	ctx := context.Background()

	id, err := svc.Submit(ctx, GenerateRequest{Sources: batch()})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	failedID, err := svc.Submit(ctx, GenerateRequest{Sources: batch(), Filters: filter.Criteria{CFOP: "0000"}})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	svc.Wait()

	info, err := svc.Status(ctx, id)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if info.Status != string(job.StatusReady) || info.Rows != 1 || len(info.Errors) != 1 {
		t.Fatalf("unexpected job info: %+v", info)
	}
	rep, err := svc.Artifact(ctx, id)
	if err != nil {
		t.Fatalf("Artifact: %v", err)
	}
	if len(rep.Data) == 0 || rep.ETag == "" {
		t.Fatalf("expected artifact data")
	}

	_, err = svc.Artifact(ctx, failedID)
	var jobErr *JobError
	if !errors.As(err, &jobErr) || !strings.Contains(jobErr.Message, "no data matched") {
		t.Fatalf("expected JobError, got %v", err)
	}
	if _, err = svc.Status(ctx, "missing"); !errors.Is(err, job.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err = svc.Submit(ctx, GenerateRequest{}); !errors.Is(err, ErrNoInput) {
		t.Fatalf("expected ErrNoInput, got %v", err)
	}
	n, err := svc.Prune(ctx, -time.Second)
	if err != nil || n != 2 {
		t.Fatalf("expected 2 pruned, n=%d err=%v", n, err)
	}
}

func TestArtifact_Pending(t *testing.T) {
	store := job.NewMemoryStore()
	if err := store.Create(context.Background(), "p1"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	svc, _ := NewService(WithStore(store))
	defer svc.Close()
	if _, err := svc.Artifact(context.Background(), "p1"); !errors.Is(err, job.ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  addr: 127.0.0.1:9090
  maxUploadBytes: 1024
  cors:
    allowedOrigins: ["https://app.example.com"]
mcpServer:
  port: 6062
jobs:
  driver: sqlite
  dsn: ` + filepath.Join(dir, "jobs.sqlite") + `
  ttlSeconds: 60
report:
  sheet: Notas
  placeholders: ["string", "n/a"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9090" || cfg.Server.MaxUploadBytes != 1024 || cfg.MCPServer.Port != 6062 {
		t.Fatalf("unexpected server config: %+v %+v", cfg.Server, cfg.MCPServer)
	}
	if len(cfg.Server.CORS.AllowedOrigins) != 1 || cfg.Jobs.TTLSeconds != 60 || len(cfg.Report.Placeholders) != 2 {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	svc, err := NewServiceFromConfig(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewServiceFromConfig: %v", err)
	}
	defer svc.Close()
	if _, ok := svc.store.(*job.SQLiteStore); !ok {
		t.Fatalf("expected sqlite store, got %T", svc.store)
	}
	_, err = svc.Generate(context.Background(), GenerateRequest{Sources: batch(), Filters: filter.Criteria{CFOP: "N/A"}})
	if err != nil {
		t.Fatalf("expected configured placeholder to be ignored: %v", err)
	}

	if _, err := NewServiceFromConfig(context.Background(), &Config{Jobs: JobsConfig{Driver: "redis"}}); err == nil {
		t.Fatalf("expected unsupported driver error")
	}
}

func TestExpandUserPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	got, err := expandUserPath("~/nfereport/config.yaml")
	if err != nil {
		t.Fatalf("expandUserPath: %v", err)
	}
	if got != filepath.Join(home, "nfereport", "config.yaml") {
		t.Fatalf("unexpected path %s", got)
	}
	if _, err := expandUserPath("~other/x"); err == nil {
		t.Fatalf("expected ~user error")
	}
	if got, _ := expandUserPath("/abs/path"); got != "/abs/path" {
		t.Fatalf("absolute path changed: %s", got)
	}
}
