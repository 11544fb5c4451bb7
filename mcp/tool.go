package mcp

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/viant/jsonrpc"
	"github.com/viant/mcp-protocol/schema"
	protoserver "github.com/viant/mcp-protocol/server"

	"github.com/viant/nfereport/export"
	"github.com/viant/nfereport/extractor"
	"github.com/viant/nfereport/job"
	"github.com/viant/nfereport/service"
	"github.com/viant/nfereport/source"
)

//go:embed tools/report.md
var descReport string

//go:embed tools/jobStatus.md
var descJobStatus string

func registerTools(registry *protoserver.Registry, h *Handler) error {
	if err := protoserver.RegisterTool[*ReportInput, *ReportOutput](registry, "report", descReport, func(ctx context.Context, in *ReportInput) (*schema.CallToolResult, *jsonrpc.Error) {
		out, err := h.report(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResult(out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*JobStatusInput, *JobStatusOutput](registry, "jobStatus", descJobStatus, func(ctx context.Context, in *JobStatusInput) (*schema.CallToolResult, *jsonrpc.Error) {
		out, err := h.jobStatus(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResult(out)
	}); err != nil {
		return err
	}

	return nil
}

func buildErrorResult(message string) (*schema.CallToolResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewError(jsonrpc.InvalidParams, message, nil)
}

func buildSuccessResult(payload any) (*schema.CallToolResult, *jsonrpc.Error) {
	b, _ := json.Marshal(payload)
	return &schema.CallToolResult{
		Content: []schema.CallToolResultContentElem{
			schema.TextContent{Type: "text", Text: string(b)},
		},
		StructuredContent: map[string]any{"result": payload},
	}, nil
}

func (h *Handler) report(ctx context.Context, in *ReportInput) (*ReportOutput, error) {
	start := time.Now()
	if h == nil || h.service == nil {
		return nil, fmt.Errorf("mcp: service unavailable")
	}
	if in == nil {
		in = &ReportInput{}
	}
	if strings.TrimSpace(in.Location) == "" {
		return nil, fmt.Errorf("mcp: missing location")
	}
	mode, err := extractor.ParseMode(in.Mode)
	if err != nil {
		return nil, err
	}
	sources, err := h.loader.Load(ctx, in.Location)
	if err != nil {
		return nil, err
	}
	req := service.GenerateRequest{Sources: sources, Mode: mode, Filters: in.Filters}
	if in.Async {
		id, err := h.service.Submit(ctx, req)
		if err != nil {
			return nil, err
		}
		return &ReportOutput{JobID: id, Documents: len(sources)}, nil
	}
	rep, err := h.service.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	output := in.Output
	if output == "" {
		output = defaultOutput(in.Location, rep.FileName)
	}
	saved, err := source.Save(ctx, output, rep.Data)
	if err != nil {
		return nil, err
	}
	if h.metricsLog {
		log.Printf("mcp metric op=report documents=%d rows=%d failed=%d dur=%s", rep.Documents, rep.Rows, len(rep.Errors), time.Since(start))
	}
	return &ReportOutput{
		Output:    saved,
		Rows:      rep.Rows,
		Documents: rep.Documents,
		Errors:    rep.Errors,
		ETag:      rep.ETag,
	}, nil
}

func (h *Handler) jobStatus(ctx context.Context, in *JobStatusInput) (*JobStatusOutput, error) {
	if h == nil || h.service == nil {
		return nil, fmt.Errorf("mcp: service unavailable")
	}
	if in == nil || strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("mcp: missing id")
	}
	info, err := h.service.Status(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	out := &JobStatusOutput{Job: info}
	if in.Output == "" || info.Status != string(job.StatusReady) {
		return out, nil
	}
	rep, err := h.service.Artifact(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if out.Output, err = source.Save(ctx, in.Output, rep.Data); err != nil {
		return nil, err
	}
	return out, nil
}

// defaultOutput places the report next to the input: inside a folder, or
// beside a single file or archive.
func defaultOutput(location, fileName string) string {
	if fileName == "" {
		fileName = export.DefaultFileName
	}
	trimmed := strings.TrimRight(location, "/")
	switch strings.ToLower(path.Ext(trimmed)) {
	case ".xml", ".zip":
		i := strings.LastIndex(trimmed, "/")
		if i < 0 {
			return fileName
		}
		trimmed = trimmed[:i]
	}
	return trimmed + "/" + fileName
}
