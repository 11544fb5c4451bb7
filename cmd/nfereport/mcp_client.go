package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/viant/jsonrpc"
	streamingclient "github.com/viant/jsonrpc/transport/client/http/streamable"
	mcpschema "github.com/viant/mcp-protocol/schema"
	mcpclient "github.com/viant/mcp/client"

	emcp "github.com/viant/nfereport/mcp"
)

const (
	reportTool      = "report"
	reportAttempts  = 3
	reportRetryStep = 200 * time.Millisecond
)

// reportClient answers no server-initiated requests; the CLI only calls tools.
type reportClient struct{}

func (reportClient) Implements(string) bool                                { return false }
func (reportClient) Init(context.Context, *mcpschema.ClientCapabilities)   {}
func (reportClient) OnNotification(context.Context, *jsonrpc.Notification) {}
func (reportClient) Notify(context.Context, *jsonrpc.Notification) error   { return nil }
func (reportClient) NextRequestID() jsonrpc.RequestId                      { return jsonrpc.RequestId(1) }
func (reportClient) LastRequestID() jsonrpc.RequestId                      { return jsonrpc.RequestId(1) }

func (reportClient) ListRoots(context.Context, *jsonrpc.TypedRequest[*mcpschema.ListRootsRequest]) (*mcpschema.ListRootsResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewMethodNotFound("roots unsupported", nil)
}

func (reportClient) CreateMessage(context.Context, *jsonrpc.TypedRequest[*mcpschema.CreateMessageRequest]) (*mcpschema.CreateMessageResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewMethodNotFound("sampling unsupported", nil)
}

func (reportClient) Elicit(context.Context, *jsonrpc.TypedRequest[*mcpschema.ElicitRequest]) (*mcpschema.ElicitResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewMethodNotFound("elicitation unsupported", nil)
}

// remoteReport runs the report tool on a running server, retrying transient
// transport failures.
func remoteReport(ctx context.Context, addr string, input *emcp.ReportInput) (*emcp.ReportOutput, error) {
	started := time.Now()
	endpoint := normalizeMCPURL(addr)
	transport, err := streamingclient.New(ctx, endpoint, streamingclient.WithHandler(mcpclient.NewHandler(reportClient{})))
	if err != nil {
		return nil, fmt.Errorf("mcp: connect %s: %w", endpoint, err)
	}
	cli := mcpclient.New("nfereport-cli", "0.1.0", transport)
	defer cli.Close()
	if _, err := cli.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("mcp: initialize %s: %w", endpoint, err)
	}
	params, err := mcpschema.NewCallToolRequestParams(reportTool, input)
	if err != nil {
		return nil, err
	}
	for attempt := 1; ; attempt++ {
		res, err := cli.CallTool(ctx, params)
		if err == nil {
			out := &emcp.ReportOutput{}
			if err = decodeToolResult(res, out); err == nil {
				log.Printf("mcp: report addr=%s rows=%d attempts=%d dur=%s", endpoint, out.Rows, attempt, time.Since(started))
				return out, nil
			}
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt == reportAttempts || !isTransient(err) {
			return nil, err
		}
		time.Sleep(time.Duration(attempt) * reportRetryStep)
	}
}

func isTransient(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"timeout", "temporarily unavailable", "connection reset", "connection refused"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func normalizeMCPURL(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return ""
	}
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	if strings.HasSuffix(addr, "/mcp") {
		return addr
	}
	return strings.TrimSuffix(addr, "/") + "/mcp"
}

var errEmptyResult = errors.New("mcp: empty result")

// decodeToolResult unmarshals a tool result into out, preferring the
// structured "result" payload over the first text block.
func decodeToolResult(res *mcpschema.CallToolResult, out any) error {
	if res == nil {
		return errEmptyResult
	}
	if res.IsError != nil && *res.IsError {
		return fmt.Errorf("mcp: %s", toolResultText(res))
	}
	if payload, ok := res.StructuredContent["result"]; ok {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		return json.Unmarshal(data, out)
	}
	text := strings.TrimSpace(toolResultText(res))
	if text == "" {
		return errEmptyResult
	}
	return json.Unmarshal([]byte(text), out)
}

// toolResultText returns the first non-empty text block. Results built in
// process carry TextContent values; results decoded off the wire carry maps.
func toolResultText(res *mcpschema.CallToolResult) string {
	for _, elem := range res.Content {
		var text string
		switch v := elem.(type) {
		case mcpschema.TextContent:
			text = v.Text
		case *mcpschema.TextContent:
			if v != nil {
				text = v.Text
			}
		case map[string]any:
			text, _ = v["text"].(string)
		}
		if text != "" {
			return text
		}
	}
	return ""
}
