package mcp

import (
	"github.com/viant/nfereport/filter"
	"github.com/viant/nfereport/report"
	"github.com/viant/nfereport/service"
)

// ReportInput selects the invoices to read, how to shape rows, and where to
// write the spreadsheet.
type ReportInput struct {
	Location string          `json:"location"`
	Output   string          `json:"output,omitempty"`
	Mode     string          `json:"mode,omitempty"`
	Filters  filter.Criteria `json:"filters,omitempty"`
	Async    bool            `json:"async,omitempty"`
}

type ReportOutput struct {
	Output    string                 `json:"output,omitempty"`
	JobID     string                 `json:"jobId,omitempty"`
	Rows      int                    `json:"rows"`
	Documents int                    `json:"documents"`
	Errors    []report.DocumentError `json:"errors,omitempty"`
	ETag      string                 `json:"etag,omitempty"`
}

type JobStatusInput struct {
	ID     string `json:"id"`
	Output string `json:"output,omitempty"`
}

type JobStatusOutput struct {
	Job    *service.JobInfo `json:"job"`
	Output string           `json:"output,omitempty"`
}
