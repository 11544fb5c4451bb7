package service

import (
	"github.com/viant/nfereport/extractor"
	"github.com/viant/nfereport/filter"
	"github.com/viant/nfereport/job"
	"github.com/viant/nfereport/report"
)

// GenerateRequest defines inputs for one report.
type GenerateRequest struct {
	Sources []report.Source
	Mode    extractor.Mode
	Filters filter.Criteria
}

// Report is a rendered spreadsheet with processing statistics.
type Report struct {
	Data      []byte
	FileName  string
	Rows      int
	Documents int
	Errors    []report.DocumentError
	ETag      string
}

// JobInfo describes a background job.
type JobInfo struct {
	ID        string   `json:"id"`
	Status    string   `json:"status"`
	Error     string   `json:"error,omitempty"`
	Rows      int      `json:"rows,omitempty"`
	Documents int      `json:"documents,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

func newJobInfo(j *job.Job) *JobInfo {
	info := &JobInfo{ID: j.ID, Status: string(j.Status), Error: j.Error}
	if j.Artifact != nil {
		info.Rows = j.Artifact.Rows
		info.Documents = j.Artifact.Documents
		info.Errors = j.Artifact.Errors
	}
	return info
}
