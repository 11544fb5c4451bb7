package report

import (
	"github.com/viant/nfereport/extractor"
	"github.com/viant/nfereport/filter"
)

// Option configures a Processor.
type Option func(*Processor)

// WithMode sets the extraction mode (default Summary).
func WithMode(mode extractor.Mode) Option {
	return func(p *Processor) { p.mode = mode }
}

// WithCriteria sets the row filter.
func WithCriteria(c filter.Criteria) Option {
	return func(p *Processor) { p.criteria = c }
}

// Processor drives extraction and filtering across a batch.
type Processor struct {
	extractor *extractor.Extractor
	mode      extractor.Mode
	criteria  filter.Criteria
}

// New creates a Processor; a nil extractor uses the default table.
func New(ext *extractor.Extractor, opts ...Option) *Processor {
	if ext == nil {
		ext = extractor.New(nil)
	}
	p := &Processor{extractor: ext, mode: extractor.Summary}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process extracts and filters every source in order. A failing source is
// recorded in Result.Errors and never stops the batch.
func (p *Processor) Process(sources []Source) *Result {
	result := &Result{}
	for _, src := range sources {
		rows, err := p.extractor.ExtractBytes(src.Data, p.mode)
		if err != nil {
			result.Errors = append(result.Errors, DocumentError{Source: src.Name, Message: err.Error(), Err: err})
			continue
		}
		result.Documents++
		for _, row := range rows {
			if filter.Keep(row, p.criteria) {
				result.Rows = append(result.Rows, row)
			}
		}
	}
	return result
}
