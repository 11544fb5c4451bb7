package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/viant/nfereport/extractor"
	"github.com/viant/nfereport/filter"
	"github.com/viant/nfereport/report"
	"github.com/viant/nfereport/service"
	"github.com/viant/nfereport/source"
)

const (
	multipartMemory = 32 << 20
	// uploadExpansionFactor bounds archive members relative to the body limit.
	uploadExpansionFactor = 16
)

// errBadRequest marks malformed form input.
var errBadRequest = errors.New("server: bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// parseRequest reads the multipart form shared by /gerar-relatorio and /jobs.
func (s *Server) parseRequest(w http.ResponseWriter, r *http.Request) (service.GenerateRequest, error) {
	var req service.GenerateRequest
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return req, err
		}
		return req, badRequest("multipart form: %v", err)
	}
	mode, err := parseMode(r.FormValue(formPerItem), r.FormValue(formMode))
	if err != nil {
		return req, err
	}
	req.Mode = mode
	req.Filters = filter.Criteria{
		DateFrom:     r.FormValue("dataInicio"),
		DateTo:       r.FormValue("dataFim"),
		CFOP:         r.FormValue("cfop"),
		DocumentType: r.FormValue("tipoNF"),
		NCM:          r.FormValue("ncm"),
		ProductCode:  r.FormValue("codigoProduto"),
	}
	if r.MultipartForm == nil {
		return req, nil
	}
	for _, header := range r.MultipartForm.File[formFiles] {
		file, err := header.Open()
		if err != nil {
			return req, badRequest("open %s: %v", header.Filename, err)
		}
		data, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			return req, badRequest("read %s: %v", header.Filename, err)
		}
		sources, err := expandUpload(header.Filename, data, s.maxUploadBytes*uploadExpansionFactor)
		if errors.Is(err, source.ErrArchiveTooLarge) {
			return req, err
		}
		if err != nil {
			return req, badRequest("%v", err)
		}
		req.Sources = append(req.Sources, sources...)
	}
	return req, nil
}

// expandUpload treats every upload as one document unless it is a zip archive,
// whose members may decompress to at most limit bytes.
func expandUpload(name string, data []byte, limit int64) ([]report.Source, error) {
	if strings.EqualFold(path.Ext(name), ".zip") {
		return source.ExpandLimit(name, data, limit)
	}
	return []report.Source{{Name: name, Data: data}}, nil
}

// parseMode applies the boolean per-item flag, then an explicit mode name.
func parseMode(perItem, name string) (extractor.Mode, error) {
	flag, err := parseBool(perItem)
	if err != nil {
		return 0, badRequest("%s: %v", formPerItem, err)
	}
	mode := extractor.ModeFor(flag)
	if strings.TrimSpace(name) == "" {
		return mode, nil
	}
	if mode, err = extractor.ParseMode(name); err != nil {
		return 0, badRequest("%s: %v", formMode, err)
	}
	return mode, nil
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "false", "0", "no", "off", "n", "f":
		return false, nil
	case "true", "1", "yes", "on", "y", "t":
		return true, nil
	}
	return false, fmt.Errorf("invalid boolean %q", v)
}
