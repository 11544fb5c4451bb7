package source

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/viant/nfereport/report"
)

const (
	extXML = ".xml"
	extZIP = ".zip"

	// DefaultMaxExpandedBytes bounds the decompressed size of one archive.
	DefaultMaxExpandedBytes int64 = 1 << 30
)

// ErrArchiveTooLarge is returned when an archive decompresses past its budget.
var ErrArchiveTooLarge = errors.New("source: archive exceeds decompressed size limit")

// Expand turns one named buffer into document sources: an XML file yields
// itself, a zip archive yields its XML members in name order, anything else
// yields nothing. Archives are capped at DefaultMaxExpandedBytes.
func Expand(name string, data []byte) ([]report.Source, error) {
	return ExpandLimit(name, data, DefaultMaxExpandedBytes)
}

// ExpandLimit is like Expand but fails with ErrArchiveTooLarge once the XML
// members of an archive decompress to more than limit bytes in total.
func ExpandLimit(name string, data []byte, limit int64) ([]report.Source, error) {
	switch strings.ToLower(path.Ext(name)) {
	case extXML:
		return []report.Source{{Name: name, Data: data}}, nil
	case extZIP:
		if limit <= 0 {
			limit = DefaultMaxExpandedBytes
		}
		return expandZip(name, data, limit)
	}
	return nil, nil
}

func expandZip(name string, data []byte, budget int64) ([]report.Source, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("source: open archive %s: %w", name, err)
	}
	files := make([]*zip.File, 0, len(reader.File))
	for _, f := range reader.File {
		if f.FileInfo().IsDir() || strings.ToLower(path.Ext(f.Name)) != extXML {
			continue
		}
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	out := make([]report.Source, 0, len(files))
	for _, f := range files {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("source: open %s!%s: %w", name, f.Name, err)
		}
		content, err := io.ReadAll(io.LimitReader(rc, budget+1))
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("source: read %s!%s: %w", name, f.Name, err)
		}
		if int64(len(content)) > budget {
			return nil, fmt.Errorf("%w: %s!%s", ErrArchiveTooLarge, name, f.Name)
		}
		budget -= int64(len(content))
		out = append(out, report.Source{Name: name + "!" + f.Name, Data: content})
	}
	return out, nil
}
