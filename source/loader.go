package source

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/nfereport/report"
)

// Service abstracts listing and downloading objects so tests and other
// backends can stand in for afs.
type Service interface {
	List(ctx context.Context, location string) ([]storage.Object, error)
	Download(ctx context.Context, object storage.Object) ([]byte, error)
}

// Loader reads invoice sources from any afs location.
type Loader struct {
	fs Service
}

// NewLoader creates a Loader backed by afs.
func NewLoader() *Loader {
	return &Loader{fs: NewAFS()}
}

// NewLoaderWithFS creates a Loader with a custom storage service.
func NewLoaderWithFS(fs Service) *Loader {
	if fs == nil {
		return NewLoader()
	}
	return &Loader{fs: fs}
}

// Load returns the XML documents under location (a file or a folder,
// walked recursively), expanding zip archives, ordered by URL.
func (l *Loader) Load(ctx context.Context, location string) ([]report.Source, error) {
	norm, err := normalize(location)
	if err != nil {
		return nil, err
	}
	objects, err := l.collect(ctx, norm)
	if err != nil {
		return nil, err
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].URL() < objects[j].URL() })
	var out []report.Source
	for _, object := range objects {
		data, err := l.fs.Download(ctx, object)
		if err != nil {
			return nil, fmt.Errorf("source: download %s: %w", object.URL(), err)
		}
		sources, err := Expand(url.Path(object.URL()), data)
		if err != nil {
			return nil, err
		}
		out = append(out, sources...)
	}
	return out, nil
}

func (l *Loader) collect(ctx context.Context, location string) ([]storage.Object, error) {
	objects, err := l.fs.List(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("source: list %s: %w", location, err)
	}
	base := strings.TrimRight(url.Path(location), "/")
	var out []storage.Object
	for _, object := range objects {
		if object.IsDir() {
			if strings.TrimRight(url.Path(object.URL()), "/") == base {
				continue
			}
			sub, err := l.collect(ctx, object.URL())
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
			continue
		}
		switch strings.ToLower(filepath.Ext(object.Name())) {
		case extXML, extZIP:
			out = append(out, object)
		}
	}
	return out, nil
}

// normalize converts plain OS paths into file URLs for afs.
func normalize(location string) (string, error) {
	if strings.TrimSpace(location) == "" {
		return "", fmt.Errorf("source: location is required")
	}
	norm := location
	if url.Scheme(norm, "") == "" && url.IsRelative(norm) {
		abs, err := filepath.Abs(norm)
		if err != nil {
			return "", fmt.Errorf("source: absolute path for %s: %w", location, err)
		}
		norm = abs
	}
	if url.Scheme(norm, "") == "" && !url.IsRelative(norm) {
		norm = url.ToFileURL(norm)
	}
	return norm, nil
}
