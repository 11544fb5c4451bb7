package job

import (
	"fmt"

	"github.com/viant/bintly"
)

// Artifact is the stored outcome of a ready job.
type Artifact struct {
	Data      []byte   `json:"-"`
	Rows      int      `json:"rows"`
	Documents int      `json:"documents"`
	Errors    []string `json:"errors,omitempty"`
}

// EncodeBinary encodes the artifact into a bintly stream.
func (a *Artifact) EncodeBinary(stream *bintly.Writer) error {
	stream.String(string(a.Data))
	stream.Int(a.Rows)
	stream.Int(a.Documents)
	stream.Strings(a.Errors)
	return nil
}

// DecodeBinary decodes the artifact from a bintly stream.
func (a *Artifact) DecodeBinary(stream *bintly.Reader) error {
	var data string
	stream.String(&data)
	a.Data = []byte(data)
	stream.Int(&a.Rows)
	stream.Int(&a.Documents)
	a.Errors = nil
	stream.Strings(&a.Errors)
	if len(a.Errors) == 0 {
		a.Errors = nil
	}
	return nil
}

func encodeArtifact(a *Artifact) ([]byte, error) {
	writers := bintly.NewWriters()
	w := writers.Get()
	defer writers.Put(w)
	if err := a.EncodeBinary(w); err != nil {
		return nil, err
	}
	bs := w.Bytes()
	out := make([]byte, len(bs))
	copy(out, bs)
	return out, nil
}

func decodeArtifact(data []byte) (a *Artifact, err error) {
	defer func() {
		if p := recover(); p != nil {
			a, err = nil, fmt.Errorf("job: corrupt artifact: %v", p)
		}
	}()
	readers := bintly.NewReaders()
	r := readers.Get()
	defer readers.Put(r)
	if err := r.FromBytes(data); err != nil {
		return nil, err
	}
	a = &Artifact{}
	if err := a.DecodeBinary(r); err != nil {
		return nil, err
	}
	return a, nil
}
