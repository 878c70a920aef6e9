package recording

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/shamaton/msgpack/v2"
	"github.com/timewinder-dev/duosort/catalog"
)

// FormatVersion is written into every file and checked on import.
const FormatVersion = 1

var (
	ErrVersion  = errors.New("unsupported recording version")
	ErrMismatch = errors.New("replay does not match recording")
)

// File is the serialized form of a set of runs.
type File struct {
	Version int
	Runs    []*Run
}

func (f *File) Serialize(w io.Writer) error {
	return msgpack.MarshalWrite(w, f)
}

func (f *File) Deserialize(r io.Reader) error {
	if err := msgpack.UnmarshalRead(r, f); err != nil {
		return err
	}
	if f.Version != FormatVersion {
		return fmt.Errorf("%w: %d", ErrVersion, f.Version)
	}
	return nil
}

// Export writes the finished runs of r.
func (r *Recorder) Export(w io.Writer) error {
	f := &File{Version: FormatVersion, Runs: r.Runs()}
	return f.Serialize(w)
}

func (r *Recorder) ExportFile(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Export(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func Import(r io.Reader) (*File, error) {
	var f File
	if err := f.Deserialize(r); err != nil {
		return nil, err
	}
	return &f, nil
}

func ImportFile(path string) (*File, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	f, err := Import(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Verify replays run with the algorithm of the same name in cat and checks that it
// produces the same steps. Only the recorded steps are compared, so runs that were
// stopped early verify against a prefix of the replay.
func Verify(cat *catalog.Catalog, run *Run) error {
	alg, err := cat.Lookup(run.Algorithm)
	if err != nil {
		return err
	}
	gen := alg.Factory(run.Input())
	defer gen.Stop()
	for i, want := range run.Steps {
		got, err := gen.Next()
		if err != nil {
			return fmt.Errorf("%w: step %d: %v", ErrMismatch, i, err)
		}
		if got.Count != want.Count || !slices.Equal(got.Snapshot, want.Snapshot) {
			return fmt.Errorf("%w: step %d", ErrMismatch, i)
		}
	}
	return nil
}
