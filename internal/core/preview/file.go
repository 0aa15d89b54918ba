package preview

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
)

// FileBlob is a blob backed by a path on disk.
type FileBlob string

func (f FileBlob) Name() string {
	return filepath.Base(string(f))
}

func (f FileBlob) Open() (io.ReadCloser, error) {
	return os.Open(string(f))
}

// BytesBlob is an in-memory blob.
type BytesBlob struct {
	Filename string
	Data     []byte
}

func (b BytesBlob) Name() string {
	return b.Filename
}

func (b BytesBlob) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.Data)), nil
}
