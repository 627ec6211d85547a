package client

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
)

// File is a document handle that can be submitted for processing.
// Open is called once per submission, so the same File may be resubmitted.
type File interface {
	Name() string
	Open() (io.ReadCloser, error)
}

type localFile struct {
	path string
}

// LocalFile returns a File backed by a path on disk. The file is not
// opened until it is submitted.
func LocalFile(path string) File {
	return &localFile{path: path}
}

func (f *localFile) Name() string { return filepath.Base(f.path) }

func (f *localFile) Path() string { return f.path }

func (f *localFile) Open() (io.ReadCloser, error) {
	// #nosec G304 - the path is chosen by the user on purpose
	return os.Open(f.path)
}

type bytesFile struct {
	name string
	data []byte
}

// BytesFile returns an in-memory File
func BytesFile(name string, data []byte) File {
	return &bytesFile{name: name, data: data}
}

func (f *bytesFile) Name() string { return f.name }

func (f *bytesFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}
