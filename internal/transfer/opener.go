// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package transfer

import (
	"io"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// Opener provides the raw handles of a transfer.
type Opener interface {
	OpenSource(path string) (io.ReadCloser, error)
	// CreateDestination creates path, or truncates it if it exists.
	CreateDestination(path string) (io.WriteCloser, error)
}

// FS opens handles on a billy filesystem.
type FS struct {
	fs billy.Filesystem
	// abs makes paths absolute before they reach fs.
	abs bool
}

var _ Opener = (*FS)(nil)

func NewFS(fs billy.Filesystem) *FS {
	return &FS{fs: fs}
}

// OS opens handles on the host filesystem. Paths are taken as given on the
// command line: relative ones are resolved against the working directory,
// and may leave it with "..".
func OS() *FS {
	return &FS{fs: osfs.New("/", osfs.WithBoundOS()), abs: true}
}

func (f *FS) resolve(path string) (string, error) {
	if !f.abs {
		return path, nil
	}

	return filepath.Abs(path)
}

func (f *FS) OpenSource(path string) (io.ReadCloser, error) {
	path, err := f.resolve(path)
	if err != nil {
		return nil, err
	}

	file, err := f.fs.Open(path)
	if err != nil {
		return nil, err
	}

	return file, nil
}

func (f *FS) CreateDestination(path string) (io.WriteCloser, error) {
	path, err := f.resolve(path)
	if err != nil {
		return nil, err
	}

	file, err := f.fs.Create(path)
	if err != nil {
		return nil, err
	}

	return file, nil
}
