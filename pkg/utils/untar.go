// Copyright 2025 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package utils

import (
	"archive/tar"
	"bytes"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	logprinter "github.com/alpack/alpack/pkg/logger/printer"
	units "github.com/docker/go-units"
	"github.com/klauspost/compress/gzip"
	"github.com/opencontainers/go-digest"
	"go.uber.org/zap"
)

// Progress receives byte counters of a long running operation
type Progress interface {
	Start(name string, size int64)
	SetCurrent(size int64)
	Finish()
}

type nopProgress struct{}

func (nopProgress) Start(string, int64) {}
func (nopProgress) SetCurrent(int64)    {}
func (nopProgress) Finish()             {}

// ExtractOptions customizes ExtractTarGz
type ExtractOptions struct {
	// Fallback is created and used when creating the destination is refused
	// with a permission error.
	Fallback string
	Dirs     DirMaker
	Progress Progress
	Logger   *logprinter.Logger
}

// ExtractTarGz unpacks the gzip compressed tarball archive into dest and
// returns the directory that actually received the files, which is
// opts.Fallback if dest could not be created.
//
// The gzip layer is decompressed into memory before unpacking. Entries with a
// ".." component are skipped and nothing is written through a symlink that
// leaves the destination.
func ExtractTarGz(archive, dest string, opts ExtractOptions) (string, error) {
	if opts.Progress == nil {
		opts.Progress = nopProgress{}
	}

	dir, usedFallback, err := ResolvePrimaryOrFallback(opts.Dirs, dest, opts.Fallback)
	if err != nil {
		return "", err
	}
	if usedFallback {
		warnf(opts.Logger, "Permission denied to create '%s', using default directory '%s' instead...", dest, dir)
	}

	raw, err := os.ReadFile(archive)
	if err != nil {
		return "", ErrArchive.Wrap(err, "Failed to read archive %s", archive)
	}
	zap.L().Debug("Extracting archive",
		zap.String("archive", archive),
		zap.String("digest", digest.FromBytes(raw).String()),
		zap.String("dest", dir))

	gr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return "", ErrArchive.Wrap(err, "Failed to decompress %s", archive)
	}
	data, err := io.ReadAll(gr)
	_ = gr.Close()
	if err != nil {
		return "", ErrArchive.Wrap(err, "Failed to decompress %s", archive)
	}

	opts.Progress.Start("Extracting", int64(len(data)))
	pr := &progressReader{r: bytes.NewReader(data), p: opts.Progress}
	err = untar(tar.NewReader(pr), dir)
	opts.Progress.Finish()
	if err != nil {
		return "", ErrArchive.Wrap(err, "Failed to extract %s into %s", archive, dir)
	}

	zap.L().Info("Archive extracted",
		zap.String("dest", dir),
		zap.String("size", units.HumanSize(float64(len(data)))))
	return dir, nil
}

func untar(tr *tar.Reader, dest string) error {
	if err := os.MkdirAll(dest, 0755); err != nil {
		return err
	}
	root, err := os.OpenRoot(dest)
	if err != nil {
		return err
	}
	defer root.Close()

	type dirMode struct {
		name string
		mode os.FileMode
	}
	// directories are created writable and get their real mode once all
	// children are in place
	var dirs []dirMode

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		name, ok := entryName(hdr.Name)
		if !ok {
			zap.L().Debug("Skip tar entry outside of the destination", zap.String("name", hdr.Name))
			continue
		}
		if name == "." {
			continue
		}
		mode := hdr.FileInfo().Mode()

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := mkdirAll(root, name); err != nil {
				return err
			}
			// an older tree may have left it read-only
			if err := chmodIn(root, name, 0755); err != nil {
				return err
			}
			dirs = append(dirs, dirMode{name, mode})
		case tar.TypeReg, tar.TypeRegA:
			if _, err := prepareEntry(root, dest, name); err != nil {
				return err
			}
			if err := writeFile(root, tr, name, mode); err != nil {
				return err
			}
		case tar.TypeSymlink:
			target, err := prepareEntry(root, dest, name)
			if err != nil {
				return err
			}
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return err
			}
		case tar.TypeLink:
			src, ok := entryName(hdr.Linkname)
			if !ok {
				zap.L().Debug("Skip hard link to outside of the destination",
					zap.String("name", hdr.Name),
					zap.String("link", hdr.Linkname))
				continue
			}
			if _, err := root.Lstat(src); err != nil {
				return err
			}
			target, err := prepareEntry(root, dest, name)
			if err != nil {
				return err
			}
			if err := os.Link(filepath.Join(dest, src), target); err != nil {
				return err
			}
		default:
			zap.L().Debug("Skip unsupported tar entry",
				zap.String("name", hdr.Name),
				zap.Uint8("type", uint8(hdr.Typeflag)))
		}
	}

	for i := len(dirs) - 1; i >= 0; i-- {
		// replaced by a later entry
		if fi, err := root.Lstat(dirs[i].name); err != nil || !fi.IsDir() {
			continue
		}
		if err := chmodIn(root, dirs[i].name, dirs[i].mode); err != nil {
			return err
		}
	}
	return nil
}

// entryName returns the path of a tar entry relative to the destination.
// Leading slashes are dropped, names with a ".." component are refused.
func entryName(name string) (string, bool) {
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return "", false
		}
	}
	return filepath.Clean(strings.TrimLeft(name, "/")), true
}

// mkdirAll creates name and its parents inside root. Existing symlinks are
// followed only as long as they stay inside root.
func mkdirAll(root *os.Root, name string) error {
	if name == "." || name == "/" {
		return nil
	}
	if err := mkdirAll(root, filepath.Dir(name)); err != nil {
		return err
	}
	if err := root.Mkdir(name, 0755); err != nil && !stderrors.Is(err, fs.ErrExist) {
		return err
	}
	return nil
}

// prepareEntry makes sure the parent of name is a directory inside root and
// nothing occupies name itself, so reinstalling over an old tree works. The
// returned path is name on the host filesystem.
func prepareEntry(root *os.Root, dest, name string) (string, error) {
	parent := filepath.Dir(name)
	if err := mkdirAll(root, parent); err != nil {
		return "", err
	}
	fi, err := root.Stat(parent)
	if err != nil {
		return "", err
	}
	if !fi.IsDir() {
		return "", ErrArchive.New("Parent of %s is not a directory", name)
	}

	target := filepath.Join(dest, name)
	if _, err := root.Lstat(name); err == nil {
		return target, os.RemoveAll(target)
	}
	return target, nil
}

func chmodIn(root *os.Root, name string, mode os.FileMode) error {
	f, err := root.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Chmod(mode)
}

func writeFile(root *os.Root, r io.Reader, name string, mode os.FileMode) error {
	fw, err := root.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(fw, r); err != nil {
		fw.Close()
		return err
	}
	// setuid and friends are dropped by open(2)
	if err := fw.Chmod(mode); err != nil {
		fw.Close()
		return err
	}
	return fw.Close()
}

type progressReader struct {
	r io.Reader
	n int64
	p Progress
}

func (pr *progressReader) Read(b []byte) (int, error) {
	n, err := pr.r.Read(b)
	pr.n += int64(n)
	pr.p.SetCurrent(pr.n)
	return n, err
}

func warnf(l *logprinter.Logger, format string, args ...any) {
	if l == nil {
		logprinter.Warnf(format, args...)
		return
	}
	l.Warnf(format, args...)
}
