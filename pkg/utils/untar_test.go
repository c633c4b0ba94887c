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
	"os"
	"path/filepath"
	"testing"

	logprinter "github.com/alpack/alpack/pkg/logger/printer"
	"github.com/joomcode/errorx"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

type entry struct {
	hdr  tar.Header
	body string
}

func buildTarGz(t *testing.T, entries []entry) string {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	for _, e := range entries {
		hdr := e.hdr
		hdr.Size = int64(len(e.body))
		require.NoError(t, tw.WriteHeader(&hdr))
		if e.body != "" {
			_, err := tw.Write([]byte(e.body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())

	path := filepath.Join(t.TempDir(), "rootfs.tar.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func rootfsEntries() []entry {
	return []entry{
		{hdr: tar.Header{Name: "etc/", Typeflag: tar.TypeDir, Mode: 0755}},
		{hdr: tar.Header{Name: "etc/hostname", Typeflag: tar.TypeReg, Mode: 0644}, body: "alpine\n"},
		{hdr: tar.Header{Name: "bin/", Typeflag: tar.TypeDir, Mode: 0755}},
		{hdr: tar.Header{Name: "bin/busybox", Typeflag: tar.TypeReg, Mode: 0755}, body: "#!busybox"},
		{hdr: tar.Header{Name: "bin/sh", Typeflag: tar.TypeSymlink, Linkname: "/bin/busybox", Mode: 0777}},
		{hdr: tar.Header{Name: "bin/ash", Typeflag: tar.TypeLink, Linkname: "bin/busybox"}},
		{hdr: tar.Header{Name: "ro/", Typeflag: tar.TypeDir, Mode: 0555}},
		{hdr: tar.Header{Name: "ro/file", Typeflag: tar.TypeReg, Mode: 0444}, body: "locked"},
		{hdr: tar.Header{Name: "dev/null", Typeflag: tar.TypeChar, Mode: 0666, Devmajor: 1, Devminor: 3}},
	}
}

func newTestLogger(stderr *bytes.Buffer) *logprinter.Logger {
	l := logprinter.NewLogger("plain")
	l.SetStdout(&bytes.Buffer{})
	l.SetStderr(stderr)
	return l
}

type countProgress struct {
	size    int64
	current int64
	done    bool
}

func (p *countProgress) Start(name string, size int64) { p.size = size }
func (p *countProgress) SetCurrent(n int64)            { p.current = n }
func (p *countProgress) Finish()                       { p.done = true }

func TestExtractTarGz(t *testing.T) {
	archive := buildTarGz(t, rootfsEntries())
	dest := filepath.Join(t.TempDir(), "rootfs")
	t.Cleanup(func() { _ = os.Chmod(filepath.Join(dest, "ro"), 0755) })
	progress := &countProgress{}

	dir, err := ExtractTarGz(archive, dest, ExtractOptions{Progress: progress})
	require.NoError(t, err)
	require.Equal(t, dest, dir)

	data, err := os.ReadFile(filepath.Join(dest, "etc", "hostname"))
	require.NoError(t, err)
	require.Equal(t, "alpine\n", string(data))

	link, err := os.Readlink(filepath.Join(dest, "bin", "sh"))
	require.NoError(t, err)
	require.Equal(t, "/bin/busybox", link)

	data, err = os.ReadFile(filepath.Join(dest, "bin", "ash"))
	require.NoError(t, err)
	require.Equal(t, "#!busybox", string(data))

	fi, err := os.Stat(filepath.Join(dest, "bin", "busybox"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0755), fi.Mode().Perm())

	fi, err = os.Stat(filepath.Join(dest, "ro"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0555), fi.Mode().Perm())

	// device nodes are skipped
	require.NoFileExists(t, filepath.Join(dest, "dev", "null"))

	require.Positive(t, progress.size)
	require.Equal(t, progress.size, progress.current)
	require.True(t, progress.done)
}

func TestExtractTarGzOverExistingTree(t *testing.T) {
	archive := buildTarGz(t, rootfsEntries())
	dest := filepath.Join(t.TempDir(), "rootfs")
	t.Cleanup(func() { _ = os.Chmod(filepath.Join(dest, "ro"), 0755) })

	_, err := ExtractTarGz(archive, dest, ExtractOptions{})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dest, "etc", "hostname"), []byte("changed"), 0644))

	_, err = ExtractTarGz(archive, dest, ExtractOptions{})
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dest, "etc", "hostname"))
	require.NoError(t, err)
	require.Equal(t, "alpine\n", string(data))
}

func TestExtractTarGzSkipsParentEntries(t *testing.T) {
	base := t.TempDir()
	dest := filepath.Join(base, "rootfs")
	archive := buildTarGz(t, []entry{
		{hdr: tar.Header{Name: "etc/", Typeflag: tar.TypeDir, Mode: 0755}},
		{hdr: tar.Header{Name: "../escaped", Typeflag: tar.TypeReg, Mode: 0644}, body: "out"},
		{hdr: tar.Header{Name: "etc/../../escaped-too", Typeflag: tar.TypeReg, Mode: 0644}, body: "out"},
		{hdr: tar.Header{Name: "/etc/motd", Typeflag: tar.TypeReg, Mode: 0644}, body: "welcome"},
		{hdr: tar.Header{Name: "etc/shadow", Typeflag: tar.TypeLink, Linkname: "../../secret"}},
	})

	_, err := ExtractTarGz(archive, dest, ExtractOptions{})
	require.NoError(t, err)
	require.NoFileExists(t, filepath.Join(base, "escaped"))
	require.NoFileExists(t, filepath.Join(base, "escaped-too"))
	require.NoFileExists(t, filepath.Join(dest, "etc", "shadow"))

	// absolute names land under the destination
	data, err := os.ReadFile(filepath.Join(dest, "etc", "motd"))
	require.NoError(t, err)
	require.Equal(t, "welcome", string(data))
}

func TestExtractTarGzRefusesSymlinkEscape(t *testing.T) {
	host := t.TempDir()
	dest := filepath.Join(t.TempDir(), "rootfs")
	archive := buildTarGz(t, []entry{
		{hdr: tar.Header{Name: "lib", Typeflag: tar.TypeSymlink, Linkname: host, Mode: 0777}},
		{hdr: tar.Header{Name: "lib/evil", Typeflag: tar.TypeReg, Mode: 0644}, body: "evil"},
	})

	_, err := ExtractTarGz(archive, dest, ExtractOptions{})
	require.Error(t, err)
	require.True(t, errorx.IsOfType(err, ErrArchive))
	require.NoFileExists(t, filepath.Join(host, "evil"))

	// a relative link out of the tree is refused as well
	archive = buildTarGz(t, []entry{
		{hdr: tar.Header{Name: "usr", Typeflag: tar.TypeSymlink, Linkname: "../../..", Mode: 0777}},
		{hdr: tar.Header{Name: "usr/sbin/", Typeflag: tar.TypeDir, Mode: 0755}},
	})
	_, err = ExtractTarGz(archive, filepath.Join(t.TempDir(), "rootfs"), ExtractOptions{})
	require.Error(t, err)
}

func TestExtractTarGzSymlinkInsideTree(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "rootfs")
	archive := buildTarGz(t, []entry{
		{hdr: tar.Header{Name: "usr/lib/", Typeflag: tar.TypeDir, Mode: 0755}},
		{hdr: tar.Header{Name: "lib", Typeflag: tar.TypeSymlink, Linkname: "usr/lib", Mode: 0777}},
		{hdr: tar.Header{Name: "lib/libc.so", Typeflag: tar.TypeReg, Mode: 0644}, body: "musl"},
	})

	_, err := ExtractTarGz(archive, dest, ExtractOptions{})
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dest, "usr", "lib", "libc.so"))
	require.NoError(t, err)
	require.Equal(t, "musl", string(data))
}

func TestExtractTarGzFallback(t *testing.T) {
	archive := buildTarGz(t, rootfsEntries()[:2])
	root := t.TempDir()
	primary := filepath.Join(root, "denied")
	fallback := filepath.Join(root, "fallback")
	dm := &fakeDirs{fail: map[string]error{primary: denied(primary)}}

	var stderr bytes.Buffer
	logger := newTestLogger(&stderr)
	dir, err := ExtractTarGz(archive, primary, ExtractOptions{Fallback: fallback, Dirs: dm, Logger: logger})
	require.NoError(t, err)
	require.Equal(t, fallback, dir)
	require.Equal(t, []string{primary, fallback}, dm.calls)
	require.Contains(t, stderr.String(), "Permission denied")
	// fakeDirs does not touch the disk, the entries create their parents
	require.FileExists(t, filepath.Join(fallback, "etc", "hostname"))
}

func TestExtractTarGzBrokenArchive(t *testing.T) {
	broken := filepath.Join(t.TempDir(), "broken.tar.gz")
	require.NoError(t, os.WriteFile(broken, []byte("definitely not gzip"), 0644))

	_, err := ExtractTarGz(broken, t.TempDir(), ExtractOptions{})
	require.Error(t, err)
	require.True(t, errorx.IsOfType(err, ErrArchive))

	_, err = ExtractTarGz(filepath.Join(t.TempDir(), "missing.tar.gz"), t.TempDir(), ExtractOptions{})
	require.True(t, errorx.IsOfType(err, ErrArchive))
}
