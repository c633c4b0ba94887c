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
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/joomcode/errorx"
	"github.com/stretchr/testify/require"
)

// fakeDirs fails MkdirAll with a fixed error for the paths in fail and
// records every call
type fakeDirs struct {
	fail  map[string]error
	calls []string
}

func (d *fakeDirs) MkdirAll(path string, perm os.FileMode) error {
	d.calls = append(d.calls, path)
	if err, ok := d.fail[path]; ok {
		return err
	}
	return nil
}

func denied(path string) error {
	return &fs.PathError{Op: "mkdir", Path: path, Err: fs.ErrPermission}
}

func TestResolvePrimary(t *testing.T) {
	dm := &fakeDirs{}
	dir, fallback, err := ResolvePrimaryOrFallback(dm, "/srv/rootfs", "/home/alp/.ALPack")
	require.NoError(t, err)
	require.False(t, fallback)
	require.Equal(t, "/srv/rootfs", dir)
	require.Equal(t, []string{"/srv/rootfs"}, dm.calls)
}

func TestResolveFallbackOnPermissionDenied(t *testing.T) {
	dm := &fakeDirs{fail: map[string]error{"/srv/rootfs": denied("/srv/rootfs")}}
	dir, fallback, err := ResolvePrimaryOrFallback(dm, "/srv/rootfs", "/home/alp/.ALPack")
	require.NoError(t, err)
	require.True(t, fallback)
	require.Equal(t, "/home/alp/.ALPack", dir)
	// the primary is given up after the first refusal
	require.Equal(t, []string{"/srv/rootfs", "/home/alp/.ALPack"}, dm.calls)
}

func TestResolveEPERM(t *testing.T) {
	dm := &fakeDirs{fail: map[string]error{"/srv/rootfs": syscall.EACCES}}
	_, fallback, err := ResolvePrimaryOrFallback(dm, "/srv/rootfs", "/home/alp/.ALPack")
	require.NoError(t, err)
	require.True(t, fallback)
}

func TestResolveOtherErrorIsFatal(t *testing.T) {
	dm := &fakeDirs{fail: map[string]error{"/srv/rootfs": syscall.ENOSPC}}
	_, _, err := ResolvePrimaryOrFallback(dm, "/srv/rootfs", "/home/alp/.ALPack")
	require.Error(t, err)
	require.True(t, errorx.IsOfType(err, ErrFilesystem))
	require.False(t, errorx.IsOfType(err, ErrPermissionDenied))
	require.Equal(t, []string{"/srv/rootfs"}, dm.calls)
}

func TestResolveWithoutFallback(t *testing.T) {
	dm := &fakeDirs{fail: map[string]error{"/srv/rootfs": denied("/srv/rootfs")}}
	_, _, err := ResolvePrimaryOrFallback(dm, "/srv/rootfs", "")
	require.True(t, errorx.IsOfType(err, ErrPermissionDenied))

	_, _, err = ResolvePrimaryOrFallback(dm, "/srv/rootfs", "/srv/rootfs/")
	require.True(t, errorx.IsOfType(err, ErrPermissionDenied))
}

func TestResolveFallbackFails(t *testing.T) {
	dm := &fakeDirs{fail: map[string]error{
		"/srv/rootfs":       denied("/srv/rootfs"),
		"/home/alp/.ALPack": denied("/home/alp/.ALPack"),
	}}
	_, fallback, err := ResolvePrimaryOrFallback(dm, "/srv/rootfs", "/home/alp/.ALPack")
	require.Error(t, err)
	require.True(t, fallback)
	require.True(t, errorx.IsOfType(err, ErrFilesystem))
}

func TestResolveOnDisk(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	got, fallback, err := ResolvePrimaryOrFallback(nil, dir, "")
	require.NoError(t, err)
	require.False(t, fallback)
	require.Equal(t, dir, got)
	require.DirExists(t, dir)
}
