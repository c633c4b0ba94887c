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
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestIsExist(t *testing.T) {
	require.True(t, IsExist("/tmp"))
	require.False(t, IsExist("/tmp/"+uuid.New().String()))
}

func TestIsNotExist(t *testing.T) {
	require.False(t, IsNotExist("/tmp"))
	require.True(t, IsNotExist("/tmp/"+uuid.New().String()))
}

func TestIsDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	require.True(t, IsDir(dir))
	require.False(t, IsDir(file))
	require.False(t, IsDir(filepath.Join(dir, "missing")))
}

func TestIsWritableDir(t *testing.T) {
	dir := t.TempDir()
	require.True(t, IsWritableDir(dir))
	require.NoFileExists(t, filepath.Join(dir, ".permission_test"))
	require.False(t, IsWritableDir(filepath.Join(dir, "missing")))

	if os.Geteuid() == 0 {
		t.Skip("root can write anywhere")
	}
	ro := filepath.Join(dir, "ro")
	require.NoError(t, os.Mkdir(ro, 0555))
	defer os.Chmod(ro, 0755)
	require.False(t, IsWritableDir(ro))
}

func TestNearestExistingDir(t *testing.T) {
	dir := t.TempDir()
	require.Equal(t, dir, NearestExistingDir(filepath.Join(dir, "a", "b", "c")))
	require.Equal(t, dir, NearestExistingDir(dir))
	require.Equal(t, "/", NearestExistingDir("/"+uuid.NewString()+"/x"))
}

func TestWriteFileAndMove(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a", "b", "file")
	require.NoError(t, WriteFile(src, []byte("hello"), 0644))

	dst := filepath.Join(dir, "c", "file")
	require.NoError(t, Move(src, dst))
	require.NoFileExists(t, src)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))
}
