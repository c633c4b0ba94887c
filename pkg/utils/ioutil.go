// Copyright 2020 PingCAP, Inc.
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

	"github.com/pingcap/errors"
)

// IsExist check whether a path is exist
func IsExist(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// IsNotExist check whether a path is not exist
func IsNotExist(path string) bool {
	_, err := os.Stat(path)
	return os.IsNotExist(err)
}

// IsDir reports whether path exists and is a directory
func IsDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

// IsWritableDir checks dir by creating and removing a marker file in it.
func IsWritableDir(dir string) bool {
	marker := filepath.Join(dir, ".permission_test")
	f, err := os.OpenFile(marker, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return false
	}
	_ = f.Close()
	return os.Remove(marker) == nil
}

// NearestExistingDir walks up from path and returns the first ancestor
// (path included) that exists on disk.
func NearestExistingDir(path string) string {
	p := filepath.Clean(path)
	for {
		if IsExist(p) {
			return p
		}
		parent := filepath.Dir(p)
		if parent == p {
			return p
		}
		p = parent
	}
}

// MkdirAll wraps os.MkdirAll and annotates the error with the path
func MkdirAll(path string, perm os.FileMode) error {
	if err := os.MkdirAll(path, perm); err != nil {
		return errors.Annotatef(err, "create directory %s", path)
	}
	return nil
}

// WriteFile writes data to a file in path, creating the parent directories
// when they are missing.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if err := MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return errors.Trace(os.WriteFile(path, data, perm))
}

// Move moves a file from src to dst, this is done by rename
func Move(src, dst string) error {
	if err := MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	return errors.Trace(os.Rename(src, dst))
}
