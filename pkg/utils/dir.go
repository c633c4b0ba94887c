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
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
)

// DirMaker creates directory trees. The os implementation is OSDirMaker, tests
// plug in fakes to simulate read-only parents.
type DirMaker interface {
	MkdirAll(path string, perm os.FileMode) error
}

type osDirMaker struct{}

func (osDirMaker) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// OSDirMaker creates directories on the real filesystem
var OSDirMaker DirMaker = osDirMaker{}

// ResolvePrimaryOrFallback creates primary and returns it. If creating primary
// is refused with a permission error, fallback is created and returned instead
// and usedFallback is set; primary is not tried again. Any other error, or a
// permission error without a usable fallback, is returned as ErrFilesystem.
func ResolvePrimaryOrFallback(dm DirMaker, primary, fallback string) (resolved string, usedFallback bool, err error) {
	if dm == nil {
		dm = OSDirMaker
	}

	err = dm.MkdirAll(primary, 0755)
	if err == nil {
		return primary, false, nil
	}
	if !stderrors.Is(err, fs.ErrPermission) {
		return "", false, ErrFilesystem.Wrap(err, "Failed to create directory %s", primary)
	}
	if fallback == "" || filepath.Clean(fallback) == filepath.Clean(primary) {
		return "", false, ErrPermissionDenied.Wrap(err, "Permission denied to create %s", primary)
	}

	if err := dm.MkdirAll(fallback, 0755); err != nil {
		return "", true, ErrFilesystem.Wrap(err, "Failed to create fallback directory %s", fallback)
	}
	return fallback, true, nil
}
