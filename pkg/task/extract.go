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

package task

import (
	"context"
	"fmt"

	"github.com/alpack/alpack/pkg/utils"
)

// Extract unpacks the downloaded image into the rootfs directory
type Extract struct {
	options utils.ExtractOptions
}

// Execute implements the Task interface
func (e *Extract) Execute(ctx context.Context) error {
	inner := GetInner(ctx)
	if inner.ArchivePath == "" {
		return ErrMissingState.New("No rootfs image has been downloaded")
	}

	opts := e.options
	if opts.Logger == nil {
		opts.Logger = loggerFrom(ctx)
	}
	dir, err := utils.ExtractTarGz(inner.ArchivePath, inner.RootfsDir, opts)
	if err != nil {
		return err
	}
	inner.RootfsDir = dir
	return nil
}

// String implements the fmt.Stringer interface
func (e *Extract) String() string {
	return fmt.Sprintf("Extract: fallback=%s", e.options.Fallback)
}

// WriteRepoManifest points apk of the new rootfs at the selected mirror
type WriteRepoManifest struct{}

// Execute implements the Task interface
func (w *WriteRepoManifest) Execute(ctx context.Context) error {
	inner := GetInner(ctx)
	return utils.WriteFile(repositoriesPath(inner.RootfsDir), []byte(inner.Mirror.RepositoryManifest()), 0644)
}

// String implements the fmt.Stringer interface
func (w *WriteRepoManifest) String() string {
	return "WriteRepoManifest"
}
