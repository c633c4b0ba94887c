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

package task

import (
	"context"
	"fmt"
	"path/filepath"
)

// Download fetches the selected rootfs image into the cache directory
type Download struct {
	fetcher  Fetcher
	cacheDir string
}

// Execute implements the Task interface
func (d *Download) Execute(ctx context.Context) error {
	inner := GetInner(ctx)
	if inner.Candidate == nil {
		return ErrMissingState.New("No rootfs image has been selected")
	}

	dir, err := d.fetcher.Fetch(ctx, inner.Mirror.ArchiveURL(inner.Candidate.Href), d.cacheDir, inner.Candidate.Href)
	if err != nil {
		return err
	}
	inner.ArchivePath = filepath.Join(dir, inner.Candidate.Href)
	return nil
}

// String implements the fmt.Stringer interface
func (d *Download) String() string {
	return fmt.Sprintf("Download: cache=%s", d.cacheDir)
}
