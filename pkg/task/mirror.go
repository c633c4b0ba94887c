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
	"bytes"
	"context"
	"fmt"

	"github.com/alpack/alpack/pkg/localdata"
	"github.com/alpack/alpack/pkg/repository"
)

// Fetcher is the network side of the pipeline
type Fetcher interface {
	FetchIndex(ctx context.Context, url string) ([]byte, error)
	Fetch(ctx context.Context, url, destDir, filename string) (string, error)
}

// ResolveMirror decides the mirror, release channel and architecture
type ResolveMirror struct {
	settings *localdata.Settings
	mirror   string
	release  string
	arch     string
}

// Execute implements the Task interface
func (m *ResolveMirror) Execute(ctx context.Context) error {
	GetInner(ctx).Mirror = repository.ResolveMirror(m.settings, m.mirror, m.release, m.arch)
	return nil
}

// String implements the fmt.Stringer interface
func (m *ResolveMirror) String() string {
	return fmt.Sprintf("ResolveMirror: arch=%s", m.arch)
}

// FetchIndex downloads the release index page of the selected mirror
type FetchIndex struct {
	fetcher Fetcher
}

// Execute implements the Task interface
func (f *FetchIndex) Execute(ctx context.Context) error {
	inner := GetInner(ctx)
	body, err := f.fetcher.FetchIndex(ctx, inner.Mirror.IndexURL())
	if err != nil {
		return err
	}
	inner.Index = body
	return nil
}

// String implements the fmt.Stringer interface
func (f *FetchIndex) String() string {
	return "FetchIndex"
}

// SelectVersion picks the newest rootfs image listed in the index
type SelectVersion struct{}

// Execute implements the Task interface
func (s *SelectVersion) Execute(ctx context.Context) error {
	inner := GetInner(ctx)
	if inner.Index == nil {
		return ErrMissingState.New("Release index has not been fetched")
	}

	c, err := repository.SelectLatest(bytes.NewReader(inner.Index), inner.Mirror.Arch)
	if err != nil {
		return err
	}
	inner.Candidate = c

	logger := loggerFrom(ctx)
	logger.Infof("Latest version found: %s", c.Version)
	logger.Infof("Link: %s", inner.Mirror.ArchiveURL(c.Href))
	return nil
}

// String implements the fmt.Stringer interface
func (s *SelectVersion) String() string {
	return "SelectVersion"
}
