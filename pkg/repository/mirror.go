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

package repository

import (
	"strings"

	"github.com/alpack/alpack/pkg/localdata"
)

// Repositories enabled in a new rootfs, testing is only added on edge
var (
	stableRepositories = []string{"main", "community"}
	edgeRepositories   = []string{"main", "community", "testing"}
)

// MirrorSelection is the mirror, release channel and architecture a rootfs is
// provisioned from
type MirrorSelection struct {
	BaseURL string
	Release string
	Arch    string
}

// ResolveMirror builds a MirrorSelection. Empty overrides are filled from the
// settings.
func ResolveMirror(s *localdata.Settings, overrideMirror, overrideRelease, arch string) MirrorSelection {
	base := overrideMirror
	if base == "" {
		base = s.DefaultMirror
	}
	release := overrideRelease
	if release == "" {
		release = s.Release
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return MirrorSelection{BaseURL: base, Release: release, Arch: arch}
}

// IndexURL returns the directory listing of the release images
func (m MirrorSelection) IndexURL() string {
	return m.BaseURL + m.Release + "/releases/" + m.Arch + "/"
}

// ArchiveURL returns the download URL of a file listed in the index
func (m MirrorSelection) ArchiveURL(href string) string {
	return m.IndexURL() + strings.TrimPrefix(href, "/")
}

// Repositories returns the apk repository URLs of the release channel
func (m MirrorSelection) Repositories() []string {
	names := stableRepositories
	if m.Release == localdata.ReleaseEdge {
		names = edgeRepositories
	}
	repos := make([]string, 0, len(names))
	for _, name := range names {
		repos = append(repos, m.BaseURL+m.Release+"/"+name)
	}
	return repos
}

// RepositoryManifest returns the content of /etc/apk/repositories
func (m MirrorSelection) RepositoryManifest() string {
	return strings.Join(m.Repositories(), "\n")
}
