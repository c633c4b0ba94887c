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

package repository

import (
	"strings"
	"testing"

	"github.com/alpack/alpack/pkg/localdata"
	"github.com/stretchr/testify/require"
)

func TestResolveMirror(t *testing.T) {
	s := localdata.NewSettings("/home/alp")

	m := ResolveMirror(s, "", "", "x86_64")
	require.Equal(t, localdata.DefaultMirror, m.BaseURL)
	require.Equal(t, localdata.ReleaseLatestStable, m.Release)
	require.Equal(t, "https://dl-cdn.alpinelinux.org/alpine/latest-stable/releases/x86_64/", m.IndexURL())
	require.Equal(t,
		"https://dl-cdn.alpinelinux.org/alpine/latest-stable/releases/x86_64/alpine-minirootfs-3.19.2-x86_64.tar.gz",
		m.ArchiveURL("alpine-minirootfs-3.19.2-x86_64.tar.gz"))

	m = ResolveMirror(s, "http://mirror.local/alpine", localdata.ReleaseEdge, "aarch64")
	require.Equal(t, "http://mirror.local/alpine/", m.BaseURL)
	require.Equal(t, "http://mirror.local/alpine/edge/releases/aarch64/", m.IndexURL())
}

func TestRepositoryManifest(t *testing.T) {
	s := localdata.NewSettings("/home/alp")

	stable := ResolveMirror(s, "", "", "x86_64").RepositoryManifest()
	require.Equal(t, []string{
		"https://dl-cdn.alpinelinux.org/alpine/latest-stable/main",
		"https://dl-cdn.alpinelinux.org/alpine/latest-stable/community",
	}, strings.Split(stable, "\n"))

	edge := ResolveMirror(s, "", localdata.ReleaseEdge, "x86_64").RepositoryManifest()
	require.Equal(t, []string{
		"https://dl-cdn.alpinelinux.org/alpine/edge/main",
		"https://dl-cdn.alpinelinux.org/alpine/edge/community",
		"https://dl-cdn.alpinelinux.org/alpine/edge/testing",
	}, strings.Split(edge, "\n"))
}
