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

package localdata

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	logprinter "github.com/alpack/alpack/pkg/logger/printer"
	"github.com/fatih/color"
	"github.com/joomcode/errorx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func newTestStore(t *testing.T, vars map[string]string) (*Store, *bytes.Buffer) {
	home := t.TempDir()
	if vars == nil {
		vars = map[string]string{}
	}
	vars[EnvNameHome] = home

	var stderr bytes.Buffer
	logger := logprinter.NewLogger("plain")
	logger.SetStderr(&stderr)
	logger.SetStdout(&bytes.Buffer{})
	return NewStore(NewEnvFromMap(vars), logger), &stderr
}

func TestDefaults(t *testing.T) {
	s := NewSettings("/home/alp")
	require.Equal(t, DefaultMirror, s.DefaultMirror)
	require.Equal(t, "/home/alp/.cache/ALPack", s.CacheDir)
	require.Equal(t, "/home/alp/.ALPack", s.RootfsDir)
	require.Equal(t, HandlerProot, s.CmdRootfs)
	require.Equal(t, ReleaseLatestStable, s.Release)
	require.Empty(t, s.OutputDir)
	require.NoError(t, s.Validate())
}

func TestLoadOrCreateMissingFile(t *testing.T) {
	store, stderr := newTestStore(t, nil)

	st := store.LoadOrCreate()
	require.Equal(t, NewSettings(store.env.Home()), st)
	require.Contains(t, stderr.String(), "Config file not found, creating a new one...")
	require.FileExists(t, store.Path())
	require.Equal(t, filepath.Join(store.env.Home(), ".config", "ALPack", "config.toml"), store.Path())

	// the second load reads what the first one persisted
	stderr.Reset()
	require.Equal(t, st, store.LoadOrCreate())
	require.Empty(t, stderr.String())
}

func TestLoadOrCreateEmptyFile(t *testing.T) {
	store, stderr := newTestStore(t, nil)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0755))
	require.NoError(t, os.WriteFile(store.Path(), []byte("  \n"), 0644))

	st := store.LoadOrCreate()
	require.Equal(t, NewSettings(store.env.Home()), st)
	require.Contains(t, stderr.String(), "config file is empty. Using default settings.")

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	require.Contains(t, string(data), "default_mirror")
}

func TestLoadOrCreateBrokenFile(t *testing.T) {
	store, stderr := newTestStore(t, nil)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0755))
	require.NoError(t, os.WriteFile(store.Path(), []byte("release = [oops"), 0644))

	st := store.LoadOrCreate()
	require.Equal(t, NewSettings(store.env.Home()), st)
	require.Contains(t, stderr.String(), "Failed to parse config file. Using default settings.")
}

func TestLoadOrCreatePartialFile(t *testing.T) {
	store, stderr := newTestStore(t, nil)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0755))
	require.NoError(t, os.WriteFile(store.Path(), []byte("release = \"edge\"\nrootfs_dir = \"/srv/alpine\"\n"), 0644))

	st := store.LoadOrCreate()
	require.Equal(t, ReleaseEdge, st.Release)
	require.Equal(t, "/srv/alpine", st.RootfsDir)
	require.Equal(t, DefaultMirror, st.DefaultMirror)
	require.Equal(t, HandlerProot, st.CmdRootfs)
	require.Empty(t, stderr.String())
}

func TestLoadOrCreateRepairsInvalidValues(t *testing.T) {
	store, stderr := newTestStore(t, nil)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0755))
	require.NoError(t, os.WriteFile(store.Path(), []byte("cmd_rootfs = \"chroot\"\nrelease = \"v3.19\"\n"), 0644))

	st := store.LoadOrCreate()
	require.Equal(t, HandlerProot, st.CmdRootfs)
	require.Equal(t, ReleaseLatestStable, st.Release)
	require.Contains(t, stderr.String(), "cmd_rootfs")
	require.Contains(t, stderr.String(), "release")
}

func TestSaveRoundTrip(t *testing.T) {
	store, _ := newTestStore(t, nil)
	st := NewSettings(store.env.Home())
	st.CmdRootfs = HandlerBwrap
	st.OutputDir = "/tmp/out"
	require.NoError(t, store.Save(st))

	loaded := store.LoadOrCreate()
	require.Equal(t, st, loaded)
}

func TestValidate(t *testing.T) {
	st := NewSettings("/home/alp")
	st.CmdRootfs = "docker"
	err := st.Validate()
	require.Error(t, err)
	require.True(t, errorx.IsOfType(err, ErrValidation))
	require.Contains(t, err.Error(), "cmd_rootfs")

	st = NewSettings("/home/alp")
	st.DefaultMirror = "not a url"
	require.Error(t, st.Validate())
}

func TestDiffReport(t *testing.T) {
	store, _ := newTestStore(t, nil)
	st := store.LoadOrCreate()

	report := store.DiffReport(st)
	require.NotContains(t, report, "->")
	require.Contains(t, report, OutputDirFallbackLabel)

	st.Release = ReleaseEdge
	st.OutputDir = "/srv/out"
	report = store.DiffReport(st)
	require.Contains(t, report, "latest-stable -> edge")
	require.Contains(t, report, OutputDirFallbackLabel+" -> /srv/out")
	for _, line := range strings.Split(report, "\n") {
		if strings.HasPrefix(line, "cmd_rootfs") {
			require.NotContains(t, line, "->")
		}
	}
}

func TestDiffReportKeyMissingOnDisk(t *testing.T) {
	store, _ := newTestStore(t, nil)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0755))
	require.NoError(t, os.WriteFile(store.Path(), []byte("release = \"latest-stable\"\n"), 0644))

	st := store.LoadOrCreate()
	st.CmdRootfs = HandlerBwrap
	report := store.DiffReport(st)
	require.Contains(t, report, "bwrap")
	require.NotContains(t, report, "proot -> bwrap")
}
