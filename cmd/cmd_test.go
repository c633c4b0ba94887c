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

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alpack/alpack/pkg/localdata"
	"github.com/alpack/alpack/pkg/utils"
	"github.com/fatih/color"
	"github.com/joomcode/errorx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestNormalizeArgs(t *testing.T) {
	assert.Equal(t, []string{"run"}, normalizeArgs(nil))
	assert.Equal(t, []string{"search", "curl"}, normalizeArgs([]string{"-s", "curl"}))
	assert.Equal(t, []string{"update"}, normalizeArgs([]string{"-u"}))

	args := []string{"setup", "--edge"}
	assert.Equal(t, args, normalizeArgs(args))
}

func TestApkCommand(t *testing.T) {
	cases := map[string]string{
		"add":     "apk add",
		"install": "apk add",
		"del":     "apk del",
		"remove":  "apk del",
		"-u":      "apk update; apk upgrade",
		"update":  "apk update; apk upgrade",
		"-s":      "apk search",
		"search":  "apk search",
		"fix":     "apk fix",
		"info":    "apk info",
	}
	for sub, want := range cases {
		assert.Equal(t, want, apkCommand(sub), sub)
	}
}

func TestSplitRootfsFlag(t *testing.T) {
	rootfs, rest := splitRootfsFlag([]string{"add", "-R", "/mnt/alpine", "curl", "--no-cache"})
	assert.Equal(t, "/mnt/alpine", rootfs)
	assert.Equal(t, []string{"add", "curl", "--no-cache"}, rest)

	rootfs, rest = splitRootfsFlag([]string{"--rootfs=/srv/a", "search", "git"})
	assert.Equal(t, "/srv/a", rootfs)
	assert.Equal(t, []string{"search", "git"}, rest)

	rootfs, rest = splitRootfsFlag([]string{"fix", "--rootfs"})
	assert.Empty(t, rootfs)
	assert.Equal(t, []string{"fix"}, rest)
}

func TestJoinCommands(t *testing.T) {
	assert.Equal(t, "", joinCommands(nil, nil))
	assert.Equal(t, "fdisk -l", joinCommands(nil, []string{"fdisk", "-l"}))
	assert.Equal(t, "cd /src && make && make install", joinCommands([]string{"cd /src", " ", "make"}, []string{"make", "install"}))
}

func TestCheckRootfsExists(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, checkRootfsExists(dir))

	missing := filepath.Join(dir, "missing")
	err := checkRootfsExists(missing)
	require.True(t, errorx.IsOfType(err, ErrRootfsNotFound))
	assert.True(t, errorx.HasTrait(err, utils.ErrTraitPreCheck))
	assert.Contains(t, err.Error(), "Expected location: -> "+missing)

	sug := extractSuggestionFromErrorX(errorx.Cast(err))
	assert.Contains(t, sug, "Please run the following command to set it up:")
	assert.Contains(t, sug, "setup")
	assert.Contains(t, sug, "╔")
}

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	log.SetStdout(&out)
	log.SetStderr(&bytes.Buffer{})
	t.Cleanup(func() {
		log.SetStdout(os.Stdout)
		log.SetStderr(os.Stderr)
	})
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConfigCommand(t *testing.T) {
	home := t.TempDir()
	t.Setenv(localdata.EnvNameHome, home)
	cfg := filepath.Join(home, ".config", "ALPack", "config.toml")

	out, err := executeRoot(t, "config", "--use-bwrap", "--use-edge", "--output-dir", "/srv/out", "--format", "toml")
	require.NoError(t, err)
	assert.Contains(t, out, `cmd_rootfs = "bwrap"`)

	data, err := os.ReadFile(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), `cmd_rootfs = "bwrap"`)
	assert.Contains(t, string(data), `release = "edge"`)
	assert.Contains(t, string(data), `output_dir = "/srv/out"`)

	_, err = executeRoot(t, "config", "--default-mirror", "not a mirror")
	require.True(t, errorx.IsOfType(err, localdata.ErrValidation))
	after, err := os.ReadFile(cfg)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(after))
}

func TestPrintSettingsYAML(t *testing.T) {
	t.Setenv(localdata.EnvNameHome, t.TempDir())
	log.SetStderr(&bytes.Buffer{})
	t.Cleanup(func() { log.SetStderr(os.Stderr) })
	loadSettings()

	var buf bytes.Buffer
	require.NoError(t, printSettings(&buf, "yaml", settings))
	assert.Contains(t, buf.String(), "default_mirror: https://dl-cdn.alpinelinux.org/alpine/\n")
	assert.Contains(t, buf.String(), "cmd_rootfs: proot\n")

	buf.Reset()
	require.NoError(t, printSettings(&buf, "table", settings))
	assert.True(t, strings.HasPrefix(buf.String(), "Setting"))

	err := printSettings(&buf, "xml", settings)
	assert.True(t, errorx.IsOfType(err, ErrArgs))
}

func TestRunRequiresRootfs(t *testing.T) {
	home := t.TempDir()
	t.Setenv(localdata.EnvNameHome, home)
	t.Setenv(localdata.EnvNameRootfs, "")

	_, err := executeRoot(t, "run", "-R", filepath.Join(home, "nowhere"), "--", "true")
	require.True(t, errorx.IsOfType(err, ErrRootfsNotFound))

	_, err = executeRoot(t, "apk", "-R", filepath.Join(home, "nowhere"), "add", "curl")
	require.True(t, errorx.IsOfType(err, ErrRootfsNotFound))

	_, err = executeRoot(t, "apk")
	require.True(t, errorx.IsOfType(err, ErrArgs))
}
