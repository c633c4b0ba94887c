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

package logger

import (
	"os"
	"strings"
	"testing"

	"github.com/alpack/alpack/pkg/localdata"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOutputDebugLog(t *testing.T) {
	InitGlobalLogger()
	zap.L().Debug("Rootfs resolved", zap.String("rootfs", "/tmp/alpine"))
	require.Contains(t, string(DebugLog()), "Rootfs resolved")

	t.Setenv(localdata.EnvNameLogPath, "")
	dir := t.TempDir()
	OutputDebugLog(dir, "alpack")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.True(t, strings.HasPrefix(entries[0].Name(), "alpack-debug-"))
	require.Empty(t, DebugLog())
}

func TestOutputDebugLogEnvWins(t *testing.T) {
	InitGlobalLogger()
	zap.L().Info("Rootfs resolved")

	dir := t.TempDir()
	t.Setenv(localdata.EnvNameLogPath, dir)
	OutputDebugLog("/nonexistent/alpack-logs", "alpack")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
