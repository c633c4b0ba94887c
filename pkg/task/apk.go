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
	"path/filepath"

	"github.com/alpack/alpack/pkg/sandbox"
)

// Commands run in a fresh rootfs
const (
	ApkUpdateCmd    = "apk update"
	ApkToolchainCmd = "apk add alpine-sdk autoconf automake cmake go"
)

func repositoriesPath(rootfs string) string {
	return filepath.Join(rootfs, "etc", "apk", "repositories")
}

// Apk runs an apk command as root inside the rootfs
type Apk struct {
	runner  sandbox.Runner
	command string
}

// Execute implements the Task interface
func (a *Apk) Execute(ctx context.Context) error {
	return a.runner.Run(ctx, GetInner(ctx).RootfsDir, a.command, sandbox.RunOptions{
		Root:             true,
		IgnoreExtraBinds: true,
	})
}

// String implements the fmt.Stringer interface
func (a *Apk) String() string {
	return fmt.Sprintf("Apk: %s", a.command)
}
