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
	"fmt"
	"path/filepath"

	"github.com/alpack/alpack/pkg/repository"
	"github.com/alpack/alpack/pkg/sandbox"
	"github.com/alpack/alpack/pkg/tui"
	"github.com/alpack/alpack/pkg/utils"
	"github.com/joomcode/errorx"
)

var (
	errNS = errorx.NewNamespace("cmd")

	// ErrRootfsNotFound is raised when a command needs a rootfs that was never set up
	ErrRootfsNotFound = errNS.NewType("rootfs_not_found", utils.ErrTraitPreCheck)
	// ErrArgs is raised for arguments cobra can not check
	ErrArgs = errNS.NewType("args", utils.ErrTraitPreCheck)
)

// rootfsDir returns dir, or the configured rootfs when dir is empty
func rootfsDir(dir string) string {
	if dir != "" {
		return dir
	}
	return env.RootfsDir(settings)
}

func checkRootfsExists(dir string) error {
	if utils.IsDir(dir) {
		return nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	return ErrRootfsNotFound.New("rootfs directory not found. Expected location: -> %s", abs).
		WithProperty(tui.SuggestionFromString(fmt.Sprintf("%s\n  Please run the following command to set it up:\n%s\n%s",
			tui.SeparatorLine(), tui.CmdBox(fmt.Sprintf("$ %s setup", tui.OsArgs0()), 2), tui.SeparatorLine())))
}

// newRunner returns a Runner for the configured handler. The handler binary is
// looked up, and downloaded if needed, on first use.
func newRunner() (sandbox.Runner, error) {
	h, err := sandbox.ParseHandler(settings.CmdRootfs)
	if err != nil {
		return nil, err
	}
	fetcher := repository.NewFetcher(repository.FetchOptions{
		Progress: repository.NewProgress(),
		Logger:   log,
	})
	return sandbox.NewLocatingRunner(h, sandbox.NewLocator(env, fetcher)), nil
}
