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

	"github.com/alpack/alpack/pkg/tui"
	"github.com/alpack/alpack/pkg/utils"
)

// ValidateTarget refuses to set up over an existing rootfs
type ValidateTarget struct {
	target   string
	fallback string
}

// Execute implements the Task interface
func (v *ValidateTarget) Execute(ctx context.Context) error {
	if err := checkAbsent(v.target); err != nil {
		return err
	}

	parent := utils.NearestExistingDir(filepath.Dir(filepath.Clean(v.target)))
	if utils.IsWritableDir(parent) {
		return nil
	}

	loggerFrom(ctx).Warnf("Write access denied for '%s'. Falling back to the default location...", v.target)
	if v.fallback == "" {
		return nil
	}
	return checkAbsent(v.fallback)
}

// String implements the fmt.Stringer interface
func (v *ValidateTarget) String() string {
	return fmt.Sprintf("ValidateTarget: %s", v.target)
}

func checkAbsent(dir string) error {
	if !utils.IsDir(dir) {
		return nil
	}
	return ErrValidation.New("Rootfs directory %s is already available.", dir).
		WithProperty(tui.SuggestionFromString("Use [-r|--reinstall] to reinstall it."))
}
