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
	"os"

	"go.uber.org/zap"
)

// RemoveDir deletes a directory tree. Failures are reported as a warning and
// do not stop the pipeline.
type RemoveDir struct {
	path string
}

// Execute implements the Task interface
func (r *RemoveDir) Execute(ctx context.Context) error {
	if err := os.RemoveAll(r.path); err != nil {
		zap.L().Debug("Remove directory failed", zap.String("path", r.path), zap.Error(err))
		loggerFrom(ctx).Warnf("Failed to remove %s: %s", r.path, err)
	}
	return nil
}

// String implements the fmt.Stringer interface
func (r *RemoveDir) String() string {
	return fmt.Sprintf("RemoveDir: %s", r.path)
}
