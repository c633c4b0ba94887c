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

	"github.com/alpack/alpack/pkg/tui"
)

// Done prints how to enter the new rootfs
type Done struct {
	cmd string
}

// Execute implements the Task interface
func (d *Done) Execute(ctx context.Context) error {
	sep := tui.SeparatorLine()
	loggerFrom(ctx).Infof("%s\n  Installation completed successfully!\n\n  To start the environment, run:\n%s\n%s",
		sep, tui.CmdBox(fmt.Sprintf("$ %s run", d.cmd), 2), sep)
	return nil
}

// String implements the fmt.Stringer interface
func (d *Done) String() string {
	return "Done"
}
