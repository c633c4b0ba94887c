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
	"strings"

	"github.com/alpack/alpack/pkg/utils"
	"github.com/joomcode/errorx"
)

var (
	errNS = errorx.NewNamespace("task")

	// ErrValidation is raised when the setup target can not be used
	ErrValidation = errNS.NewType("validation", utils.ErrTraitPreCheck)
	// ErrMissingState is raised when a task needs state a previous task did not set
	ErrMissingState = errNS.NewType("missing_state")
)

type (
	// Task represents a step of the provisioning of a rootfs
	Task interface {
		fmt.Stringer
		Execute(ctx context.Context) error
	}

	// Serial will execute a bundle of task in serialized way
	Serial struct {
		inner []Task
	}
)

func isDisplayTask(t Task) bool {
	switch t.(type) {
	case *Serial, *Done:
		return true
	}
	return false
}

// Execute implements the Task interface
func (s *Serial) Execute(ctx context.Context) error {
	for _, t := range s.inner {
		if !isDisplayTask(t) {
			loggerFrom(ctx).Infof("+ %s", t.String())
		}
		GetInner(ctx).Ev.publishBegin(t)
		err := t.Execute(ctx)
		GetInner(ctx).Ev.publishFinish(t, err)
		if err != nil {
			return err
		}
	}
	return nil
}

// String implements the fmt.Stringer interface
func (s *Serial) String() string {
	var ss []string
	for _, t := range s.inner {
		ss = append(ss, t.String())
	}
	return strings.Join(ss, "\n")
}
