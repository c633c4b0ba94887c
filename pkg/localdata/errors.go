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
	"github.com/alpack/alpack/pkg/utils"
	"github.com/joomcode/errorx"
)

var (
	errNS = errorx.NewNamespace("localdata")

	// ErrConfig is raised when the settings file can not be read or written.
	// Load failures are turned into warnings and never reach the caller.
	ErrConfig = errNS.NewType("config")
	// ErrValidation is raised when a requested setting is not acceptable
	ErrValidation = errNS.NewType("validation", utils.ErrTraitPreCheck)
)
