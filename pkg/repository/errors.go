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

package repository

import (
	"github.com/joomcode/errorx"
)

var (
	errNS = errorx.NewNamespace("repository")

	// ErrNetwork is raised when the index or an archive can not be downloaded
	ErrNetwork = errNS.NewType("network")
	// ErrNotFound is the 404 flavour of ErrNetwork
	ErrNotFound = ErrNetwork.NewSubtype("not_found", errorx.NotFound())
	// ErrParse is raised when the release index can not be understood
	ErrParse = errNS.NewType("parse")
	// ErrNoCandidate is raised when the index lists no image for the architecture
	ErrNoCandidate = ErrParse.NewSubtype("no_candidate")
)
