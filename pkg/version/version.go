// Copyright 2021 PingCAP, Inc.
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

// This file only contains version related variables and consts, all
// type definitions and functions shall not be implemented here.

package version

var (
	// ALPackVerMajor is the major version of ALPack
	ALPackVerMajor = 0
	// ALPackVerMinor is the minor version of ALPack
	ALPackVerMinor = 9
	// ALPackVerPatch is the patch version of ALPack
	ALPackVerPatch = 2
	// ALPackVerName is an alternative name of the version
	ALPackVerName = "alpack"
	// GitHash is the current git commit hash
	GitHash = "Unknown"
	// GitRef is the current git reference name (branch or tag)
	GitRef = "Unknown"
)
