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

package version

import (
	"fmt"
	"runtime"
)

// ALPackVersion is the semver of ALPack
type ALPackVersion struct {
	major int
	minor int
	patch int
	name  string
}

// NewALPackVersion creates an ALPackVersion object
func NewALPackVersion() *ALPackVersion {
	return &ALPackVersion{
		major: ALPackVerMajor,
		minor: ALPackVerMinor,
		patch: ALPackVerPatch,
		name:  ALPackVerName,
	}
}

// Name returns the alternative name of ALPackVersion
func (v *ALPackVersion) Name() string {
	return v.name
}

// SemVer returns ALPackVersion in semver format
func (v *ALPackVersion) SemVer() string {
	return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
}

// String converts ALPackVersion to a string
func (v *ALPackVersion) String() string {
	return fmt.Sprintf("%s %s\n%s", v.SemVer(), v.name, NewALPackBuildInfo())
}

// ALPackBuild is the info of building environment
type ALPackBuild struct {
	GitHash   string `json:"gitHash"`
	GitRef    string `json:"gitRef"`
	GoVersion string `json:"goVersion"`
	Arch      string `json:"arch"`
}

// NewALPackBuildInfo creates an ALPackBuild object
func NewALPackBuildInfo() *ALPackBuild {
	return &ALPackBuild{
		GitHash:   GitHash,
		GitRef:    GitRef,
		GoVersion: runtime.Version(),
		Arch:      runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String converts ALPackBuild to a string
func (v *ALPackBuild) String() string {
	return fmt.Sprintf("Go Version: %s\nGit Ref: %s\nGitHash: %s\nPlatform: %s", v.GoVersion, v.GitRef, v.GitHash, v.Arch)
}
