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

package localdata

// ProfileDirName is the name of the profile directory under ~/.config and ~/.cache
var ProfileDirName = "ALPack"

const (
	// ConfigFileName is the name of the settings file in the profile directory
	ConfigFileName = "config.toml"

	// DefaultMirror is the Alpine mirror used when none is configured
	DefaultMirror = "https://dl-cdn.alpinelinux.org/alpine/"

	// NoCacheDir is the throwaway cache used by `setup --no-cache`
	NoCacheDir = "/tmp/ALPack_cache"

	// ReleaseLatestStable and ReleaseEdge are the release channels of the mirror
	ReleaseLatestStable = "latest-stable"
	ReleaseEdge         = "edge"

	// HandlerProot and HandlerBwrap are the supported sandbox handlers
	HandlerProot = "proot"
	HandlerBwrap = "bwrap"

	// OutputDirFallbackLabel is displayed for an empty output_dir
	OutputDirFallbackLabel = "Current Directory or Home Fallback"
)

const (
	// EnvNameArch overrides the architecture of the rootfs image
	EnvNameArch = "ALPACK_ARCH"

	// EnvNameArchFallback is consulted when EnvNameArch is not set
	EnvNameArchFallback = "ARCH"

	// EnvNameRootfs overrides the rootfs_dir setting
	EnvNameRootfs = "ALPACK_ROOTFS"

	// EnvNameCache overrides the cache_dir setting
	EnvNameCache = "ALPACK_CACHE"

	// EnvNameHome represents the home directory of the current user
	EnvNameHome = "HOME"

	// EnvNameLogPath is the directory debug logs are written to on failures
	EnvNameLogPath = "ALPACK_LOG_PATH"
)
