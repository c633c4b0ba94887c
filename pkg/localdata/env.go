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
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

// Env is the process environment seen by ALPack. It is built once in main and
// handed to whoever needs to resolve a setting.
type Env struct {
	getenv func(string) string
	getwd  func() (string, error)
	home   string
	goarch string
}

// NewEnv returns the environment of the running process
func NewEnv() *Env {
	home := os.Getenv(EnvNameHome)
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return &Env{
		getenv: os.Getenv,
		getwd:  os.Getwd,
		home:   home,
		goarch: runtime.GOARCH,
	}
}

// NewEnvFromMap builds an Env whose variables are read from vars only. HOME
// is taken from vars as well.
func NewEnvFromMap(vars map[string]string) *Env {
	return &Env{
		getenv: func(k string) string { return vars[k] },
		getwd:  os.Getwd,
		home:   vars[EnvNameHome],
		goarch: runtime.GOARCH,
	}
}

// WithWorkDir replaces the working directory lookup, used by OutputDir
func (e *Env) WithWorkDir(getwd func() (string, error)) *Env {
	e.getwd = getwd
	return e
}

// WithGOARCH replaces the host architecture reported by Arch
func (e *Env) WithGOARCH(goarch string) *Env {
	e.goarch = goarch
	return e
}

// Getenv returns the value of the variable, empty if unset
func (e *Env) Getenv(key string) string {
	return e.getenv(key)
}

// Home returns the home directory of the current user
func (e *Env) Home() string {
	return e.home
}

// ConfigPath returns the location of the settings file
func (e *Env) ConfigPath() string {
	return filepath.Join(e.home, ".config", ProfileDirName, ConfigFileName)
}

// LocalBinDir returns ~/.local/bin
func (e *Env) LocalBinDir() string {
	return filepath.Join(e.home, ".local", "bin")
}

// Arch returns the Alpine architecture to provision: ALPACK_ARCH, then ARCH,
// then the architecture of the host.
func (e *Env) Arch() string {
	if v := e.getenv(EnvNameArch); v != "" {
		return v
	}
	if v := e.getenv(EnvNameArchFallback); v != "" {
		return v
	}
	return AlpineArch(e.goarch)
}

// RootfsDir resolves the rootfs directory, ALPACK_ROOTFS wins over the setting
func (e *Env) RootfsDir(s *Settings) string {
	if v := e.getenv(EnvNameRootfs); v != "" {
		return v
	}
	return s.RootfsDir
}

// CacheDir resolves the cache directory, ALPACK_CACHE wins over the setting
func (e *Env) CacheDir(s *Settings) string {
	if v := e.getenv(EnvNameCache); v != "" {
		return v
	}
	return s.CacheDir
}

// LogDir is where debug logs are dumped when ALPACK_LOG_PATH is not set
func (e *Env) LogDir(s *Settings) string {
	return filepath.Join(e.CacheDir(s), "logs")
}

// OutputDir resolves the output directory. An empty setting means the current
// directory, or HOME if listing the current directory is not permitted.
func (e *Env) OutputDir(s *Settings) (dir string, usedFallback bool, err error) {
	if s.OutputDir != "" {
		return s.OutputDir, false, nil
	}
	cwd, err := e.getwd()
	if err != nil {
		return "", false, ErrConfig.Wrap(err, "Failed to get the current directory")
	}
	if _, err := os.ReadDir(cwd); err != nil {
		if stderrors.Is(err, fs.ErrPermission) {
			return e.home, true, nil
		}
		return "", false, ErrConfig.Wrap(err, "Failed to read the current directory %s", cwd)
	}
	return cwd, false, nil
}

var alpineArch = map[string]string{
	"amd64":   "x86_64",
	"arm64":   "aarch64",
	"386":     "x86",
	"arm":     "armv7",
	"ppc64le": "ppc64le",
	"s390x":   "s390x",
	"riscv64": "riscv64",
	"loong64": "loongarch64",
}

// AlpineArch maps a GOARCH value to the name Alpine uses in its release tree.
// Unknown values are returned as is.
func AlpineArch(goarch string) string {
	if a, ok := alpineArch[goarch]; ok {
		return a
	}
	return goarch
}
