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

package sandbox

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/alpack/alpack/pkg/localdata"
	"github.com/alpack/alpack/pkg/tui"
	"github.com/alpack/alpack/pkg/utils"
	"go.uber.org/zap"
)

// static builds of the handlers, only published for x86_64
var handlerURL = map[Handler]string{
	Proot: "https://github.com/LinuxDicasPro/StaticHub/releases/download/proot/proot",
	Bwrap: "https://github.com/LinuxDicasPro/StaticHub/releases/download/bwrap/bwrap",
}

// Fetcher downloads url to destDir/filename unless the file is there already
type Fetcher interface {
	Fetch(ctx context.Context, url, destDir, filename string) (string, error)
}

// Locator finds the handler binary on the host, downloading it as a last resort
type Locator struct {
	BinDir   string
	Fetcher  Fetcher
	LookPath func(string) (string, error)
	GOARCH   string
	URLs     map[Handler]string
}

// NewLocator returns a Locator that installs downloads in ~/.local/bin
func NewLocator(env *localdata.Env, fetcher Fetcher) *Locator {
	return &Locator{
		BinDir:   env.LocalBinDir(),
		Fetcher:  fetcher,
		LookPath: exec.LookPath,
		GOARCH:   runtime.GOARCH,
		URLs:     handlerURL,
	}
}

// Locate returns the path of the handler binary: from PATH, then from the
// local bin directory, then downloaded into it.
func (l *Locator) Locate(ctx context.Context, h Handler) (string, error) {
	if p, err := l.LookPath(string(h)); err == nil {
		return p, nil
	}

	local := filepath.Join(l.BinDir, string(h))
	if utils.IsExist(local) {
		return local, nil
	}

	url, ok := l.URLs[h]
	if !ok {
		return "", ErrHandler.New("Unknown rootfs handler '%s'", h)
	}
	if l.GOARCH != "amd64" || l.Fetcher == nil {
		return "", ErrUnsupported.New("%s not found in the system and no binary is available for this architecture", h).
			WithProperty(tui.SuggestionFromFormat("Install %s with the package manager of your system", h))
	}

	zap.L().Info("Downloading rootfs handler", zap.String("handler", string(h)), zap.String("url", url))
	dir, err := l.Fetcher.Fetch(ctx, url, l.BinDir, string(h))
	if err != nil {
		return "", err
	}
	bin := filepath.Join(dir, string(h))
	if err := os.Chmod(bin, 0755); err != nil {
		return "", utils.ErrFilesystem.Wrap(err, "Failed to make %s executable", bin)
	}
	return bin, nil
}

// LocateHandler is a shortcut of NewLocator(env, fetcher).Locate(ctx, h)
func LocateHandler(ctx context.Context, env *localdata.Env, h Handler, fetcher Fetcher) (string, error) {
	return NewLocator(env, fetcher).Locate(ctx, h)
}

// LocatingRunner is a Runner that looks for the handler binary the first time
// a command is run
type LocatingRunner struct {
	Handler Handler
	Locator *Locator

	runner *ExecRunner
}

// NewLocatingRunner returns a LocatingRunner for h
func NewLocatingRunner(h Handler, l *Locator) *LocatingRunner {
	return &LocatingRunner{Handler: h, Locator: l}
}

// Run implements the Runner interface
func (r *LocatingRunner) Run(ctx context.Context, rootfs, command string, opts RunOptions) error {
	if r.runner == nil {
		bin, err := r.Locator.Locate(ctx, r.Handler)
		if err != nil {
			return err
		}
		r.runner = NewExecRunner(r.Handler, bin)
	}
	return r.runner.Run(ctx, rootfs, command, opts)
}
