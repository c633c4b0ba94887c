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

package provision

import (
	"context"
	"os"
	"time"

	"github.com/alpack/alpack/pkg/localdata"
	logprinter "github.com/alpack/alpack/pkg/logger/printer"
	"github.com/alpack/alpack/pkg/repository"
	"github.com/alpack/alpack/pkg/sandbox"
	"github.com/alpack/alpack/pkg/task"
	"github.com/alpack/alpack/pkg/utils"
	"github.com/joomcode/errorx"
	perrs "github.com/pingcap/errors"
	"go.uber.org/zap"
)

// Options are the inputs of a setup run
type Options struct {
	Settings *localdata.Settings
	Env      *localdata.Env

	// Mirror, RootfsDir and CacheDir override the settings when not empty
	Mirror    string
	RootfsDir string
	CacheDir  string

	NoCache bool
	// NoCacheDir is the throwaway cache of a NoCache run, localdata.NoCacheDir
	// when empty
	NoCacheDir string
	Reinstall  bool
	Edge       bool
	Minimal    bool

	// Fetcher defaults to a repository.Fetcher falling back to the default
	// rootfs directory
	Fetcher task.Fetcher
	Runner  sandbox.Runner
	Dirs    utils.DirMaker
	// Progress is shown while extracting
	Progress utils.Progress
	Logger   *logprinter.Logger

	// Cmd is the program name used in the final message
	Cmd string
}

// Plan holds the resolved locations of a setup run
type Plan struct {
	RootfsDir  string
	Fallback   string
	CacheDir   string
	Release    string
	Arch       string
	cleanCache bool
}

// NewPlan resolves the directories and release channel of opts
func NewPlan(opts *Options) Plan {
	p := Plan{
		RootfsDir: opts.RootfsDir,
		Fallback:  opts.Env.RootfsDir(opts.Settings),
		CacheDir:  opts.CacheDir,
		Arch:      opts.Env.Arch(),
	}
	if p.RootfsDir == "" {
		p.RootfsDir = p.Fallback
	}
	if p.CacheDir == "" {
		p.CacheDir = opts.Env.CacheDir(opts.Settings)
	}
	if opts.NoCache {
		p.CacheDir = opts.NoCacheDir
		if p.CacheDir == "" {
			p.CacheDir = localdata.NoCacheDir
		}
		p.cleanCache = true
	}
	if opts.Edge {
		p.Release = localdata.ReleaseEdge
	}
	return p
}

// Run downloads the newest minirootfs of the selected mirror, installs it and
// prepares its package manager.
func Run(ctx context.Context, opts Options) error {
	if opts.Logger == nil {
		opts.Logger = logprinter.NewLogger("")
	}
	if opts.Runner == nil {
		return perrs.New("no sandbox runner configured")
	}
	p := NewPlan(&opts)
	zap.L().Debug("Setup plan",
		zap.String("rootfs", p.RootfsDir),
		zap.String("fallback", p.Fallback),
		zap.String("cache", p.CacheDir),
		zap.String("arch", p.Arch))

	if opts.Fetcher == nil {
		opts.Fetcher = repository.NewFetcher(repository.FetchOptions{
			Fallback: p.Fallback,
			Dirs:     opts.Dirs,
			Progress: repository.NewProgress(),
			Logger:   opts.Logger,
		})
	}
	if p.cleanCache {
		// also covers failures before the cleanup step
		defer func() { _ = os.RemoveAll(p.CacheDir) }()
	}

	b := task.NewBuilder()
	if !opts.Reinstall {
		b.ValidateTarget(p.RootfsDir, p.Fallback)
	}
	b.ResolveMirror(opts.Settings, opts.Mirror, p.Release, p.Arch).
		FetchIndex(opts.Fetcher).
		SelectVersion().
		Download(opts.Fetcher, p.CacheDir).
		Extract(utils.ExtractOptions{
			Fallback: p.Fallback,
			Dirs:     opts.Dirs,
			Progress: opts.Progress,
			Logger:   opts.Logger,
		})
	if p.cleanCache {
		b.RemoveDir(p.CacheDir)
	}
	b.WriteRepoManifest().
		Apk(opts.Runner, task.ApkUpdateCmd)
	if !opts.Minimal {
		b.Apk(opts.Runner, task.ApkToolchainCmd)
	}
	t := b.Done(opts.Cmd).Build()

	tctx := task.New(ctx, opts.Logger)
	task.GetInner(tctx).RootfsDir = p.RootfsDir
	logStepCost(tctx)

	if err := t.Execute(tctx); err != nil {
		if errorx.Cast(err) != nil {
			return err
		}
		return perrs.Trace(err)
	}
	return nil
}

func logStepCost(ctx context.Context) {
	ev := &task.GetInner(ctx).Ev
	ev.OnBegin(func(t task.Task) {
		zap.L().Debug("Step started", zap.String("step", task.StepName(t)))
	})
	ev.OnFinish(func(t task.Task, cost time.Duration, err error) {
		name := task.StepName(t)
		if err != nil {
			zap.L().Info("Step failed", zap.String("step", name), zap.Duration("cost", cost), zap.Error(err))
			return
		}
		zap.L().Info("Step finished", zap.String("step", name), zap.Duration("cost", cost))
	})
}
