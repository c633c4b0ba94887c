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
	"github.com/alpack/alpack/pkg/localdata"
	"github.com/alpack/alpack/pkg/sandbox"
	"github.com/alpack/alpack/pkg/utils"
)

// Builder is used to build ALPack task
type Builder struct {
	tasks []Task
}

// NewBuilder returns a *Builder instance
func NewBuilder() *Builder {
	return &Builder{}
}

// ValidateTarget appends a ValidateTarget task to the current task collection
func (b *Builder) ValidateTarget(target, fallback string) *Builder {
	b.tasks = append(b.tasks, &ValidateTarget{
		target:   target,
		fallback: fallback,
	})
	return b
}

// ResolveMirror appends a ResolveMirror task to the current task collection
func (b *Builder) ResolveMirror(settings *localdata.Settings, mirror, release, arch string) *Builder {
	b.tasks = append(b.tasks, &ResolveMirror{
		settings: settings,
		mirror:   mirror,
		release:  release,
		arch:     arch,
	})
	return b
}

// FetchIndex appends a FetchIndex task to the current task collection
func (b *Builder) FetchIndex(fetcher Fetcher) *Builder {
	b.tasks = append(b.tasks, &FetchIndex{fetcher: fetcher})
	return b
}

// SelectVersion appends a SelectVersion task to the current task collection
func (b *Builder) SelectVersion() *Builder {
	b.tasks = append(b.tasks, &SelectVersion{})
	return b
}

// Download appends a Download task to the current task collection
func (b *Builder) Download(fetcher Fetcher, cacheDir string) *Builder {
	b.tasks = append(b.tasks, &Download{
		fetcher:  fetcher,
		cacheDir: cacheDir,
	})
	return b
}

// Extract appends an Extract task to the current task collection
func (b *Builder) Extract(opts utils.ExtractOptions) *Builder {
	b.tasks = append(b.tasks, &Extract{options: opts})
	return b
}

// RemoveDir appends a RemoveDir task to the current task collection
func (b *Builder) RemoveDir(path string) *Builder {
	b.tasks = append(b.tasks, &RemoveDir{path: path})
	return b
}

// WriteRepoManifest appends a WriteRepoManifest task to the current task collection
func (b *Builder) WriteRepoManifest() *Builder {
	b.tasks = append(b.tasks, &WriteRepoManifest{})
	return b
}

// Apk appends an Apk task to the current task collection
func (b *Builder) Apk(runner sandbox.Runner, command string) *Builder {
	b.tasks = append(b.tasks, &Apk{
		runner:  runner,
		command: command,
	})
	return b
}

// Done appends the final message to the current task collection
func (b *Builder) Done(cmd string) *Builder {
	b.tasks = append(b.tasks, &Done{cmd: cmd})
	return b
}

// Build returns a task that contains all tasks appended by previous operation
func (b *Builder) Build() Task {
	return &Serial{inner: b.tasks}
}
