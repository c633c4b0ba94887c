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

package task

import (
	"context"

	logprinter "github.com/alpack/alpack/pkg/logger/printer"
	"github.com/alpack/alpack/pkg/repository"
)

type contextKey string

const ctxKey = contextKey("TASK_CONTEXT")

// Context is the state shared by the tasks of one provisioning run. Tasks are
// executed one after another so the fields are not guarded.
type Context struct {
	Ev EventBus

	// Mirror is the selected mirror, set by ResolveMirror
	Mirror repository.MirrorSelection
	// Index is the body of the release index page
	Index []byte
	// Candidate is the newest rootfs image of the index
	Candidate *repository.CandidateEntry
	// ArchivePath is the local path of the downloaded image
	ArchivePath string
	// RootfsDir is the directory the rootfs is installed to, it changes if the
	// archive had to be extracted to the fallback location
	RootfsDir string
}

// New create a context instance.
func New(ctx context.Context, logger *logprinter.Logger) context.Context {
	return context.WithValue(
		context.WithValue(ctx, logprinter.ContextKeyLogger, logger),
		ctxKey,
		&Context{
			Ev: NewEventBus(),
		},
	)
}

// GetInner return *Context from context.Context's value
func GetInner(ctx context.Context) *Context {
	return ctx.Value(ctxKey).(*Context)
}

func loggerFrom(ctx context.Context) *logprinter.Logger {
	if l, ok := ctx.Value(logprinter.ContextKeyLogger).(*logprinter.Logger); ok && l != nil {
		return l
	}
	return logprinter.NewLogger("")
}
