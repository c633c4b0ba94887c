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
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	logprinter "github.com/alpack/alpack/pkg/logger/printer"
	"go.uber.org/zap"
)

// stderr bytes kept for the error message of a failed command
const tailSize = 2048

// ExecRunner runs commands through a handler binary on the host
type ExecRunner struct {
	Handler Handler
	// Binary is the path of the handler executable
	Binary string
}

// NewExecRunner returns an ExecRunner
func NewExecRunner(h Handler, binary string) *ExecRunner {
	return &ExecRunner{Handler: h, Binary: binary}
}

// Run implements the Runner interface
func (r *ExecRunner) Run(ctx context.Context, rootfs, command string, opts RunOptions) error {
	args := Args(r.Handler, rootfs, command, opts)
	zap.L().Debug("Run in rootfs",
		zap.String("handler", r.Binary),
		zap.Strings("args", args))
	logprinter.Verbose("Executing: %s %s", r.Binary, strings.Join(args, " "))

	c := exec.CommandContext(ctx, r.Binary, args...)
	c.Stdin = opts.Stdin
	if c.Stdin == nil {
		c.Stdin = os.Stdin
	}
	c.Stdout = opts.Stdout
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	tail := &tailBuffer{max: tailSize}
	c.Stderr = io.MultiWriter(stderr, tail)

	err := c.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		msg := strings.TrimSpace(tail.String())
		if msg == "" {
			return ErrProcess.New("`%s` failed in %s, exit code %d", command, rootfs, exitErr.ExitCode())
		}
		return ErrProcess.New("`%s` failed in %s, exit code %d: %s", command, rootfs, exitErr.ExitCode(), msg)
	}
	return ErrProcess.Wrap(err, "Failed to start %s", r.Binary)
}

// tailBuffer keeps the last max bytes written to it
type tailBuffer struct {
	mu  sync.Mutex
	max int
	buf bytes.Buffer
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf.Write(p)
	if over := t.buf.Len() - t.max; over > 0 {
		t.buf.Next(over)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.String()
}
