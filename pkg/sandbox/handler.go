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
	"io"
	"strings"

	"github.com/alpack/alpack/pkg/localdata"
	"github.com/alpack/alpack/pkg/tui"
	"github.com/alpack/alpack/pkg/utils"
	"github.com/joomcode/errorx"
)

var (
	errNS = errorx.NewNamespace("sandbox")

	// ErrProcess is raised when a command inside the rootfs fails
	ErrProcess = errNS.NewType("external_process")
	// ErrHandler is raised for unknown or unavailable sandbox handlers
	ErrHandler = errNS.NewType("handler", utils.ErrTraitPreCheck)
	// ErrUnsupported is raised when no handler binary exists for the host
	ErrUnsupported = ErrHandler.NewSubtype("unsupported")
)

// Handler is the tool used to enter a rootfs
type Handler string

// supported handlers
const (
	Proot Handler = localdata.HandlerProot
	Bwrap Handler = localdata.HandlerBwrap
)

// ParseHandler validates a handler name
func ParseHandler(s string) (Handler, error) {
	switch h := Handler(strings.TrimSpace(s)); h {
	case Proot, Bwrap:
		return h, nil
	default:
		return "", ErrHandler.New("Unknown rootfs handler '%s'", s).
			WithProperty(tui.SuggestionFromFormat("Use `%s config --use-proot` or `%s config --use-bwrap`", tui.OsArgs0(), tui.OsArgs0()))
	}
}

// RunOptions customizes a command run inside the rootfs
type RunOptions struct {
	// Root maps the calling user to root inside the rootfs
	Root bool
	// IgnoreExtraBinds drops the default host binds
	IgnoreExtraBinds bool
	// Binds are extra handler arguments, split on white space
	Binds []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Runner runs a shell command inside a rootfs. An empty command starts a
// login shell.
type Runner interface {
	Run(ctx context.Context, rootfs, command string, opts RunOptions) error
}

// host paths shared with the rootfs unless IgnoreExtraBinds is set
var extraBinds = []string{"/tmp"}

// Args returns the handler arguments, without the binary itself, that run
// command inside rootfs.
func Args(h Handler, rootfs, command string, opts RunOptions) []string {
	var args []string
	switch h {
	case Bwrap:
		args = append(args,
			"--bind", rootfs, "/",
			"--dev", "/dev",
			"--proc", "/proc",
			"--bind", "/etc/resolv.conf", "/etc/resolv.conf",
			"--share-net")
		if opts.Root {
			args = append(args, "--uid", "0", "--gid", "0")
		}
		args = append(args, "--unshare-user")
		if !opts.IgnoreExtraBinds {
			for _, b := range extraBinds {
				args = append(args, "--bind", b, b)
			}
		}
		args = append(args, "--chdir", "/")
	default:
		args = append(args, "-R", rootfs)
		if opts.Root {
			args = append(args, "-0")
		}
		args = append(args, "-w", "/")
		if !opts.IgnoreExtraBinds {
			for _, b := range extraBinds {
				args = append(args, "-b", b+":"+b)
			}
		}
	}

	for _, b := range opts.Binds {
		args = append(args, strings.Fields(b)...)
	}
	return append(args, shell(command)...)
}

func shell(command string) []string {
	if strings.TrimSpace(command) == "" {
		return []string{"/bin/sh", "-l"}
	}
	return []string{"/bin/sh", "-c", command}
}
