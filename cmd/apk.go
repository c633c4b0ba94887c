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

package cmd

import (
	"strings"

	"github.com/alpack/alpack/pkg/sandbox"
	"github.com/alpack/alpack/pkg/tui"
	"github.com/spf13/cobra"
)

// apkCommand maps a sub command to the apk invocation it stands for
func apkCommand(sub string) string {
	switch sub {
	case "add", "install":
		return "apk add"
	case "del", "remove":
		return "apk del"
	case "-u", "update":
		return "apk update; apk upgrade"
	case "-s", "search":
		return "apk search"
	case "fix":
		return "apk fix"
	default:
		return "apk " + sub
	}
}

// splitRootfsFlag takes -R/--rootfs out of args, every other argument is kept
// in order for apk.
func splitRootfsFlag(args []string) (rootfs string, rest []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-R" || arg == "--rootfs":
			if i+1 < len(args) {
				rootfs = args[i+1]
				i++
			}
		case strings.HasPrefix(arg, "--rootfs="):
			rootfs = strings.TrimPrefix(arg, "--rootfs=")
		default:
			rest = append(rest, arg)
		}
	}
	return rootfs, rest
}

func isHelp(args []string) bool {
	return len(args) > 0 && (args[0] == "-h" || args[0] == "--help")
}

func runApk(cmd *cobra.Command, rootfs, command string, args []string) error {
	dir := rootfsDir(rootfs)
	if err := checkRootfsExists(dir); err != nil {
		return err
	}
	runner, err := newRunner()
	if err != nil {
		return err
	}
	line := strings.TrimSpace(command + " " + strings.Join(args, " "))
	return runner.Run(cmd.Context(), dir, line, sandbox.RunOptions{
		Root:             true,
		IgnoreExtraBinds: true,
	})
}

func newApkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                "apk [-R DIR] <command> [ARGS...]",
		Short:              "Run the Alpine package manager (apk)",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if isHelp(args) {
				return cmd.Help()
			}
			rootfs, rest := splitRootfsFlag(args)
			if len(rest) == 0 {
				return ErrArgs.New("apk: no command specified").
					WithProperty(tui.SuggestionFromFormat("Use '%s apk --help' to see available options.", tui.OsArgs0()))
			}
			return runApk(cmd, rootfs, apkCommand(rest[0]), rest[1:])
		},
	}
	return cmd
}

func newApkShortcutCmds() []*cobra.Command {
	shortcuts := []struct {
		use     string
		aliases []string
		short   string
		minArgs int
	}{
		{"add", []string{"install"}, "Install packages into the rootfs", 1},
		{"del", []string{"remove"}, "Remove packages from the rootfs", 1},
		{"search", nil, "Search for available packages (-s)", 0},
		{"update", nil, "Update the package index and upgrade installed packages (-u)", 0},
		{"fix", nil, "Attempt to fix broken packages", 0},
	}

	cmds := make([]*cobra.Command, 0, len(shortcuts))
	for _, s := range shortcuts {
		apk := apkCommand(s.use)
		cmds = append(cmds, &cobra.Command{
			Use:                s.use + " [-R DIR] [ARGS...]",
			Aliases:            s.aliases,
			Short:              s.short,
			DisableFlagParsing: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				if isHelp(args) {
					return cmd.Help()
				}
				rootfs, rest := splitRootfsFlag(args)
				if shouldContinue, err := tui.CheckCommandArgsAndMayPrintHelp(cmd, rest, s.minArgs); err != nil || !shouldContinue {
					return err
				}
				return runApk(cmd, rootfs, apk, rest)
			},
		})
	}
	return cmds
}
