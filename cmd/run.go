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
	"github.com/spf13/cobra"
)

type runOptions struct {
	root             bool
	ignoreExtraBinds bool
	binds            []string
	commands         []string
	rootfs           string
}

func newRunCmd() *cobra.Command {
	opt := runOptions{}
	cmd := &cobra.Command{
		Use:   "run [flags] [-- ARGS...]",
		Short: "Execute command inside the rootfs",
		Long: `Run a command inside the rootfs. Without -c and arguments a login shell
is started.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := rootfsDir(opt.rootfs)
			if err := checkRootfsExists(dir); err != nil {
				return err
			}
			runner, err := newRunner()
			if err != nil {
				return err
			}
			return runner.Run(cmd.Context(), dir, joinCommands(opt.commands, args), sandbox.RunOptions{
				Root:             opt.root,
				IgnoreExtraBinds: opt.ignoreExtraBinds,
				Binds:            opt.binds,
			})
		},
	}

	cmd.Flags().BoolVarP(&opt.root, "root", "0", false, "Run with root privileges inside rootfs")
	cmd.Flags().BoolVarP(&opt.ignoreExtraBinds, "ignore-extra-binds", "i", false, "Ignore additional bind mounts")
	cmd.Flags().StringArrayVarP(&opt.binds, "bind-args", "b", nil, "Additional bind arguments passed to the handler")
	cmd.Flags().StringArrayVarP(&opt.commands, "command", "c", nil, "Command to execute inside rootfs (can be repeated)")
	cmd.Flags().StringVarP(&opt.rootfs, "rootfs", "R", "", "Specify rootfs `directory`")

	return cmd
}

// joinCommands chains the -c commands and the trailing arguments into one
// shell command line.
func joinCommands(commands, args []string) string {
	parts := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		if c = strings.TrimSpace(c); c != "" {
			parts = append(parts, c)
		}
	}
	if len(args) > 0 {
		parts = append(parts, strings.Join(args, " "))
	}
	return strings.Join(parts, " && ")
}
