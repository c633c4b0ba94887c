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
	"github.com/alpack/alpack/pkg/provision"
	"github.com/alpack/alpack/pkg/repository"
	"github.com/alpack/alpack/pkg/tui"
	"github.com/spf13/cobra"
)

func newSetupCmd() *cobra.Command {
	opt := provision.Options{}
	cmd := &cobra.Command{
		Use:   "setup [flags]",
		Short: "Initialize or configure the rootfs environment",
		Long: `Download the newest Alpine minirootfs of the mirror, install it into the
rootfs directory and prepare its package manager.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := newRunner()
			if err != nil {
				return err
			}
			opt.Settings = settings
			opt.Env = env
			opt.Runner = runner
			opt.Logger = log
			opt.Progress = repository.NewProgress()
			opt.Cmd = tui.OsArgs0()
			return provision.Run(cmd.Context(), opt)
		},
	}

	cmd.Flags().BoolVar(&opt.NoCache, "no-cache", false, "Disable caching during the operation")
	cmd.Flags().BoolVarP(&opt.Reinstall, "reinstall", "r", false, "Install over an existing rootfs")
	cmd.Flags().BoolVar(&opt.Edge, "edge", false, "Use the edge (testing) repository")
	cmd.Flags().BoolVar(&opt.Minimal, "minimal", false, "Install only the minimal set of packages")
	cmd.Flags().StringVar(&opt.Mirror, "mirror", "", "Use the specified mirror `URL` instead of the default one")
	cmd.Flags().StringVar(&opt.CacheDir, "cache", "", "Specify cache `directory`")
	cmd.Flags().StringVarP(&opt.RootfsDir, "rootfs", "R", "", "Specify rootfs `directory`")

	return cmd
}
