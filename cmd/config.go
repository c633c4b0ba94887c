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
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/alpack/alpack/pkg/localdata"
	"github.com/alpack/alpack/pkg/sandbox"
	"github.com/alpack/alpack/pkg/tui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type configOptions struct {
	useProot        bool
	useBwrap        bool
	useLatestStable bool
	useEdge         bool
	cacheDir        string
	rootfsDir       string
	outputDir       string
	defaultMirror   string
	format          string
}

// settingFlags are the flags of the config command that change a setting
var settingFlags = []string{
	"use-proot", "use-bwrap", "use-latest-stable", "use-edge",
	"cache-dir", "rootfs-dir", "output-dir", "default-mirror",
}

func newConfigCmd() *cobra.Command {
	opt := configOptions{}
	cmd := &cobra.Command{
		Use:   "config [flags]",
		Short: "Display or modify global configuration",
		Long: `Display the settings stored in ~/.config/ALPack/config.toml. Values
changed by the given flags are shown as old -> new and saved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opt.useProot && opt.useBwrap {
				return ErrArgs.New("--use-proot and --use-bwrap can not be used together")
			}
			if opt.useLatestStable && opt.useEdge {
				return ErrArgs.New("--use-latest-stable and --use-edge can not be used together")
			}
			st := *settings
			mutated := applyConfigFlags(cmd, &opt, &st)
			if err := st.Validate(); err != nil {
				return err
			}
			if err := printSettings(log.Stdout(), opt.format, &st); err != nil {
				return err
			}
			if !mutated {
				return nil
			}
			if err := store.Save(&st); err != nil {
				return err
			}
			*settings = st
			return nil
		},
	}

	cmd.Flags().BoolVar(&opt.useProot, "use-proot", false, "Use 'proot' as rootfs handler (default)")
	cmd.Flags().BoolVar(&opt.useBwrap, "use-bwrap", false, "Use 'bwrap' as rootfs handler")
	cmd.Flags().BoolVar(&opt.useLatestStable, "use-latest-stable", false, "Use 'latest-stable' release (default)")
	cmd.Flags().BoolVar(&opt.useEdge, "use-edge", false, "Use 'edge' release")
	cmd.Flags().StringVar(&opt.cacheDir, "cache-dir", "", "Set cache `directory`")
	cmd.Flags().StringVar(&opt.rootfsDir, "rootfs-dir", "", "Set rootfs `directory`")
	cmd.Flags().StringVar(&opt.outputDir, "output-dir", "", "Set output `directory` (default current directory)")
	cmd.Flags().StringVar(&opt.defaultMirror, "default-mirror", "", "Set default Alpine mirror `URL`")
	cmd.Flags().StringVar(&opt.format, "format", "table", "Output format, available values are [table, toml, yaml]")

	return cmd
}

// applyConfigFlags copies the flags given on the command line into st and
// reports whether any setting flag was present.
func applyConfigFlags(cmd *cobra.Command, opt *configOptions, st *localdata.Settings) bool {
	flags := cmd.Flags()
	switch {
	case opt.useProot:
		st.CmdRootfs = string(sandbox.Proot)
	case opt.useBwrap:
		st.CmdRootfs = string(sandbox.Bwrap)
	}
	switch {
	case opt.useLatestStable:
		st.Release = localdata.ReleaseLatestStable
	case opt.useEdge:
		st.Release = localdata.ReleaseEdge
	}
	if flags.Changed("cache-dir") {
		st.CacheDir = opt.cacheDir
	}
	if flags.Changed("rootfs-dir") {
		st.RootfsDir = opt.rootfsDir
	}
	if flags.Changed("output-dir") {
		st.OutputDir = opt.outputDir
	}
	if flags.Changed("default-mirror") {
		st.DefaultMirror = opt.defaultMirror
	}

	for _, name := range settingFlags {
		if flags.Changed(name) {
			return true
		}
	}
	return false
}

func printSettings(w io.Writer, format string, st *localdata.Settings) error {
	switch format {
	case "table", "":
		_, err := fmt.Fprint(w, store.DiffReport(st))
		return err
	case "toml":
		return toml.NewEncoder(w).Encode(st)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(st); err != nil {
			return err
		}
		return enc.Close()
	default:
		return ErrArgs.New("Unknown output format '%s'", format).
			WithProperty(tui.SuggestionFromString("Available formats are table, toml and yaml."))
	}
}
