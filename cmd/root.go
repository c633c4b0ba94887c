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

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alpack/alpack/pkg/localdata"
	"github.com/alpack/alpack/pkg/logger"
	logprinter "github.com/alpack/alpack/pkg/logger/printer"
	"github.com/alpack/alpack/pkg/tui"
	"github.com/alpack/alpack/pkg/utils"
	"github.com/alpack/alpack/pkg/version"
	"github.com/fatih/color"
	"github.com/joomcode/errorx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	rootCmd  *cobra.Command
	gOpt     globalOptions
	log      = logprinter.NewLogger("")
	env      *localdata.Env
	store    *localdata.Store
	settings *localdata.Settings
)

type globalOptions struct {
	DisplayMode string
}

func init() {
	logger.InitGlobalLogger()

	tui.AddColorFunctionsForCobra()

	cobra.EnableCommandSorting = false

	rootCmd = &cobra.Command{
		Use:   tui.OsArgs0(),
		Short: "Alpine Linux rootfs packaging tool",
		Long: `Create and manage Alpine Linux rootfs environments with proot or
bubblewrap (bwrap). Running without a command enters the rootfs.

Environment variables:
  ALPACK_ARCH       Target architecture of the rootfs (e.g. x86_64, aarch64)
  ALPACK_ROOTFS     Path of the rootfs used by ALPack
  ALPACK_CACHE      Path of the cache directory used by ALPack`,
		Example: fmt.Sprintf(`  %[1]s setup --rootfs=/mnt/alpine --minimal --edge
  %[1]s apk --rootfs=/mnt/alpine install curl
  %[1]s run -R /mnt/alpine -0 -- fdisk -l`, tui.OsArgs0()),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.NewALPackVersion().String(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.SetDisplayModeFromString(gOpt.DisplayMode)
			loadSettings()
			return nil
		},
	}

	tui.BeautifyCobraUsageAndHelp(rootCmd)

	rootCmd.Flags().BoolP("version", "V", false, "Show version")
	rootCmd.PersistentFlags().StringVar(&gOpt.DisplayMode, "display-mode", "default", "The format of output, available values are [default, plain, json]")

	rootCmd.AddCommand(
		newSetupCmd(),
		newRunCmd(),
		newConfigCmd(),
		newApkCmd(),
	)
	rootCmd.AddCommand(newApkShortcutCmds()...)
	rootCmd.AddCommand(newVersionCmd())
}

func loadSettings() {
	env = localdata.NewEnv()
	store = localdata.NewStore(env, log)
	settings = store.LoadOrCreate()

	fields := []zap.Field{
		zap.String("config", store.Path()),
		zap.String("rootfs", env.RootfsDir(settings)),
		zap.String("cache", env.CacheDir(settings)),
		zap.String("arch", env.Arch()),
	}
	if dir, fallback, err := env.OutputDir(settings); err == nil {
		fields = append(fields, zap.String("output", dir), zap.Bool("output_fallback", fallback))
	}
	zap.L().Debug("Settings loaded", fields...)
}

// normalizeArgs maps the legacy flag-like shortcuts to commands and enters
// the rootfs when no command is given.
func normalizeArgs(args []string) []string {
	if len(args) == 0 {
		return []string{"run"}
	}
	out := append([]string(nil), args...)
	switch out[0] {
	case "-s":
		out[0] = "search"
	case "-u":
		out[0] = "update"
	}
	return out
}

func printErrorMessageForNormalError(err error) {
	_, _ = tui.ColorErrorMsg.Fprintf(os.Stderr, "\nError: %s\n", err.Error())
}

func printErrorMessageForErrorX(err *errorx.Error) {
	msg := ""
	ident := 0
	causeErrX := err
	for causeErrX != nil {
		if ident > 0 {
			msg += strings.Repeat("  ", ident) + "caused by: "
		}
		currentErrMsg := causeErrX.Message()
		if len(currentErrMsg) > 0 {
			if ident == 0 {
				// Print error code only for top level error
				msg += fmt.Sprintf("%s (%s)\n", currentErrMsg, causeErrX.Type().FullName())
			} else {
				msg += fmt.Sprintf("%s\n", currentErrMsg)
			}
			ident++
		}
		cause := causeErrX.Cause()
		if c := errorx.Cast(cause); c != nil {
			causeErrX = c
		} else {
			if cause != nil {
				if ident > 0 {
					// The error may have empty message. In this case we treat it as a transparent error.
					// Thus `ident == 0` can be possible.
					msg += strings.Repeat("  ", ident) + "caused by: "
				}
				msg += fmt.Sprintf("%s\n", cause.Error())
			}
			break
		}
	}
	_, _ = tui.ColorErrorMsg.Fprintf(os.Stderr, "\nError: %s", msg)
}

func extractSuggestionFromErrorX(err *errorx.Error) string {
	cause := err
	for cause != nil {
		v, ok := cause.Property(utils.ErrPropSuggestion)
		if ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
		cause = errorx.Cast(cause.Cause())
	}

	return ""
}

func debugLogDir() string {
	if env == nil {
		env = localdata.NewEnv()
	}
	s := settings
	if s == nil {
		s = localdata.NewSettings(env.Home())
	}
	return env.LogDir(s)
}

// Execute executes the root command
func Execute() {
	zap.L().Info("Execute command", zap.String("command", tui.OsArgs()))
	zap.L().Debug("Environment variables", zap.Strings("env", os.Environ()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := 0
	rootCmd.SetArgs(normalizeArgs(os.Args[1:]))
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		code = 1
	}
	stop()

	zap.L().Info("Execute command finished", zap.Int("code", code), zap.Error(err))

	switch log.GetDisplayMode() {
	case logprinter.DisplayModeJSON:
		obj := struct {
			Code int    `json:"exit_code"`
			Err  string `json:"error,omitempty"`
		}{
			Code: code,
		}
		if err != nil {
			obj.Err = err.Error()
		}
		data, err := json.Marshal(obj)
		if err != nil {
			fmt.Printf("{\"exit_code\":%d, \"error\":\"%s\"}", code, err)
		}
		fmt.Fprintln(os.Stderr, string(data))
	default:
		if err != nil {
			if errx := errorx.Cast(err); errx != nil {
				printErrorMessageForErrorX(errx)
			} else {
				printErrorMessageForNormalError(err)
			}

			if !errorx.HasTrait(err, utils.ErrTraitPreCheck) {
				logger.OutputDebugLog(debugLogDir(), "alpack")
			}

			if errx := errorx.Cast(err); errx != nil {
				if suggestion := extractSuggestionFromErrorX(errx); len(suggestion) > 0 {
					_, _ = fmt.Fprintf(os.Stderr, "\n%s\n", suggestion)
				}
			}
		}
	}

	color.Unset()

	if code != 0 {
		os.Exit(code)
	}
}
