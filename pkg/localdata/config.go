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

package localdata

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	logprinter "github.com/alpack/alpack/pkg/logger/printer"
	"github.com/alpack/alpack/pkg/tui"
	"github.com/alpack/alpack/pkg/utils"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/flock"
	"github.com/r3labs/diff/v2"
	"go.uber.org/zap"
)

// Settings represent the config file of ALPack
type Settings struct {
	DefaultMirror string `toml:"default_mirror" yaml:"default_mirror" default:"https://dl-cdn.alpinelinux.org/alpine/" validate:"required,url"`
	CacheDir      string `toml:"cache_dir" yaml:"cache_dir" validate:"required"`
	RootfsDir     string `toml:"rootfs_dir" yaml:"rootfs_dir" validate:"required"`
	CmdRootfs     string `toml:"cmd_rootfs" yaml:"cmd_rootfs" default:"proot" validate:"oneof=proot bwrap"`
	Release       string `toml:"release" yaml:"release" default:"latest-stable" validate:"oneof=latest-stable edge"`
	OutputDir     string `toml:"output_dir" yaml:"output_dir"`
}

// NewSettings returns the default settings for a user whose home is home
func NewSettings(home string) *Settings {
	s := &Settings{}
	if err := defaults.Set(s); err != nil {
		// only reachable with malformed struct tags
		panic(err)
	}
	s.CacheDir = filepath.Join(home, ".cache", ProfileDirName)
	s.RootfsDir = filepath.Join(home, "."+ProfileDirName)
	return s
}

var validate = validator.New()

// Validate checks every field of the settings
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return ErrValidation.New("Invalid value '%v' for %s (%s)", fe.Value(), tomlKey(fe.StructField()), fe.Tag())
		}
		return ErrValidation.Wrap(err, "Invalid settings")
	}
	return nil
}

// repair replaces the invalid fields of s with the matching field of def and
// returns the keys that were replaced
func (s *Settings) repair(def *Settings) []string {
	err := validate.Struct(s)
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	var keys []string
	v := reflect.ValueOf(s).Elem()
	d := reflect.ValueOf(def).Elem()
	for _, fe := range verrs {
		f := v.FieldByName(fe.StructField())
		if !f.IsValid() || !f.CanSet() {
			continue
		}
		f.Set(d.FieldByName(fe.StructField()))
		keys = append(keys, tomlKey(fe.StructField()))
	}
	return keys
}

func tomlKey(field string) string {
	f, ok := reflect.TypeOf(Settings{}).FieldByName(field)
	if !ok {
		return field
	}
	return strings.Split(f.Tag.Get("toml"), ",")[0]
}

// Store loads and saves Settings at the config path of an Env
type Store struct {
	env    *Env
	path   string
	logger *logprinter.Logger
}

// NewStore returns a Store for env, warnings are written with logger
func NewStore(env *Env, logger *logprinter.Logger) *Store {
	if logger == nil {
		logger = logprinter.NewLogger("")
	}
	return &Store{env: env, path: env.ConfigPath(), logger: logger}
}

// Path returns the location of the settings file
func (s *Store) Path() string {
	return s.path
}

// LoadOrCreate reads the settings file. A missing, empty or broken file is
// replaced by the defaults, which are written back to disk. Problems are
// reported as warnings only.
func (s *Store) LoadOrCreate() *Settings {
	def := NewSettings(s.env.Home())

	if utils.IsNotExist(s.path) {
		s.logger.Warnf("Config file not found, creating a new one...")
		return s.create(def)
	}
	content, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Warnf("Failed to read config file: %s", err)
		return s.create(def)
	}
	if len(bytes.TrimSpace(content)) == 0 {
		s.logger.Warnf("config file is empty. Using default settings.")
		return s.create(def)
	}

	st := NewSettings(s.env.Home())
	if _, err := toml.Decode(string(content), st); err != nil {
		zap.L().Debug("Failed to decode config file", zap.String("path", s.path), zap.Error(err))
		s.logger.Warnf("Failed to parse config file. Using default settings.")
		return s.create(def)
	}
	for _, key := range st.repair(def) {
		s.logger.Warnf("Invalid value for %s in config file, using the default.", key)
	}
	return st
}

func (s *Store) create(def *Settings) *Settings {
	if err := s.Save(def); err != nil {
		s.logger.Warnf("Failed to write default config file: %s", err)
	}
	return def
}

// Save writes the settings to disk while holding a lock next to the file
func (s *Store) Save(st *Settings) error {
	if err := utils.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return ErrConfig.Wrap(err, "Failed to create config directory")
	}

	lock := flock.New(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return ErrConfig.Wrap(err, "Failed to lock %s", s.path)
	}
	defer func() { _ = lock.Unlock() }()

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(st); err != nil {
		return ErrConfig.Wrap(err, "Failed to encode settings")
	}
	if err := utils.WriteFile(s.path, buf.Bytes(), 0644); err != nil {
		return ErrConfig.Wrap(err, "Failed to write %s", s.path)
	}
	zap.L().Debug("Settings saved", zap.String("path", s.path))
	return nil
}

// loadDisk reads the settings file as it is, without defaults. The returned
// metadata tells which keys exist on disk.
func (s *Store) loadDisk() (*Settings, *toml.MetaData) {
	st := &Settings{}
	md, err := toml.DecodeFile(s.path, st)
	if err != nil {
		return nil, nil
	}
	return st, &md
}

// DiffReport renders a table of every setting, marking the values of st that
// differ from the file on disk as `old -> new`. Keys missing on disk only show
// the new value.
func (s *Store) DiffReport(st *Settings) string {
	disk, md := s.loadDisk()

	changed := map[string]diff.Change{}
	if disk != nil {
		changelog, err := diff.Diff(disk, st, diff.TagName("toml"))
		if err != nil {
			zap.L().Debug("Failed to diff settings", zap.Error(err))
		}
		for _, c := range changelog {
			if len(c.Path) > 0 {
				changed[c.Path[0]] = c
			}
		}
	}

	rows := [][]string{{"Setting", "Value"}}
	v := reflect.ValueOf(st).Elem()
	for i := 0; i < v.NumField(); i++ {
		key := tomlKey(v.Type().Field(i).Name)
		val := displayValue(key, v.Field(i).String())

		c, ok := changed[key]
		if ok && md != nil && md.IsDefined(key) {
			old := displayValue(key, fmt.Sprint(c.From))
			val = tui.ColorOldValue.Sprint(old) + " -> " + tui.ColorNewValue.Sprint(val)
		}
		rows = append(rows, []string{key, val})
	}
	return tui.RenderTable(rows, true)
}

func displayValue(key, val string) string {
	if key == "output_dir" && val == "" {
		return OutputDirFallbackLabel
	}
	return val
}
