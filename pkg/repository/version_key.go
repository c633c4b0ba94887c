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

package repository

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var versionKeyRegexp = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)(?:[_-]?([a-zA-Z0-9]+))?$`)

// VersionKey is the sortable form of an Alpine release version such as
// 3.19.2 or 3.20.0_rc1
type VersionKey struct {
	Major  uint64
	Minor  uint64
	Patch  uint64
	Suffix string
}

// ParseVersionKey parses a version string. The second value is false if
// the string is not a release version.
func ParseVersionKey(s string) (VersionKey, bool) {
	m := versionKeyRegexp.FindStringSubmatch(s)
	if m == nil {
		return VersionKey{}, false
	}
	var (
		key VersionKey
		err error
	)
	if key.Major, err = strconv.ParseUint(m[1], 10, 64); err != nil {
		return VersionKey{}, false
	}
	if key.Minor, err = strconv.ParseUint(m[2], 10, 64); err != nil {
		return VersionKey{}, false
	}
	if key.Patch, err = strconv.ParseUint(m[3], 10, 64); err != nil {
		return VersionKey{}, false
	}
	key.Suffix = m[4]
	return key, true
}

// Compare returns -1, 0 or 1. Numbers are compared first, then the suffix as
// a plain string, so a release sorts before its suffixed builds.
func (k VersionKey) Compare(o VersionKey) int {
	if c := compareUint(k.Major, o.Major); c != 0 {
		return c
	}
	if c := compareUint(k.Minor, o.Minor); c != 0 {
		return c
	}
	if c := compareUint(k.Patch, o.Patch); c != 0 {
		return c
	}
	return strings.Compare(k.Suffix, o.Suffix)
}

// Less reports whether k sorts before o
func (k VersionKey) Less(o VersionKey) bool {
	return k.Compare(o) < 0
}

func (k VersionKey) String() string {
	if k.Suffix == "" {
		return fmt.Sprintf("%d.%d.%d", k.Major, k.Minor, k.Patch)
	}
	return fmt.Sprintf("%d.%d.%d_%s", k.Major, k.Minor, k.Patch, k.Suffix)
}

func compareUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
