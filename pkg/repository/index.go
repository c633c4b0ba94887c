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
	"io"
	"regexp"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// CandidateEntry is a rootfs image listed in the release index
type CandidateEntry struct {
	Key     VersionKey
	Version string
	Href    string
}

func rootfsPattern(arch string) *regexp.Regexp {
	return regexp.MustCompile(`^alpine-minirootfs-([\w.\-]+)-` + regexp.QuoteMeta(arch) + `\.tar\.gz$`)
}

// ListCandidates returns every minirootfs image of arch linked from the index
// page, in the order they appear
func ListCandidates(index io.Reader, arch string) ([]CandidateEntry, error) {
	pattern := rootfsPattern(arch)
	var candidates []CandidateEntry

	z := html.NewTokenizer(index)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, ErrParse.Wrap(err, "Failed to parse release index")
			}
			return candidates, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "a" || !hasAttr {
				continue
			}
			for {
				key, val, more := z.TagAttr()
				if string(key) == "href" {
					if c, ok := matchCandidate(pattern, string(val)); ok {
						candidates = append(candidates, c)
					}
				}
				if !more {
					break
				}
			}
		}
	}
}

func matchCandidate(pattern *regexp.Regexp, href string) (CandidateEntry, bool) {
	m := pattern.FindStringSubmatch(href)
	if m == nil {
		return CandidateEntry{}, false
	}
	key, ok := ParseVersionKey(m[1])
	if !ok {
		zap.L().Debug("Ignore rootfs image with unknown version", zap.String("href", href))
		return CandidateEntry{}, false
	}
	return CandidateEntry{Key: key, Version: m[1], Href: href}, true
}

// SelectLatest returns the newest minirootfs image of arch linked from the
// index page. ErrNoCandidate is returned if there is none.
func SelectLatest(index io.Reader, arch string) (*CandidateEntry, error) {
	candidates, err := ListCandidates(index, arch)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoCandidate.New("No matching rootfs image found for %s", arch)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Key.Less(candidates[j].Key)
	})
	latest := candidates[len(candidates)-1]
	zap.L().Debug("Selected rootfs image",
		zap.String("version", latest.Version),
		zap.Int("candidates", len(candidates)))
	return &latest, nil
}
