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

package repository

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	logprinter "github.com/alpack/alpack/pkg/logger/printer"
	"github.com/alpack/alpack/pkg/utils"
	"github.com/cavaliergopher/grab/v3"
	units "github.com/docker/go-units"
	"go.uber.org/zap"
)

const partSuffix = ".part"

// FetchOptions customizes a Fetcher
type FetchOptions struct {
	// Fallback is used when the destination directory of a download can not
	// be created for lack of permission
	Fallback string
	Dirs     utils.DirMaker
	Progress DownloadProgress
	Logger   *logprinter.Logger
	Timeout  time.Duration
}

const userAgent = "alpack"

// Fetcher downloads files from the mirror into a local cache directory
type Fetcher struct {
	options FetchOptions
	http    *utils.HTTPClient
}

// NewFetcher returns a Fetcher
func NewFetcher(opts FetchOptions) *Fetcher {
	if opts.Progress == nil {
		opts.Progress = DisableProgress{}
	}
	if opts.Logger == nil {
		opts.Logger = logprinter.NewLogger("")
	}
	client := utils.NewHTTPClient(opts.Timeout)
	client.SetRequestHeader("User-Agent", userAgent)
	return &Fetcher{
		options: opts,
		http:    client,
	}
}

// FetchIndex returns the body of the page at url
func (f *Fetcher) FetchIndex(ctx context.Context, url string) ([]byte, error) {
	zap.L().Debug("Fetch index", zap.String("url", url))
	body, err := f.http.Get(ctx, url)
	if err != nil {
		return nil, ErrNetwork.Wrap(err, "Failed to fetch index %s", url)
	}
	return body, nil
}

// Fetch downloads url to destDir/filename and returns the directory the file
// was stored in, which is the fallback directory if destDir could not be
// created. Nothing is downloaded if the file is already there.
func (f *Fetcher) Fetch(ctx context.Context, url, destDir, filename string) (string, error) {
	dir, usedFallback, err := utils.ResolvePrimaryOrFallback(f.options.Dirs, destDir, f.options.Fallback)
	if err != nil {
		return "", err
	}
	if usedFallback {
		f.options.Logger.Warnf("Permission denied to create '%s', using default directory '%s' instead...", destDir, dir)
	}

	target := filepath.Join(dir, filename)
	if utils.IsExist(target) {
		zap.L().Info("Use cached file", zap.String("path", target))
		f.options.Logger.Infof("File '%s' already exists, skipping download.", filename)
		return dir, nil
	}

	f.options.Logger.Infof("Saving file to: %s", target)
	if err := f.download(ctx, url, target); err != nil {
		return "", err
	}
	return dir, nil
}

func (f *Fetcher) download(ctx context.Context, url, target string) error {
	defer func(start time.Time) {
		zap.L().Debug("Download finished", zap.String("url", url), zap.Duration("cost", time.Since(start)))
	}(time.Now())

	part := target + partSuffix
	// a leftover of an interrupted run is never resumed
	if err := os.RemoveAll(part); err != nil {
		return utils.ErrFilesystem.Wrap(err, "Failed to remove %s", part)
	}

	client := grab.NewClient()
	// archives share the proxy settings but not the request timeout
	client.HTTPClient = &http.Client{Transport: f.http.Client().Transport}
	client.UserAgent = userAgent
	req, err := grab.NewRequest(part, url)
	if err != nil {
		return ErrNetwork.Wrap(err, "Invalid download url %s", url)
	}
	req.NoResume = true
	req = req.WithContext(ctx)

	resp := client.Do(req)
	if err := checkContentLength(resp); err != nil {
		_ = resp.Cancel()
		_ = os.RemoveAll(part)
		return err
	}

	// start progress output loop
	t := time.NewTicker(100 * time.Millisecond)
	defer t.Stop()

	progress := f.options.Progress
	progress.Start("Downloading "+filepath.Base(target), resp.Size())
L:
	for {
		select {
		case <-t.C:
			progress.SetCurrent(resp.BytesComplete())
		case <-resp.Done:
			progress.SetCurrent(resp.BytesComplete())
			progress.Finish()
			break L
		}
	}

	// check for errors
	if err := resp.Err(); err != nil {
		_ = os.RemoveAll(part)
		if stderrors.Is(err, context.Canceled) {
			return ErrNetwork.Wrap(err, "Download of %s interrupted", url)
		}
		if grab.IsStatusCodeError(err) {
			code := err.(grab.StatusCodeError)
			if int(code) == http.StatusNotFound {
				return ErrNotFound.New("Download from %s failed, %s not found", url, url)
			}
			return ErrNetwork.New("Download from %s failed, code %d", url, int(code))
		}
		return ErrNetwork.Wrap(err, "Download from %s failed", url)
	}

	if err := utils.Move(part, target); err != nil {
		return utils.ErrFilesystem.Wrap(err, "Failed to move download to %s", target)
	}
	zap.L().Info("Downloaded",
		zap.String("url", url),
		zap.String("size", units.HumanSize(float64(resp.BytesComplete()))))
	return nil
}

// checkContentLength fails the transfer if the server does not announce the
// size of the body. Errors that ended the transfer early are left to
// resp.Err().
func checkContentLength(resp *grab.Response) error {
	select {
	case <-resp.Done:
		if resp.Err() != nil {
			return nil
		}
	default:
	}
	if resp.HTTPResponse == nil {
		return nil
	}
	if resp.HTTPResponse.ContentLength < 0 {
		return ErrNetwork.New("Response of %s has no content-length", resp.Request.URL())
	}
	return nil
}
