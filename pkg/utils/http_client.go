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

package utils

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"
)

// EnvNameHTTPProxy is the proxy used by ALPack in favour of HTTP_PROXY
const EnvNameHTTPProxy = "ALPACK_HTTP_PROXY"

// HTTPClient is a wrap of http.Client
type HTTPClient struct {
	client *http.Client
	header http.Header
}

// NewHTTPClient returns a new HTTP client with timeout
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	if timeout < time.Second {
		timeout = 30 * time.Second // default timeout is 30s
	}
	tr := &http.Transport{
		Proxy:       http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
	}
	if httpProxy := os.Getenv(EnvNameHTTPProxy); len(httpProxy) > 0 {
		if proxyURL, err := url.Parse(httpProxy); err == nil {
			tr.Proxy = http.ProxyURL(proxyURL)
		}
	}
	return &HTTPClient{
		client: &http.Client{
			Timeout:   timeout,
			Transport: tr,
		},
	}
}

// SetRequestHeader set http request header
func (c *HTTPClient) SetRequestHeader(key, value string) {
	if c.header == nil {
		c.header = http.Header{}
	}
	c.header.Add(key, value)
}

// Get fetch an URL with GET method and returns the response
func (c *HTTPClient) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, ErrHTTP.Wrap(err, "Invalid request to %s", url)
	}

	if c.header != nil {
		req.Header = c.header.Clone()
	}

	if ctx != nil {
		req = req.WithContext(ctx)
	}
	res, err := c.client.Do(req)
	if err != nil {
		return nil, ErrHTTP.Wrap(err, "Failed to request %s", url)
	}
	defer res.Body.Close()

	return checkHTTPResponse(res)
}

// Client returns the http.Client
func (c *HTTPClient) Client() *http.Client {
	return c.client
}

// checkHTTPResponse checks if an HTTP response is with normal status codes
func checkHTTPResponse(res *http.Response) ([]byte, error) {
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, ErrHTTP.Wrap(err, "Failed to read response of %s", res.Request.URL)
	}
	if res.StatusCode < 200 || res.StatusCode >= 400 {
		return body, ErrHTTP.New("Error requesting %s, code %d", res.Request.URL, res.StatusCode)
	}
	return body, nil
}
