/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"

	"github.com/mikeb26/swisstd/s3cache"
)

// NewCachedHttpClient returns an http.Client that caches responses in
// cacheLocation, either a local directory or an s3://bucket/prefix location.
// If cacheLocation is empty or cannot be initialized, it falls back to an
// in-memory cache instead of no cache. Cached entries are revalidated with
// the origin according to its own cache headers, so round files published
// after a response was cached are still seen.
func NewCachedHttpClient(ctx context.Context,
	cacheLocation string) *http.Client {

	cache := openCache(ctx, cacheLocation)

	hc := httpcache.NewTransport(cache)
	hc.Transport = &HeaderOverrideTransport{
		wrappedRT: http.DefaultTransport,
		Request: func(req *http.Request) {
			if req.Header.Get("User-Agent") == "" {
				req.Header.Set("User-Agent", UserAgent)
			}
		},
	}

	return &http.Client{Transport: hc}
}

func openCache(ctx context.Context, cacheLocation string) httpcache.Cache {
	if cacheLocation == "" {
		return httpcache.NewMemoryCache()
	}

	if strings.HasPrefix(cacheLocation, "s3://") {
		cache, err := s3cache.Open(ctx, cacheLocation)
		if err != nil {
			log.Printf("httpcache: warning failed to init S3 cache: %v; falling back to memory cache",
				err)
			return httpcache.NewMemoryCache()
		}
		return cache
	}

	if err := os.MkdirAll(cacheLocation, 0o755); err != nil {
		log.Printf("httpcache: warning failed to init disk cache %v: %v; falling back to memory cache",
			cacheLocation, err)
		return httpcache.NewMemoryCache()
	}
	return diskcache.New(cacheLocation)
}

type HeaderOverrideTransport struct {
	Request  func(req *http.Request)
	Response func(resp *http.Response) error

	// Underlying RoundTripper (e.g. default transport or another decorator)
	wrappedRT http.RoundTripper
}

// RoundTrip applies Request and Response hooks around the underlying transport.
func (t *HeaderOverrideTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so we don’t stomp on the caller’s original
	req2 := req.Clone(req.Context())
	if t.Request != nil {
		t.Request(req2)
	}

	resp, err := t.wrappedRT.RoundTrip(req2)
	if err != nil {
		return nil, err
	}

	if t.Response != nil {
		if err := t.Response(resp); err != nil {
			return nil, err
		}
	}
	return resp, nil
}
