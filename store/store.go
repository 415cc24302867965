/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package store persists tournament rosters and round files in a local
// directory, an S3 prefix or (read-only) a web server directory. All three
// share the flat file layout:
//
//	participants.txt   one player name per line
//	runde<N>.txt       one match per line: player1-player2;score1-score2
package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mikeb26/swisstd/swiss"
)

var ErrReadOnly = errors.New("tournament location is read-only")

// Store is a swiss.Store bound to a storage location.
type Store interface {
	swiss.Store
	Location() string
}

// Options tunes how backends reach their storage.
type Options struct {
	// HTTPClient is used by the web backend. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// Concurrency bounds how many round files are fetched at once by the
	// remote backends. Defaults to 8.
	Concurrency int
}

func (o Options) concurrency() int {
	if o.Concurrency <= 0 {
		return 8
	}
	return o.Concurrency
}

func (o Options) httpClient() *http.Client {
	if o.HTTPClient == nil {
		return http.DefaultClient
	}
	return o.HTTPClient
}

// Open returns the backend for location:
//
//	/path/to/dir, file:///path/to/dir   local directory
//	s3://bucket/prefix                  S3
//	http(s)://host/path/                web server directory index (read-only)
func Open(ctx context.Context, location string, opts Options) (Store, error) {
	if location == "" {
		return nil, fmt.Errorf("no tournament location given")
	}
	if !strings.Contains(location, "://") {
		return NewDirStore(location), nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("unable to parse location %v: %w", location, err)
	}
	switch u.Scheme {
	case "file":
		return NewDirStore(u.Path), nil
	case "s3":
		if u.Host == "" {
			return nil, fmt.Errorf("no bucket in location %v", location)
		}
		return NewS3Store(ctx, u.Host, strings.Trim(u.Path, "/"),
			opts.concurrency())
	case "http", "https":
		return NewWebStore(u, opts.httpClient(), opts.concurrency()), nil
	default:
		return nil, fmt.Errorf("unsupported location scheme %q", u.Scheme)
	}
}

// JoinLocation appends a single tournament name to a base location of any
// supported kind.
func JoinLocation(base string, name string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\?#%`) {
		return "", fmt.Errorf("invalid tournament name %q", name)
	}
	return strings.TrimRight(base, "/") + "/" + name, nil
}
