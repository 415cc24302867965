/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"github.com/mikeb26/swisstd/internal"
	"github.com/mikeb26/swisstd/swiss"
)

// WebStore reads a tournament published as a directory on a web server.
// Round files are discovered from the server's directory index page.
type WebStore struct {
	base        *url.URL
	client      *http.Client
	concurrency int
}

func NewWebStore(base *url.URL, client *http.Client,
	concurrency int) *WebStore {

	b := *base
	if !strings.HasSuffix(b.Path, "/") {
		b.Path += "/"
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &WebStore{base: &b, client: client, concurrency: concurrency}
}

func (s *WebStore) Location() string {
	return s.base.String()
}

func (s *WebStore) fetch(ctx context.Context,
	u *url.URL) ([]byte, http.Header, error) {

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to fetch %v (new): %w", u, err)
	}
	req.Header.Set("User-Agent", internal.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to fetch %v (do): %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("unable to fetch %v: http status: %v", u,
			resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to read %v: %w", u, err)
	}

	return data, resp.Header, nil
}

func (s *WebStore) LoadRoster(ctx context.Context) ([]string, error) {
	data, _, err := s.fetch(ctx, s.base.JoinPath(RosterFileName))
	if err != nil {
		return nil, err
	}
	return ParseRoster(bytes.NewReader(data))
}

type webRoundLink struct {
	number int
	url    *url.URL
	posted time.Time
}

// modification timestamps printed by common directory index generators
var (
	nginxDateRe  = regexp.MustCompile(`\d{1,2}-[A-Za-z]{3}-\d{4} \d{2}:\d{2}(:\d{2})?`)
	apacheDateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2} \d{2}:\d{2}(:\d{2})?`)
)

// parseIndex extracts round file links from a directory index page. Links
// outside the base directory are ignored.
func (s *WebStore) parseIndex(doc *goquery.Document) ([]webRoundLink, error) {
	seen := make(map[int]bool)
	var links []webRoundLink
	var parseErr error

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return true
		}
		u := s.base.ResolveReference(ref)
		if u.Host != s.base.Host || path.Dir(u.Path)+"/" != s.base.Path {
			return true
		}
		// sort links like ?C=N;O=D point back at the directory itself
		if u.Path == s.base.Path || strings.HasSuffix(u.Path, "/") {
			return true
		}
		n, ok, err := ParseRoundFileName(path.Base(u.Path))
		if !ok {
			return true
		}
		if err != nil {
			parseErr = err
			return false
		}
		if seen[n] {
			return true
		}
		seen[n] = true
		links = append(links, webRoundLink{number: n, url: u,
			posted: indexDate(sel)})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	sort.Slice(links, func(i, j int) bool {
		return links[i].number < links[j].number
	})

	return links, nil
}

// indexDate finds the modification date printed next to an index link,
// either in the same table row or in the text following the link.
func indexDate(sel *goquery.Selection) time.Time {
	var text string
	if row := sel.Closest("tr"); row.Length() > 0 {
		text = row.Text()
	} else if next := sel.Nodes[0].NextSibling; next != nil &&
		next.Type == html.TextNode {
		text = next.Data
	}

	raw := apacheDateRe.FindString(text)
	if raw == "" {
		// 12-Jun-2025 19:03 -> 12 Jun 2025 19:03
		raw = strings.Replace(nginxDateRe.FindString(text), "-", " ", 2)
	}
	posted, err := internal.ParseDateOrZero(raw)
	if err != nil {
		log.Printf("webstore.index: unable to parse date %q: %v", raw, err)
		return time.Time{}
	}
	return posted
}

func (s *WebStore) LoadRounds(ctx context.Context) ([]swiss.Round, error) {
	index, _, err := s.fetch(ctx, s.base)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(index))
	if err != nil {
		return nil, fmt.Errorf("unable to parse index of %v: %w", s.base, err)
	}
	links, err := s.parseIndex(doc)
	if err != nil {
		return nil, err
	}

	rounds := make([]swiss.Round, len(links))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for idx, link := range links {
		g.Go(func() error {
			data, hdr, err := s.fetch(gctx, link.url)
			if err != nil {
				return err
			}
			r, err := ParseRound(link.number, bytes.NewReader(data))
			if err != nil {
				return err
			}
			r.Posted = link.posted
			if r.Posted.IsZero() {
				if lm, err := http.ParseTime(hdr.Get("Last-Modified")); err == nil {
					r.Posted = lm
				}
			}
			rounds[idx] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return rounds, nil
}

func (s *WebStore) AppendRound(ctx context.Context, r swiss.Round) error {
	return fmt.Errorf("unable to write round %v to %v: %w", r.Number,
		s.Location(), ErrReadOnly)
}
