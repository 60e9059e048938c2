// Package crawl extracts hotel results from several result pages at once.
// It coordinates rate-limited snapshots, per-page extraction and cross-page
// de-duplication into one merged envelope.
package crawl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	voygen "github.com/iamneilroberts/voygen-sub008"
	"github.com/iamneilroberts/voygen-sub008/gzip"
	"golang.org/x/sync/errgroup"
)

// RouteBatch is the route of a merged multi-page envelope.
const RouteBatch = "batch"

// DefaultConcurrency is the number of pages processed at once.
const DefaultConcurrency = 4

// Batcher extracts hotel rows from many result pages.
type Batcher struct {
	Source      voygen.PageSource
	Extractor   voygen.HotelExtractor
	RateLimiter voygen.DomainLimiter

	// NewRowSet returns an empty set for one batch. When nil, rows are
	// de-duplicated by exact key.
	NewRowSet func() voygen.RowSet

	Concurrency int
	RetryDelays []time.Duration
	Logger      LogFunc
}

// PageResult is the outcome for one page of a batch.
type PageResult struct {
	URL   string `json:"url"`
	Route string `json:"route,omitempty"`
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}

// ProgressEvent reports progress during a batch.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

type pageOutcome struct {
	position int
	url      string
	env      *voygen.Envelope
	rows     []voygen.HotelRow
	err      error
}

// ExtractHotels snapshots and extracts every URL, then merges the rows in
// URL order into one hotels envelope. Rows already seen on an earlier page
// are dropped. The merged set is capped at the request's row limit. The
// envelope fails only when no page yields rows.
func (b *Batcher) ExtractHotels(ctx context.Context, urls []string, req voygen.HotelRequest, progress ProgressFunc) *voygen.Envelope {
	start := time.Now()
	if len(urls) == 0 {
		return voygen.Failed(voygen.EnvelopeHotels, "no URLs given", nil)
	}

	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	total := len(urls)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	outcomes := make([]pageOutcome, total)
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, u := range urls {
		g.Go(func() error {
			out := b.processURL(gctx, i, u, req)
			outcomes[i] = out
			n := int(completed.Add(1))
			if progress == nil {
				return nil
			}
			if out.err != nil {
				progress(ProgressEvent{Type: ProgressFailed, Completed: n, Total: total, URL: u, Error: out.err})
			} else {
				progress(ProgressEvent{Type: ProgressCompleted, Completed: n, Total: total, URL: u})
			}
			return nil
		})
	}
	_ = g.Wait()

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	return b.merge(outcomes, req.RowLimit(), time.Since(start))
}

// processURL snapshots and extracts a single page.
func (b *Batcher) processURL(ctx context.Context, position int, pageURL string, req voygen.HotelRequest) pageOutcome {
	out := pageOutcome{position: position, url: pageURL}

	if b.RateLimiter != nil {
		u, err := url.Parse(pageURL)
		if err != nil {
			out.err = voygen.Errorf(voygen.EINVALID, "invalid URL %q", pageURL)
			return out
		}
		if err := b.RateLimiter.Wait(ctx, u.Host); err != nil {
			out.err = err
			return out
		}
	}

	delays := b.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	page, err := SnapshotWithRetryDelays(ctx, pageURL, b.Source.Page, b.Logger, delays)
	if err != nil {
		out.err = err
		return out
	}

	pageReq := req
	pageReq.URL = pageURL
	out.env = b.Extractor.ExtractHotels(ctx, page, pageReq)
	if out.env == nil {
		out.err = voygen.Errorf(voygen.EINTERNAL, "extractor returned no envelope")
		return out
	}
	if !out.env.OK {
		out.err = voygen.Errorf(voygen.EINTERNAL, "%s", out.env.Error)
		return out
	}
	out.rows, out.err = envelopeRows(out.env)
	return out
}

func (b *Batcher) merge(outcomes []pageOutcome, limit int, elapsed time.Duration) *voygen.Envelope {
	var seen voygen.RowSet = newKeySet()
	if b.NewRowSet != nil {
		seen = b.NewRowSet()
	}

	var rows []voygen.HotelRow
	var routes []string
	pages := make([]PageResult, 0, len(outcomes))
	duplicates, unkeyed := 0, 0
	for _, out := range outcomes {
		res := PageResult{URL: out.url}
		if out.env != nil {
			res.Route = out.env.Route
		}
		if out.err != nil {
			res.Error = voygen.ErrorMessage(out.err)
			pages = append(pages, res)
			continue
		}
		for _, r := range out.rows {
			// A row with no id, detail URL or name cannot be merged.
			key := r.Key()
			if key == "" {
				unkeyed++
				continue
			}
			if seen.Test(key) {
				duplicates++
				continue
			}
			seen.Add(key)
			if len(rows) < limit {
				rows = append(rows, r)
				res.Count++
			}
		}
		if !containsString(routes, res.Route) {
			routes = append(routes, res.Route)
		}
		pages = append(pages, res)
	}

	meta := map[string]any{
		"pages":       pages,
		"routes":      routes,
		"duplicates":  duplicates,
		"unkeyed":     unkeyed,
		"max_rows":    limit,
		"duration_ms": elapsed.Milliseconds(),
	}
	if len(rows) == 0 {
		return voygen.Failed(voygen.EnvelopeHotels, "no hotel rows found on any page", meta)
	}

	payload, err := gzip.EncodeNDJSON(rows)
	if err != nil {
		return voygen.Failed(voygen.EnvelopeHotels, fmt.Sprintf("failed to encode rows: %v", err), meta)
	}
	sample, err := json.Marshal(rows[:min(len(rows), voygen.HotelSampleSize)])
	if err != nil {
		return voygen.Failed(voygen.EnvelopeHotels, fmt.Sprintf("failed to encode sample: %v", err), meta)
	}
	return &voygen.Envelope{
		OK:               true,
		Kind:             voygen.EnvelopeHotels,
		Route:            RouteBatch + ":" + strings.Join(routes, ","),
		Count:            len(rows),
		Sample:           sample,
		NDJSONGzipBase64: payload,
		Meta:             meta,
	}
}

// envelopeRows inflates the raw rows of a successful hotels envelope.
func envelopeRows(env *voygen.Envelope) ([]voygen.HotelRow, error) {
	payload, err := gzip.Decode(env.NDJSONGzipBase64)
	if err != nil {
		return nil, err
	}
	var rows []voygen.HotelRow
	for _, line := range gzip.SplitNDJSON(payload) {
		var r voygen.HotelRow
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			continue
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// keySet is an exact RowSet.
type keySet map[string]struct{}

func newKeySet() keySet { return make(keySet) }

func (s keySet) Add(key string) { s[key] = struct{}{} }

func (s keySet) Test(key string) bool {
	_, ok := s[key]
	return ok
}
