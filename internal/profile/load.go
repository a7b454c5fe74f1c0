// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	lru "github.com/hashicorp/golang-lru/v2"

	awsx "github.com/NiklasRosenstein/tire/internal/aws"
	"github.com/NiklasRosenstein/tire/internal/cacheutil"
	"github.com/NiklasRosenstein/tire/internal/log"
)

// memoSize bounds the number of fetched profiles a Loader keeps in memory.
const memoSize = 16

// DefaultCacheTTL is how long a fetched profile on disk is trusted before it
// is fetched again.
const DefaultCacheTTL = time.Hour

// cacheSubdir is where fetched profiles live below the cache base.
var cacheSubdir = []string{"profiles"}

// ErrInvalidProfileSource is returned for sources that are neither the
// default profile, a supported URL, nor an existing file.
var ErrInvalidProfileSource = errors.New("invalid profile source")

// FetchError reports a failure to retrieve a remote profile.
type FetchError struct {
	Source string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("failed to fetch profile %s: unexpected status %d %s",
			e.Source, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("failed to fetch profile %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Loader resolves profile sources into unvalidated profiles. Fetched bodies
// are memoized per Loader and cached on disk through cacheutil for at most
// the cache TTL.
type Loader struct {
	httpClient *http.Client
	s3Client   awsx.ObjectGetter
	refresh    bool
	cacheClean int
	cacheTTL   time.Duration
	memo       *lru.Cache[string, []byte]
}

type LoaderOption = func(*Loader)

// NewLoader returns a Loader with the given options applied.
func NewLoader(options ...LoaderOption) *Loader {
	memo, _ := lru.New[string, []byte](memoSize)
	l := &Loader{
		httpClient: http.DefaultClient,
		cacheTTL:   DefaultCacheTTL,
		memo:       memo,
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *Loader) {
		if c != nil {
			l.httpClient = c
		}
	}
}

// WithS3Client sets the client used for s3 sources. Without it a client is
// built from the default AWS credential chain on first use.
func WithS3Client(c awsx.ObjectGetter) LoaderOption {
	return func(l *Loader) { l.s3Client = c }
}

// WithRefresh bypasses the on-disk cache for reads. Fresh bodies are still
// written back.
func WithRefresh(refresh bool) LoaderOption {
	return func(l *Loader) { l.refresh = refresh }
}

// WithCacheClean purges cached profiles older than hours before reading.
func WithCacheClean(hours int) LoaderOption {
	return func(l *Loader) { l.cacheClean = hours }
}

// WithCacheTTL sets how long disk-cached profiles are served without
// refetching. A ttl <= 0 turns the disk cache off for this Loader.
func WithCacheTTL(ttl time.Duration) LoaderOption {
	return func(l *Loader) { l.cacheTTL = ttl }
}

// IsDefaultSource reports whether source selects the embedded profile.
func IsDefaultSource(source string) bool {
	return source == "" || source == DefaultName
}

// Load resolves source into a profile. The profile is not validated.
func (l *Loader) Load(ctx context.Context, source string) (*Profile, error) {
	switch {
	case IsDefaultSource(source):
		return Default()
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		u, err := url.Parse(source)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidProfileSource, source)
		}
		return l.loadRemote(ctx, source, l.fetchHTTP)
	case strings.HasPrefix(source, "s3://"):
		if _, _, err := awsx.ParseS3URL(source); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidProfileSource, err)
		}
		return l.loadRemote(ctx, source, l.fetchS3)
	case strings.HasPrefix(source, "file://"):
		return LoadFile(strings.TrimPrefix(source, "file://"))
	case isFile(source):
		return LoadFile(source)
	}
	return nil, fmt.Errorf("%w: %q (expected %q, an http(s):// or s3:// URL, or a file)",
		ErrInvalidProfileSource, source, DefaultName)
}

// LoadFile reads a profile from a TOML file.
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return LoadString("file://"+path, data)
}

func (l *Loader) loadRemote(ctx context.Context, source string, fetch func(context.Context, string) ([]byte, error)) (*Profile, error) {
	data, err := l.body(ctx, source, fetch)
	if err != nil {
		return nil, err
	}
	return LoadString(source, data)
}

// body returns the profile text for source from the memo, the disk cache, or
// the network, in that order.
func (l *Loader) body(ctx context.Context, source string, fetch func(context.Context, string) ([]byte, error)) ([]byte, error) {
	if data, ok := l.memo.Get(source); ok {
		log.Tracef("profile memo hit: source=%s", source)
		return data, nil
	}

	useDisk := l.cacheTTL > 0
	if useDisk && !l.refresh {
		if err := cacheutil.Purge(l.cacheClean); err != nil {
			log.WithError(err).Warn("failed to purge cache")
		}
		if entry, ok := cacheutil.Read(cacheSubdir, source); ok {
			if age := time.Since(entry.ModTime); age <= l.cacheTTL {
				log.Debugf("profile cache hit: source=%s path=%s", source, entry.Path)
				l.memo.Add(source, entry.Data)
				return entry.Data, nil
			}
			log.Debugf("profile cache expired: source=%s modified %s", source, humanize.Time(entry.ModTime))
		}
	}

	data, err := fetch(ctx, source)
	if err != nil {
		return nil, err
	}
	log.Debugf("fetched profile %s (%s)", source, humanize.Bytes(uint64(len(data))))

	l.memo.Add(source, data)
	if !useDisk {
		return data, nil
	}
	if err := cacheutil.Write(cacheSubdir, source, data); err != nil {
		log.WithError(err).Warn("failed to write profile to cache")
	}
	return data, nil
}

func (l *Loader) fetchHTTP(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, &FetchError{Source: source, Err: err}
	}
	req.Header.Set("Accept", "application/toml, text/plain, */*")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Source: source, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Source: source, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Source: source, Err: err}
	}
	return data, nil
}

func (l *Loader) fetchS3(ctx context.Context, source string) ([]byte, error) {
	bucket, key, err := awsx.ParseS3URL(source)
	if err != nil {
		return nil, &FetchError{Source: source, Err: err}
	}

	if l.s3Client == nil {
		cfg, err := awsx.LoadAWSConfig(ctx)
		if err != nil {
			return nil, &FetchError{Source: source, Err: err}
		}
		l.s3Client = awsx.NewS3(cfg)
	}

	data, err := awsx.GetObject(ctx, l.s3Client, bucket, key)
	if err != nil {
		return nil, &FetchError{Source: source, Err: err}
	}
	return data, nil
}

// isFile checks if the given path exists and is a regular file.
func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
