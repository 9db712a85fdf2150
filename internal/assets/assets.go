// Package assets loads marker content and data files off the main goroutine
// and caches their bytes.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/wondermap/internal/logger"
)

// ErrNotFound is returned when a source does not exist.
var ErrNotFound = errors.New("asset not found")

// Asset is a loaded content file.
type Asset struct {
	URL  string
	Kind Kind
	MIME string
	Data []byte
}

// ProgressFunc receives the loaded fraction in [0,1].
type ProgressFunc func(fraction float32)

// DoneFunc receives the loaded asset or the failure.
type DoneFunc func(asset *Asset, err error)

// Loader fetches assets on worker goroutines. Callbacks are queued and run
// on whichever goroutine calls Pump, so the frame loop owns all state.
type Loader struct {
	client *http.Client
	cache  *Cache
	events chan func()
	wg     sync.WaitGroup
	log    *zap.Logger
}

// NewLoader creates a loader. A nil client uses http.DefaultClient.
func NewLoader(client *http.Client) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{
		client: client,
		cache:  NewCache(),
		events: make(chan func(), 256),
		log:    logger.Named("assets"),
	}
}

// Cache returns the loader's byte cache.
func (l *Loader) Cache() *Cache {
	return l.cache
}

// Load starts fetching source. onProgress may be nil. onDone is always
// called exactly once, from Pump.
func (l *Loader) Load(ctx context.Context, source string, onProgress ProgressFunc, onDone DoneFunc) {
	if data, ok := l.cache.Get(source); ok {
		asset := newAsset(source, data)
		// The caller is usually the goroutine that pumps, so never send
		// from here: the queue may be full.
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			l.post(func() {
				if onProgress != nil {
					onProgress(1)
				}
				onDone(asset, nil)
			})
		}()
		return
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		data, err := Fetch(ctx, l.client, source, func(read, total int64) {
			if onProgress == nil || total <= 0 {
				return
			}
			fraction := float32(read) / float32(total)
			l.tryPost(func() { onProgress(fraction) })
		})
		if err != nil {
			l.log.Warn("load failed", zap.String("url", source), zap.Error(err))
			l.post(func() { onDone(nil, err) })
			return
		}

		l.cache.Set(source, data)
		asset := newAsset(source, data)
		l.log.Debug("loaded",
			zap.String("url", source),
			zap.String("kind", asset.Kind.String()),
			zap.Int("bytes", len(data)))
		l.post(func() {
			if onProgress != nil {
				onProgress(1)
			}
			onDone(asset, nil)
		})
	}()
}

// Pump runs queued callbacks and returns how many ran. It never blocks.
func (l *Loader) Pump() int {
	n := 0
	for {
		select {
		case fn := <-l.events:
			fn()
			n++
		default:
			return n
		}
	}
}

// Wait blocks until every in-flight load has queued its completion.
func (l *Loader) Wait() {
	l.wg.Wait()
}

// Drain waits for in-flight loads and discards their callbacks. Use it on
// shutdown, when nothing pumps anymore.
func (l *Loader) Drain() {
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()
	for {
		select {
		case <-l.events:
		case <-done:
			return
		}
	}
}

func (l *Loader) post(fn func()) {
	l.events <- fn
}

// tryPost drops the event when the queue is full; progress is advisory.
func (l *Loader) tryPost(fn func()) {
	select {
	case l.events <- fn:
	default:
	}
}

func newAsset(source string, data []byte) *Asset {
	kind, mime := Detect(data)
	return &Asset{URL: source, Kind: kind, MIME: mime, Data: data}
}

// Fetch reads a local path, a file:// URL or an http(s) URL. progress may be nil.
func Fetch(ctx context.Context, client *http.Client, source string, progress func(read, total int64)) ([]byte, error) {
	if source == "" {
		return nil, fmt.Errorf("empty source: %w", ErrNotFound)
	}
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return fetchHTTP(ctx, client, source, progress)
	}

	path := source
	if strings.HasPrefix(source, "file://") {
		u, err := url.Parse(source)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", source, err)
		}
		path = u.Path
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var total int64
	if info, err := f.Stat(); err == nil {
		total = info.Size()
	}
	return readAll(ctx, f, total, progress)
}

func fetchHTTP(ctx context.Context, client *http.Client, source string, progress func(read, total int64)) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", source, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetching %s: status %d", source, resp.StatusCode)
	}
	return readAll(ctx, resp.Body, resp.ContentLength, progress)
}

func readAll(ctx context.Context, r io.Reader, total int64, progress func(read, total int64)) ([]byte, error) {
	buf := make([]byte, 0, max(total, 0))
	chunk := make([]byte, 32*1024)
	var read int64
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := r.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			read += int64(n)
			if progress != nil {
				progress(read, total)
			}
		}
		if err == io.EOF {
			return buf, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
