// Package poster resolves the optional image attached to a movie. Resolution is
// decoration for presentation only: failures are returned to the caller and
// never touch the catalog.
package poster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/kasuboski/ratez/pkg/cache"
	mhttp "github.com/kasuboski/ratez/pkg/http"
	"github.com/kasuboski/ratez/pkg/logger"
	"github.com/kasuboski/ratez/pkg/storage"
	"go.uber.org/zap"
)

const maxImageBytes = 20 << 20

var (
	ErrNoImage           = errors.New("movie has no image url")
	ErrUnsupportedScheme = errors.New("image url must use http or https")
	ErrNotImage          = errors.New("url does not point to an image")
	ErrUnavailable       = errors.New("image unavailable")
)

// Poster describes a reachable image
type Poster struct {
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Resolver fetches image urls and remembers the ones that resolved
type Resolver struct {
	client mhttp.HTTPClient
	cache  *cache.Cache[string, Poster]
}

// Option configures a Resolver
type Option func(*Resolver)

// WithCache sets the cache used for resolved posters
func WithCache(c *cache.Cache[string, Poster]) Option {
	return func(r *Resolver) {
		r.cache = c
	}
}

// New creates a Resolver that fetches images with client
func New(client mhttp.HTTPClient, opts ...Option) *Resolver {
	r := &Resolver{
		client: client,
		cache:  cache.New[string, Poster](),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve fetches the movie's image url and reports its type and size
func (r *Resolver) Resolve(ctx context.Context, m storage.Movie) (Poster, error) {
	log := logger.FromCtx(ctx, zap.String("title", m.Title))

	raw, ok := m.Image()
	if !ok {
		return Poster{}, ErrNoImage
	}

	if p, ok := r.cache.Get(raw); ok {
		return p, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Poster{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Poster{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Poster{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		log.Debugw("could not load image", zap.Error(err))
		return Poster{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Poster{}, fmt.Errorf("%w: unexpected status %s", ErrUnavailable, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return Poster{}, fmt.Errorf("%w: content type %q", ErrNotImage, contentType)
	}

	size, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return Poster{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if resp.ContentLength > 0 {
		size = resp.ContentLength
	}

	p := Poster{
		URL:         raw,
		ContentType: contentType,
		Size:        size,
	}
	r.cache.Set(raw, p)

	log.Debugw("resolved image", zap.String("content_type", contentType), zap.Int64("size", size))
	return p, nil
}
