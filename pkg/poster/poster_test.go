package poster

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	mhttp "github.com/kasuboski/ratez/pkg/http"
	"github.com/kasuboski/ratez/pkg/http/mocks"
	"github.com/kasuboski/ratez/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves and caches image", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write(bytes.Repeat([]byte{0xff}, 2048))
		}))
		defer srv.Close()

		r := New(mhttp.NewRateLimitedClient(mhttp.WithHTTPClient(srv.Client())))
		m := storage.NewMovie("Heat", 5, srv.URL+"/heat.jpg")

		p, err := r.Resolve(ctx, m)
		require.NoError(t, err)
		assert.Equal(t, Poster{URL: srv.URL + "/heat.jpg", ContentType: "image/jpeg", Size: 2048}, p)

		again, err := r.Resolve(ctx, m)
		require.NoError(t, err)
		assert.Equal(t, p, again)
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("movie without image", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		r := New(mocks.NewMockHTTPClient(ctrl))

		_, err := r.Resolve(ctx, storage.NewMovie("Heat", 5, ""))
		assert.ErrorIs(t, err, ErrNoImage)
	})

	t.Run("unsupported scheme is never fetched", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		r := New(mocks.NewMockHTTPClient(ctrl))

		_, err := r.Resolve(ctx, storage.NewMovie("Heat", 5, "file:///etc/passwd"))
		assert.ErrorIs(t, err, ErrUnsupportedScheme)
	})

	t.Run("request error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockHTTPClient(ctrl)
		client.EXPECT().Do(gomock.Any()).Return(nil, errors.New("dial tcp: timeout"))

		r := New(client)
		_, err := r.Resolve(ctx, storage.NewMovie("Heat", 5, "https://example.com/heat.jpg"))
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("rate limited response is closed", func(t *testing.T) {
		body := &closeTracker{Reader: bytes.NewBufferString("slow down")}

		ctrl := gomock.NewController(t)
		client := mocks.NewMockHTTPClient(ctrl)
		client.EXPECT().Do(gomock.Any()).Return(&http.Response{
			StatusCode: http.StatusTooManyRequests,
			Status:     "429 Too Many Requests",
			Body:       body,
		}, errors.New("rate limit exceeded after 3 retries"))

		r := New(client)
		_, err := r.Resolve(ctx, storage.NewMovie("Heat", 5, "https://example.com/heat.jpg"))
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.True(t, body.closed)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockHTTPClient(ctrl)
		client.EXPECT().Do(gomock.Any()).Return(&http.Response{
			StatusCode: http.StatusNotFound,
			Status:     "404 Not Found",
			Body:       io.NopCloser(bytes.NewBufferString("")),
		}, nil)

		r := New(client)
		_, err := r.Resolve(ctx, storage.NewMovie("Heat", 5, "https://example.com/heat.jpg"))
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.ErrorContains(t, err, "404")
	})

	t.Run("not an image", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockHTTPClient(ctrl)
		client.EXPECT().Do(gomock.Any()).Return(&http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"text/html"}},
			Body:       io.NopCloser(bytes.NewBufferString("<html></html>")),
		}, nil).Times(2)

		r := New(client)
		m := storage.NewMovie("Heat", 5, "https://example.com/heat")
		_, err := r.Resolve(ctx, m)
		assert.ErrorIs(t, err, ErrNotImage)

		_, err = r.Resolve(ctx, m)
		assert.ErrorIs(t, err, ErrNotImage, "failures are not cached")
	})

	t.Run("content length wins over bytes read", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockHTTPClient(ctrl)
		client.EXPECT().Do(gomock.Any()).Return(&http.Response{
			StatusCode:    http.StatusOK,
			Header:        http.Header{"Content-Type": []string{"image/png"}},
			ContentLength: 4096,
			Body:          io.NopCloser(bytes.NewBufferString("png")),
		}, nil)

		r := New(client)
		p, err := r.Resolve(ctx, storage.NewMovie("Heat", 5, "https://example.com/heat.png"))
		require.NoError(t, err)
		assert.Equal(t, int64(4096), p.Size)
	})
}
