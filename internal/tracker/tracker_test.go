package tracker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"makani-studio/internal/infra/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackThrottlesSamePath(t *testing.T) {
	var hits atomic.Int32
	var first Visit
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			_ = json.NewDecoder(r.Body).Decode(&first)
		}
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"tracked":true}`))
	}))
	defer srv.Close()

	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	store := cache.NewMemoryThrottle().WithClock(func() time.Time { return now })
	c := New(srv.URL, WithStore(store))
	ctx := context.Background()

	sent, err := c.Track(ctx, Visit{Path: "/projects", VisitorToken: "visitor-0001"})
	require.NoError(t, err)
	assert.True(t, sent)

	for _, d := range []time.Duration{90 * time.Second, 90 * time.Second} {
		now = now.Add(d)
		sent, err = c.Track(ctx, Visit{Path: "/projects"})
		require.NoError(t, err)
		assert.False(t, sent)
	}
	assert.EqualValues(t, 1, hits.Load())
	assert.Equal(t, "visitor-0001", first.VisitorToken)

	sent, _ = c.Track(ctx, Visit{Path: "/about"})
	assert.True(t, sent)

	now = now.Add(3 * time.Minute)
	sent, _ = c.Track(ctx, Visit{Path: "/projects"})
	assert.True(t, sent)
	assert.EqualValues(t, 3, hits.Load())
}

func TestTrackReportsTransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := New(srv.URL)
	sent, err := c.Track(context.Background(), Visit{})
	assert.True(t, sent)
	assert.Error(t, err)

	sent, err = c.Track(context.Background(), Visit{Path: "/"})
	assert.False(t, sent, "blank path was normalised to / and already sent")
	assert.NoError(t, err)
}
