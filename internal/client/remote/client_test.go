package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/traveljournal/internal/client/models"
	"github.com/dmitrijs2005/traveljournal/internal/common"
	"github.com/dmitrijs2005/traveljournal/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedStatus bool

func (s fixedStatus) Online() bool { return bool(s) }

func sampleEntry() *models.JournalEntry {
	return &models.JournalEntry{
		ID:          "e-1",
		Title:       "Lisbon",
		Description: "trams",
		Photos:      []string{"a.jpg", "b.jpg"},
		Date:        time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		Location:    "38.7223,-9.1393",
		Tags:        []string{"tram", "hill"},
		IsOffline:   true,
		CreatedAt:   time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestPush_Success(t *testing.T) {
	var gotKey, gotAuth string
	var got map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/entries", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotKey = r.Header.Get("Idempotency-Key")
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(Options{BaseURL: srv.URL + "/", Secret: "s3cret", DeviceID: "phone-1"}, fixedStatus(true), logging.Discard())

	ack, err := c.Push(context.Background(), sampleEntry())
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, ack.Status)
	assert.JSONEq(t, `{"ok":true}`, string(ack.Body))

	assert.Equal(t, "e-1", got["id"])
	assert.Equal(t, `["a.jpg","b.jpg"]`, got["photos"])
	assert.Equal(t, `["tram","hill"]`, got["tags"])
	assert.Equal(t, "38.7223,-9.1393", got["location"])
	assert.Equal(t, true, got["isOffline"])

	assert.Len(t, gotKey, 64)

	require.Contains(t, gotAuth, "Bearer ")
	device, err := parseToken(t, gotAuth[len("Bearer "):], []byte("s3cret"))
	require.NoError(t, err)
	assert.Equal(t, "phone-1", device)
}

func TestPush_NoAuthHeaderWithoutSecret(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
	}))
	defer srv.Close()

	c := NewHTTPClient(Options{BaseURL: srv.URL}, fixedStatus(true), logging.Discard())
	ack, err := c.Push(context.Background(), sampleEntry())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, ack.Status)
}

func TestPush_Offline(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits.Add(1) }))
	defer srv.Close()

	c := NewHTTPClient(Options{BaseURL: srv.URL}, fixedStatus(false), logging.Discard())
	_, err := c.Push(context.Background(), sampleEntry())
	require.ErrorIs(t, err, common.ErrNoConnectivity)
	assert.Zero(t, hits.Load())
}

func TestPush_RemoteError(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClient(Options{BaseURL: srv.URL}, fixedStatus(true), logging.Discard())
	_, err := c.Push(context.Background(), sampleEntry())

	var re *common.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 500, re.Status)
	assert.Equal(t, "boom", re.Message)
	assert.Equal(t, int32(1), hits.Load(), "push must not retry")
}

func TestPush_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	// the handler must return before Close can finish
	defer close(release)

	c := NewHTTPClient(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, fixedStatus(true), logging.Discard())
	_, err := c.Push(context.Background(), sampleEntry())
	require.ErrorIs(t, err, common.ErrTimeout)
}

func TestPush_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewHTTPClient(Options{BaseURL: url}, fixedStatus(true), logging.Discard())
	_, err := c.Push(context.Background(), sampleEntry())
	require.ErrorIs(t, err, common.ErrNetwork)
}

func TestNewHTTPClient_DefaultTimeout(t *testing.T) {
	c := NewHTTPClient(Options{BaseURL: "http://x/"}, fixedStatus(true), logging.Discard())
	assert.Equal(t, DefaultTimeout, c.opts.Timeout)
	assert.Equal(t, "http://x", c.opts.BaseURL)
}
