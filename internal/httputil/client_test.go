// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/validardoc/pkg/types"
)

func TestNewClient_SetsUserAgent(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := NewClient(types.HTTPConfig{Timeout: time.Second, UserAgent: "validardoc/test"})
	resp, err := client.Get(ts.URL)
	require.NoError(t, err)
	Drain(resp)

	assert.Equal(t, "validardoc/test", got)
	assert.Equal(t, time.Second, client.Timeout)
}

func TestNewClient_KeepsExplicitUserAgent(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "custom")

	resp, err := NewClient(types.HTTPConfig{UserAgent: "validardoc/test"}).Do(req)
	require.NoError(t, err)
	Drain(resp)

	assert.Equal(t, "custom", got)
	assert.Equal(t, "custom", req.Header.Get("User-Agent"))
}

func TestNewClient_TimeoutBoundsSlowServer(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	start := time.Now()
	_, err := NewClient(types.HTTPConfig{Timeout: 50 * time.Millisecond}).Get(ts.URL)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestDrain_NilSafe(t *testing.T) {
	assert.NotPanics(t, func() { Drain(nil) })
	assert.NotPanics(t, func() { Drain(&http.Response{}) })
}
