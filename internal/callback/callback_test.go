// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package callback

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/validardoc/pkg/types"
)

func TestURL(t *testing.T) {
	n := NewNotifierWithClient("https://example.test/cb.csp", http.DefaultClient, nil)
	assert.Equal(t,
		"https://example.test/cb.csp?rowID=12%26x%3D1+y&resultValid=Aprovada",
		n.URL("12&x=1 y", types.StatusApproved))
	assert.Equal(t,
		"https://example.test/cb.csp?rowID=&resultValid=Erro",
		n.URL("", types.StatusError))

	withQuery := NewNotifierWithClient("https://example.test/cb.csp?app=1", http.DefaultClient, nil)
	assert.Equal(t,
		"https://example.test/cb.csp?app=1&rowID=7&resultValid=Reprovada",
		withQuery.URL("7", types.StatusRejected))
}

func TestNotify_SendsQuery(t *testing.T) {
	got := make(chan url.Values, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		got <- r.URL.Query()
		w.Write([]byte("ignored body"))
	}))
	defer ts.Close()

	core, logs := observer.New(zapcore.InfoLevel)
	n := NewNotifier(types.CallbackConfig{
		HTTPConfig: types.HTTPConfig{Timeout: time.Second},
		Endpoint:   ts.URL,
	}, zap.New(core))

	n.Notify(context.Background(), "row-1", types.StatusApproved)

	q := <-got
	assert.Equal(t, "row-1", q.Get("rowID"))
	assert.Equal(t, "Aprovada", q.Get("resultValid"))
	assert.Equal(t, 1, logs.FilterMessage("callback sent").Len())
}

func TestNotify_AlwaysResolves(t *testing.T) {
	const timeout = 100 * time.Millisecond

	refused := func(t *testing.T) string {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		addr := l.Addr().String()
		require.NoError(t, l.Close())
		return "http://" + addr + "/cb"
	}

	tests := []struct {
		name  string
		setup func(t *testing.T) string
	}{
		{
			name:  "connection refused",
			setup: refused,
		},
		{
			name: "server slower than client timeout",
			setup: func(t *testing.T) string {
				release := make(chan struct{})
				ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					select {
					case <-release:
					case <-r.Context().Done():
					}
				}))
				t.Cleanup(ts.Close)
				t.Cleanup(func() { close(release) })
				return ts.URL
			},
		},
		{
			name: "server error",
			setup: func(t *testing.T) string {
				ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(http.StatusBadGateway)
				}))
				t.Cleanup(ts.Close)
				return ts.URL
			},
		},
		{
			name: "invalid endpoint",
			setup: func(t *testing.T) string {
				return "://bad endpoint"
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.ErrorLevel)
			n := NewNotifier(types.CallbackConfig{
				HTTPConfig: types.HTTPConfig{Timeout: timeout},
				Endpoint:   tt.setup(t),
			}, zap.New(core))

			done := make(chan struct{})
			go func() {
				defer close(done)
				n.Notify(context.Background(), "row", types.StatusError)
			}()

			select {
			case <-done:
			case <-time.After(5 * time.Second):
				t.Fatal("Notify did not resolve")
			}

			entries := logs.FilterMessage("callback failed").All()
			require.Len(t, entries, 1)
			err, ok := entries[0].ContextMap()["error"].(string)
			require.True(t, ok)
			assert.Contains(t, err, ErrCallbackTransport.Error())
		})
	}
}
