package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcherSendsBrowserHeaders(t *testing.T) {
	var gotUA, gotAccept, gotLang string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		gotLang = r.Header.Get("Accept-Language")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><article><h2>ok</h2></article></body></html>`))
	}))
	defer server.Close()

	body, err := NewHTTPFetcher().Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, body, "<h2>ok</h2>")
	assert.Equal(t, browserUserAgent, gotUA)
	assert.Equal(t, browserAccept, gotAccept)
	assert.Equal(t, browserAcceptLang, gotLang)
}

func TestHTTPFetcherCanFetchSameURLTwice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html></html>`))
	}))
	defer server.Close()

	f := NewHTTPFetcher()
	_, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	_, err = f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
}

func TestHTTPFetcherNon2xxIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewHTTPFetcher().Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestHTTPFetcherAcceptsAny2xx(t *testing.T) {
	for _, code := range []int{http.StatusOK, http.StatusNonAuthoritativeInfo, http.StatusNoContent, http.StatusPartialContent} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
			if code != http.StatusNoContent {
				_, _ = w.Write([]byte(`<html></html>`))
			}
		}))

		_, err := NewHTTPFetcher().Fetch(context.Background(), server.URL)
		assert.NoError(t, err, "status %d", code)
		server.Close()
	}
}

func TestHTTPFetcherServerErrorIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewHTTPFetcher().Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Contains(t, err.Error(), "status 500")
}

func TestHTTPFetcherTimeoutIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	f := NewHTTPFetcher()
	f.Timeout = 50 * time.Millisecond
	_, err := f.Fetch(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestHTTPFetcherUnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	_, err := NewHTTPFetcher().Fetch(context.Background(), addr)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestHTTPFetcherCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPFetcher().Fetch(ctx, "http://127.0.0.1:1")
	assert.ErrorIs(t, err, context.Canceled)
}
