/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package httpcache

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gregjones/httpcache"
)

func TestCachedClientOverridesNoStore(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter,
		r *http.Request) {

		atomic.AddInt32(&hits, 1)
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Pragma", "no-cache")
		fmt.Fprintf(w, "entries")
	}))
	defer srv.Close()

	client := newClient(httpcache.NewMemoryCache(), http.DefaultTransport,
		5*time.Minute)

	for i := 0; i < 3; i++ {
		resp, err := client.Get(srv.URL)
		if err != nil {
			t.Fatalf("Get #%d returned error: %v", i, err)
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			t.Fatalf("Failed to read response body: %v", err)
		}
		if string(data) != "entries" {
			t.Errorf("body = %q; want %q", data, "entries")
		}
		if i > 0 && resp.Header.Get(httpcache.XFromCache) != "1" {
			t.Errorf("response #%d not served from cache", i)
		}
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("origin hit %d times; want 1", n)
	}
}

func TestHeaderOverrideTransportRequestHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter,
		r *http.Request) {

		fmt.Fprintf(w, "%v", r.Header.Get("User-Agent"))
	}))
	defer srv.Close()

	rt := &HeaderOverrideTransport{
		wrappedRT: http.DefaultTransport,
		Request: func(req *http.Request) {
			req.Header.Set("User-Agent", "bracketbot-test")
		},
	}
	req, err := http.NewRequest("GET", srv.URL, nil)
	if err != nil {
		t.Fatalf("NewRequest returned error: %v", err)
	}
	resp, err := rt.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip returned error: %v", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	if string(data) != "bracketbot-test" {
		t.Errorf("origin saw User-Agent %q", data)
	}
	if req.Header.Get("User-Agent") != "" {
		t.Errorf("caller's request was modified")
	}
}
