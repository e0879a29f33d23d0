/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bcc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/mikeb26/boylstonchessclub-bracketbot/internal"
	"github.com/mikeb26/boylstonchessclub-bracketbot/internal/httpcache"
)

// registrations change often right before a round so keep the cache short
const registrationMaxAge = 5 * time.Minute

// Client fetches registrations from the Boylston Chess Club API and website.
type Client struct {
	httpClient *http.Client
	apiBase    string
	webBase    string
}

// NewClient returns a Client using an S3 backed http cache.
func NewClient(ctx context.Context) *Client {
	return NewClientWithHTTP(
		httpcache.NewCachedHttpClient(ctx, internal.WebCacheBucket,
			registrationMaxAge),
		internal.BccApiBaseURL, internal.BccWebBaseURL)
}

// NewClientWithHTTP returns a Client that talks to the given base URLs with
// hc.
func NewClientWithHTTP(hc *http.Client, apiBase string, webBase string) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		httpClient: hc,
		apiBase:    apiBase,
		webBase:    webBase,
	}
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch %v (new): %w", url, err)
	}
	req.Header.Set("User-Agent", internal.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch %v (do): %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("unable to fetch %v (http): %v", url,
			resp.StatusCode)
	}

	return resp, nil
}

// fetchDoc gets the HTML document at the given URL.
func (c *Client) fetchDoc(ctx context.Context,
	url string) (*goquery.Document, error) {

	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return goquery.NewDocumentFromReader(resp.Body)
}
