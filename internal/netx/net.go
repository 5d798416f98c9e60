// Package netx holds small HTTP helpers that sit outside the API client,
// such as fetching presigned object storage links.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxDownloadSize = 32 << 20

var downloadClient = &http.Client{Timeout: 60 * time.Second}

// Download fetches url, typically a presigned S3 GET link, and returns the
// body. Any status other than 200 is an error carrying the response text.
func Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := downloadClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxDownloadSize {
		return nil, fmt.Errorf("download failed: body exceeds %d bytes", maxDownloadSize)
	}
	return body, nil
}
