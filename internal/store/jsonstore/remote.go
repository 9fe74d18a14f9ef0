package jsonstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/idilsaglam/sliders/internal/model"
)

// maxSeedBytes caps a remote seed document.
const maxSeedBytes = 1 << 20

// Fetch loads a seed entry list from a remote JSON resource. It is a one-shot
// read; the caller seeds an allocation set from the result.
func Fetch(ctx context.Context, client *http.Client, url string) ([]model.Entry, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxSeedBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return Decode(b)
}

// Publish posts the snapshot as a JSON array of {id, value} objects.
func Publish(ctx context.Context, client *http.Client, url string, snap []model.SnapshotEntry) error {
	if client == nil {
		client = http.DefaultClient
	}
	if snap == nil {
		snap = []model.SnapshotEntry{}
	}
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("publish %s: %w", url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("publish %s: unexpected status %s", url, resp.Status)
	}
	return nil
}
