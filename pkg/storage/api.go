package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIStore talks to the HTTP API: GET /api/{key} reads a collection and
// POST /api/{key} with a JSON array replaces it.
type APIStore struct {
	baseURL string
	client  *http.Client
}

func NewAPIStore(baseURL string, client *http.Client) *APIStore {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &APIStore{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (s *APIStore) url(key string) string { return s.baseURL + "/api/" + key }

func (s *APIStore) Load(ctx context.Context, key string, dst interface{}) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url(key), nil)
	if err != nil {
		return false, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("fetching %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("fetching %s: %s", key, readError(resp))
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func (s *APIStore) Save(ctx context.Context, key string, value interface{}) error {
	if err := validateKey(key); err != nil {
		return err
	}
	body, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url(key), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("saving %s: %s", key, readError(resp))
	}
	return nil
}

// readError extracts the message of the API error envelope, falling back to the status line.
func readError(resp *http.Response) string {
	var envelope struct {
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(data, &envelope) == nil && envelope.Message != "" {
		return fmt.Sprintf("%s: %s", resp.Status, envelope.Message)
	}
	return resp.Status
}
