package store

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const remoteTimeout = 15 * time.Second

// RemoteStore talks to a version-controlled blob store over HTTP. Content is
// base64-transported; the version token is assigned by the store and treated
// as opaque. A conditional PUT that loses the race comes back 409 or 412.
type RemoteStore struct {
	baseURL   string
	authToken string
	client    *http.Client
}

func NewRemoteStore(baseURL, authToken string) *RemoteStore {
	return &RemoteStore{
		baseURL:   strings.TrimRight(baseURL, "/"),
		authToken: authToken,
		client:    &http.Client{Timeout: remoteTimeout},
	}
}

type remoteDocument struct {
	Content         string `json:"content"`
	Version         string `json:"version"`
	ExpectedVersion string `json:"expected_version,omitempty"`
	Message         string `json:"message,omitempty"`
	Error           string `json:"error,omitempty"`
}

func (r *RemoteStore) Read(ctx context.Context, id string) ([]byte, string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()
	req, err := r.newRequest(reqCtx, http.MethodGet, id, nil)
	if err != nil {
		return nil, "", err
	}
	body, status, err := r.do(req)
	if err != nil {
		return nil, "", err
	}
	if status == http.StatusNotFound {
		return nil, "", ErrNotFound
	}
	if status < 200 || status >= 300 {
		return nil, "", fmt.Errorf("remote store read failed (%d)", status)
	}

	var doc remoteDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, "", fmt.Errorf("remote store returned malformed document: %w", err)
	}
	payload, err := base64.StdEncoding.DecodeString(doc.Content)
	if err != nil {
		return nil, "", fmt.Errorf("remote store content is not base64: %w", err)
	}
	return payload, doc.Version, nil
}

func (r *RemoteStore) Write(ctx context.Context, id string, payload []byte, expectedToken, description string) (string, error) {
	doc := remoteDocument{
		Content:         base64.StdEncoding.EncodeToString(payload),
		ExpectedVersion: expectedToken,
		Message:         description,
	}
	encoded, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	reqCtx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()
	req, err := r.newRequest(reqCtx, http.MethodPut, id, bytes.NewReader(encoded))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	body, status, err := r.do(req)
	if err != nil {
		return "", err
	}
	switch {
	case status == http.StatusConflict || status == http.StatusPreconditionFailed:
		return "", ErrConflict
	case status == http.StatusNotFound:
		return "", ErrNotFound
	case status < 200 || status >= 300:
		return "", fmt.Errorf("remote store write failed (%d)", status)
	}

	var updated remoteDocument
	if err := json.Unmarshal(body, &updated); err != nil {
		return "", fmt.Errorf("remote store returned malformed write response: %w", err)
	}
	if updated.Version == "" {
		return "", fmt.Errorf("remote store write response missing version")
	}
	return updated.Version, nil
}

func (r *RemoteStore) newRequest(ctx context.Context, method, id string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+"/"+id, body)
	if err != nil {
		return nil, err
	}
	if r.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(r.authToken))
	}
	return req, nil
}

func (r *RemoteStore) do(req *http.Request) ([]byte, int, error) {
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to reach document store: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read document store response: %w", err)
	}
	return body, resp.StatusCode, nil
}
