// internal/docstore/appwrite.go
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// AppwriteStore talks to the Appwrite databases REST API.
type AppwriteStore struct {
	Endpoint   string
	ProjectID  string
	APIKey     string
	HTTPClient *http.Client
}

// APIError is a non-2xx answer from Appwrite.
type APIError struct {
	StatusCode int
	Code       int    `json:"code"`
	Type       string `json:"type"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("appwrite: %d %s: %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("appwrite: %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

func NewAppwriteStore(endpoint, projectID, apiKey string, timeout time.Duration) *AppwriteStore {
	return &AppwriteStore{
		Endpoint:   strings.TrimRight(endpoint, "/"),
		ProjectID:  projectID,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

func documentsPath(databaseID, collectionID string) string {
	return fmt.Sprintf("/databases/%s/collections/%s/documents",
		url.PathEscape(databaseID), url.PathEscape(collectionID))
}

func (s *AppwriteStore) CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data any) (*Document, error) {
	attrs, err := toData(data)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	body := map[string]any{
		"documentId": documentID,
		"data":       attrs,
	}
	var doc Document
	if err := s.do(ctx, http.MethodPost, documentsPath(databaseID, collectionID), nil, body, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *AppwriteStore) GetDocument(ctx context.Context, databaseID, collectionID, documentID string) (*Document, error) {
	var doc Document
	path := documentsPath(databaseID, collectionID) + "/" + url.PathEscape(documentID)
	if err := s.do(ctx, http.MethodGet, path, nil, nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *AppwriteStore) ListDocuments(ctx context.Context, databaseID, collectionID string, queries ...Query) (*DocumentList, error) {
	params := url.Values{}
	for _, q := range queries {
		b, err := json.Marshal(q)
		if err != nil {
			return nil, fmt.Errorf("encode query: %w", err)
		}
		params.Add("queries[]", string(b))
	}
	var list DocumentList
	if err := s.do(ctx, http.MethodGet, documentsPath(databaseID, collectionID), params, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (s *AppwriteStore) UpdateDocument(ctx context.Context, databaseID, collectionID, documentID string, data any) (*Document, error) {
	attrs, err := toData(data)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var doc Document
	path := documentsPath(databaseID, collectionID) + "/" + url.PathEscape(documentID)
	if err := s.do(ctx, http.MethodPatch, path, nil, map[string]any{"data": attrs}, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Ping hits the public version endpoint.
func (s *AppwriteStore) Ping(ctx context.Context) error {
	return s.do(ctx, http.MethodGet, "/health/version", nil, nil, nil)
}

func (s *AppwriteStore) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	u := s.Endpoint + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("X-Appwrite-Project", s.ProjectID)
	if s.APIKey != "" {
		req.Header.Set("X-Appwrite-Key", s.APIKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := s.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("appwrite %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if err := json.Unmarshal(b, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(b))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode appwrite response: %w", err)
	}
	return nil
}

var _ Store = (*AppwriteStore)(nil)
