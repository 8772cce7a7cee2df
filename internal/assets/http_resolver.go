package assets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// HTTPResolver resolves content IDs through the asset resolution service's
// batch endpoint.
type HTTPResolver struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPResolver creates a new HTTP-based asset resolver
func NewHTTPResolver(baseURL string) *HTTPResolver {
	return &HTTPResolver{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

type resolveRequest struct {
	IDs []string `json:"ids"`
}

type resolveResponse struct {
	Paths map[string]string `json:"paths"`
}

// Resolve maps content IDs to local file paths via the batch endpoint.
// IDs the service does not know are absent from the returned map.
func (r *HTTPResolver) Resolve(ctx context.Context, ids []string) (map[string]string, error) {
	url := fmt.Sprintf("%s/api/v1/assets/resolve", r.baseURL)

	body, err := json.Marshal(resolveRequest{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve assets: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("resolve failed with status %d", resp.StatusCode)
	}

	var out resolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return out.Paths, nil
}
