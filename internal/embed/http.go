// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jaat-ai/knowledge-engine/internal/httputil"
)

// embedAPIBase is the embeddings endpoint (OpenAI wire format). Declared as
// a var so tests can substitute an httptest server.
var embedAPIBase = "https://api.openai.com/v1/embeddings"

const defaultEmbedModel = "text-embedding-3-small"

// HTTPProvider calls an OpenAI-compatible embeddings API.
type HTTPProvider struct {
	Client *http.Client
	APIKey string
	Model  string
	Dims   int
}

// NewHTTPProvider returns an HTTP embedding backend producing vectors of
// the given length. An empty model uses the default.
func NewHTTPProvider(apiKey, model string, dims int) *HTTPProvider {
	if model == "" {
		model = defaultEmbedModel
	}
	return &HTTPProvider{
		Client: &http.Client{Timeout: 30 * time.Second},
		APIKey: apiKey,
		Model:  model,
		Dims:   dims,
	}
}

// Dimensions returns the configured vector length.
func (p *HTTPProvider) Dimensions() int { return p.Dims }

type embedRequest struct {
	Model      string `json:"model"`
	Input      string `json:"input"`
	Dimensions int    `json:"dimensions,omitempty"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Embed requests an embedding for text, retrying on rate limits.
func (p *HTTPProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	body, err := json.Marshal(embedRequest{Model: p.Model, Input: text, Dimensions: p.Dims})
	if err != nil {
		return nil, fmt.Errorf("encoding embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, embedAPIBase, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := httputil.DoWithRetry(ctx, p.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}
	defer resp.Body.Close()

	var decoded embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding embed response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if decoded.Error != nil {
			return nil, fmt.Errorf("embedding API: %s (HTTP %d)", decoded.Error.Message, resp.StatusCode)
		}
		return nil, fmt.Errorf("embedding API: HTTP %d", resp.StatusCode)
	}

	if len(decoded.Data) == 0 {
		return nil, fmt.Errorf("embedding API returned no vectors")
	}

	vec := decoded.Data[0].Embedding
	if len(vec) != p.Dims {
		return nil, fmt.Errorf("embedding API returned %d dimensions, want %d", len(vec), p.Dims)
	}
	return vec, nil
}
