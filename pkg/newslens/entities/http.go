package entities

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPExtractor calls an external NER service (for example a spaCy model
// behind a small HTTP wrapper). Request: {"text": ...}. Response:
// {"ents": [{"text": ..., "label": ...}]}.
type HTTPExtractor struct {
	Endpoint string
	APIKey   string

	HTTPClient *http.Client
}

type nerRequest struct {
	Text string `json:"text"`
}

type nerResponse struct {
	Ents  []Span `json:"ents"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Extract implements Extractor.
func (c *HTTPExtractor) Extract(ctx context.Context, text string) ([]Span, error) {
	if c.Endpoint == "" {
		return nil, fmt.Errorf("ner: endpoint required")
	}
	body, err := json.Marshal(nerRequest{Text: text})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ner: HTTP %d", resp.StatusCode)
	}
	var payload nerResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Error != nil {
		return nil, fmt.Errorf("ner error: %s", payload.Error.Message)
	}
	return payload.Ents, nil
}

func (c *HTTPExtractor) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 15 * time.Second}
}
