package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"hermes/internal/adapters/config"
	"hermes/internal/domain/sentiment"
	"hermes/pkg/errors"
)

const inferenceBaseURL = "https://api-inference.huggingface.co/models/"

// Compile-time check
var _ sentiment.Analyzer = (*Client)(nil)

// Client scores texts with a HuggingFace inference endpoint running
// an SST-2 style binary sentiment model.
type Client struct {
	apiToken   string
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a HuggingFace inference client from configuration
func NewClient(cfg config.HuggingFaceConfig) *Client {
	return &Client{
		apiToken:   cfg.APIToken,
		endpoint:   inferenceBaseURL + cfg.Model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// AnalyzeText classifies one text and returns its positive and
// negative scores. The inference API answers with a nested array:
// [[{"label": "NEGATIVE", "score": ...}, {"label": "POSITIVE", "score": ...}]]
func (c *Client) AnalyzeText(ctx context.Context, text string) (sentiment.Score, error) {
	body, err := json.Marshal(inferenceRequest{Inputs: text})
	if err != nil {
		return sentiment.Score{}, errors.Wrap(err, "marshal inference request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return sentiment.Score{}, errors.Wrap(err, "create inference request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return sentiment.Score{}, errors.Wrap(err, "inference request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return sentiment.Score{}, fmt.Errorf("inference API returned %d: %s", resp.StatusCode, string(raw))
	}

	var results [][]labelScore
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return sentiment.Score{}, errors.Wrap(err, "decode inference response")
	}
	if len(results) == 0 || len(results[0]) == 0 {
		return sentiment.Score{}, errors.New("empty inference response")
	}

	var score sentiment.Score
	for _, ls := range results[0] {
		switch ls.Label {
		case "POSITIVE":
			score.Positive = ls.Score
		case "NEGATIVE":
			score.Negative = ls.Score
		}
	}

	return score, nil
}
