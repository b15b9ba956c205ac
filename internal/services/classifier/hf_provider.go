// File: internal/services/classifier/hf_provider.go
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// hfProvider calls a HuggingFace-style image-classification inference
// endpoint: raw image bytes in, a score-sorted label array out.
type hfProvider struct {
	config *Config
	client *http.Client
}

// NewHFProvider builds a Classifier backed by the configured inference API.
func NewHFProvider(config *Config) (Classifier, error) {
	if err := config.Validate(); err != nil {
		return nil, &ClassifierError{Type: ErrTypeConfig, Message: err.Error()}
	}
	return &hfProvider{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}, nil
}

type prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (p *hfProvider) Predict(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", &ClassifierError{Type: ErrTypeValidation, Message: "image is empty"}
	}

	var label string
	retryCfg := &RetryConfig{MaxAttempts: p.config.MaxRetries, Delay: p.config.RetryDelay}
	err := RetryWithBackoff(ctx, retryCfg, func(ctx context.Context) error {
		var attemptErr error
		label, attemptErr = p.predictOnce(ctx, image)
		return attemptErr
	})
	if err != nil {
		return "", err
	}
	return label, nil
}

func (p *hfProvider) predictOnce(ctx context.Context, image []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.APIURL, bytes.NewReader(image))
	if err != nil {
		return "", &ClassifierError{Type: ErrTypeNetwork, Message: "failed to build request", Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", &ClassifierError{Type: ErrTypeNetwork, Message: "inference request failed", Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ClassifierError{Type: ErrTypeNetwork, Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ClassifierError{
			Type:    ErrTypeProvider,
			Code:    resp.StatusCode,
			Message: fmt.Sprintf("inference API returned status %d", resp.StatusCode),
		}
	}

	var predictions []prediction
	if err := json.Unmarshal(body, &predictions); err != nil {
		return "", &ClassifierError{Type: ErrTypeDecode, Message: "unexpected response shape", Cause: err}
	}
	if len(predictions) == 0 {
		return "", &ClassifierError{Type: ErrTypeProvider, Message: "inference API returned no predictions"}
	}

	// The API returns labels sorted by score, but don't depend on it.
	best := predictions[0]
	for _, pred := range predictions[1:] {
		if pred.Score > best.Score {
			best = pred
		}
	}
	return strings.ToLower(best.Label), nil
}
