package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sagehq/sage/pkg/logger"
)

// HTTPRecorder posts interaction records to the platform's memory service.
// Responses are ignored beyond status logging.
type HTTPRecorder struct {
	url        string
	token      func() string
	httpClient *http.Client
}

// NewHTTPRecorder creates a recorder targeting the memory endpoint at url
func NewHTTPRecorder(url string, token func() string) *HTTPRecorder {
	if token == nil {
		token = func() string { return "" }
	}
	return &HTTPRecorder{
		url:        url,
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (r *HTTPRecorder) Record(ctx context.Context, rec Interaction) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal interaction: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create memory request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token := r.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("memory request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("memory service returned status %d", resp.StatusCode)
	}

	logger.Debug("interaction recorded (request_id=%s)", rec.RequestID)
	return nil
}

func (r *HTTPRecorder) Enabled() bool {
	return r.url != ""
}

func (r *HTTPRecorder) Close() error {
	return nil
}

var _ Recorder = (*HTTPRecorder)(nil)
