package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// requestTimeout bounds one OCR call. Large scanned statements routinely
// take tens of seconds to process.
const requestTimeout = 120 * time.Second

// Backend turns PDF bytes into an OCR response. Implementations are the
// Mistral Document AI HTTP client and the Gemini vision client.
type Backend interface {
	Process(ctx context.Context, pdfBytes []byte) (*Response, error)
}

// ErrTimeout marks an OCR call that exceeded its deadline. Callers
// translate it into a user-facing message; retries belong to the job
// runner, not to this client.
var ErrTimeout = errors.New("ocr: request timed out")

// StatusError is a non-2xx reply from the OCR service.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ocr: service returned HTTP %d", e.Code)
}

// MistralClient calls a Mistral Document AI deployment over HTTP.
type MistralClient struct {
	apiKey     string
	url        string
	model      string
	httpClient *http.Client
}

// NewMistralClient builds a client for the given OCR deployment. All three
// parameters come from configuration; there is no ambient global lookup.
func NewMistralClient(apiKey, url, model string) *MistralClient {
	return &MistralClient{
		apiKey: apiKey,
		url:    url,
		model:  model,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

type documentPayload struct {
	Type        string `json:"type"`
	DocumentURL string `json:"document_url"`
}

type ocrRequest struct {
	Model              string          `json:"model"`
	Document           documentPayload `json:"document"`
	IncludeImageBase64 bool            `json:"include_image_base64"`
}

// Process sends the PDF as a base64 data URI and decodes the OCR response.
func (c *MistralClient) Process(ctx context.Context, pdfBytes []byte) (*Response, error) {
	dataURI := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(pdfBytes)

	payload, err := json.Marshal(ocrRequest{
		Model: c.model,
		Document: documentPayload{
			Type:        "document_url",
			DocumentURL: dataURI,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Process: marshal OCR request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("Process: build OCR request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("Process: %w", ErrTimeout)
		}
		return nil, fmt.Errorf("Process: OCR request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("Process: %w", &StatusError{Code: resp.StatusCode})
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("Process: decode OCR response: %w", err)
	}

	return &out, nil
}
