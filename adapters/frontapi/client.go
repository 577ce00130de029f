// Package frontapi talks to a running front end's /api surface.
package frontapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"rxintel/domain/analysis"
	"rxintel/internal/errors"
	"rxintel/ports"
)

var _ ports.AnalysisAPI = (*Client)(nil)

// Client implements ports.AnalysisAPI over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the front end at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// ProcessImage posts file as multipart field "file".
func (c *Client) ProcessImage(ctx context.Context, file analysis.Upload) (*analysis.Response, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", file.Name)
	if err != nil {
		return nil, errors.Wrap(err, "build multipart body")
	}
	if _, err := part.Write(file.Content); err != nil {
		return nil, errors.Wrap(err, "write multipart body")
	}
	if err := mw.Close(); err != nil {
		return nil, errors.Wrap(err, "close multipart body")
	}

	var out analysis.Response
	if err := c.do(ctx, http.MethodPost, "/api/process-image", mw.FormDataContentType(), &body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProcessText posts {text}.
func (c *Client) ProcessText(ctx context.Context, text string) (*analysis.Response, error) {
	var out analysis.Response
	if err := c.postJSON(ctx, "/api/process-text", analysis.TextRequest{Text: text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitContact posts the contact form.
func (c *Client) SubmitContact(ctx context.Context, req analysis.ContactRequest) (*analysis.ContactResponse, error) {
	var out analysis.ContactResponse
	if err := c.postJSON(ctx, "/api/contact", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health fetches the aggregated health report.
func (c *Client) Health(ctx context.Context) (*analysis.HealthResponse, error) {
	var out analysis.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/api/health", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return errors.Wrap(err, "marshal request")
	}
	return c.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(raw), out)
}

// do decodes the JSON envelope whatever the status code; the front end
// reports application failures as success=false with a 4xx/5xx status.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.ExternalServiceError(fmt.Sprintf("Cannot reach %s", c.baseURL), err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.ExternalServiceError(fmt.Sprintf("Unexpected response (HTTP %d)", resp.StatusCode), err)
	}
	return nil
}
