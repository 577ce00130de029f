// Package backend is the HTTP client of the external prescription analysis service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"

	"rxintel/domain/analysis"
	"rxintel/internal"
	"rxintel/internal/errors"
	"rxintel/ports"
)

var _ ports.Backend = (*Client)(nil)

// Client calls the analysis service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *internal.Logger
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *internal.Logger) *Client {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With("Backend"),
	}
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// processResponse is the flat shape the service answers process calls with.
type processResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	analysis.Result
}

// ProcessImage uploads file as multipart field "file".
func (c *Client) ProcessImage(ctx context.Context, file analysis.Upload) (*analysis.Result, error) {
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

	var out processResponse
	if err := c.do(ctx, http.MethodPost, "/api/process-image", mw.FormDataContentType(), &body, &out); err != nil {
		return nil, err
	}
	return checkProcess(&out)
}

// ProcessText runs entity extraction on text.
func (c *Client) ProcessText(ctx context.Context, text string) (*analysis.Result, error) {
	var out processResponse
	if err := c.postJSON(ctx, "/api/process-text", analysis.TextRequest{Text: text}, &out); err != nil {
		return nil, err
	}
	return checkProcess(&out)
}

// ExtractEntities returns the list fields only.
func (c *Client) ExtractEntities(ctx context.Context, text string) (*analysis.EntitiesResponse, error) {
	var out analysis.EntitiesResponse
	if err := c.postJSON(ctx, "/api/extract-entities", analysis.TextRequest{Text: text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BatchProcess analyses several prescriptions in one call.
func (c *Client) BatchProcess(ctx context.Context, req analysis.BatchRequest) (*analysis.BatchResponse, error) {
	var out analysis.BatchResponse
	if err := c.postJSON(ctx, "/api/batch-process", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health fetches the service's component report.
func (c *Client) Health(ctx context.Context) (*analysis.BackendStatus, error) {
	var out analysis.BackendStatus
	if err := c.do(ctx, http.MethodGet, "/api/health", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func checkProcess(out *processResponse) (*analysis.Result, error) {
	if !out.Success {
		msg := out.Error
		if msg == "" {
			msg = "API Error"
		}
		return nil, errors.ExternalServiceError(msg, nil)
	}
	result := out.Result
	return &result, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return errors.Wrap(err, "marshal request")
	}
	return c.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(raw), out)
}

// do issues one request and decodes a 200 answer into out. Failures carry the
// message shown to the user.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("%s %s failed after %s: %v", method, path, time.Since(start), err)
		if isTimeout(err) {
			return errors.ExternalServiceError("Backend API request timeout", err)
		}
		return errors.ExternalServiceError(
			fmt.Sprintf("Cannot connect to backend API at %s. Ensure backend is running.", c.baseURL), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.ExternalServiceError("Failed to read backend response", err)
	}
	c.logger.Debug("%s %s -> %d in %s", method, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		var failure struct {
			Error string `json:"error"`
		}
		msg := "API Error"
		if json.Unmarshal(raw, &failure) == nil && failure.Error != "" {
			msg = failure.Error
		}
		return errors.ExternalServiceError(msg, fmt.Errorf("backend http %d", resp.StatusCode))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return errors.ExternalServiceError("Invalid response from backend API", err)
	}
	return nil
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}
