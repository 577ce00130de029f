// Package gateway validates front-end API requests and forwards them to the
// analysis backend. It also serves as the in-process AnalysisAPI of the web UI.
package gateway

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"rxintel/domain/analysis"
	"rxintel/internal"
	"rxintel/internal/errors"
	"rxintel/ports"
)

// Options bounds what the gateway accepts.
type Options struct {
	MaxUploadBytes       int64
	AllowedExtensions    []string
	MaxConcurrentUploads int64
}

// Service is the gateway between the page and the backend.
type Service struct {
	backend ports.Backend
	opts    Options
	uploads *semaphore.Weighted
	logger  *internal.Logger
	now     func() time.Time
}

var _ ports.AnalysisAPI = (*Service)(nil)

// NewService creates a gateway in front of backend.
func NewService(backend ports.Backend, opts Options, logger *internal.Logger) *Service {
	if opts.MaxConcurrentUploads <= 0 {
		opts.MaxConcurrentUploads = 1
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Service{
		backend: backend,
		opts:    opts,
		uploads: semaphore.NewWeighted(opts.MaxConcurrentUploads),
		logger:  logger.With("Gateway"),
		now:     time.Now,
	}
}

// MaxUploadBytes is the largest accepted upload.
func (s *Service) MaxUploadBytes() int64 { return s.opts.MaxUploadBytes }

// TooLargeMessage is reported when an upload exceeds the limit.
func (s *Service) TooLargeMessage() string {
	return fmt.Sprintf("File too large. Maximum size: %dMB", s.opts.MaxUploadBytes/(1024*1024))
}

func (s *Service) allowedFile(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return false
	}
	for _, allowed := range s.opts.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SecureFilename reduces an uploaded name to a safe base name.
func SecureFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	name = unsafeFilenameChars.ReplaceAllString(strings.ReplaceAll(name, " ", "_"), "")
	name = strings.Trim(name, "._")
	if name == "" {
		return "upload"
	}
	return name
}

// AnalyzeImage validates an upload and forwards it to the backend.
func (s *Service) AnalyzeImage(ctx context.Context, file analysis.Upload) (*analysis.Result, string, error) {
	if file.Name == "" {
		return nil, "", errors.ValidationError("No file selected")
	}
	if !s.allowedFile(file.Name) {
		return nil, "", errors.ValidationError(fmt.Sprintf("Invalid file type. Allowed: %s", strings.Join(s.opts.AllowedExtensions, ", ")))
	}
	size := file.Size
	if size == 0 {
		size = int64(len(file.Content))
	}
	if s.opts.MaxUploadBytes > 0 && size > s.opts.MaxUploadBytes {
		return nil, "", errors.PayloadTooLarge(s.TooLargeMessage())
	}

	if err := s.uploads.Acquire(ctx, 1); err != nil {
		return nil, "", errors.Wrap(err, "upload cancelled")
	}
	defer s.uploads.Release(1)

	name := SecureFilename(file.Name)
	s.logger.Info("forwarding image %s (%d bytes)", name, size)
	file.Name = name
	result, err := s.backend.ProcessImage(ctx, file)
	if err != nil {
		return nil, name, err
	}
	return result, name, nil
}

// AnalyzeText forwards non-blank text to the backend.
func (s *Service) AnalyzeText(ctx context.Context, text string) (*analysis.Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.ValidationError("Prescription text cannot be empty")
	}
	return s.backend.ProcessText(ctx, text)
}

// MedicationAlert answers a patient alert request on result. No mail transport is
// configured, so a request for an alert with medications present is reported as
// email_sent=false. result itself is never modified.
func (s *Service) MedicationAlert(patientEmail string, result *analysis.Result) *analysis.Result {
	if strings.TrimSpace(patientEmail) == "" || result == nil || len(result.Medications) == 0 {
		return result
	}
	s.logger.Warn("medication alert for %d medications not sent: no mail transport configured", len(result.Medications))
	sent := false
	out := *result
	out.EmailSent = &sent
	return &out
}

// ExtractEntities forwards non-blank text for entity extraction only.
func (s *Service) ExtractEntities(ctx context.Context, text string) (*analysis.EntitiesResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.ValidationError("Text cannot be empty")
	}
	return s.backend.ExtractEntities(ctx, text)
}

// BatchProcess forwards a batch of prescriptions.
func (s *Service) BatchProcess(ctx context.Context, req analysis.BatchRequest) (*analysis.BatchResponse, error) {
	return s.backend.BatchProcess(ctx, req)
}

// Contact accepts a contact form submission. Submissions are logged only.
func (s *Service) Contact(_ context.Context, req analysis.ContactRequest) error {
	s.logger.Info("contact message from %q <%s> (%d chars)", req.Name, req.Email, len(req.Message))
	return nil
}

// CheckHealth reports the front end as running and embeds the backend's answer.
// It never fails.
func (s *Service) CheckHealth(ctx context.Context) *analysis.HealthResponse {
	resp := &analysis.HealthResponse{Frontend: "running", Timestamp: s.now()}
	status, err := s.backend.Health(ctx)
	if err != nil {
		resp.Backend = analysis.BackendHealth{Success: false, Error: errors.Message(err)}
		return resp
	}
	resp.Backend = analysis.BackendHealth{Success: true, Data: status}
	return resp
}

// History is not recorded yet.
func (s *Service) History() *analysis.HistoryResponse {
	return &analysis.HistoryResponse{Success: true, History: []*analysis.Result{}, Message: "History feature coming soon"}
}

// ProcessImage implements ports.AnalysisAPI. Failures come back as success=false.
func (s *Service) ProcessImage(ctx context.Context, file analysis.Upload) (*analysis.Response, error) {
	result, name, err := s.AnalyzeImage(ctx, file)
	if err != nil {
		return &analysis.Response{Success: false, Error: errors.Message(err)}, nil
	}
	return &analysis.Response{Success: true, Data: result, Filename: name}, nil
}

// ProcessText implements ports.AnalysisAPI.
func (s *Service) ProcessText(ctx context.Context, text string) (*analysis.Response, error) {
	result, err := s.AnalyzeText(ctx, text)
	if err != nil {
		return &analysis.Response{Success: false, Error: errors.Message(err)}, nil
	}
	return &analysis.Response{Success: true, Data: result}, nil
}

// SubmitContact implements ports.AnalysisAPI.
func (s *Service) SubmitContact(ctx context.Context, req analysis.ContactRequest) (*analysis.ContactResponse, error) {
	if err := s.Contact(ctx, req); err != nil {
		return &analysis.ContactResponse{Success: false, Error: errors.Message(err)}, nil
	}
	return &analysis.ContactResponse{Success: true, Message: "Contact form submitted successfully"}, nil
}

// Health implements ports.AnalysisAPI.
func (s *Service) Health(ctx context.Context) (*analysis.HealthResponse, error) {
	return s.CheckHealth(ctx), nil
}
