package gateway

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rxintel/domain/analysis"
	"rxintel/internal"
	"rxintel/internal/errors"
)

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) BaseURL() string { return "http://backend.test" }

func (m *mockBackend) ProcessImage(ctx context.Context, file analysis.Upload) (*analysis.Result, error) {
	args := m.Called(ctx, file)
	result, _ := args.Get(0).(*analysis.Result)
	return result, args.Error(1)
}

func (m *mockBackend) ProcessText(ctx context.Context, text string) (*analysis.Result, error) {
	args := m.Called(ctx, text)
	result, _ := args.Get(0).(*analysis.Result)
	return result, args.Error(1)
}

func (m *mockBackend) ExtractEntities(ctx context.Context, text string) (*analysis.EntitiesResponse, error) {
	args := m.Called(ctx, text)
	resp, _ := args.Get(0).(*analysis.EntitiesResponse)
	return resp, args.Error(1)
}

func (m *mockBackend) BatchProcess(ctx context.Context, req analysis.BatchRequest) (*analysis.BatchResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*analysis.BatchResponse)
	return resp, args.Error(1)
}

func (m *mockBackend) Health(ctx context.Context) (*analysis.BackendStatus, error) {
	args := m.Called(ctx)
	status, _ := args.Get(0).(*analysis.BackendStatus)
	return status, args.Error(1)
}

func testOptions() Options {
	return Options{
		MaxUploadBytes:       50 * 1024 * 1024,
		AllowedExtensions:    []string{"png", "jpg", "jpeg", "gif", "pdf"},
		MaxConcurrentUploads: 2,
	}
}

func newTestService(b *mockBackend) *Service {
	return NewService(b, testOptions(), internal.NewLogger(internal.LogLevelError))
}

func TestProcessImageValidation(t *testing.T) {
	tests := []struct {
		name    string
		file    analysis.Upload
		message string
	}{
		{"no name", analysis.Upload{Content: []byte("x")}, "No file selected"},
		{"bad extension", analysis.Upload{Name: "notes.txt", Content: []byte("x")}, "Invalid file type. Allowed: png, jpg, jpeg, gif, pdf"},
		{"no extension", analysis.Upload{Name: "scan", Content: []byte("x")}, "Invalid file type. Allowed: png, jpg, jpeg, gif, pdf"},
		{"too large", analysis.Upload{Name: "scan.png", Size: 51 * 1024 * 1024}, "File too large. Maximum size: 50MB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &mockBackend{}
			resp, err := newTestService(b).ProcessImage(context.Background(), tt.file)

			require.NoError(t, err)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.message, resp.Error)
			b.AssertNotCalled(t, "ProcessImage", mock.Anything, mock.Anything)
		})
	}
}

func TestAnalyzeImageErrorCodes(t *testing.T) {
	svc := newTestService(&mockBackend{})

	_, _, err := svc.AnalyzeImage(context.Background(), analysis.Upload{Name: "a.exe"})
	assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))

	_, _, err = svc.AnalyzeImage(context.Background(), analysis.Upload{Name: "a.pdf", Size: 60 * 1024 * 1024})
	assert.Equal(t, errors.CodePayloadTooLarge, errors.GetCode(err))
}

func TestProcessImageForwardsSanitisedName(t *testing.T) {
	b := &mockBackend{}
	b.On("ProcessImage", mock.Anything, mock.MatchedBy(func(f analysis.Upload) bool {
		return f.Name == "my_scan.PNG"
	})).Return(&analysis.Result{Medications: []string{"Ibuprofen"}}, nil)

	resp, err := newTestService(b).ProcessImage(context.Background(), analysis.Upload{Name: "../tmp/my scan.PNG", Content: []byte("img")})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "my_scan.PNG", resp.Filename)
	assert.Equal(t, []string{"Ibuprofen"}, resp.Data.Medications)
	b.AssertExpectations(t)
}

func TestProcessImageBackendFailure(t *testing.T) {
	b := &mockBackend{}
	b.On("ProcessImage", mock.Anything, mock.Anything).
		Return(nil, errors.ExternalServiceError("Backend API request timeout", context.DeadlineExceeded))

	resp, err := newTestService(b).ProcessImage(context.Background(), analysis.Upload{Name: "rx.jpg", Content: []byte("img")})

	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "Backend API request timeout", resp.Error)
}

type gatedBackend struct {
	mockBackend
	inFlight atomic.Int32
	peak     atomic.Int32
	release  chan struct{}
}

func (g *gatedBackend) ProcessImage(ctx context.Context, file analysis.Upload) (*analysis.Result, error) {
	n := g.inFlight.Add(1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}
	<-g.release
	g.inFlight.Add(-1)
	return &analysis.Result{}, nil
}

func TestConcurrentUploadsAreCapped(t *testing.T) {
	g := &gatedBackend{release: make(chan struct{})}
	svc := NewService(g, testOptions(), internal.NewLogger(internal.LogLevelError))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.ProcessImage(context.Background(), analysis.Upload{Name: "rx.png", Content: []byte("x")})
		}()
	}

	require.Eventually(t, func() bool { return g.inFlight.Load() == 2 }, time.Second, 5*time.Millisecond)
	close(g.release)
	wg.Wait()

	assert.Equal(t, int32(2), g.peak.Load())
}

func TestUploadWaitHonoursContext(t *testing.T) {
	g := &gatedBackend{release: make(chan struct{})}
	opts := testOptions()
	opts.MaxConcurrentUploads = 1
	svc := NewService(g, opts, internal.NewLogger(internal.LogLevelError))

	go func() {
		_, _ = svc.ProcessImage(context.Background(), analysis.Upload{Name: "a.png", Content: []byte("x")})
	}()
	require.Eventually(t, func() bool { return g.inFlight.Load() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := svc.AnalyzeImage(ctx, analysis.Upload{Name: "b.png", Content: []byte("x")})
	assert.Error(t, err)
	close(g.release)
}

func TestProcessTextRejectsBlank(t *testing.T) {
	b := &mockBackend{}
	resp, err := newTestService(b).ProcessText(context.Background(), "   \n")

	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "Prescription text cannot be empty", resp.Error)
	b.AssertNotCalled(t, "ProcessText", mock.Anything, mock.Anything)
}

func TestProcessTextForwardsTrimmed(t *testing.T) {
	b := &mockBackend{}
	b.On("ProcessText", mock.Anything, "Metformin 500mg").Return(&analysis.Result{Medications: []string{"Metformin"}}, nil)

	resp, err := newTestService(b).ProcessText(context.Background(), "  Metformin 500mg ")

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, []string{"Metformin"}, resp.Data.Medications)
}

func TestExtractEntitiesRejectsBlank(t *testing.T) {
	_, err := newTestService(&mockBackend{}).ExtractEntities(context.Background(), "")
	assert.Equal(t, "Text cannot be empty", errors.Message(err))
}

func TestSubmitContact(t *testing.T) {
	resp, err := newTestService(&mockBackend{}).SubmitContact(context.Background(),
		analysis.ContactRequest{Name: "Ada", Email: "ada@example.com", Message: "hi"})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Contact form submitted successfully", resp.Message)
}

func TestHealthEmbedsBackendStatus(t *testing.T) {
	b := &mockBackend{}
	status := &analysis.BackendStatus{Status: "healthy", Components: analysis.Components{Flask: "running", NERModel: "initialized", Textract: "configured"}}
	b.On("Health", mock.Anything).Return(status, nil)
	svc := newTestService(b)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	resp, err := svc.Health(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "running", resp.Frontend)
	assert.True(t, resp.Backend.Success)
	assert.Equal(t, status, resp.Backend.Data)
	assert.Equal(t, fixed, resp.Timestamp)
}

func TestHealthNeverFails(t *testing.T) {
	b := &mockBackend{}
	b.On("Health", mock.Anything).Return(nil,
		errors.ExternalServiceError("Cannot connect to backend API at http://backend.test. Ensure backend is running.", nil))

	resp, err := newTestService(b).Health(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "running", resp.Frontend)
	assert.False(t, resp.Backend.Success)
	assert.Contains(t, resp.Backend.Error, "Cannot connect to backend API")
}

func TestHistory(t *testing.T) {
	resp := newTestService(&mockBackend{}).History()
	assert.True(t, resp.Success)
	assert.Empty(t, resp.History)
	assert.NotNil(t, resp.History)
	assert.Equal(t, "History feature coming soon", resp.Message)
}

func TestSecureFilename(t *testing.T) {
	assert.Equal(t, "scan.png", SecureFilename("scan.png"))
	assert.Equal(t, "passwd", SecureFilename("../../etc/passwd"))
	assert.Equal(t, "my_rx.pdf", SecureFilename(`C:\Users\me\my rx.pdf`))
	assert.Equal(t, "upload", SecureFilename("../"))
}

func TestMedicationAlert(t *testing.T) {
	svc := newTestService(&mockBackend{})
	withMeds := &analysis.Result{Medications: []string{"Warfarin"}, Frequencies: []string{"once daily"}}

	got := svc.MedicationAlert("patient@example.com", withMeds)
	require.NotNil(t, got.EmailSent)
	assert.False(t, *got.EmailSent)
	assert.Equal(t, withMeds.Medications, got.Medications)
	assert.Nil(t, withMeds.EmailSent, "input must not be modified")

	assert.Same(t, withMeds, svc.MedicationAlert("  ", withMeds))
	noMeds := &analysis.Result{RawText: "nothing"}
	assert.Same(t, noMeds, svc.MedicationAlert("patient@example.com", noMeds))
	assert.Nil(t, svc.MedicationAlert("patient@example.com", nil))
}
