package frontend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"rxintel/domain/analysis"
	"rxintel/domain/core"
	"rxintel/domain/health"
	"rxintel/domain/section"
	"rxintel/internal"
	"rxintel/ports"
)

type toast struct {
	id      core.ToastID
	message string
	kind    ports.NotificationKind
}

type download struct {
	filename    string
	contentType string
	data        []byte
}

// recordingView is an in-memory page that logs every mutation in order.
type recordingView struct {
	sections      map[section.ID]bool
	nav           section.ID
	fragment      string
	scrollTops    int
	pickerOpens   int
	highlight     bool
	files         []analysis.Upload
	label         string
	imageResets   int
	textResets    int
	contactResets int

	lists          map[analysis.Field][]string
	rawText        string
	resultsVisible bool
	downloads      []download
	clipboard      string
	clipboardErr   error

	overlayCreated int
	overlayVisible bool
	overlayMessage string
	toasts         []toast
	removed        []core.ToastID

	health  map[health.Component]health.ComponentHealth
	latency string
	stats   ports.DashboardStats

	log []string
}

func newRecordingView() *recordingView {
	v := &recordingView{
		sections: map[section.ID]bool{},
		lists:    map[analysis.Field][]string{},
		health:   map[health.Component]health.ComponentHealth{},
	}
	for _, id := range section.All {
		v.sections[id] = false
	}
	v.sections[section.Home] = true
	return v
}

func (v *recordingView) record(format string, args ...interface{}) {
	v.log = append(v.log, fmt.Sprintf(format, args...))
}

func (v *recordingView) HasSection(id section.ID) bool {
	_, ok := v.sections[id]
	return ok
}

func (v *recordingView) DeactivateAllSections() {
	for id := range v.sections {
		v.sections[id] = false
	}
}

func (v *recordingView) ActivateSection(id section.ID) { v.sections[id] = true }
func (v *recordingView) HighlightNav(id section.ID)    { v.nav = id }
func (v *recordingView) SetFragment(fragment string)   { v.fragment = fragment }
func (v *recordingView) ScrollToTop()                  { v.scrollTops++ }

func (v *recordingView) activeSections() []section.ID {
	var out []section.ID
	for _, id := range section.All {
		if v.sections[id] {
			out = append(out, id)
		}
	}
	return out
}

func (v *recordingView) OpenFilePicker()                          { v.pickerOpens++ }
func (v *recordingView) SetDropHighlight(on bool)                 { v.highlight = on }
func (v *recordingView) SetSelectedFiles(files []analysis.Upload) { v.files = files }
func (v *recordingView) SelectedFiles() []analysis.Upload         { return v.files }
func (v *recordingView) SetUploadLabel(label string)              { v.label = label }

func (v *recordingView) ResetImageForm()   { v.imageResets++; v.files = nil }
func (v *recordingView) ResetTextForm()    { v.textResets++ }
func (v *recordingView) ResetContactForm() { v.contactResets++ }

func (v *recordingView) RenderList(field analysis.Field, itemsHTML []string) {
	v.lists[field] = itemsHTML
}
func (v *recordingView) SetRawText(text string)   { v.rawText = text }
func (v *recordingView) ShowResults(visible bool) { v.resultsVisible = visible }
func (v *recordingView) ScrollToResults()         {}

func (v *recordingView) Download(filename, contentType string, data []byte) {
	v.downloads = append(v.downloads, download{filename, contentType, data})
}

func (v *recordingView) WriteClipboard(text string) error {
	if v.clipboardErr != nil {
		return v.clipboardErr
	}
	v.clipboard = text
	return nil
}

func (v *recordingView) CreateOverlay() { v.overlayCreated++ }

func (v *recordingView) SetOverlay(visible bool, message string) {
	v.overlayVisible = visible
	v.overlayMessage = message
	if visible {
		v.record("overlay:show:%s", message)
	} else {
		v.record("overlay:hide")
	}
}

func (v *recordingView) AddToast(id core.ToastID, message string, kind ports.NotificationKind) {
	v.toasts = append(v.toasts, toast{id, message, kind})
	v.record("toast:%s:%s", kind, message)
}

func (v *recordingView) RemoveToast(id core.ToastID) { v.removed = append(v.removed, id) }

func (v *recordingView) SetComponentHealth(h health.ComponentHealth) { v.health[h.Component] = h }
func (v *recordingView) SetLatency(label string)                     { v.latency = label }
func (v *recordingView) SetStats(stats ports.DashboardStats)         { v.stats = stats }

func (v *recordingView) toastsOfKind(kind ports.NotificationKind) []toast {
	var out []toast
	for _, t := range v.toasts {
		if t.kind == kind {
			out = append(out, t)
		}
	}
	return out
}

// mockAPI is a testify mock of the analysis API.
type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) ProcessImage(ctx context.Context, file analysis.Upload) (*analysis.Response, error) {
	args := m.Called(ctx, file)
	resp, _ := args.Get(0).(*analysis.Response)
	return resp, args.Error(1)
}

func (m *mockAPI) ProcessText(ctx context.Context, text string) (*analysis.Response, error) {
	args := m.Called(ctx, text)
	resp, _ := args.Get(0).(*analysis.Response)
	return resp, args.Error(1)
}

func (m *mockAPI) SubmitContact(ctx context.Context, req analysis.ContactRequest) (*analysis.ContactResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*analysis.ContactResponse)
	return resp, args.Error(1)
}

func (m *mockAPI) Health(ctx context.Context) (*analysis.HealthResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).(*analysis.HealthResponse)
	return resp, args.Error(1)
}

// fakeClock fires AfterFunc callbacks only when advanced.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	pending []*fakeTimer
}

type fakeTimer struct {
	at      time.Time
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.UnixMilli(1700000000000)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) ports.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now.Add(d), f: f}
	c.pending = append(c.pending, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due, rest []*fakeTimer
	for _, t := range c.pending {
		if !t.at.After(c.now) {
			due = append(due, t)
		} else {
			rest = append(rest, t)
		}
	}
	c.pending = rest
	c.mu.Unlock()

	for _, t := range due {
		if !t.stopped {
			t.f()
		}
	}
}

func newTestController(api ports.AnalysisAPI) (*Controller, *recordingView, *fakeClock) {
	view := newRecordingView()
	clock := newFakeClock()
	c := New(view, api, Options{
		NotificationTTL:    3 * time.Second,
		HealthPollInterval: 30 * time.Second,
		Clock:              clock,
		Logger:             internal.NewLogger(internal.LogLevelError),
	})
	return c, view, clock
}

func onlineHealth() *analysis.HealthResponse {
	return &analysis.HealthResponse{
		Frontend: "running",
		Backend: analysis.BackendHealth{
			Success: true,
			Data: &analysis.BackendStatus{
				Components: analysis.Components{NERModel: health.NERInitialized, Textract: health.TextractConfigured},
			},
		},
	}
}
