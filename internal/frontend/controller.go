// Package frontend is the browser-facing controller of the prescription analyser:
// navigation, uploads, submissions, result rendering and the health dashboard.
//
// A Controller owns the state of one page (the current result, the active section,
// session statistics) and mutates the page only through ports.View. Every exported
// operation is safe for concurrent use; the controller lock is released while a
// request to the analysis API is in flight so the page stays responsive.
package frontend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"rxintel/domain/analysis"
	"rxintel/domain/health"
	"rxintel/domain/section"
	"rxintel/internal"
	"rxintel/ports"
)

// Navigator switches the visible section.
type Navigator interface {
	NavigateToSection(ctx context.Context, id section.ID, updateFragment bool)
	OnFragmentChange(ctx context.Context, fragment string)
}

// Uploader reacts to the drop zone and file input.
type Uploader interface {
	ClickDropZone()
	DragEnter()
	DragLeave()
	Drop(files []analysis.Upload)
	SelectFiles(files []analysis.Upload)
}

// Submitter handles the three forms.
type Submitter interface {
	SubmitImage(ctx context.Context) error
	SubmitText(ctx context.Context, text string) error
	SubmitContact(ctx context.Context, req analysis.ContactRequest) error
}

// Renderer projects and exports the current result.
type Renderer interface {
	DisplayResults(result *analysis.Result)
	DownloadResults() error
	DownloadWorkbook() error
	CopyResults() error
	NewAnalysis()
}

// HealthPoller reflects component health on the dashboard.
type HealthPoller interface {
	CheckSystemHealth(ctx context.Context) health.Snapshot
	LoadStats()
	Run(ctx context.Context)
}

var (
	_ Navigator    = (*Controller)(nil)
	_ Uploader     = (*Controller)(nil)
	_ Submitter    = (*Controller)(nil)
	_ Renderer     = (*Controller)(nil)
	_ HealthPoller = (*Controller)(nil)
)

// Options tunes timed behaviour.
type Options struct {
	NotificationTTL    time.Duration
	HealthPollInterval time.Duration
	Clock              ports.Clock
	Logger             *internal.Logger
}

// DefaultOptions matches the page's stock timings.
func DefaultOptions() Options {
	return Options{
		NotificationTTL:    3 * time.Second,
		HealthPollInterval: 30 * time.Second,
		Clock:              ports.SystemClock{},
		Logger:             internal.DefaultLogger,
	}
}

// latencyWindow bounds the samples kept for the dashboard summary.
const latencyWindow = 20

// Controller is the single UI controller of one page.
type Controller struct {
	mu sync.Mutex

	view   ports.View
	api    ports.AnalysisAPI
	clock  ports.Clock
	logger *internal.Logger
	opts   Options

	overlay  *Overlay
	notifier *Notifier

	current   *analysis.Result
	active    section.ID
	startTime time.Time

	analysesRun      int
	medicationsFound int
	lastAnalysis     time.Time
	healthChecks     int
	latencies        []float64
	lastHealth       *health.Snapshot

	bg       context.Context
	pollOnce sync.Once
	polling  bool

	handlers map[EventKind]func(ctx context.Context, ev Event) error
}

// New builds a controller over view and api. Zero option fields take defaults.
func New(view ports.View, api ports.AnalysisAPI, opts Options) *Controller {
	def := DefaultOptions()
	if opts.NotificationTTL <= 0 {
		opts.NotificationTTL = def.NotificationTTL
	}
	if opts.HealthPollInterval <= 0 {
		opts.HealthPollInterval = def.HealthPollInterval
	}
	if opts.Clock == nil {
		opts.Clock = def.Clock
	}
	if opts.Logger == nil {
		opts.Logger = def.Logger
	}

	c := &Controller{
		view:      view,
		api:       api,
		clock:     opts.Clock,
		logger:    opts.Logger.With("Controller"),
		opts:      opts,
		startTime: opts.Clock.Now(),
	}
	c.overlay = &Overlay{view: view}
	c.notifier = &Notifier{
		view:  view,
		clock: opts.Clock,
		ttl:   opts.NotificationTTL,
		sync:  c.locked,
	}
	c.handlers = c.dispatchTable()
	return c
}

// locked runs f under the controller lock.
func (c *Controller) locked(f func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f()
}

// Bind ties background work to ctx, the lifetime of the page. A bound controller
// refreshes the dashboard without holding up navigation and starts its health
// poller on the first dashboard visit. An unbound controller refreshes inline and
// leaves Run to the caller.
func (c *Controller) Bind(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bg = ctx
}

// Polling reports whether the background health poller has been started.
func (c *Controller) Polling() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.polling
}

// Inspect runs f while no controller operation is mutating the view, so f sees a
// consistent page.
func (c *Controller) Inspect(f func()) {
	c.locked(f)
}

// ActiveSection returns the section currently shown.
func (c *Controller) ActiveSection() section.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// CurrentResult returns a copy of the stored result, or nil.
func (c *Controller) CurrentResult() *analysis.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	cp := *c.current
	return &cp
}

// LastHealth returns the most recent health snapshot, if any.
func (c *Controller) LastHealth() (health.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastHealth == nil {
		return health.Snapshot{}, false
	}
	return *c.lastHealth, true
}

// Notify shows a toast. Exposed for surfaces that report their own failures.
func (c *Controller) Notify(message string, kind ports.NotificationKind) {
	c.locked(func() { c.notifier.Show(message, kind) })
}

// EventKind names a page event routed through Dispatch.
type EventKind string

const (
	EventNavigate         EventKind = "navigate"
	EventFragmentChange   EventKind = "fragment-change"
	EventDropZoneClick    EventKind = "dropzone-click"
	EventDragEnter        EventKind = "drag-enter"
	EventDragLeave        EventKind = "drag-leave"
	EventDrop             EventKind = "drop"
	EventFileSelect       EventKind = "file-select"
	EventSubmitImage      EventKind = "submit-image"
	EventSubmitText       EventKind = "submit-text"
	EventSubmitContact    EventKind = "submit-contact"
	EventDownload         EventKind = "download"
	EventDownloadWorkbook EventKind = "download-workbook"
	EventCopy             EventKind = "copy"
	EventNewAnalysis      EventKind = "new-analysis"
	EventRefreshHealth    EventKind = "refresh-health"
)

// Event is one user interaction with its payload.
type Event struct {
	Kind     EventKind
	Section  section.ID
	Fragment string
	Files    []analysis.Upload
	Text     string
	Contact  analysis.ContactRequest
}

func (c *Controller) dispatchTable() map[EventKind]func(ctx context.Context, ev Event) error {
	return map[EventKind]func(ctx context.Context, ev Event) error{
		EventNavigate: func(ctx context.Context, ev Event) error {
			c.NavigateToSection(ctx, ev.Section, true)
			return nil
		},
		EventFragmentChange: func(ctx context.Context, ev Event) error {
			c.OnFragmentChange(ctx, ev.Fragment)
			return nil
		},
		EventDropZoneClick: func(context.Context, Event) error { c.ClickDropZone(); return nil },
		EventDragEnter:     func(context.Context, Event) error { c.DragEnter(); return nil },
		EventDragLeave:     func(context.Context, Event) error { c.DragLeave(); return nil },
		EventDrop:          func(_ context.Context, ev Event) error { c.Drop(ev.Files); return nil },
		EventFileSelect:    func(_ context.Context, ev Event) error { c.SelectFiles(ev.Files); return nil },
		EventSubmitImage:   func(ctx context.Context, _ Event) error { return c.SubmitImage(ctx) },
		EventSubmitText:    func(ctx context.Context, ev Event) error { return c.SubmitText(ctx, ev.Text) },
		EventSubmitContact: func(ctx context.Context, ev Event) error {
			return c.SubmitContact(ctx, ev.Contact)
		},
		EventDownload:         func(context.Context, Event) error { return c.DownloadResults() },
		EventDownloadWorkbook: func(context.Context, Event) error { return c.DownloadWorkbook() },
		EventCopy:             func(context.Context, Event) error { return c.CopyResults() },
		EventNewAnalysis:      func(context.Context, Event) error { c.NewAnalysis(); return nil },
		EventRefreshHealth: func(ctx context.Context, _ Event) error {
			c.CheckSystemHealth(ctx)
			c.LoadStats()
			return nil
		},
	}
}

// ErrUnknownEvent is returned by Dispatch for an event kind it has no handler for.
var ErrUnknownEvent = errors.New("unknown event")

// Dispatch routes ev to its handler. The returned error is informational: every
// failure has already been reported to the user through a notification.
func (c *Controller) Dispatch(ctx context.Context, ev Event) error {
	handler, ok := c.handlers[ev.Kind]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownEvent, ev.Kind)
	}
	c.logger.Trace("dispatch %s", ev.Kind)
	return handler(ctx, ev)
}
