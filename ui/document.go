package ui

import (
	"html/template"
	"sync"

	"rxintel/domain/analysis"
	"rxintel/domain/core"
	"rxintel/domain/health"
	"rxintel/domain/section"
	"rxintel/internal/frontend"
	"rxintel/ports"
)

// Artifact is a file the controller handed to the browser for download.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Toast is one rendered notification.
type Toast struct {
	ID      core.ToastID
	Message string
	Kind    ports.NotificationKind
}

// Document is the server-side model of one browser page. It implements
// ports.View; the templates render a PageState taken from it.
type Document struct {
	mu sync.Mutex

	sections map[section.ID]bool
	active   map[section.ID]bool
	nav      section.ID
	fragment string

	scroll     string
	openPicker bool

	dropHighlight bool
	selected      []analysis.Upload
	uploadLabel   string

	resetImage, resetText, resetContact bool

	lists          map[analysis.Field][]string
	rawText        string
	resultsVisible bool
	artifact       *Artifact
	clipboard      string

	overlayCreated bool
	overlayVisible bool
	overlayMessage string
	toasts         []Toast

	components map[health.Component]health.ComponentHealth
	latency    string
	stats      ports.DashboardStats
}

var _ ports.View = (*Document)(nil)

// NewDocument returns the page as first served: home active, nothing checked yet.
func NewDocument() *Document {
	d := &Document{
		sections:    make(map[section.ID]bool, len(section.All)),
		active:      make(map[section.ID]bool, len(section.All)),
		uploadLabel: frontend.DefaultUploadLabel,
		lists:       make(map[analysis.Field][]string),
		components:  make(map[health.Component]health.ComponentHealth),
		latency:     "--",
		stats:       ports.DashboardStats{LastAnalysis: "Never", MeanLatency: "--", P95Latency: "--"},
	}
	for _, id := range section.All {
		d.sections[id] = true
	}
	d.active[section.Home] = true
	d.nav = section.Home
	for _, c := range health.Components {
		d.components[c] = health.ComponentHealth{Component: c, Status: health.StatusOffline, Label: "Checking..."}
	}
	return d
}

func (d *Document) HasSection(id section.ID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sections[id]
}

func (d *Document) DeactivateAllSections() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id := range d.active {
		delete(d.active, id)
	}
}

func (d *Document) ActivateSection(id section.ID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sections[id] {
		d.active[id] = true
	}
}

func (d *Document) HighlightNav(id section.ID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nav = id
}

func (d *Document) SetFragment(fragment string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fragment = fragment
}

func (d *Document) ScrollToTop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scroll = "top"
}

func (d *Document) OpenFilePicker() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.openPicker = true
}

func (d *Document) SetDropHighlight(on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dropHighlight = on
}

func (d *Document) SetSelectedFiles(files []analysis.Upload) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selected = append([]analysis.Upload(nil), files...)
}

func (d *Document) SelectedFiles() []analysis.Upload {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]analysis.Upload(nil), d.selected...)
}

func (d *Document) SetUploadLabel(label string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.uploadLabel = label
}

func (d *Document) ResetImageForm() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resetImage = true
}

func (d *Document) ResetTextForm() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resetText = true
}

func (d *Document) ResetContactForm() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resetContact = true
}

func (d *Document) RenderList(field analysis.Field, itemsHTML []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lists[field] = append([]string(nil), itemsHTML...)
}

func (d *Document) SetRawText(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rawText = text
}

func (d *Document) ShowResults(visible bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resultsVisible = visible
}

func (d *Document) ScrollToResults() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scroll = "results"
}

func (d *Document) Download(filename, contentType string, data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.artifact = &Artifact{Filename: filename, ContentType: contentType, Data: data}
}

// WriteClipboard queues text for the page script, which owns the clipboard.
func (d *Document) WriteClipboard(text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clipboard = text
	return nil
}

func (d *Document) CreateOverlay() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.overlayCreated = true
}

func (d *Document) SetOverlay(visible bool, message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.overlayVisible = visible
	d.overlayMessage = message
}

func (d *Document) AddToast(id core.ToastID, message string, kind ports.NotificationKind) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.toasts = append(d.toasts, Toast{ID: id, Message: message, Kind: kind})
}

func (d *Document) RemoveToast(id core.ToastID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, t := range d.toasts {
		if t.ID == id {
			d.toasts = append(d.toasts[:i], d.toasts[i+1:]...)
			return
		}
	}
}

func (d *Document) SetComponentHealth(h health.ComponentHealth) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.components[h.Component] = h
}

func (d *Document) SetLatency(label string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.latency = label
}

func (d *Document) SetStats(stats ports.DashboardStats) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stats = stats
}

// TakeArtifact returns the pending download and clears it.
func (d *Document) TakeArtifact() *Artifact {
	d.mu.Lock()
	defer d.mu.Unlock()
	a := d.artifact
	d.artifact = nil
	return a
}

// NavLink is one entry of the navigation bar.
type NavLink struct {
	ID     section.ID
	Title  string
	Active bool
}

// ResultList is one rendered entity list.
type ResultList struct {
	Field analysis.Field
	Items []template.HTML
}

// PageState is everything the templates need to draw the page.
type PageState struct {
	Nav []NavLink
	// Active is keyed by section name so templates can index it with literals.
	Active   map[string]bool
	Fragment string

	Scroll     string
	OpenPicker bool
	Clipboard  string

	DropHighlight bool
	UploadLabel   string
	HasFile       bool

	ResetImage, ResetText, ResetContact bool

	ResultsVisible bool
	Lists          []ResultList
	RawText        string

	OverlayCreated bool
	OverlayVisible bool
	OverlayMessage string
	Toasts         []Toast

	Components []health.ComponentHealth
	Latency    string
	Stats      ports.DashboardStats
}

// Snapshot copies the page for rendering. One-shot instructions to the page
// script (scroll, picker, clipboard, form resets) are consumed.
func (d *Document) Snapshot() PageState {
	return d.snapshot(true)
}

// Peek copies the page without consuming one-shot instructions.
func (d *Document) Peek() PageState {
	return d.snapshot(false)
}

func (d *Document) snapshot(consume bool) PageState {
	d.mu.Lock()
	defer d.mu.Unlock()

	st := PageState{
		Active:         make(map[string]bool, len(d.active)),
		Fragment:       d.fragment,
		Scroll:         d.scroll,
		OpenPicker:     d.openPicker,
		Clipboard:      d.clipboard,
		DropHighlight:  d.dropHighlight,
		UploadLabel:    d.uploadLabel,
		HasFile:        len(d.selected) > 0,
		ResetImage:     d.resetImage,
		ResetText:      d.resetText,
		ResetContact:   d.resetContact,
		ResultsVisible: d.resultsVisible,
		RawText:        d.rawText,
		OverlayCreated: d.overlayCreated,
		OverlayVisible: d.overlayVisible,
		OverlayMessage: d.overlayMessage,
		Toasts:         append([]Toast(nil), d.toasts...),
		Latency:        d.latency,
		Stats:          d.stats,
	}
	for id := range d.active {
		st.Active[string(id)] = true
	}
	for _, id := range section.All {
		st.Nav = append(st.Nav, NavLink{ID: id, Title: section.Titles[id], Active: id == d.nav})
	}
	for _, f := range analysis.ListFields {
		list := ResultList{Field: f}
		// Items were escaped by the controller before reaching the view.
		for _, item := range d.lists[f] {
			list.Items = append(list.Items, template.HTML(item))
		}
		st.Lists = append(st.Lists, list)
	}
	for _, c := range health.Components {
		st.Components = append(st.Components, d.components[c])
	}

	if !consume {
		return st
	}
	d.scroll = ""
	d.openPicker = false
	d.clipboard = ""
	d.resetImage, d.resetText, d.resetContact = false, false, false
	return st
}
