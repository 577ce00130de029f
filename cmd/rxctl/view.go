package main

import (
	"fmt"
	"io"

	"rxintel/domain/analysis"
	"rxintel/domain/core"
	"rxintel/domain/health"
	"rxintel/domain/section"
	"rxintel/ports"
)

var _ ports.View = (*termView)(nil)

// termView is a page without a screen. Toasts and the overlay go to w, everything
// else is kept so commands can print it.
type termView struct {
	w     io.Writer
	quiet bool

	active   section.ID
	files    []analysis.Upload
	label    string
	lists    map[analysis.Field][]string
	rawText  string
	visible  bool
	artifact *artifact
	clip     string

	toasts []toastLine
	health map[health.Component]health.ComponentHealth
	stats  ports.DashboardStats
}

type artifact struct {
	filename    string
	contentType string
	data        []byte
}

type toastLine struct {
	message string
	kind    ports.NotificationKind
}

func newTermView(w io.Writer, quiet bool) *termView {
	return &termView{
		w:      w,
		quiet:  quiet,
		active: section.Home,
		lists:  make(map[analysis.Field][]string),
		health: make(map[health.Component]health.ComponentHealth),
	}
}

func (v *termView) HasSection(id section.ID) bool {
	_, ok := section.Titles[id]
	return ok
}

func (v *termView) DeactivateAllSections()           {}
func (v *termView) ActivateSection(id section.ID)    { v.active = id }
func (v *termView) HighlightNav(section.ID)          {}
func (v *termView) SetFragment(string)               {}
func (v *termView) ScrollToTop()                     {}
func (v *termView) OpenFilePicker()                  {}
func (v *termView) SetDropHighlight(bool)            {}
func (v *termView) SelectedFiles() []analysis.Upload { return v.files }
func (v *termView) SetUploadLabel(label string)      { v.label = label }
func (v *termView) ResetImageForm()                  { v.files = nil }
func (v *termView) ResetTextForm()                   {}
func (v *termView) ResetContactForm()                {}
func (v *termView) SetRawText(text string)           { v.rawText = text }
func (v *termView) ShowResults(visible bool)         { v.visible = visible }
func (v *termView) ScrollToResults()                 {}
func (v *termView) CreateOverlay()                   {}
func (v *termView) RemoveToast(core.ToastID)         {}
func (v *termView) SetLatency(string)                {}
func (v *termView) SetStats(s ports.DashboardStats)  { v.stats = s }

func (v *termView) SetSelectedFiles(files []analysis.Upload) {
	v.files = append([]analysis.Upload(nil), files...)
}

func (v *termView) RenderList(field analysis.Field, itemsHTML []string) {
	v.lists[field] = itemsHTML
}

func (v *termView) Download(filename, contentType string, data []byte) {
	v.artifact = &artifact{filename: filename, contentType: contentType, data: data}
}

func (v *termView) WriteClipboard(text string) error {
	v.clip = text
	return nil
}

func (v *termView) SetOverlay(visible bool, message string) {
	if visible && !v.quiet {
		fmt.Fprintf(v.w, "... %s\n", message)
	}
}

func (v *termView) AddToast(_ core.ToastID, message string, kind ports.NotificationKind) {
	v.toasts = append(v.toasts, toastLine{message: message, kind: kind})
	if !v.quiet {
		fmt.Fprintf(v.w, "[%s] %s\n", kind, message)
	}
}

func (v *termView) SetComponentHealth(h health.ComponentHealth) {
	v.health[h.Component] = h
}
