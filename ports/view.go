package ports

import (
	"rxintel/domain/analysis"
	"rxintel/domain/core"
	"rxintel/domain/health"
	"rxintel/domain/section"
)

// NavigationView is the part of the page holding sections and the nav bar.
type NavigationView interface {
	HasSection(id section.ID) bool
	DeactivateAllSections()
	ActivateSection(id section.ID)
	// HighlightNav marks the nav link targeting id and clears every other link.
	HighlightNav(id section.ID)
	SetFragment(fragment string)
	ScrollToTop()
}

// UploadView is the drop zone and its hidden file input.
type UploadView interface {
	OpenFilePicker()
	SetDropHighlight(on bool)
	SetSelectedFiles(files []analysis.Upload)
	SelectedFiles() []analysis.Upload
	SetUploadLabel(label string)
}

// FormView holds the three submission forms.
type FormView interface {
	ResetImageForm()
	ResetTextForm()
	ResetContactForm()
}

// ResultsView is the results region. RenderList receives already escaped markup.
type ResultsView interface {
	RenderList(field analysis.Field, itemsHTML []string)
	SetRawText(text string)
	ShowResults(visible bool)
	ScrollToResults()
	Download(filename, contentType string, data []byte)
	WriteClipboard(text string) error
}

// FeedbackView hosts the loading overlay and the toast stack.
type FeedbackView interface {
	CreateOverlay()
	SetOverlay(visible bool, message string)
	AddToast(id core.ToastID, message string, kind NotificationKind)
	RemoveToast(id core.ToastID)
}

// DashboardView shows component health and session statistics.
type DashboardView interface {
	SetComponentHealth(h health.ComponentHealth)
	SetLatency(label string)
	SetStats(stats DashboardStats)
}

// View is the whole page as seen by the controller.
type View interface {
	NavigationView
	UploadView
	FormView
	ResultsView
	FeedbackView
	DashboardView
}

// NotificationKind selects the toast colour.
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
	NotifyInfo    NotificationKind = "info"
)

// DashboardStats is the rendered form of the session statistics.
type DashboardStats struct {
	AnalysesRun      int
	MedicationsFound int
	LastAnalysis     string
	HealthChecks     int
	MeanLatency      string
	P95Latency       string
	SessionStarted   string
}
