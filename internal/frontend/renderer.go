package frontend

import (
	"strings"

	"rxintel/domain/analysis"
	"rxintel/domain/core"
	"rxintel/internal/export"
	"rxintel/ports"
)

// Placeholders and messages of the results region.
const (
	PlaceholderNoEntries = "None detected"
	PlaceholderNoText    = "No text extracted"

	MsgNoResultsDownload = "No results to download"
	MsgNoResultsCopy     = "No results to copy"
	MsgDownloaded        = "Results downloaded successfully!"
	MsgDownloadFailed    = "Failed to download results"
	MsgCopied            = "Results copied to clipboard!"
	MsgCopyFailed        = "Failed to copy results"
	MsgReady             = "Ready for new analysis"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML replaces & < > " ' with their entities.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// listItems renders entries as escaped <li> markup, or one placeholder item.
func listItems(entries []string) []string {
	if len(entries) == 0 {
		return []string{`<li class="placeholder">` + PlaceholderNoEntries + `</li>`}
	}
	items := make([]string, 0, len(entries))
	for _, e := range entries {
		items = append(items, "<li>"+EscapeHTML(e)+"</li>")
	}
	return items
}

// DisplayResults stores result as the current one and renders it.
func (c *Controller) DisplayResults(result *analysis.Result) {
	c.locked(func() { c.displayResults(result) })
}

func (c *Controller) displayResults(result *analysis.Result) {
	if result == nil {
		result = &analysis.Result{}
	}
	c.current = result

	for _, field := range analysis.ListFields {
		c.view.RenderList(field, listItems(result.List(field)))
	}
	raw := result.RawText
	if raw == "" {
		raw = PlaceholderNoText
	}
	c.view.SetRawText(raw)
	c.view.ShowResults(true)
	c.view.ScrollToResults()
}

// DownloadResults offers the current result as a pretty-printed JSON file.
func (c *Controller) DownloadResults() error {
	return c.download("json", export.ContentTypeJSON, export.JSON)
}

// DownloadWorkbook offers the current result as an XLSX workbook.
func (c *Controller) DownloadWorkbook() error {
	return c.download("xlsx", export.ContentTypeXLSX, export.Workbook)
}

func (c *Controller) download(ext, contentType string, encode func(*analysis.Result) ([]byte, error)) error {
	var err error
	c.locked(func() {
		if c.current == nil {
			c.notifier.Show(MsgNoResultsDownload, ports.NotifyError)
			err = core.ErrNoResults
			return
		}
		var data []byte
		data, err = encode(c.current)
		if err != nil {
			c.logger.Error("export %s failed: %v", ext, err)
			c.notifier.Show(MsgDownloadFailed, ports.NotifyError)
			return
		}
		c.view.Download(export.Filename(c.clock.Now(), ext), contentType, data)
		c.notifier.Show(MsgDownloaded, ports.NotifySuccess)
	})
	return err
}

// CopyResults writes the current result as JSON to the clipboard.
func (c *Controller) CopyResults() error {
	var err error
	c.locked(func() {
		if c.current == nil {
			c.notifier.Show(MsgNoResultsCopy, ports.NotifyError)
			err = core.ErrNoResults
			return
		}
		var data []byte
		if data, err = export.JSON(c.current); err == nil {
			err = c.view.WriteClipboard(string(data))
		}
		if err != nil {
			c.logger.Error("copy failed: %v", err)
			c.notifier.Show(MsgCopyFailed, ports.NotifyError)
			return
		}
		c.notifier.Show(MsgCopied, ports.NotifySuccess)
	})
	return err
}

// NewAnalysis clears the forms and the stored result.
func (c *Controller) NewAnalysis() {
	c.locked(func() {
		c.view.ResetImageForm()
		c.view.ResetTextForm()
		c.view.ShowResults(false)
		c.view.SetSelectedFiles(nil)
		c.view.SetUploadLabel(DefaultUploadLabel)
		c.current = nil
		c.view.ScrollToTop()
		c.notifier.Show(MsgReady, ports.NotifyInfo)
	})
}
