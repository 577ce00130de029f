package frontend

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"rxintel/domain/analysis"
)

// DefaultUploadLabel is the drop zone prompt before any file is chosen.
const DefaultUploadLabel = "Drag & drop your prescription image here or click to browse"

// ClickDropZone opens the native file picker.
func (c *Controller) ClickDropZone() {
	c.locked(func() { c.view.OpenFilePicker() })
}

// DragEnter highlights the drop zone.
func (c *Controller) DragEnter() {
	c.locked(func() { c.view.SetDropHighlight(true) })
}

// DragLeave clears the drop zone highlight.
func (c *Controller) DragLeave() {
	c.locked(func() { c.view.SetDropHighlight(false) })
}

// Drop adopts dropped files as the input's selection.
func (c *Controller) Drop(files []analysis.Upload) {
	c.locked(func() {
		c.view.SetDropHighlight(false)
		c.adoptFiles(files)
	})
}

// SelectFiles adopts files picked through the native dialog.
func (c *Controller) SelectFiles(files []analysis.Upload) {
	c.locked(func() { c.adoptFiles(files) })
}

func (c *Controller) adoptFiles(files []analysis.Upload) {
	c.view.SetSelectedFiles(files)
	if len(files) == 0 {
		return
	}
	c.view.SetUploadLabel(uploadLabel(files[0]))
}

func uploadLabel(f analysis.Upload) string {
	if f.Size <= 0 {
		return f.Name
	}
	return fmt.Sprintf("%s (%s)", f.Name, humanize.Bytes(uint64(f.Size)))
}
