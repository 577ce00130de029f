package frontend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rxintel/domain/analysis"
)

func TestDropZoneInteractions(t *testing.T) {
	c, view, _ := newTestController(&mockAPI{})

	c.ClickDropZone()
	assert.Equal(t, 1, view.pickerOpens)

	c.DragEnter()
	assert.True(t, view.highlight)
	c.DragLeave()
	assert.False(t, view.highlight)

	c.DragEnter()
	files := []analysis.Upload{
		{Name: "front.jpg", Size: 2_400_000},
		{Name: "back.jpg", Size: 10},
	}
	c.Drop(files)

	assert.False(t, view.highlight)
	assert.Equal(t, files, view.files)
	assert.Equal(t, "front.jpg (2.4 MB)", view.label)
}

func TestSelectFilesWithoutSize(t *testing.T) {
	c, view, _ := newTestController(&mockAPI{})

	c.SelectFiles([]analysis.Upload{{Name: "scan.pdf"}})
	assert.Equal(t, "scan.pdf", view.label)

	c.SelectFiles(nil)
	assert.Empty(t, view.files)
	assert.Equal(t, "scan.pdf", view.label)
}
