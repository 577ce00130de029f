package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAboutRendersHeadingsAndLists(t *testing.T) {
	out := string(About())

	assert.Contains(t, out, `<h2 id="about-prescription-intelligence">About Prescription Intelligence</h2>`)
	assert.Contains(t, out, "<li><strong>Medications</strong>")
	assert.Contains(t, out, "<ol>")
}

func TestRenderSkipsRawHTML(t *testing.T) {
	out := string(Render([]byte("hello <script>alert(1)</script> world")))

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "hello")
}

func TestAboutIsStable(t *testing.T) {
	assert.Equal(t, About(), About())
}
