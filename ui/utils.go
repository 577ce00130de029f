package ui

import (
	"bytes"
	stderrors "errors"
	"io"
	"mime/multipart"
	"net/http"

	"rxintel/domain/analysis"

	"github.com/gin-gonic/gin"
)

// renderTemplate executes a template with the given data
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data interface{}) {
	// Render to a buffer first so a failing template never sends half a page
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.logger.Error("template %s failed: %v", templateName, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Template rendering failed"})
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		s.logger.Warn("writing %s response: %v", templateName, err)
	}
}

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// isTooLarge reports whether err came from an exceeded body limit.
func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return stderrors.As(err, &maxErr)
}

// readUpload loads one multipart file into memory.
func readUpload(fh *multipart.FileHeader) (analysis.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return analysis.Upload{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return analysis.Upload{}, err
	}
	return analysis.Upload{Name: fh.Filename, Size: fh.Size, Content: data}, nil
}
