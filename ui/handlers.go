package ui

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"rxintel/domain/analysis"
	"rxintel/domain/core"
	"rxintel/domain/section"
	"rxintel/internal/frontend"
	"rxintel/ui/templates/fragments"

	"github.com/gin-gonic/gin"
)

// handlePage serves the single page with the section named by the path active.
func (s *Server) handlePage(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	id := section.ID(strings.Trim(c.Request.URL.Path, "/"))
	if id == "" {
		id = section.Home
	}
	sess.Controller.NavigateToSection(c.Request.Context(), id, false)
	s.renderTemplate(c, http.StatusOK, fragments.Index, s.page(sess))
}

// handleState renders the regions timers change (toasts, overlay, dashboard)
// as out-of-band swaps.
func (s *Server) handleState(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	s.renderTemplate(c, http.StatusOK, fragments.State, s.livePage(sess))
}

// handleEvent dispatches one page interaction and returns the updated app.
func (s *Server) handleEvent(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	ev, err := s.eventFromRequest(c)
	if err != nil {
		if isTooLarge(err) {
			fail(c, http.StatusRequestEntityTooLarge, s.gateway.TooLargeMessage())
			return
		}
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := sess.Controller.Dispatch(c.Request.Context(), ev); err != nil {
		if stderrors.Is(err, frontend.ErrUnknownEvent) {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		// Already shown to the user as a notification.
		if core.IsValidationError(err) {
			s.logger.Debug("event %s: %v", ev.Kind, err)
		} else {
			s.logger.Warn("event %s: %v", ev.Kind, err)
		}
	}

	// Plain form posts without the page script land back on the page.
	if !isHTMX(c) {
		c.Redirect(http.StatusSeeOther, sectionPath(sess.Controller.ActiveSection()))
		return
	}
	s.renderTemplate(c, http.StatusOK, fragments.App, s.page(sess))
}

func sectionPath(id section.ID) string {
	if id == section.Home || id == "" {
		return "/"
	}
	return "/" + string(id)
}

func (s *Server) eventFromRequest(c *gin.Context) (frontend.Event, error) {
	ev := frontend.Event{Kind: frontend.EventKind(c.Param("kind"))}

	switch ev.Kind {
	case frontend.EventDrop, frontend.EventFileSelect:
		s.limitBody(c)
		form, err := c.MultipartForm()
		if err != nil {
			if isTooLarge(err) {
				return ev, err
			}
			return ev, fmt.Errorf("invalid upload form: %w", err)
		}
		for _, fh := range form.File["file"] {
			upload, err := readUpload(fh)
			if err != nil {
				return ev, fmt.Errorf("read %s: %w", fh.Filename, err)
			}
			ev.Files = append(ev.Files, upload)
		}
	default:
		ev.Section = section.ID(c.PostForm("section"))
		ev.Fragment = c.PostForm("fragment")
		ev.Text = c.PostForm("text")
		ev.Contact = analysis.ContactRequest{
			Name:    c.PostForm("name"),
			Email:   c.PostForm("email"),
			Message: c.PostForm("message"),
		}
	}
	return ev, nil
}

func (s *Server) handleDownload(c *gin.Context) {
	s.serveArtifact(c, frontend.EventDownload)
}

func (s *Server) handleDownloadWorkbook(c *gin.Context) {
	s.serveArtifact(c, frontend.EventDownloadWorkbook)
}

// serveArtifact runs a download action and streams the file it produced.
func (s *Server) serveArtifact(c *gin.Context, kind frontend.EventKind) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	if err := sess.Controller.Dispatch(c.Request.Context(), frontend.Event{Kind: kind}); err != nil {
		fail(c, http.StatusNotFound, frontend.MsgNoResultsDownload)
		return
	}
	artifact := sess.Document.TakeArtifact()
	if artifact == nil {
		fail(c, http.StatusNotFound, frontend.MsgNoResultsDownload)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, artifact.Filename))
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}
