// Package ui serves the prescription analyser's web page and its JSON API.
package ui

import (
	"context"
	"embed"
	stderrors "errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"rxintel/domain/analysis"
	"rxintel/domain/health"
	"rxintel/internal"
	"rxintel/internal/content"
	"rxintel/internal/gateway"

	"github.com/gin-gonic/gin"
)

//go:embed templates static
var embeddedFiles embed.FS

// multipartOverhead is the slack allowed above the upload limit for form framing.
const multipartOverhead = 1 << 20

// Options configures the web server.
type Options struct {
	MaxUploadBytes int64
	SessionTTL     time.Duration
	// StatePoll is how often the page asks for timer-driven updates.
	StatePoll time.Duration
}

// Server represents the web server of the prescription analyser
type Server struct {
	router    *gin.Engine
	templates *template.Template
	gateway   *gateway.Service
	sessions  *SessionManager
	opts      Options
	logger    *internal.Logger
}

// NewServer creates a server over the gateway and session manager.
func NewServer(gw *gateway.Service, sessions *SessionManager, opts Options, logger *internal.Logger) (*Server, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if opts.StatePoll <= 0 {
		opts.StatePoll = time.Second
	}

	funcMap := template.FuncMap{
		"title": func(s interface{}) string {
			str := fmt.Sprint(s)
			if str == "" {
				return ""
			}
			return strings.ToUpper(str[:1]) + str[1:]
		},
		"componentName": func(c health.Component) string {
			switch c {
			case health.ComponentNER:
				return "NER Model"
			case health.ComponentTextract:
				return "AWS Textract"
			case health.ComponentBackend:
				return "Backend API"
			}
			return "Frontend"
		},
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html", "templates/fragments/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		router:    gin.New(),
		templates: templates,
		gateway:   gw,
		sessions:  sessions,
		opts:      opts,
		logger:    logger.With("Server"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	pages := s.router.Group("/", s.sessionMiddleware())
	pages.GET("/", s.handlePage)
	pages.GET("/upload", s.handlePage)
	pages.GET("/dashboard", s.handlePage)
	pages.GET("/about", s.handlePage)
	pages.GET("/contact", s.handlePage)

	// HTMX endpoints driving the per-session controller
	ui := s.router.Group("/ui", s.sessionMiddleware())
	ui.GET("/state", s.handleState)
	ui.POST("/events/:kind", s.handleEvent)
	ui.GET("/results/download", s.handleDownload)
	ui.GET("/results/download.xlsx", s.handleDownloadWorkbook)

	api := s.router.Group("/api")
	api.GET("/health", s.handleHealth)
	api.POST("/process-text", s.handleProcessText)
	api.POST("/process-image", s.handleProcessImage)
	api.POST("/extract-entities", s.handleExtractEntities)
	api.POST("/batch-process", s.handleBatchProcess)
	api.GET("/history", s.handleHistory)
	api.POST("/contact", s.handleContact)

	s.router.GET("/favicon.ico", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Page not found"})
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// pageData is what the page templates render.
type pageData struct {
	PageState
	About     template.HTML
	StatePoll int64
	// OOB marks regions rendered for an out-of-band swap.
	OOB bool
}

func (s *Server) page(sess *Session) pageData {
	var st PageState
	sess.Controller.Inspect(func() { st = sess.Document.Snapshot() })
	return s.pageData(st)
}

// livePage renders the timer-driven regions only and leaves one-shots pending.
func (s *Server) livePage(sess *Session) pageData {
	var st PageState
	sess.Controller.Inspect(func() { st = sess.Document.Peek() })
	data := s.pageData(st)
	data.OOB = true
	return data
}

func (s *Server) pageData(st PageState) pageData {
	return pageData{
		PageState: st,
		About:     content.About(),
		StatePoll: s.opts.StatePoll.Milliseconds(),
	}
}

func staticFS() (fs.FS, error) {
	return fs.Sub(embeddedFiles, "static")
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, analysis.Response{Success: false, Error: message})
}
