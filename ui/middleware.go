package ui

import (
	"net/http"

	"rxintel/ui/middleware"

	"github.com/gin-gonic/gin"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Logger(), gin.Recovery())
	s.router.MaxMultipartMemory = s.opts.MaxUploadBytes + multipartOverhead

	static, err := staticFS()
	if err != nil {
		s.logger.Error("static filesystem unavailable: %v", err)
		return
	}
	s.router.StaticFS("/static", http.FS(static))
}

func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return middleware.EnsureSession(s.sessions, s.opts.SessionTTL)
}

// session returns the request's session, which EnsureSession guarantees exists.
func (s *Server) session(c *gin.Context) (*Session, bool) {
	sess, ok := s.sessions.Get(middleware.SessionID(c))
	if !ok {
		c.AbortWithStatusJSON(http.StatusGone, gin.H{"success": false, "error": "Session expired"})
	}
	return sess, ok
}

// limitBody caps request bodies that may carry an upload.
func (s *Server) limitBody(c *gin.Context) {
	if s.opts.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxUploadBytes+multipartOverhead)
	}
}
