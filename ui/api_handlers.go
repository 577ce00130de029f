package ui

import (
	"net/http"

	"rxintel/domain/analysis"
	"rxintel/internal/errors"

	"github.com/gin-gonic/gin"
)

// handleHealth reports the front end and the backend's own health. Always 200.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, s.gateway.CheckHealth(c.Request.Context()))
}

func (s *Server) handleProcessText(c *gin.Context) {
	var body struct {
		Text         *string `json:"text"`
		PatientEmail string  `json:"patient_email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Text == nil {
		fail(c, http.StatusBadRequest, `Missing "text" field in request body`)
		return
	}

	result, err := s.gateway.AnalyzeText(c.Request.Context(), *body.Text)
	if err != nil {
		s.apiError(c, "process-text", err)
		return
	}
	result = s.gateway.MedicationAlert(body.PatientEmail, result)
	c.JSON(http.StatusOK, analysis.Response{Success: true, Data: result})
}

func (s *Server) handleProcessImage(c *gin.Context) {
	s.limitBody(c)
	fh, err := c.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			fail(c, http.StatusRequestEntityTooLarge, s.gateway.TooLargeMessage())
			return
		}
		fail(c, http.StatusBadRequest, "No file provided")
		return
	}
	upload, err := readUpload(fh)
	if err != nil {
		s.apiError(c, "process-image", errors.Wrap(err, "read upload"))
		return
	}

	result, name, err := s.gateway.AnalyzeImage(c.Request.Context(), upload)
	if err != nil {
		s.apiError(c, "process-image", err)
		return
	}
	result = s.gateway.MedicationAlert(c.PostForm("patient_email"), result)
	c.JSON(http.StatusOK, analysis.Response{Success: true, Data: result, Filename: name})
}

func (s *Server) handleExtractEntities(c *gin.Context) {
	var body struct {
		Text *string `json:"text"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Text == nil {
		fail(c, http.StatusBadRequest, `Missing "text" field`)
		return
	}

	resp, err := s.gateway.ExtractEntities(c.Request.Context(), *body.Text)
	if err != nil {
		s.apiError(c, "extract-entities", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleBatchProcess(c *gin.Context) {
	var body struct {
		Prescriptions *[]analysis.Prescription `json:"prescriptions"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Prescriptions == nil {
		fail(c, http.StatusBadRequest, `Missing "prescriptions" field`)
		return
	}

	resp, err := s.gateway.BatchProcess(c.Request.Context(), analysis.BatchRequest{Prescriptions: *body.Prescriptions})
	if err != nil {
		s.apiError(c, "batch-process", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHistory(c *gin.Context) {
	c.JSON(http.StatusOK, s.gateway.History())
}

func (s *Server) handleContact(c *gin.Context) {
	var body struct {
		Name    *string `json:"name"`
		Email   *string `json:"email"`
		Message *string `json:"message"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Name == nil || body.Email == nil || body.Message == nil {
		fail(c, http.StatusBadRequest, "Missing required fields: name, email, message")
		return
	}

	req := analysis.ContactRequest{Name: *body.Name, Email: *body.Email, Message: *body.Message}
	if err := s.gateway.Contact(c.Request.Context(), req); err != nil {
		s.apiError(c, "contact", err)
		return
	}
	c.JSON(http.StatusOK, analysis.ContactResponse{Success: true, Message: "Contact form submitted successfully"})
}

// apiError answers with the error's user-facing message and mapped status.
func (s *Server) apiError(c *gin.Context, route string, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
		s.logger.Error("/api/%s: %v", route, err)
	} else {
		s.logger.Debug("/api/%s: %v", route, err)
	}
	fail(c, status, errors.Message(err))
}
