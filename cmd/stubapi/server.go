package main

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"rxintel/domain/analysis"
)

// maxImageBytes bounds uploads the stub will read.
const maxImageBytes = 64 << 20

type api struct {
	ner *extractor
	now func() time.Time
}

func newRouter(ner *extractor) http.Handler {
	a := &api{ner: ner, now: time.Now}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/", a.handleIndex)
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", a.handleHealth)
		r.Post("/process-text", a.handleProcessText)
		r.Post("/process-image", a.handleProcessImage)
		r.Post("/extract-entities", a.handleExtractEntities)
		r.Post("/batch-process", a.handleBatch)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return r
}

type processReply struct {
	Success bool `json:"success"`
	analysis.Result
}

func (a *api) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":        "OCR Prescription Intelligence API",
		"version":     "1.0.0",
		"description": "Prescription digitization with NER (development stub)",
		"endpoints": map[string]string{
			"GET /api/health":            "Health check",
			"POST /api/process-text":     "Process prescription text",
			"POST /api/process-image":    "Process prescription image",
			"POST /api/extract-entities": "Extract entities from text",
			"POST /api/batch-process":    "Batch process prescriptions",
		},
		"status": "running",
	})
}

func (a *api) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, analysis.BackendStatus{
		Status: "healthy",
		Components: analysis.Components{
			Flask:    "running",
			NERModel: "initialized",
			Textract: "not_configured",
		},
		Timestamp: a.now().Format(time.RFC3339),
	})
}

// decodeText reads a {"text": ...} body. ok is false when the field is absent.
func decodeText(r *http.Request) (text string, ok bool) {
	var body struct {
		Text *string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == nil {
		return "", false
	}
	return strings.TrimSpace(*body.Text), true
}

func (a *api) handleProcessText(w http.ResponseWriter, r *http.Request) {
	text, ok := decodeText(r)
	if !ok {
		writeError(w, http.StatusBadRequest, `Missing "text" field in request body`)
		return
	}
	if text == "" {
		writeError(w, http.StatusBadRequest, "Prescription text cannot be empty")
		return
	}
	writeJSON(w, http.StatusOK, processReply{Success: true, Result: a.ner.Extract(text)})
}

func (a *api) handleProcessImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()
	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No file selected")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	log.Printf("process-image: %s (%d bytes)", header.Filename, len(content))
	writeJSON(w, http.StatusOK, processReply{Success: true, Result: a.ner.Extract(imageText(content))})
}

func (a *api) handleExtractEntities(w http.ResponseWriter, r *http.Request) {
	text, ok := decodeText(r)
	if !ok {
		writeError(w, http.StatusBadRequest, `Missing "text" field`)
		return
	}
	if text == "" {
		writeError(w, http.StatusBadRequest, "Text cannot be empty")
		return
	}
	res := a.ner.Extract(text)
	writeJSON(w, http.StatusOK, analysis.EntitiesResponse{
		Success: true,
		Entities: analysis.Entities{
			Medications: res.Medications,
			Doses:       res.Doses,
			Routes:      res.Routes,
			Frequencies: res.Frequencies,
		},
		RawText: res.RawText,
	})
}

func (a *api) handleBatch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Prescriptions json.RawMessage `json:"prescriptions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Prescriptions == nil {
		writeError(w, http.StatusBadRequest, `Missing "prescriptions" field`)
		return
	}
	var items []analysis.Prescription
	if err := json.Unmarshal(body.Prescriptions, &items); err != nil {
		writeError(w, http.StatusBadRequest, `"prescriptions" must be a list`)
		return
	}

	resp := analysis.BatchResponse{Success: true, Results: []analysis.BatchItem{}}
	for _, p := range items {
		if strings.TrimSpace(p.Text) == "" {
			continue
		}
		id := p.ID
		if id == "" {
			id = "unknown"
		}
		resp.Results = append(resp.Results, analysis.BatchItem{ID: id, Result: a.ner.Extract(p.Text)})
	}
	resp.Count = len(resp.Results)
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{"success": false, "error": msg})
}
