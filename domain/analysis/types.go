// Package analysis holds the wire types exchanged with the prescription analysis service.
package analysis

import "time"

// Result is the structured output of OCR/NLP processing on a prescription.
type Result struct {
	Medications []string `json:"medications" yaml:"medications"`
	Doses       []string `json:"doses" yaml:"doses"`
	Routes      []string `json:"routes" yaml:"routes"`
	Frequencies []string `json:"frequencies" yaml:"frequencies"`
	RawText     string   `json:"raw_text" yaml:"raw_text"`

	// EmailSent is set only when a medication alert was requested.
	EmailSent *bool `json:"email_sent,omitempty" yaml:"email_sent,omitempty"`
}

// Field names a list-valued entity category of a Result.
type Field string

const (
	FieldMedications Field = "medications"
	FieldDoses       Field = "doses"
	FieldRoutes      Field = "routes"
	FieldFrequencies Field = "frequencies"
)

// ListFields is the rendering order of the list-valued fields.
var ListFields = []Field{FieldMedications, FieldDoses, FieldRoutes, FieldFrequencies}

// List returns the entries of one list-valued field.
func (r *Result) List(f Field) []string {
	if r == nil {
		return nil
	}
	switch f {
	case FieldMedications:
		return r.Medications
	case FieldDoses:
		return r.Doses
	case FieldRoutes:
		return r.Routes
	case FieldFrequencies:
		return r.Frequencies
	}
	return nil
}

// Response is the envelope the front-end API answers process requests with.
type Response struct {
	Success  bool    `json:"success"`
	Data     *Result `json:"data,omitempty"`
	Error    string  `json:"error,omitempty"`
	Filename string  `json:"filename,omitempty"`
}

// Upload is one user-selected file.
type Upload struct {
	Name    string
	Size    int64
	Content []byte
}

// TextRequest is the body of a text submission.
type TextRequest struct {
	Text string `json:"text"`
}

// ContactRequest is the body of a contact form submission.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ContactResponse acknowledges a contact form submission.
type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Components reports backend subsystem states as free-form strings.
type Components struct {
	Flask    string `json:"flask,omitempty"`
	NERModel string `json:"ner_model"`
	Textract string `json:"textract"`
}

// BackendStatus is the payload of the backend's own health endpoint.
type BackendStatus struct {
	Status     string     `json:"status,omitempty"`
	Components Components `json:"components"`
	Timestamp  string     `json:"timestamp,omitempty"`
}

// BackendHealth wraps the gateway's call to the backend health endpoint.
type BackendHealth struct {
	Success bool           `json:"success"`
	Data    *BackendStatus `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// HealthResponse is answered by the front end's health endpoint.
type HealthResponse struct {
	Frontend  string        `json:"frontend"`
	Backend   BackendHealth `json:"backend"`
	Timestamp time.Time     `json:"timestamp"`
}

// Prescription is one entry of a batch request.
type Prescription struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// BatchRequest asks the backend to analyse several prescriptions at once.
type BatchRequest struct {
	Prescriptions []Prescription `json:"prescriptions"`
}

// BatchItem is one analysed prescription of a batch.
type BatchItem struct {
	ID string `json:"id"`
	Result
}

// BatchResponse answers a batch request.
type BatchResponse struct {
	Success bool        `json:"success"`
	Count   int         `json:"count"`
	Results []BatchItem `json:"results"`
	Error   string      `json:"error,omitempty"`
}

// Entities is the list-only projection of a Result.
type Entities struct {
	Medications []string `json:"medications"`
	Doses       []string `json:"doses"`
	Routes      []string `json:"routes"`
	Frequencies []string `json:"frequencies"`
}

// EntitiesResponse answers an entity extraction request.
type EntitiesResponse struct {
	Success  bool     `json:"success"`
	Entities Entities `json:"entities"`
	RawText  string   `json:"raw_text"`
	Error    string   `json:"error,omitempty"`
}

// HistoryResponse answers the history endpoint.
type HistoryResponse struct {
	Success bool      `json:"success"`
	History []*Result `json:"history"`
	Message string    `json:"message,omitempty"`
}
