package ports

import (
	"context"

	"rxintel/domain/analysis"
)

// AnalysisAPI is the front end's own /api surface as consumed by the controller.
// A nil error with Success=false is an application failure; a non-nil error is a
// transport or decoding failure.
type AnalysisAPI interface {
	ProcessImage(ctx context.Context, file analysis.Upload) (*analysis.Response, error)
	ProcessText(ctx context.Context, text string) (*analysis.Response, error)
	SubmitContact(ctx context.Context, req analysis.ContactRequest) (*analysis.ContactResponse, error)
	Health(ctx context.Context) (*analysis.HealthResponse, error)
}

// Backend is the external analysis service the gateway forwards to.
type Backend interface {
	BaseURL() string
	ProcessImage(ctx context.Context, file analysis.Upload) (*analysis.Result, error)
	ProcessText(ctx context.Context, text string) (*analysis.Result, error)
	ExtractEntities(ctx context.Context, text string) (*analysis.EntitiesResponse, error)
	BatchProcess(ctx context.Context, req analysis.BatchRequest) (*analysis.BatchResponse, error)
	Health(ctx context.Context) (*analysis.BackendStatus, error)
}
