package ingest

import "fmt"

// IngestError represents an ingestion failure with a specific stage.
type IngestError struct {
	Stage string
	Err   error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("ingest error at %s stage: %v", e.Stage, e.Err)
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

// NewIngestError creates a new IngestError.
func NewIngestError(stage string, err error) *IngestError {
	return &IngestError{
		Stage: stage,
		Err:   err,
	}
}
