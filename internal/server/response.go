package server

type CalculationResponse struct {
	CalculationMetadata CalculationMetadata `json:"calculation_metadata"`
	Result              any                 `json:"result"`
}

type CalculationMetadata struct {
	CalculationID string `json:"calculation_id"`
	StartedAt     string `json:"started_at"`
	DurationMs    int64  `json:"duration_ms"`
	Outcome       string `json:"outcome"`
}

type ErrorResponse struct {
	Status              int                  `json:"status"`
	Code                string               `json:"code"`
	Message             string               `json:"message"`
	CalculationMetadata *CalculationMetadata `json:"calculation_metadata,omitempty"`
}

const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailure = "FAILURE"
)

const (
	CodeInvalidJSON      = "INVALID_JSON"
	CodeInvalidArgument  = "INVALID_ARGUMENT"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeNotFound         = "NOT_FOUND"
	CodeCancelled        = "CANCELLED"
	CodeInternal         = "INTERNAL"
)
