package http

// DetailPayload is the error envelope: {"detail": "..."} for plain messages,
// {"detail": [...]} for validation error lists.
type DetailPayload struct {
	Detail interface{} `json:"detail"`
}

// ValidationError represents one failed validation rule.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"limit"`
	Message string                 `json:"message,omitempty" example:"limit must be at most 20"`
	Params  map[string]interface{} `json:"params,omitempty"`
}
