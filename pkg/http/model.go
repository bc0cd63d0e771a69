package http

// APIResponse is the envelope every endpoint writes: HTTP status, its text,
// and the payload.
type APIResponse struct {
	Status  int         `json:"status" example:"200"`
	Message string      `json:"message" example:"OK"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidationError describes one failed binding or validation rule.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"symbol"`
	Message string                 `json:"message,omitempty" example:"Symbol is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}
