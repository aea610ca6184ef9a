package types

// ErrorResponse is the body of a non-streaming error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Client-facing validation messages.
const (
	MessagePromptRequired = "Prompt is required"
	MessageInvalidEngine  = "Invalid generation engine specified"
	MessageInternalError  = "An internal error occurred. Please try again later."
)
