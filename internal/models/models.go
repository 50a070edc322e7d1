package models

import "errors"

// Display constants shared by the responder and the control console.
const (
	// MaxSearchResults limits how many note snippets a search renders.
	MaxSearchResults = 5
	// MaxSnippetLength truncates each rendered snippet for display.
	MaxSnippetLength = 100
	// MaxDraftNotes limits how many notes feed a draft generation.
	MaxDraftNotes = 10
)

// Completion token budgets per operation.
const (
	ChatMaxTokens    = 1500
	DraftMaxTokens   = 1000
	CollectMaxTokens = 200
)

// Error variables for better error handling and testability.
var (
	ErrNoPrompts     = errors.New("prompt library cannot be empty")
	ErrLastPrompt    = errors.New("at least one prompt must remain")
	ErrUnknownPrompt = errors.New("prompt name not found in library")
	ErrUnknownAction = errors.New("unrecognized menu action")
	ErrEmptyUserID   = errors.New("user id cannot be empty")
)

// APIStatus represents the status of an API response.
type APIStatus string

const (
	// APIStatusOK indicates an API request completed successfully.
	APIStatusOK APIStatus = "ok"
	// APIStatusError indicates an API request failed with an error.
	APIStatusError APIStatus = "error"
)

// APIResponse is the standard JSON envelope returned by the webhook shell
// and the admin surface.
type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Result  interface{} `json:"result,omitempty"`
}

// Success creates a successful API response with optional result data.
func Success(result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Result: result}
}

// Error creates an error API response with a message.
func Error(message string) APIResponse {
	return APIResponse{Status: string(APIStatusError), Message: message}
}
