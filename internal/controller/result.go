package controller

import "github.com/oakwood/tworooms/internal/validator"

// CommandError is the structured failure a denied command returns (§7):
// a human message, the validator issues (if any) that caused the denial,
// and an actionable suggestion where one is available.
type CommandError struct {
	Message    string
	Issues     []validator.Issue
	Suggestion string
}

func (e *CommandError) Error() string { return e.Message }

// Result is what Submit returns for every command: either success
// (optionally carrying warnings and a small response payload) or a
// structured error (§4.7 "returns a typed result that is either success
// ... or a structured error").
type Result struct {
	OK       bool
	Warnings []validator.Issue
	Payload  map[string]any
	Err      *CommandError
}

func ok(payload map[string]any, warnings []validator.Issue) Result {
	return Result{OK: true, Payload: payload, Warnings: warnings}
}

func denied(message string, issues []validator.Issue) Result {
	return Result{Err: &CommandError{Message: message, Issues: issues}}
}
