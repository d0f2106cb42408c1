package core

// error_messages.go maps errors to user-facing messages with support codes.
//
// # Error Codes Reference
//
//	VAL001   - Unsupported file type (extension not in AllowedExtensions)
//	           Action: Choose a CSV, TSV, Excel, JSON or Parquet file
//	FILE001  - File too large
//	           Action: Split the file into smaller chunks
//	FILE002  - No file selected
//	           Action: Please select a data file to upload
//	REQ001   - Backend call failed; message is the backend's detail verbatim
//	           Action: Select the file again to start a new run
//	REQ002   - Backend unreachable
//	           Action: Check that the cleaning service is running
//	STATE001 - No cleaned dataset available
//	           Action: Upload a file and wait for cleaning to complete
//	RUN001   - A run is already in progress for this session
//	           Action: Wait for the current run to finish
//	RATE001  - Too many requests
//	           Action: Please wait a moment before trying again
//	ERR000   - Unknown error
//	           Action: Please try again or contact support
//
// Typed errors are matched first with errors.As/Is. Anything else falls back
// to case-insensitive substring patterns; the first match wins.

import (
	"errors"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds maximum size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a data file to upload",
			Code:    "FILE002",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error into a UserMessage. A nil error maps to the
// zero UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return UserMessage{
			Message: vErr.Message,
			Action:  "Choose a CSV, TSV, Excel, JSON or Parquet file",
			Code:    "VAL001",
		}
	}

	var rErr *RequestError
	if errors.As(err, &rErr) {
		if rErr.Status == 0 {
			return UserMessage{
				Message: rErr.Message,
				Action:  "Check that the cleaning service is running",
				Code:    "REQ002",
			}
		}
		return UserMessage{
			Message: rErr.Message,
			Action:  "Select the file again to start a new run",
			Code:    "REQ001",
		}
	}

	var sErr *StateError
	if errors.As(err, &sErr) {
		return UserMessage{
			Message: sErr.Message,
			Action:  "Upload a file and wait for cleaning to complete",
			Code:    "STATE001",
		}
	}

	if errors.Is(err, ErrRunInProgress) {
		return UserMessage{
			Message: "A cleaning run is already in progress",
			Action:  "Wait for the current run to finish",
			Code:    "RUN001",
		}
	}

	lower := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(lower, p.pattern) {
			return p.msg
		}
	}

	return defaultMessage
}
