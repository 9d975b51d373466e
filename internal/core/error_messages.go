package core

// # Error Codes Reference
//
// Every error that reaches a client is mapped to a short code that users can
// quote to support staff. Codes are grouped by category:
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: The upload exceeds the configured size limit
//	          Action: Split the file or remove unused columns
//	          Patterns: "file too large"
//
//	FILE002 - Invalid upload: The request body is not a readable form upload
//	          Action: Send the CSV as multipart/form-data in the "file" field
//	          Patterns: "invalid upload"
//
//	FILE003 - Read failure: The file could not be read
//	          Action: Re-export the file and upload it again
//	          Patterns: "read failure"
//
//	FILE004 - No file: The request carried no file
//	          Action: Select a CSV file to analyze
//	          Patterns: "no file provided"
//
//	FILE005 - No data: The file has no data rows after the header
//	          Action: Upload a CSV with a header row and at least one data row
//	          Patterns: "no data found"
//
// # Analysis Errors (ANL001-ANL099)
//
//	ANL001 - Checksum failed: The content digest could not be computed
//	         Action: Please try again
//	         Patterns: "hash computation failed"
//
//	ANL002 - System busy: Too many analyses in progress
//	         Action: Please wait a moment and try again
//	         Patterns: "too many concurrent analyses"
//
//	ANL003 - Request cancelled: The analysis was cancelled
//	         Action: Please try again
//	         Patterns: "context canceled"
//
//	ANL004 - Request timeout: The analysis took too long
//	         Action: Try a smaller file or try again later
//	         Patterns: "context deadline exceeded"
//
// # Report Errors (RPT001-RPT099)
//
//	RPT001 - Report not found: No report is stored under this id
//	         Action: Reports expire after the retention period. Run the analysis again
//	         Patterns: "report not found"
//
//	RPT002 - Missing id: No report id was given
//	         Action: Pass the evaluation id returned by the analysis
//	         Patterns: "empty report key"
//
// # Storage Errors (STO001-STO099)
//
//	STO001 - Store unavailable: Unable to reach the report store
//	         Action: Please try again in a few moments
//	         Patterns: "connection refused"
//
//	STO002 - Store interrupted: The connection to the report store dropped
//	         Action: Please try again
//	         Patterns: "connection reset"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// Patterns are matched case-insensitively with strings.Contains and the first
// match wins, so more specific patterns come first. When a user reports
// ERR000, the original error is in the application log.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (lowercase) to user messages.
// Order matters: a wrapped read failure can also mention the context error,
// and the file code is the more useful one.
var errorPatterns = []errorPattern{
	// File errors
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the file or remove unused columns",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid upload",
		msg: UserMessage{
			Message: "The upload could not be read",
			Action:  `Send the CSV as multipart/form-data in the "file" field`,
			Code:    "FILE002",
		},
	},
	{
		pattern: "read failure",
		msg: UserMessage{
			Message: "The file could not be read",
			Action:  "Re-export the file and upload it again",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Select a CSV file to analyze",
			Code:    "FILE004",
		},
	},
	{
		pattern: "no data found",
		msg: UserMessage{
			Message: "The file has no data rows",
			Action:  "Upload a CSV with a header row and at least one data row",
			Code:    "FILE005",
		},
	},

	// Analysis errors
	{
		pattern: "hash computation failed",
		msg: UserMessage{
			Message: "The file checksum could not be computed",
			Action:  "Please try again",
			Code:    "ANL001",
		},
	},
	{
		pattern: "too many concurrent analyses",
		msg: UserMessage{
			Message: "System is busy processing other files",
			Action:  "Please wait a moment and try again",
			Code:    "ANL002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The analysis was cancelled",
			Action:  "Please try again",
			Code:    "ANL003",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The analysis timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "ANL004",
		},
	},

	// Report errors
	{
		pattern: "report not found",
		msg: UserMessage{
			Message: "Report not found",
			Action:  "Reports expire after the retention period. Run the analysis again",
			Code:    "RPT001",
		},
	},
	{
		pattern: "empty report key",
		msg: UserMessage{
			Message: "No report id was given",
			Action:  "Pass the evaluation id returned by the analysis",
			Code:    "RPT002",
		},
	},

	// Storage errors
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to reach the report store",
			Action:  "Please try again in a few moments",
			Code:    "STO001",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "The connection to the report store was interrupted",
			Action:  "Please try again",
			Code:    "STO002",
		},
	},

	// Rate limiting
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. If no
// pattern matches, the ERR000 fallback is returned.
//
// Example:
//
//	msg := MapError(dqi.ErrNoData)
//	// msg.Code == "FILE005"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error, kept for logging, with the message
// shown to users.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
