package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryFile          ErrorCategory = "file"
	CategoryFormat        ErrorCategory = "format"
	CategoryParse         ErrorCategory = "parse"
	CategoryValidation    ErrorCategory = "validation"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryExport        ErrorCategory = "export"
	CategoryInternal      ErrorCategory = "internal"
)

// ErrorCode represents specific error codes within categories
type ErrorCode string

const (
	// File errors
	CodeFileNotFound   ErrorCode = "file_not_found"
	CodeFilePermission ErrorCode = "file_permission"
	CodeFileCorrupted  ErrorCode = "file_corrupted"
	CodeDirectoryError ErrorCode = "directory_error"

	// Format errors (period label / body pairing)
	CodeMissingBody     ErrorCode = "missing_body"
	CodeDuplicatePeriod ErrorCode = "duplicate_period"
	CodeEmptyInput      ErrorCode = "empty_input"

	// Parse errors (transaction line decomposition)
	CodeTooFewTokens     ErrorCode = "too_few_tokens"
	CodeInvalidReference ErrorCode = "invalid_reference"
	CodeInvalidAmount    ErrorCode = "invalid_amount"

	// Validation errors
	CodeCountMismatch ErrorCode = "count_mismatch"
	CodeNonContiguous ErrorCode = "non_contiguous"

	// Configuration errors
	CodeInvalidConfig  ErrorCode = "invalid_config"
	CodeMissingConfig  ErrorCode = "missing_config"
	CodeConfigConflict ErrorCode = "config_conflict"

	// Export errors
	CodeWriteFailed       ErrorCode = "write_failed"
	CodeUnsupportedFormat ErrorCode = "unsupported_format"

	// Internal errors
	CodeUnexpectedError ErrorCode = "unexpected_error"
	CodeCancelled       ErrorCode = "cancelled"
)

// ConverterError is the base error type for all application errors
type ConverterError struct {
	Category   ErrorCategory     `json:"category"`
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context provides additional information about the error
type Context map[string]interface{}

// Error implements the error interface
func (e *ConverterError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", msg, e.Suggestion)
	}
	return msg
}

// Unwrap returns the underlying cause error
func (e *ConverterError) Unwrap() error {
	return e.Cause
}

// GetExitCode returns an appropriate exit code for the error
func (e *ConverterError) GetExitCode() int {
	switch e.Category {
	case CategoryFile:
		return 2
	case CategoryFormat, CategoryParse, CategoryValidation:
		return 3
	case CategoryConfiguration:
		return 4
	case CategoryExport, CategoryInternal:
		return 5
	default:
		return 1
	}
}

// WithContext adds context information to the error
func (e *ConverterError) WithContext(key string, value interface{}) *ConverterError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion for fixing the error
func (e *ConverterError) WithSuggestion(suggestion string) *ConverterError {
	e.Suggestion = suggestion
	return e
}

// WithPeriod records the statement period the error belongs to.
func (e *ConverterError) WithPeriod(label string) *ConverterError {
	return e.WithContext("period", label)
}

// Period returns the period label attached to the error, if any.
func (e *ConverterError) Period() string {
	if v, ok := e.Context["period"].(string); ok {
		return v
	}
	return ""
}

// Raw returns the raw text attached to the error, if any.
func (e *ConverterError) Raw() string {
	if v, ok := e.Context["raw"].(string); ok {
		return v
	}
	return ""
}

// New creates a new ConverterError
func New(category ErrorCategory, code ErrorCode, message string) *ConverterError {
	return &ConverterError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap wraps an existing error with ConverterError context
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *ConverterError {
	if err == nil {
		return nil
	}

	return &ConverterError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

// stackTracer interface for extracting stack traces
type stackTracer interface {
	StackTrace() errors.StackTrace
}

func newOrWrap(err error, category ErrorCategory, code ErrorCode, message string) *ConverterError {
	if err != nil {
		return Wrap(err, category, code, message)
	}
	return New(category, code, message)
}

// Specific error constructors

// FileError creates a file-related error
func FileError(code ErrorCode, path string, err error) *ConverterError {
	var message string
	var suggestion string

	switch code {
	case CodeFileNotFound:
		message = fmt.Sprintf("file not found: %s", path)
		suggestion = "check if the file path is correct and the file exists"
	case CodeFilePermission:
		message = fmt.Sprintf("permission denied accessing file: %s", path)
		suggestion = "check file permissions and ensure you have read access"
	case CodeFileCorrupted:
		message = fmt.Sprintf("file could not be decoded: %s", path)
		suggestion = "save the export as UTF-8 text"
	case CodeDirectoryError:
		message = fmt.Sprintf("directory error: %s", path)
		suggestion = "ensure the directory exists and is writable"
	default:
		message = fmt.Sprintf("file error: %s", path)
		suggestion = "check the file and try again"
	}

	return newOrWrap(err, CategoryFile, code, message).
		WithSuggestion(suggestion).
		WithContext("file_path", path)
}

// FormatError creates an error for a malformed period label / body pairing.
// raw is the offending input line.
func FormatError(code ErrorCode, label string, raw string) *ConverterError {
	var message string
	var suggestion string

	switch code {
	case CodeMissingBody:
		message = fmt.Sprintf("period %q has no statement body line", label)
		suggestion = "every period label must be followed by exactly one body line"
	case CodeDuplicatePeriod:
		message = fmt.Sprintf("period %q appears more than once", label)
		suggestion = "remove or rename the repeated period block"
	case CodeEmptyInput:
		message = "input contains no statement periods"
		suggestion = "check that the export is not empty"
	default:
		message = fmt.Sprintf("malformed statement file near period %q", label)
		suggestion = "the file must alternate period label and body lines"
	}

	return New(CategoryFormat, code, message).
		WithSuggestion(suggestion).
		WithPeriod(label).
		WithContext("raw", raw)
}

// ParseError creates an error for a transaction line that could not be
// decomposed. segment is the raw transaction-line text, field and value name
// the offending token.
func ParseError(code ErrorCode, segment string, field string, value string, err error) *ConverterError {
	var message string
	var suggestion string

	switch code {
	case CodeTooFewTokens:
		message = fmt.Sprintf("transaction line has too few fields: %q", TruncateRaw(segment))
		suggestion = "a line needs a reference, two dates, an amount and optional details"
	case CodeInvalidReference:
		message = fmt.Sprintf("invalid reference %q in transaction line", value)
		suggestion = "references must be positive integers such as 001"
	case CodeInvalidAmount:
		message = fmt.Sprintf("invalid amount %q in transaction line", value)
		suggestion = "amounts look like 1,234.56 or 1,234.56- for negatives"
	default:
		message = fmt.Sprintf("could not parse transaction line: %q", TruncateRaw(segment))
		suggestion = "check the line layout"
	}

	return newOrWrap(err, CategoryParse, code, message).
		WithSuggestion(suggestion).
		WithContext("raw", segment).
		WithContext("field", field).
		WithContext("value", value)
}

// ValidationError creates an error for a statement table that failed the
// lossless or contiguity checks.
func ValidationError(code ErrorCode, detail string) *ConverterError {
	var message string
	var suggestion string

	switch code {
	case CodeCountMismatch:
		message = fmt.Sprintf("record count mismatch: %s", detail)
		suggestion = "a transaction line was dropped or duplicated while tokenizing"
	case CodeNonContiguous:
		message = fmt.Sprintf("references are not contiguous: %s", detail)
		suggestion = "a line start was not recognized; check the month set and the raw text"
	default:
		message = fmt.Sprintf("statement validation failed: %s", detail)
		suggestion = "check the statement body"
	}

	return New(CategoryValidation, code, message).
		WithSuggestion(suggestion).
		WithContext("detail", detail)
}

// ConfigurationError creates a configuration-related error
func ConfigurationError(code ErrorCode, setting string, value interface{}, err error) *ConverterError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidConfig:
		message = fmt.Sprintf("invalid configuration for '%s': %v", setting, value)
		suggestion = "check the configuration documentation for valid values"
	case CodeMissingConfig:
		message = fmt.Sprintf("missing required configuration: %s", setting)
		suggestion = "provide this configuration setting or use a config file"
	case CodeConfigConflict:
		message = fmt.Sprintf("configuration conflict with setting '%s': %v", setting, value)
		suggestion = "resolve the conflicting settings or use default values"
	default:
		message = fmt.Sprintf("configuration error: %s", setting)
		suggestion = "check your configuration and try again"
	}

	return newOrWrap(err, CategoryConfiguration, code, message).
		WithSuggestion(suggestion).
		WithContext("setting", setting).
		WithContext("value", value)
}

// ExportError creates an error raised while writing a period table.
func ExportError(code ErrorCode, path string, err error) *ConverterError {
	var message string
	var suggestion string

	switch code {
	case CodeWriteFailed:
		message = fmt.Sprintf("failed to write %s", path)
		suggestion = "check free disk space and permissions on the output directory"
	case CodeUnsupportedFormat:
		message = fmt.Sprintf("unsupported export format: %s", path)
		suggestion = "use one of csv, json, xlsx"
	default:
		message = fmt.Sprintf("export error: %s", path)
		suggestion = "check the output directory"
	}

	return newOrWrap(err, CategoryExport, code, message).
		WithSuggestion(suggestion).
		WithContext("output", path)
}

// InternalError creates an internal error
func InternalError(code ErrorCode, operation string, err error) *ConverterError {
	var message string
	var suggestion string

	switch code {
	case CodeUnexpectedError:
		message = fmt.Sprintf("unexpected error during %s", operation)
		suggestion = "this is likely a bug - please report it with the error details"
	case CodeCancelled:
		message = fmt.Sprintf("%s was cancelled", operation)
		suggestion = "run the conversion again"
	default:
		message = fmt.Sprintf("internal error during %s", operation)
		suggestion = "try again or contact support if the problem persists"
	}

	return newOrWrap(err, CategoryInternal, code, message).
		WithSuggestion(suggestion).
		WithContext("operation", operation)
}

// Utility functions

// AsConverterError extracts a ConverterError from an error chain
func AsConverterError(err error) (*ConverterError, bool) {
	var converterErr *ConverterError
	if errors.As(err, &converterErr) {
		return converterErr, true
	}
	return nil, false
}

// HasCategory reports whether err carries a ConverterError of the given category.
func HasCategory(err error, category ErrorCategory) bool {
	ce, ok := AsConverterError(err)
	return ok && ce.Category == category
}

// HasCode reports whether err carries a ConverterError with the given code.
func HasCode(err error, code ErrorCode) bool {
	ce, ok := AsConverterError(err)
	return ok && ce.Code == code
}

// WrapIfNeeded wraps an error if it's not already a ConverterError
func WrapIfNeeded(err error, category ErrorCategory, code ErrorCode, message string) *ConverterError {
	if err == nil {
		return nil
	}

	if converterErr, ok := AsConverterError(err); ok {
		return converterErr
	}

	return Wrap(err, category, code, message)
}
