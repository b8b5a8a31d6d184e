// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Request / lineage errors
const (
	ErrCodeMissingRequiredField ErrorCode = "MISSING_REQUIRED_FIELD"
	ErrCodeInvalidConfiguration ErrorCode = "INVALID_CONFIGURATION"
	ErrCodeInvalidJobVariables  ErrorCode = "INVALID_JOB_VARIABLES"

	ErrCodeCyclicLineage  ErrorCode = "CYCLIC_LINEAGE"
	ErrCodeMemberNotFound ErrorCode = "MEMBER_NOT_FOUND"

	ErrCodeMemberSnapshotFailed     ErrorCode = "MEMBER_SNAPSHOT_FAILED"
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	ErrCodeBrokerUnavailable ErrorCode = "BROKER_UNAVAILABLE"
	ErrCodeBrokerRejected    ErrorCode = "BROKER_REJECTED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a key to the error and returns it for chaining.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewMissingRequiredFieldError creates a non-retryable input error.
func NewMissingRequiredFieldError(field string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingRequiredField,
		Message:   "Required field is missing",
		Details:   fmt.Sprintf("field: %s", field),
		Retryable: false,
		Metadata:  map[string]interface{}{"field": field},
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidConfigurationError creates a non-retryable configuration error.
func NewInvalidConfigurationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidConfiguration,
		Message:   "Matching configuration is invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidJobVariablesError creates a non-retryable schema validation error.
func NewInvalidJobVariablesError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidJobVariables,
		Message:   "Job variables failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewCyclicLineageError(memberID, repeatedID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCyclicLineage,
		Message:   "Parent chain contains a cycle",
		Details:   fmt.Sprintf("memberId: %s, repeatedId: %s", memberID, repeatedID),
		Retryable: false,
		Metadata:  map[string]interface{}{"memberId": memberID, "repeatedId": repeatedID},
		Timestamp: time.Now().UTC(),
	}
}

func NewMemberNotFoundError(memberID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMemberNotFound,
		Message:   "Member not found in population",
		Details:   fmt.Sprintf("memberId: %s", memberID),
		Retryable: false,
		Metadata:  map[string]interface{}{"memberId": memberID},
		Timestamp: time.Now().UTC(),
	}
}

// NewMemberSnapshotFailedError creates a retryable error for a failed
// population load.
func NewMemberSnapshotFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMemberSnapshotFailed,
		Message:   "Failed to load member snapshot",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(queryType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Database query timeout",
		Details:   fmt.Sprintf("queryType: %s", queryType),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewBrokerUnavailableError wraps a transient Zeebe gateway failure.
func NewBrokerUnavailableError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeBrokerUnavailable,
		Message:   "Zeebe gateway unavailable",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Metadata:  map[string]interface{}{"operation": operation},
		Timestamp: time.Now().UTC(),
	}
}

// NewBrokerRejectedError wraps a command the broker refused outright.
func NewBrokerRejectedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeBrokerRejected,
		Message:   "Zeebe command rejected",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: false,
		Metadata:  map[string]interface{}{"operation": operation},
		Timestamp: time.Now().UTC(),
	}
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeMissingRequiredField:     "MISSING_REQUIRED_FIELD",
	ErrCodeInvalidConfiguration:     "INVALID_CONFIGURATION",
	ErrCodeInvalidJobVariables:      "INVALID_JOB_VARIABLES",
	ErrCodeCyclicLineage:            "CYCLIC_LINEAGE",
	ErrCodeMemberNotFound:           "MEMBER_NOT_FOUND",
	ErrCodeMemberSnapshotFailed:     "MEMBER_SNAPSHOT_FAILED",
	ErrCodeDatabaseConnectionFailed: "DATABASE_CONNECTION_FAILED",
	ErrCodeQueryExecutionFailed:     "QUERY_EXECUTION_FAILED",
	ErrCodeQueryTimeout:             "QUERY_TIMEOUT",
	ErrCodeBrokerUnavailable:        "BROKER_UNAVAILABLE",
	ErrCodeBrokerRejected:           "BROKER_REJECTED",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeMemberSnapshotFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeBrokerUnavailable:
		return 3

	case ErrCodeQueryTimeout:
		return 2

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY") || strings.Contains(codeStr, "SNAPSHOT"):
		return "DATABASE"
	case strings.Contains(codeStr, "LINEAGE") || strings.Contains(codeStr, "MEMBER"):
		return "LINEAGE"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "MISSING"):
		return "VALIDATION"
	case strings.Contains(codeStr, "BROKER"):
		return "BROKER"
	default:
		return "OTHER"
	}
}
