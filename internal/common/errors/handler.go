package errors

import (
	"time"
)

// Logger is the subset of logger.Logger the reporter needs.
type Logger interface {
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

// Reporter turns a failed operation into one log line and one user-facing message.
type Reporter struct {
	logger Logger
}

func NewReporter(logger Logger) *Reporter {
	return &Reporter{logger: logger}
}

// Report logs err and returns the text to show the user.
func (r *Reporter) Report(operation string, err error, fallback string) string {
	if err == nil {
		return ""
	}
	stdErr := normalizeError(err)

	fields := map[string]interface{}{
		"operation":     operation,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	if stdErr.StatusCode != 0 {
		fields["status"] = stdErr.StatusCode
	}

	switch GetErrorCategory(stdErr.Code) {
	case "VALIDATION", "AUTH":
		r.logger.Warn("Operation rejected", fields)
	default:
		r.logger.Error("Operation failed", fields)
	}

	return UserMessage(stdErr, fallback)
}

func normalizeError(err error) *StandardError {
	if stdErr, ok := AsStandard(err); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}
