package errors

// ErrorCode identifies the category of an application error
type ErrorCode string

const (
	ErrorCode_INTERNAL          ErrorCode = "INTERNAL"
	ErrorCode_INVALID_ARGUMENT  ErrorCode = "INVALID_ARGUMENT"
	ErrorCode_NOT_FOUND         ErrorCode = "NOT_FOUND"
	ErrorCode_ALREADY_EXISTS    ErrorCode = "ALREADY_EXISTS"
	ErrorCode_PERMISSION_DENIED ErrorCode = "PERMISSION_DENIED"
	ErrorCode_UNAUTHENTICATED   ErrorCode = "UNAUTHENTICATED"

	ErrorCode_TRANSCRIPT_REJECTED ErrorCode = "TRANSCRIPT_REJECTED"

	ErrorCode_EXTRACTION_FAILED      ErrorCode = "EXTRACTION_FAILED"
	ErrorCode_AI_SERVICE_UNAVAILABLE ErrorCode = "AI_SERVICE_UNAVAILABLE"
	ErrorCode_AI_QUOTA_EXCEEDED      ErrorCode = "AI_QUOTA_EXCEEDED"

	ErrorCode_INVALID_NOTIFICATION_TYPE ErrorCode = "INVALID_NOTIFICATION_TYPE"
	ErrorCode_INVALID_STATUS            ErrorCode = "INVALID_STATUS"

	ErrorCode_DB_QUERY_FAILED      ErrorCode = "DB_QUERY_FAILED"
	ErrorCode_INTEGRATION_STORAGE  ErrorCode = "INTEGRATION_STORAGE_FAILED"
	ErrorCode_INTEGRATION_REALTIME ErrorCode = "INTEGRATION_REALTIME_FAILED"
)

// String returns the code as a string
func (c ErrorCode) String() string {
	return string(c)
}
