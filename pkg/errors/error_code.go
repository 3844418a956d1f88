package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidInput         ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidTradeRecord   ErrorCode = 102
	ErrCodeInvalidCandle        ErrorCode = 103
	ErrCodeMissingParameter     ErrorCode = 104

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202

	// Journal errors (300-399)
	ErrCodeJournalReadFailed  ErrorCode = 300
	ErrCodeJournalParseFailed ErrorCode = 301
	ErrCodeJournalWriteFailed ErrorCode = 302

	// Report errors (400-499)
	ErrCodeReportBuildFailed  ErrorCode = 400
	ErrCodeReportWriteFailed  ErrorCode = 401
	ErrCodeReportReadFailed   ErrorCode = 402
	ErrCodeIncompatibleReport ErrorCode = 403

	// Transport errors (500-599)
	ErrCodeRequestDecodeFailed ErrorCode = 500
)
