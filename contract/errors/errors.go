package errors

// Error codes for the messenger contracts. Keep stable; used across adapters and the messenger.
const (
	ErrCodeNilHandler          = "messenger.nil_handler"
	ErrCodeExportNotConfigured = "messenger.export_not_configured"
	ErrCodeExportFailed        = "messenger.export_failed"
	ErrCodeSerializationFailed = "messenger.serialization_failed"
	ErrCodeInvalidConfig       = "messenger.invalid_config"
)

// Code returns an error value that carries only a code string.
// It implements error by returning the code string in Error().
func Code(code string) error { return codedError(code) }

type codedError string

func (e codedError) Error() string { return string(e) }

var (
	ErrNilHandler          = Code(ErrCodeNilHandler)
	ErrExportNotConfigured = Code(ErrCodeExportNotConfigured)
	ErrExportFailed        = Code(ErrCodeExportFailed)
	ErrSerializationFailed = Code(ErrCodeSerializationFailed)
	ErrInvalidConfig       = Code(ErrCodeInvalidConfig)
)
