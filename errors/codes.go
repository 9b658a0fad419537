package errors

// ErrorCode identifies an application error category
type ErrorCode int32

const (
	ErrorCode_UNKNOWN ErrorCode = iota
	ErrorCode_INTERNAL
	ErrorCode_INVALID_ARGUMENT
	ErrorCode_NOT_FOUND
	ErrorCode_ALREADY_EXISTS
	ErrorCode_UNSUPPORTED_MEDIA_TYPE

	ErrorCode_MEDIA_ACQUISITION_FAILED
	ErrorCode_AUDIO_EXTRACTION_FAILED
	ErrorCode_AUDIO_CHUNKING_FAILED
	ErrorCode_ANALYSIS_FAILED

	ErrorCode_INTEGRATION_STORAGE_FAILED
	ErrorCode_INTEGRATION_CACHE_FAILED
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED

	ErrorCode_DB_CONNECTION_FAILED
	ErrorCode_DB_QUERY_FAILED

	ErrorCode_INVALID_PAYLOAD
	ErrorCode_MISSING_SOURCE
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_UNKNOWN:                         "UNKNOWN",
	ErrorCode_INTERNAL:                        "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:                "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                       "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:                  "ALREADY_EXISTS",
	ErrorCode_UNSUPPORTED_MEDIA_TYPE:          "UNSUPPORTED_MEDIA_TYPE",
	ErrorCode_MEDIA_ACQUISITION_FAILED:        "MEDIA_ACQUISITION_FAILED",
	ErrorCode_AUDIO_EXTRACTION_FAILED:         "AUDIO_EXTRACTION_FAILED",
	ErrorCode_AUDIO_CHUNKING_FAILED:           "AUDIO_CHUNKING_FAILED",
	ErrorCode_ANALYSIS_FAILED:                 "ANALYSIS_FAILED",
	ErrorCode_INTEGRATION_STORAGE_FAILED:      "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:        "INTEGRATION_CACHE_FAILED",
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED: "INTEGRATION_EXTERNAL_API_FAILED",
	ErrorCode_DB_CONNECTION_FAILED:            "DB_CONNECTION_FAILED",
	ErrorCode_DB_QUERY_FAILED:                 "DB_QUERY_FAILED",
	ErrorCode_INVALID_PAYLOAD:                 "INVALID_PAYLOAD",
	ErrorCode_MISSING_SOURCE:                  "MISSING_SOURCE",
}

// String returns the symbolic name of the error code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
