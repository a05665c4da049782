package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeMethodNotAllowed   ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeFeatureDisabled    ErrorCode = "COMMON_015"
)

// Aliases used at call sites that predate the ErrCode naming.
const (
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeOK           = ErrorCode("OK")
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeRateLimit    = ErrCodeTooManyRequests

	CodeMoleculeNotFound = ErrCodeMoleculeNotFound
	CodeCompoundNotFound = ErrCodeCompoundNotFound
)

// Molecule Module Error Codes
const (
	ErrCodeMoleculeInvalidSMILES     ErrorCode = "MOL_001"
	ErrCodeMoleculeInvalidName       ErrorCode = "MOL_002"
	ErrCodeMoleculeInvalidIdentifier ErrorCode = "MOL_003"
	ErrCodeMoleculeNotFound          ErrorCode = "MOL_004"
	ErrCodeStructureUnavailable      ErrorCode = "MOL_005"
	ErrCodeStructureQueryAmbiguous   ErrorCode = "MOL_006"
	ErrCodeBatchTooLarge             ErrorCode = "MOL_007"
)

// Compound Library Error Codes
const (
	ErrCodeCompoundNotFound     ErrorCode = "CMP_001"
	ErrCodeCompoundQueryInvalid ErrorCode = "CMP_002"
	ErrCodeDoseResponseInvalid  ErrorCode = "CMP_003"
	ErrCodePredictionInvalid    ErrorCode = "CMP_004"
)

// Data Source Error Codes
const (
	ErrCodeDataSourceUnavailable ErrorCode = "SRC_001"
	ErrCodeDataSourceRateLimited ErrorCode = "SRC_002"
	ErrCodeDataSourceBadStatus   ErrorCode = "SRC_003"
	ErrCodeDataSourceParseError  ErrorCode = "SRC_004"
	ErrCodeDataSourceEmpty       ErrorCode = "SRC_005"
)

// ErrorCodeHTTPStatus maps each ErrorCode to the HTTP status returned to callers.
// Upstream errors carrying their own status override this table at the edge.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeMethodNotAllowed:   http.StatusMethodNotAllowed,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeFeatureDisabled:    http.StatusNotImplemented,

	ErrCodeMoleculeInvalidSMILES:     http.StatusBadRequest,
	ErrCodeMoleculeInvalidName:       http.StatusBadRequest,
	ErrCodeMoleculeInvalidIdentifier: http.StatusBadRequest,
	ErrCodeMoleculeNotFound:          http.StatusNotFound,
	ErrCodeStructureUnavailable:      http.StatusNotFound,
	ErrCodeStructureQueryAmbiguous:   http.StatusBadRequest,
	ErrCodeBatchTooLarge:             http.StatusBadRequest,

	ErrCodeCompoundNotFound:     http.StatusNotFound,
	ErrCodeCompoundQueryInvalid: http.StatusBadRequest,
	ErrCodeDoseResponseInvalid:  http.StatusBadRequest,
	ErrCodePredictionInvalid:    http.StatusBadRequest,

	ErrCodeDataSourceUnavailable: http.StatusBadGateway,
	ErrCodeDataSourceRateLimited: http.StatusTooManyRequests,
	ErrCodeDataSourceBadStatus:   http.StatusBadGateway,
	ErrCodeDataSourceParseError:  http.StatusBadGateway,
	ErrCodeDataSourceEmpty:       http.StatusNotFound,
}

// ErrorCodeMessage holds the default human-readable message per code.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeMethodNotAllowed:   "method not allowed",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeCacheError:         "cache error",
	ErrCodeFeatureDisabled:    "feature disabled",

	ErrCodeMoleculeInvalidSMILES:     "invalid SMILES string",
	ErrCodeMoleculeInvalidName:       "invalid compound name",
	ErrCodeMoleculeInvalidIdentifier: "invalid compound identifier",
	ErrCodeMoleculeNotFound:          "molecule not found",
	ErrCodeStructureUnavailable:      "3D structure not available",
	ErrCodeStructureQueryAmbiguous:   "exactly one of cid or smiles is required",
	ErrCodeBatchTooLarge:             "too many names in batch",

	ErrCodeCompoundNotFound:     "compound not found",
	ErrCodeCompoundQueryInvalid: "invalid compound query",
	ErrCodeDoseResponseInvalid:  "invalid dose-response parameters",
	ErrCodePredictionInvalid:    "invalid risk prediction request",

	ErrCodeDataSourceUnavailable: "data source unavailable",
	ErrCodeDataSourceRateLimited: "data source rate limited",
	ErrCodeDataSourceBadStatus:   "data source returned an error status",
	ErrCodeDataSourceParseError:  "failed to parse data source response",
	ErrCodeDataSourceEmpty:       "data source returned no result",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
