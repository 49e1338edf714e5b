package models

// StatusCode is the outcome reported by the student information system.
type StatusCode int

const (
	StatusSuccess StatusCode = iota
	StatusSessionTimeout
	StatusInvalidCredentials
	StatusTemporaryError
	StatusServerError
	StatusUnderMaintenance
	StatusUnknownError
	// StatusInvalidData marks a structurally invalid response.
	StatusInvalidData
)

var statusNames = map[StatusCode]string{
	StatusSuccess:            "SUCCESS",
	StatusSessionTimeout:     "SESSION_TIMEOUT",
	StatusInvalidCredentials: "INVALID_CREDENTIALS",
	StatusTemporaryError:     "TEMPORARY_ERROR",
	StatusServerError:        "SERVER_ERROR",
	StatusUnderMaintenance:   "UNDER_MAINTENANCE",
	StatusUnknownError:       "UNKNOWN_ERROR",
	StatusInvalidData:        "INVALID_DATA",
}

// String returns the stable name of the status.
func (s StatusCode) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[StatusUnknownError]
}

// StatusFromWireCode maps the numeric code of a status object.
func StatusFromWireCode(code int) StatusCode {
	switch code {
	case 0:
		return StatusSuccess
	case 11:
		return StatusSessionTimeout
	case 12:
		return StatusInvalidCredentials
	case 13:
		return StatusTemporaryError
	case 89, 97:
		return StatusServerError
	case 98:
		return StatusUnderMaintenance
	default:
		return StatusUnknownError
	}
}
