package kivo

// FailureKind classifies a fetch failure. The set is closed so callers can
// match on kind instead of error text.
type FailureKind string

const (
	// FailureNotFound is a remote 404.
	FailureNotFound FailureKind = "not_found"
	// FailureHTTPStatus is any other non-2xx response.
	FailureHTTPStatus FailureKind = "http_status"
	// FailureTransport is a network or timeout failure.
	FailureTransport FailureKind = "transport"
	// FailureInvalidFormat is a 2xx response whose body does not decode
	// into the expected shape.
	FailureInvalidFormat FailureKind = "invalid_format"
)

// APIError is the error returned by the fetcher for any failed remote call.
type APIError struct {
	Kind   FailureKind
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Detail
}

// Reason returns the stable human-readable text recorded in the audit
// report for this failure.
func (e *APIError) Reason() string {
	switch e.Kind {
	case FailureNotFound:
		return "not found (404)"
	case FailureHTTPStatus:
		return "http error: " + e.Detail
	case FailureTransport:
		return "network error: " + e.Detail
	case FailureInvalidFormat:
		return "invalid response format"
	}
	return e.Error()
}
