package domain

import "errors"

// ErrUnsupportedPattern is returned when a like comparison carries a SQL wildcard.
var ErrUnsupportedPattern = errors.New("unsupported like pattern")

// ErrMalformedLiteral is returned when attrs text cannot be parsed as a literal.
var ErrMalformedLiteral = errors.New("malformed literal")

// ErrUnbalancedDomain is returned when operators and operands do not pair up.
var ErrUnbalancedDomain = errors.New("unbalanced domain")

// ErrMalformedDomain is returned when a value is neither a constant nor a domain.
var ErrMalformedDomain = errors.New("malformed domain")

// ErrReportNotFound is returned when a report ID cannot be found in the store.
var ErrReportNotFound = errors.New("report not found")

// ErrorKind maps an error to a short stable label used in logs, metrics and API responses.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnsupportedPattern):
		return "unsupported_pattern"
	case errors.Is(err, ErrMalformedLiteral):
		return "malformed_literal"
	case errors.Is(err, ErrUnbalancedDomain):
		return "unbalanced_domain"
	case errors.Is(err, ErrMalformedDomain):
		return "malformed_domain"
	default:
		return "error"
	}
}
