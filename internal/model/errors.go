package model

import "errors"

// Sentinel errors for the kinds enumerated in the error-handling design.
// HedgeRatio and HalfLife return ErrInsufficientData and
// ErrSingularDesign (possibly wrapped); the other analytics functions
// signal "no result" via a bool instead. Config loading returns
// ErrConfigError. Ingestion drops malformed records and retries transport
// failures without returning ErrParseError or ErrTransportError.
var (
	ErrParseError          = errors.New("statarb: malformed input record")
	ErrTransportError      = errors.New("statarb: transport closed or refused")
	ErrInsufficientData    = errors.New("statarb: insufficient data")
	ErrSingularDesign      = errors.New("statarb: singular regression design")
	ErrDependencyUnavailable = errors.New("statarb: required dependency unavailable")
	ErrConfigError         = errors.New("statarb: invalid configuration")
)
