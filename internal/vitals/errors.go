package vitals

import "errors"

var (
	ErrEmptySessionID   = errors.New("sample session id cannot be empty")
	ErrEmptyPath        = errors.New("sample path cannot be empty")
	ErrUnknownMetric    = errors.New("unrecognized metric name")
	ErrInvalidValue     = errors.New("metric value must be a non-negative finite number")
	ErrInvalidTimestamp = errors.New("sample timestamp must not be zero")
)
