package generation

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies a generation failure.
type ErrorKind int

const (
	KindInvalidInput ErrorKind = iota + 1
	KindConfiguration
	KindUpstream
	KindUpstreamProtocol
	KindUpstreamEmpty
	KindUpstreamTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindConfiguration:
		return "configuration"
	case KindUpstream:
		return "upstream"
	case KindUpstreamProtocol:
		return "upstream_protocol"
	case KindUpstreamEmpty:
		return "upstream_empty"
	case KindUpstreamTimeout:
		return "upstream_timeout"
	default:
		return "unknown"
	}
}

// Error is the only error type returned by Relay.Generate.
type Error struct {
	Kind    ErrorKind
	Message string
	// StatusCode and Body are set for KindUpstream.
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the failure onto the status returned to the browser.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUpstream:
		if e.StatusCode >= 400 && e.StatusCode <= 599 {
			return e.StatusCode
		}
		return http.StatusBadGateway
	case KindUpstreamTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func invalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}
