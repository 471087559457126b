package client

import "errors"

// ErrNotAuthenticated is a local precondition failure: the operation needs a
// stored credential and none is present. No network call was made.
var ErrNotAuthenticated = errors.New("not authenticated, please login")

// fallbackMessage is surfaced when the server response carried no message.
const fallbackMessage = "request failed, please try again"

// RequestError reports a failed server round trip, carrying the
// server-supplied message when one was provided.
type RequestError struct {
	Code    string
	Message string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fallbackMessage
}
