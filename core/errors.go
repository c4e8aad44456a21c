package core

import (
	"errors"
	"time"

	"ftpshell/protocols"
)

// ErrorKind classifies failures reported to the user.
type ErrorKind int

const (
	// Connect time.
	InvalidAddress ErrorKind = iota + 1
	ConnectionTimeout
	ConnectionRefused
	AuthenticationFailure
	UnreachableNetwork

	// Command time.
	PermissionDenied
	NotFound
	MalformedArgument
	LocalFileMissing
	GenericOperationFailure

	// SessionTimeout means the control connection can no longer be trusted.
	SessionTimeout
)

var errorKindNames = map[ErrorKind]string{
	InvalidAddress:          "invalid_address",
	ConnectionTimeout:       "connection_timeout",
	ConnectionRefused:       "connection_refused",
	AuthenticationFailure:   "authentication_failure",
	UnreachableNetwork:      "unreachable_network",
	PermissionDenied:        "permission_denied",
	NotFound:                "not_found",
	MalformedArgument:       "malformed_argument",
	LocalFileMissing:        "local_file_missing",
	GenericOperationFailure: "generic_failure",
	SessionTimeout:          "session_timeout",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return "none"
}

type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status is the message shown for a connect-time failure.
func (e *Error) Status() StatusMessage {
	return errorStatus(connectTexts[e.Kind], connectStatusDuration)
}

// KindOf returns the ErrorKind of err, or zero if err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

const connectStatusDuration = 4 * time.Second

var connectTexts = map[ErrorKind]string{
	InvalidAddress:        "Error: Invalid FTP address",
	ConnectionTimeout:     "Error: Connection attempt timed out",
	ConnectionRefused:     "Error: Target refused connection attempt",
	AuthenticationFailure: "Error: Incorrect login",
	UnreachableNetwork:    "Error: Unreachable network",
}

// SessionAlert is the blocking alert shown when the control connection fails
// mid-command. The only remedy is restarting the client.
const (
	SessionAlertTitle = "Error"
	SessionAlertText  = "FTP Error: 421 Timeout\nRestart client"
)

// connectError maps a dial or login failure onto the connect-time kinds.
func connectError(err error, login bool) *Error {
	kind := UnreachableNetwork
	switch protocols.KindOf(err) {
	case protocols.Resolve:
		kind = InvalidAddress
	case protocols.Timeout:
		kind = ConnectionTimeout
	case protocols.Refused:
		kind = ConnectionRefused
	case protocols.Permission, protocols.NotFound:
		if login {
			kind = AuthenticationFailure
		}
	}
	return &Error{Kind: kind, Err: err}
}
