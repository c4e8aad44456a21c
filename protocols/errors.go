package protocols

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net"
	"net/textproto"
	"syscall"

	"github.com/pkg/sftp"
)

// Kind is the condition a failed call signals to its caller.
type Kind int

const (
	Generic Kind = iota
	Permission
	NotFound
	Timeout
	Refused
	Resolve
	ConnectionLost
)

var kindNames = map[Kind]string{
	Generic:        "generic",
	Permission:     "permission",
	NotFound:       "not_found",
	Timeout:        "timeout",
	Refused:        "refused",
	Resolve:        "resolve",
	ConnectionLost: "connection_lost",
}

func (k Kind) String() string {
	return kindNames[k]
}

// Error is returned by every Client method.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the Kind carried by err, or Generic if err is not an *Error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return Generic
}

// Broken reports whether err means the control connection can no longer be
// used.
func Broken(err error) bool {
	k := KindOf(err)
	return k == Timeout || k == ConnectionLost
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return err
	}
	return &Error{Op: op, Kind: classify(err), Err: err}
}

func wrapKind(op string, kind Kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

func classify(err error) Kind {
	var dnsErr *net.DNSError
	var addrErr *net.AddrError
	if errors.As(err, &dnsErr) || errors.As(err, &addrErr) {
		return Resolve
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return Refused
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Timeout
	}

	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		switch {
		case tpErr.Code == 421:
			return ConnectionLost
		case tpErr.Code >= 500:
			return Permission
		default:
			return Generic
		}
	}

	switch {
	case errors.Is(err, fs.ErrPermission):
		return Permission
	case errors.Is(err, fs.ErrNotExist):
		return NotFound
	case errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, net.ErrClosed),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EPIPE),
		errors.Is(err, sftp.ErrSSHFxConnectionLost):
		return ConnectionLost
	}
	return Generic
}
