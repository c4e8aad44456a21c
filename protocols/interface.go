package protocols

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Client is one control connection to a remote server. Implementations are
// used from a single goroutine; every error they return is an *Error.
type Client interface {
	Dial(ctx context.Context, addr string) error
	Login(user, password string) error
	Welcome() string
	ChangeDir(path string) error
	CurrentDir() (string, error)
	// ListLines returns the current directory in long format, one entry per line.
	ListLines() ([]string, error)
	NameList() ([]string, error)
	Retrieve(name string, w io.Writer) error
	Store(name string, r io.Reader) error
	Delete(name string) error
	Rename(from, to string) error
	MakeDir(name string) error
	RemoveDir(name string) error
	Quit() error
}

// Local is the client-side filesystem the transfers read from and write to.
type Local interface {
	Exists(name string) bool
	Open(name string) (io.ReadCloser, error)
	// CreateTemp opens a new file beside name; path is what Rename and
	// Remove take to finish or discard it.
	CreateTemp(name string) (w io.WriteCloser, path string, err error)
	Rename(from, to string) error
	Remove(name string) error
	Launch(name string) error
}

// New returns an unconnected client for the given protocol name.
func New(protocol string, timeout time.Duration) (Client, error) {
	switch protocol {
	case "ftp":
		return &FTPClient{Timeout: timeout}, nil
	case "sftp":
		return &SFTPClient{Timeout: timeout}, nil
	default:
		return nil, fmt.Errorf("unknown protocol: %s", protocol)
	}
}

// DefaultPort is the well-known port for protocol.
func DefaultPort(protocol string) int {
	if protocol == "sftp" {
		return 22
	}
	return 21
}
