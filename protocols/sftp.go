package protocols

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

type SFTPClient struct {
	Timeout time.Duration
	addr    string
	raw     net.Conn
	sshConn ssh.Conn
	client  *sftp.Client
	cwd     string
}

// Dial opens the TCP connection only; the SSH handshake carries the
// credentials and therefore happens in Login.
func (s *SFTPClient) Dial(ctx context.Context, addr string) error {
	dialer := &net.Dialer{Timeout: s.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return wrap("dial", err)
	}
	s.addr = addr
	s.raw = conn
	return nil
}

func (s *SFTPClient) Login(user, password string) error {
	if s.raw == nil {
		return wrapKind("login", ConnectionLost, errNotConnected)
	}
	config := &ssh.ClientConfig{
		User: user,
		Auth: []ssh.AuthMethod{
			ssh.Password(password),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         s.Timeout,
	}

	if s.Timeout > 0 {
		s.raw.SetDeadline(time.Now().Add(s.Timeout))
	}
	c, chans, reqs, err := ssh.NewClientConn(s.raw, s.addr, config)
	if err != nil {
		s.raw.Close()
		s.raw = nil
		if strings.Contains(err.Error(), "unable to authenticate") {
			return wrapKind("login", Permission, err)
		}
		return wrap("login", err)
	}
	s.raw.SetDeadline(time.Time{})
	s.sshConn = c

	client, err := sftp.NewClient(ssh.NewClient(c, chans, reqs))
	if err != nil {
		c.Close()
		return wrap("login", err)
	}
	s.client = client

	cwd, err := client.Getwd()
	if err != nil {
		cwd = "/"
	}
	s.cwd = cwd
	return nil
}

func (s *SFTPClient) Welcome() string {
	if s.sshConn == nil {
		return ""
	}
	return string(s.sshConn.ServerVersion())
}

func (s *SFTPClient) resolve(name string) string {
	if path.IsAbs(name) {
		return path.Clean(name)
	}
	return path.Join(s.cwd, name)
}

// ChangeDir moves the client-side working directory after checking the
// target is a directory.
func (s *SFTPClient) ChangeDir(dir string) error {
	if s.client == nil {
		return wrapKind("cwd", ConnectionLost, errNotConnected)
	}
	target := s.resolve(dir)
	info, err := s.client.Stat(target)
	if err != nil {
		return wrap("cwd", err)
	}
	if !info.IsDir() {
		return wrapKind("cwd", Permission, fmt.Errorf("%s: not a directory", target))
	}
	s.cwd = target
	return nil
}

func (s *SFTPClient) CurrentDir() (string, error) {
	if s.client == nil {
		return "", wrapKind("pwd", ConnectionLost, errNotConnected)
	}
	return s.cwd, nil
}

func (s *SFTPClient) ListLines() ([]string, error) {
	if s.client == nil {
		return nil, wrapKind("list", ConnectionLost, errNotConnected)
	}
	infos, err := s.client.ReadDir(s.cwd)
	if err != nil {
		return nil, wrap("list", err)
	}

	lines := make([]string, 0, len(infos))
	for _, info := range infos {
		links := uint64(1)
		owner, group := "", ""
		if st, ok := info.Sys().(*sftp.FileStat); ok {
			owner = strconv.FormatUint(uint64(st.UID), 10)
			group = strconv.FormatUint(uint64(st.GID), 10)
		}
		if info.IsDir() {
			links = 2
		}
		lines = append(lines, longFormat(info.Mode().String(), links, owner, group, info.Size(), info.ModTime(), info.Name()))
	}
	return lines, nil
}

func (s *SFTPClient) NameList() ([]string, error) {
	if s.client == nil {
		return nil, wrapKind("nlst", ConnectionLost, errNotConnected)
	}
	infos, err := s.client.ReadDir(s.cwd)
	if err != nil {
		return nil, wrap("nlst", err)
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names, nil
}

func (s *SFTPClient) Retrieve(name string, w io.Writer) error {
	if s.client == nil {
		return wrapKind("retr", ConnectionLost, errNotConnected)
	}
	f, err := s.client.Open(s.resolve(name))
	if err != nil {
		return wrap("retr", err)
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return wrap("retr", err)
}

func (s *SFTPClient) Store(name string, r io.Reader) error {
	if s.client == nil {
		return wrapKind("stor", ConnectionLost, errNotConnected)
	}
	f, err := s.client.Create(s.resolve(name))
	if err != nil {
		return wrap("stor", err)
	}
	if _, err := f.ReadFrom(r); err != nil {
		f.Close()
		return wrap("stor", err)
	}
	return wrap("stor", f.Close())
}

func (s *SFTPClient) Delete(name string) error {
	if s.client == nil {
		return wrapKind("dele", ConnectionLost, errNotConnected)
	}
	target := s.resolve(name)
	info, err := s.client.Stat(target)
	if err != nil {
		return wrap("dele", err)
	}
	if info.IsDir() {
		return wrapKind("dele", Permission, fmt.Errorf("%s: is a directory", target))
	}
	return wrap("dele", s.client.Remove(target))
}

func (s *SFTPClient) Rename(from, to string) error {
	if s.client == nil {
		return wrapKind("rename", ConnectionLost, errNotConnected)
	}
	return wrap("rename", s.client.Rename(s.resolve(from), s.resolve(to)))
}

func (s *SFTPClient) MakeDir(name string) error {
	if s.client == nil {
		return wrapKind("mkd", ConnectionLost, errNotConnected)
	}
	return wrap("mkd", s.client.Mkdir(s.resolve(name)))
}

// RemoveDir maps the server's generic failure for a non-empty directory to
// Permission, the same class an FTP server reports with 550.
func (s *SFTPClient) RemoveDir(name string) error {
	if s.client == nil {
		return wrapKind("rmd", ConnectionLost, errNotConnected)
	}
	err := s.client.RemoveDirectory(s.resolve(name))
	var status *sftp.StatusError
	if errors.As(err, &status) && status.FxCode() == sftp.ErrSSHFxFailure {
		return wrapKind("rmd", Permission, err)
	}
	return wrap("rmd", err)
}

func (s *SFTPClient) Quit() error {
	var err error
	if s.client != nil {
		err = s.client.Close()
		s.client = nil
	}
	if s.sshConn != nil {
		if cerr := s.sshConn.Close(); err == nil && !errors.Is(cerr, net.ErrClosed) {
			err = cerr
		}
		s.sshConn = nil
	} else if s.raw != nil {
		s.raw.Close()
	}
	s.raw = nil
	return wrap("quit", err)
}
