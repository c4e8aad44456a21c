package protocols

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/jlaffaye/ftp"
	"go.uber.org/zap"

	"ftpshell/logging"
)

var errNotConnected = errors.New("not connected")

type FTPClient struct {
	Timeout time.Duration
	conn    *ftp.ServerConn
	trace   *controlTrace
}

func (f *FTPClient) Dial(ctx context.Context, addr string) error {
	f.trace = &controlTrace{}
	c, err := ftp.Dial(addr,
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(f.Timeout),
		ftp.DialWithDebugOutput(f.trace),
	)
	if err != nil {
		return wrap("dial", err)
	}
	f.conn = c
	return nil
}

// Login authenticates and leaves the connection in binary (TYPE I) mode.
func (f *FTPClient) Login(user, password string) error {
	if f.conn == nil {
		return wrapKind("login", ConnectionLost, errNotConnected)
	}
	return wrap("login", f.conn.Login(user, password))
}

func (f *FTPClient) Welcome() string {
	if f.trace == nil {
		return ""
	}
	return f.trace.welcome()
}

func (f *FTPClient) ChangeDir(dir string) error {
	if f.conn == nil {
		return wrapKind("cwd", ConnectionLost, errNotConnected)
	}
	return wrap("cwd", f.conn.ChangeDir(dir))
}

func (f *FTPClient) CurrentDir() (string, error) {
	if f.conn == nil {
		return "", wrapKind("pwd", ConnectionLost, errNotConnected)
	}
	dir, err := f.conn.CurrentDir()
	return dir, wrap("pwd", err)
}

// ListLines rebuilds long-format lines from the parsed LIST/MLSD entries.
func (f *FTPClient) ListLines() ([]string, error) {
	cwd, err := f.CurrentDir()
	if err != nil {
		return nil, err
	}
	entries, err := f.conn.List(cwd)
	if err != nil {
		return nil, wrap("list", err)
	}

	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Name == "." || entry.Name == ".." {
			continue
		}
		lines = append(lines, entryLine(entry))
	}
	return lines, nil
}

// entryLine renders one parsed entry as an ls -l line. The library parses
// LIST replies itself and exposes neither the raw text nor the permission
// bits, so the mode column is derived from the entry type alone.
func entryLine(entry *ftp.Entry) string {
	mode, name := "-rw-r--r--", entry.Name
	switch entry.Type {
	case ftp.EntryTypeFolder:
		mode = "drwxr-xr-x"
	case ftp.EntryTypeLink:
		mode = "lrwxrwxrwx"
		if entry.Target != "" {
			name += " -> " + entry.Target
		}
	}
	return longFormat(mode, 1, "ftp", "ftp", int64(entry.Size), entry.Time, name)
}

func (f *FTPClient) NameList() ([]string, error) {
	cwd, err := f.CurrentDir()
	if err != nil {
		return nil, err
	}
	names, err := f.conn.NameList(cwd)
	if err != nil {
		return nil, wrap("nlst", err)
	}
	// Some servers answer NLST <dir> with paths rather than bare names.
	for i, name := range names {
		names[i] = path.Base(name)
	}
	return names, nil
}

func (f *FTPClient) Retrieve(name string, w io.Writer) error {
	if f.conn == nil {
		return wrapKind("retr", ConnectionLost, errNotConnected)
	}
	r, err := f.conn.Retr(name)
	if err != nil {
		return wrap("retr", err)
	}
	_, copyErr := io.Copy(w, r)
	closeErr := r.Close()
	if copyErr != nil {
		return wrap("retr", copyErr)
	}
	return wrap("retr", closeErr)
}

func (f *FTPClient) Store(name string, r io.Reader) error {
	if f.conn == nil {
		return wrapKind("stor", ConnectionLost, errNotConnected)
	}
	return wrap("stor", f.conn.Stor(name, r))
}

func (f *FTPClient) Delete(name string) error {
	if f.conn == nil {
		return wrapKind("dele", ConnectionLost, errNotConnected)
	}
	return wrap("dele", f.conn.Delete(name))
}

func (f *FTPClient) Rename(from, to string) error {
	if f.conn == nil {
		return wrapKind("rename", ConnectionLost, errNotConnected)
	}
	return wrap("rename", f.conn.Rename(from, to))
}

func (f *FTPClient) MakeDir(name string) error {
	if f.conn == nil {
		return wrapKind("mkd", ConnectionLost, errNotConnected)
	}
	return wrap("mkd", f.conn.MakeDir(name))
}

func (f *FTPClient) RemoveDir(name string) error {
	if f.conn == nil {
		return wrapKind("rmd", ConnectionLost, errNotConnected)
	}
	return wrap("rmd", f.conn.RemoveDir(name))
}

func (f *FTPClient) Quit() error {
	if f.conn == nil {
		return nil
	}
	err := f.conn.Quit()
	f.conn = nil
	return wrap("quit", err)
}

// controlTrace receives the control-channel conversation from the library.
// It keeps the server greeting and logs every line at debug level.
type controlTrace struct {
	mu       sync.Mutex
	partial  bytes.Buffer
	greeting []string
	greeted  bool
}

func (t *controlTrace) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.partial.Write(p)
	for {
		line, err := t.partial.ReadString('\n')
		if err != nil {
			// Incomplete line; keep it for the next write.
			t.partial.Reset()
			t.partial.WriteString(line)
			break
		}
		t.line(strings.TrimRight(line, "\r\n"))
	}
	return len(p), nil
}

func (t *controlTrace) line(line string) {
	if strings.HasPrefix(line, "PASS ") {
		line = "PASS ****"
	}
	logging.Debug("ftp control", zap.String("line", line))

	if t.greeted {
		return
	}
	if !strings.HasPrefix(line, "220") {
		// Lines between "220-" and "220 " belong to the greeting too.
		if len(t.greeting) > 0 {
			t.greeting = append(t.greeting, strings.TrimSpace(line))
		}
		return
	}
	rest := strings.TrimPrefix(line[3:], "-")
	t.greeting = append(t.greeting, strings.TrimSpace(rest))
	if !strings.HasPrefix(line, "220-") {
		t.greeted = true
	}
}

func (t *controlTrace) welcome() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Join(t.greeting, "\n")
}
