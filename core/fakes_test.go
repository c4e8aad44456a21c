package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"ftpshell/protocols"
)

// fakeClient is an in-memory server tree. Entries in fail make the named
// operation return that error.
type fakeClient struct {
	cwd     string
	dirs    map[string]bool
	files   map[string][]byte
	fail    map[string]error
	calls   []string
	welcome string

	dialErr  error
	loginErr error
	quitErr  error
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		cwd:     "/",
		dirs:    map[string]bool{"/": true},
		files:   map[string][]byte{},
		fail:    map[string]error{},
		welcome: "Welcome to the fake server",
	}
}

func (f *fakeClient) mkdir(p string) *fakeClient {
	f.dirs[p] = true
	return f
}

func (f *fakeClient) file(p, content string) *fakeClient {
	f.files[p] = []byte(content)
	return f
}

func (f *fakeClient) resolve(name string) string {
	if path.IsAbs(name) {
		return path.Clean(name)
	}
	return path.Join(f.cwd, name)
}

func (f *fakeClient) call(op string) error {
	f.calls = append(f.calls, op)
	return f.fail[op]
}

func (f *fakeClient) count(op string) int {
	n := 0
	for _, c := range f.calls {
		if c == op {
			n++
		}
	}
	return n
}

func denied(op, name string) error {
	return &protocols.Error{Op: op, Kind: protocols.Permission, Err: fmt.Errorf("550 %s: No such file or directory", name)}
}

func kindErr(op string, kind protocols.Kind) error {
	return &protocols.Error{Op: op, Kind: kind, Err: errors.New(kind.String())}
}

func (f *fakeClient) Dial(ctx context.Context, addr string) error {
	f.calls = append(f.calls, "dial")
	return f.dialErr
}

func (f *fakeClient) Login(user, password string) error {
	f.calls = append(f.calls, "login")
	return f.loginErr
}

func (f *fakeClient) Welcome() string {
	return f.welcome
}

func (f *fakeClient) ChangeDir(dir string) error {
	if err := f.call("cwd"); err != nil {
		return err
	}
	target := f.resolve(dir)
	if !f.dirs[target] {
		return denied("cwd", dir)
	}
	f.cwd = target
	return nil
}

func (f *fakeClient) CurrentDir() (string, error) {
	if err := f.call("pwd"); err != nil {
		return "", err
	}
	return f.cwd, nil
}

func (f *fakeClient) children() []string {
	var names []string
	for d := range f.dirs {
		if d != "/" && path.Dir(d) == f.cwd {
			names = append(names, d)
		}
	}
	for p := range f.files {
		if path.Dir(p) == f.cwd {
			names = append(names, p)
		}
	}
	sort.Strings(names)
	return names
}

func (f *fakeClient) ListLines() ([]string, error) {
	if err := f.call("list"); err != nil {
		return nil, err
	}
	var lines []string
	for _, p := range f.children() {
		if f.dirs[p] {
			lines = append(lines, "drwxr-xr-x 2 0 0 4096 Dec 11 2016 "+path.Base(p))
		} else {
			lines = append(lines, fmt.Sprintf("-rw-r--r-- 1 0 0 %d Jan 5 2021 %s", len(f.files[p]), path.Base(p)))
		}
	}
	return lines, nil
}

func (f *fakeClient) NameList() ([]string, error) {
	if err := f.call("nlst"); err != nil {
		return nil, err
	}
	var names []string
	for _, p := range f.children() {
		names = append(names, path.Base(p))
	}
	return names, nil
}

func (f *fakeClient) Retrieve(name string, w io.Writer) error {
	if err := f.call("retr"); err != nil {
		return err
	}
	data, ok := f.files[f.resolve(name)]
	if !ok {
		return denied("retr", name)
	}
	_, err := w.Write(data)
	return err
}

func (f *fakeClient) Store(name string, r io.Reader) error {
	if err := f.call("stor"); err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.files[f.resolve(name)] = data
	return nil
}

func (f *fakeClient) Delete(name string) error {
	if err := f.call("dele"); err != nil {
		return err
	}
	p := f.resolve(name)
	if _, ok := f.files[p]; !ok {
		return denied("dele", name)
	}
	delete(f.files, p)
	return nil
}

func (f *fakeClient) Rename(from, to string) error {
	if err := f.call("rename"); err != nil {
		return err
	}
	src := f.resolve(from)
	data, ok := f.files[src]
	if !ok {
		return denied("rename", from)
	}
	delete(f.files, src)
	f.files[f.resolve(to)] = data
	return nil
}

func (f *fakeClient) MakeDir(name string) error {
	if err := f.call("mkd"); err != nil {
		return err
	}
	p := f.resolve(name)
	if f.dirs[p] {
		return denied("mkd", name)
	}
	f.dirs[p] = true
	return nil
}

func (f *fakeClient) RemoveDir(name string) error {
	if err := f.call("rmd"); err != nil {
		return err
	}
	p := f.resolve(name)
	if !f.dirs[p] {
		return denied("rmd", name)
	}
	for d := range f.dirs {
		if strings.HasPrefix(d, p+"/") {
			return denied("rmd", name)
		}
	}
	for file := range f.files {
		if strings.HasPrefix(file, p+"/") {
			return denied("rmd", name)
		}
	}
	delete(f.dirs, p)
	return nil
}

func (f *fakeClient) Quit() error {
	f.calls = append(f.calls, "quit")
	return f.quitErr
}

// fakeLocal is an in-memory local working directory.
type fakeLocal struct {
	files     map[string][]byte
	launched  []string
	launchErr error
	createErr error
}

func newFakeLocal() *fakeLocal {
	return &fakeLocal{files: map[string][]byte{}}
}

func (l *fakeLocal) Exists(name string) bool {
	_, ok := l.files[name]
	return ok
}

func (l *fakeLocal) Open(name string) (io.ReadCloser, error) {
	data, ok := l.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type localWriter struct {
	bytes.Buffer
	name  string
	local *fakeLocal
}

func (w *localWriter) Close() error {
	w.local.files[w.name] = w.Bytes()
	return nil
}

func (l *fakeLocal) CreateTemp(name string) (io.WriteCloser, string, error) {
	if l.createErr != nil {
		return nil, "", l.createErr
	}
	tmp := name + ".part"
	l.files[tmp] = nil
	return &localWriter{name: tmp, local: l}, tmp, nil
}

func (l *fakeLocal) Rename(from, to string) error {
	data, ok := l.files[from]
	if !ok {
		return &fs.PathError{Op: "rename", Path: from, Err: fs.ErrNotExist}
	}
	delete(l.files, from)
	l.files[to] = data
	return nil
}

func (l *fakeLocal) Remove(name string) error {
	if _, ok := l.files[name]; !ok {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
	}
	delete(l.files, name)
	return nil
}

func (l *fakeLocal) Launch(name string) error {
	if l.launchErr != nil {
		return l.launchErr
	}
	l.launched = append(l.launched, name)
	return nil
}
