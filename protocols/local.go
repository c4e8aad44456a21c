package protocols

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// LocalFileSystem resolves names against the local working directory.
type LocalFileSystem struct {
	RootPath string
	// launcher overrides the platform opener; tests use it.
	launcher func(path string) error
}

func NewLocalFileSystem(root string) (*LocalFileSystem, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &LocalFileSystem{RootPath: abs}, nil
}

func (l *LocalFileSystem) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(l.RootPath, name)
}

// Exists reports whether name is an existing regular file.
func (l *LocalFileSystem) Exists(name string) bool {
	info, err := os.Stat(l.path(name))
	return err == nil && info.Mode().IsRegular()
}

func (l *LocalFileSystem) Open(name string) (io.ReadCloser, error) {
	return os.Open(l.path(name))
}

func (l *LocalFileSystem) CreateTemp(name string) (io.WriteCloser, string, error) {
	full := l.path(name)
	f, err := os.CreateTemp(filepath.Dir(full), "."+filepath.Base(full)+".part-*")
	if err != nil {
		return nil, "", err
	}
	return f, f.Name(), nil
}

// Rename replaces to with from.
func (l *LocalFileSystem) Rename(from, to string) error {
	return os.Rename(l.path(from), l.path(to))
}

func (l *LocalFileSystem) Remove(name string) error {
	return os.Remove(l.path(name))
}

// Launch opens the file with the desktop's default application and does
// not wait for it to exit.
func (l *LocalFileSystem) Launch(name string) error {
	full := l.path(name)
	if l.launcher != nil {
		return l.launcher(full)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", full)
	case "darwin":
		cmd = exec.Command("open", full)
	default:
		cmd = exec.Command("xdg-open", full)
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}
