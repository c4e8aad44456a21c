package core

import (
	"io"

	"go.uber.org/zap"

	"ftpshell/logging"
	"ftpshell/metrics"
	"ftpshell/protocols"
)

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// transferManager moves file contents between the session and the local
// working directory and records what it moved.
type transferManager struct {
	client  protocols.Client
	local   protocols.Local
	history *HistoryManager
	host    string
}

// download copies remote into the local file localName. The data lands in a
// temporary file that replaces localName only once the transfer completed,
// so a failed download leaves any existing local file untouched.
func (tm *transferManager) download(remote, localName string) error {
	dst, tmp, err := tm.local.CreateTemp(localName)
	if err != nil {
		return err
	}

	cw := &countingWriter{w: dst}
	err = tm.client.Retrieve(remote, cw)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = tm.local.Rename(tmp, localName)
	}
	if err != nil {
		if rmErr := tm.local.Remove(tmp); rmErr != nil {
			logging.Warn("failed to remove partial download", zap.String("file", tmp), zap.Error(rmErr))
		}
		return err
	}

	logging.Info("downloaded file", zap.String("remote", remote), zap.Int64("size", cw.n))
	tm.record("download", remote, cw.n)
	return nil
}

// upload stores the already opened local file under remote.
func (tm *transferManager) upload(src io.Reader, remote string) error {
	cr := &countingReader{r: src}
	if err := tm.client.Store(remote, cr); err != nil {
		return err
	}
	logging.Info("uploaded file", zap.String("remote", remote), zap.Int64("size", cr.n))
	tm.record("upload", remote, cr.n)
	return nil
}

func (tm *transferManager) record(direction, name string, n int64) {
	metrics.RecordTransfer(direction, n)
	if tm.history != nil {
		tm.history.AddTransfer(tm.host, TransferRecord{Direction: direction, Name: name, Size: n})
	}
}
