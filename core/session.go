package core

import (
	"context"

	"go.uber.org/zap"

	"ftpshell/listing"
	"ftpshell/logging"
	"ftpshell/metrics"
	"ftpshell/protocols"
)

type Credentials struct {
	Address  string
	User     string
	Password string
}

// Session owns the single control connection for its whole lifetime.
type Session struct {
	client  protocols.Client
	addr    string
	welcome string
}

// Open dials and authenticates. Failures come back as *Error with one of the
// connect-time kinds; nothing is retried.
func Open(ctx context.Context, client protocols.Client, creds Credentials) (*Session, error) {
	log := logging.L().With(zap.String("addr", creds.Address), zap.String("user", creds.User))

	if err := client.Dial(ctx, creds.Address); err != nil {
		cerr := connectError(err, false)
		log.Warn("connect failed", zap.Stringer("kind", cerr.Kind), zap.Error(err))
		metrics.RecordSession(cerr.Kind.String())
		return nil, cerr
	}
	if err := client.Login(creds.User, creds.Password); err != nil {
		client.Quit()
		cerr := connectError(err, true)
		log.Warn("login failed", zap.Stringer("kind", cerr.Kind), zap.Error(err))
		metrics.RecordSession(cerr.Kind.String())
		return nil, cerr
	}

	log.Info("session opened")
	metrics.RecordSession("connected")
	return &Session{
		client:  client,
		addr:    creds.Address,
		welcome: client.Welcome(),
	}, nil
}

func (s *Session) Welcome() string {
	return s.welcome
}

func (s *Session) Addr() string {
	return s.addr
}

// Listing fetches and renders the current remote directory.
func (s *Session) Listing() (string, error) {
	cwd, err := s.client.CurrentDir()
	if err != nil {
		return "", err
	}
	lines, err := s.client.ListLines()
	if err != nil {
		return "", err
	}
	entries, skipped := listing.Parse(lines)
	if skipped > 0 {
		logging.Warn("listing lines skipped", zap.String("dir", cwd), zap.Int("count", skipped))
	}
	return listing.Render(cwd, entries), nil
}

// Close logs out. A failed logout is logged and otherwise ignored so that
// shutdown always completes.
func (s *Session) Close() {
	if s.client == nil {
		return
	}
	if err := s.client.Quit(); err != nil {
		logging.Warn("logout failed", zap.String("addr", s.addr), zap.Error(err))
	} else {
		logging.Info("session closed", zap.String("addr", s.addr))
	}
	s.client = nil
}
