package shell

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/c-bata/go-prompt"
	"go.uber.org/zap"

	"ftpshell/core"
	"ftpshell/logging"
)

const (
	exitQuestion  = "Exit program? [y/N] "
	alertDismiss  = "Press Enter to exit"
	listingHeader = "Current Directory "
)

// Executor runs one submitted command line.
type Executor interface {
	Execute(line string) core.Outcome
}

type Options struct {
	// Host is shown in the prompt.
	Host string
	// History seeds the up-arrow history, oldest first.
	History []string
	// Input answers the exit confirmation and the session alert.
	Input io.Reader
}

// Shell is the interactive loop around an Executor.
type Shell struct {
	exec    Executor
	display *Display
	status  *core.StatusBar
	input   *bufio.Reader
	host    string
	history []string

	cwd      string
	finished bool
	err      error
}

func New(exec Executor, display *Display, opts Options) *Shell {
	s := &Shell{
		exec:    exec,
		display: display,
		host:    opts.Host,
		history: opts.History,
	}
	if opts.Input != nil {
		s.input = bufio.NewReader(opts.Input)
	}
	// Reversions to Ready run on a timer goroutine; they only change the
	// prompt prefix and are not printed.
	s.status = core.NewStatusBar(func(msg core.StatusMessage) {
		if msg != core.Ready {
			display.Status(msg)
		}
	})
	return s
}

// Refresh prints a rendered listing and tracks the directory it shows.
func (s *Shell) Refresh(listing string) {
	if first, _, _ := strings.Cut(listing, "\n"); strings.HasPrefix(first, listingHeader) {
		s.cwd = strings.TrimPrefix(first, listingHeader)
	}
	s.display.Listing(listing)
}

// Handle processes one line and reports whether the shell should stop.
func (s *Shell) Handle(line string) bool {
	switch strings.TrimSpace(line) {
	case "help", "?":
		s.display.Help()
		return false
	}

	out := s.exec.Execute(line)
	switch {
	case out.Err != nil:
		s.status.Stop()
		s.display.Alert(core.SessionAlertTitle, core.SessionAlertText)
		s.display.Prompt(alertDismiss)
		s.readLine()
		s.err = out.Err
		s.finished = true
	case out.Exit:
		if s.confirm(exitQuestion) {
			s.finished = true
		}
	default:
		if out.Refreshed {
			s.Refresh(out.Listing)
		}
		if out.Status != nil {
			s.status.Show(*out.Status)
		}
	}
	return s.finished
}

func (s *Shell) confirm(question string) bool {
	s.display.Prompt(question)
	answer := strings.ToLower(strings.TrimSpace(s.readLine()))
	return answer == "y" || answer == "yes"
}

// readLine returns "" when no input is attached or it is exhausted.
func (s *Shell) readLine() string {
	if s.input == nil {
		return ""
	}
	line, err := s.input.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		logging.Warn("failed to read answer", zap.Error(err))
	}
	return line
}

// Err is the session failure that ended the shell, if any.
func (s *Shell) Err() error {
	return s.err
}

func (s *Shell) Finished() bool {
	return s.finished
}

func (s *Shell) prefix() (string, bool) {
	p := s.cwd + "> "
	if s.host != "" {
		p = s.host + ":" + p
	}
	if cur := s.status.Current(); cur != core.Ready {
		p = "[" + cur.Text + "] " + p
	}
	return p, true
}

// Run reads commands until exit is confirmed, the session breaks, or input
// ends with Ctrl-D. It returns the session failure, if any.
func (s *Shell) Run() error {
	p := prompt.New(
		func(line string) { s.Handle(line) },
		completer,
		prompt.OptionTitle("ftpshell"),
		prompt.OptionLivePrefix(s.prefix),
		prompt.OptionPrefixTextColor(prompt.Green),
		prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
		prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
		prompt.OptionSuggestionBGColor(prompt.DarkGray),
		prompt.OptionCompletionWordSeparator(" "),
		prompt.OptionHistory(s.history),
		prompt.OptionSetExitCheckerOnInput(func(string, bool) bool { return s.finished }),
	)
	p.Run()
	s.status.Stop()
	return s.err
}
