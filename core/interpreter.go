package core

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"time"

	"go.uber.org/zap"

	"ftpshell/logging"
	"ftpshell/metrics"
	"ftpshell/protocols"
)

// Outcome is what one command line produced.
type Outcome struct {
	Status *StatusMessage
	// Listing is the refreshed directory; valid when Refreshed is set.
	Listing   string
	Refreshed bool
	// Exit asks the caller to confirm and end the session.
	Exit bool
	// Failure is zero when the command succeeded.
	Failure ErrorKind
	// Err is set, with kind SessionTimeout, when the control connection broke.
	Err error
}

// result is a handler's verdict before the listing refresh.
type result struct {
	status *StatusMessage
	kind   ErrorKind
}

type handler func(arg string) (result, error)

// Interpreter executes command lines against a Session.
type Interpreter struct {
	session  *Session
	local    protocols.Local
	history  *HistoryManager
	transfer *transferManager
	handlers map[string]handler
}

// NewInterpreter binds an interpreter to an open session. history may be nil.
func NewInterpreter(session *Session, local protocols.Local, history *HistoryManager) *Interpreter {
	in := &Interpreter{
		session: session,
		local:   local,
		history: history,
		transfer: &transferManager{
			client:  session.client,
			local:   local,
			history: history,
			host:    session.addr,
		},
	}
	in.handlers = map[string]handler{
		"cd":     in.changeDir,
		"get":    in.get,
		"put":    in.put,
		"delete": in.delete,
		"rename": in.rename,
		"mkdir":  in.makeDir,
		"rmdir":  in.removeDir,
		"op":     in.open,
	}
	return in
}

// Verbs lists the recognised verbs in help order.
var Verbs = []string{"cd", "get", "put", "rename", "mkdir", "rmdir", "delete", "op", "exit"}

// Execute runs one command line. Blank input yields a zero Outcome.
func (in *Interpreter) Execute(line string) Outcome {
	cmd, ok := ParseCommand(line)
	if !ok {
		return Outcome{}
	}
	if in.history != nil {
		in.history.AddCommand(line)
	}

	start := time.Now()
	out := in.dispatch(cmd)
	metrics.RecordCommand(cmd.Verb, outcomeLabel(out), time.Since(start))
	return out
}

func (in *Interpreter) dispatch(cmd Command) Outcome {
	if cmd.Verb == "exit" {
		return Outcome{Exit: true}
	}

	h, ok := in.handlers[cmd.Verb]
	if !ok {
		msg := errorStatus(fmt.Sprintf("Error: unknown command \"%s\"", cmd.Verb), 2*time.Second)
		return Outcome{Status: &msg, Failure: GenericOperationFailure}
	}

	res, err := h(cmd.Arg)
	if err != nil {
		return in.sessionFailure(cmd, err)
	}
	if res.kind != 0 {
		logging.Debug("command failed", zap.String("verb", cmd.Verb), zap.Stringer("kind", res.kind))
	}

	// The listing is refreshed after failures too; the remote side may have
	// changed either way.
	text, err := in.session.Listing()
	if err != nil {
		return in.sessionFailure(cmd, err)
	}
	return Outcome{Status: res.status, Failure: res.kind, Listing: text, Refreshed: true}
}

func (in *Interpreter) sessionFailure(cmd Command, err error) Outcome {
	logging.Error("session failed during command", zap.String("verb", cmd.Verb), zap.Error(err))
	return Outcome{
		Failure: SessionTimeout,
		Err:     &Error{Kind: SessionTimeout, Err: err},
	}
}

func outcomeLabel(out Outcome) string {
	switch {
	case out.Exit:
		return "exit"
	case out.Failure == 0:
		return "ok"
	default:
		return out.Failure.String()
	}
}

// failures holds the messages for a verb's two failure classes. A zero
// rejected message folds permission and not-found errors into other.
type failures struct {
	rejected StatusMessage
	other    StatusMessage
}

// settle turns the error of a protocol call into a result. Broken
// connections are passed back as errors.
func settle(err error, success *StatusMessage, f failures) (result, error) {
	if err == nil {
		return result{status: success}, nil
	}
	if protocols.Broken(err) {
		return result{}, err
	}

	switch protocols.KindOf(err) {
	case protocols.Permission:
		if f.rejected.Text != "" {
			return result{status: &f.rejected, kind: PermissionDenied}, nil
		}
	case protocols.NotFound:
		if f.rejected.Text != "" {
			return result{status: &f.rejected, kind: NotFound}, nil
		}
	}
	return result{status: &f.other, kind: GenericOperationFailure}, nil
}

func fail(kind ErrorKind, msg StatusMessage) (result, error) {
	return result{status: &msg, kind: kind}, nil
}

func done(msg StatusMessage) *StatusMessage {
	return &msg
}

func (in *Interpreter) changeDir(dir string) (result, error) {
	if dir == "" {
		return fail(MalformedArgument, errorStatus("Error: enter a valid directory", 2*time.Second))
	}
	err := in.session.client.ChangeDir(dir)
	return settle(err, nil, failures{
		rejected: errorStatus("Error: invalid directory", 2*time.Second),
		other:    errorStatus("Error: unable to change directory", 2*time.Second),
	})
}

func (in *Interpreter) get(name string) (result, error) {
	f := failures{
		rejected: errorStatus("Error: failed to download file", 2*time.Second),
		other:    errorStatus("Error: unable to download file", 2*time.Second),
	}
	if name == "" {
		return fail(MalformedArgument, f.other)
	}
	err := in.transfer.download(name, filepath.Base(name))
	return settle(err, done(successStatus("File download successful", 2*time.Second)), f)
}

func (in *Interpreter) put(name string) (result, error) {
	f := failures{other: errorStatus("Error: unable to upload file", 2*time.Second)}
	if name == "" {
		return fail(MalformedArgument, f.other)
	}

	src, err := in.local.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return fail(LocalFileMissing, errorStatus(fmt.Sprintf("Error: no such file \"%s\"", name), 3*time.Second))
	}
	if err != nil {
		return fail(GenericOperationFailure, f.other)
	}
	defer src.Close()

	err = in.transfer.upload(src, filepath.Base(name))
	return settle(err, done(successStatus(fmt.Sprintf("File \"%s\" upload successful", name), 4*time.Second)), f)
}

func (in *Interpreter) delete(name string) (result, error) {
	f := failures{
		rejected: errorStatus(fmt.Sprintf("Error: unable to find file \"%s\"", name), 3*time.Second),
		other:    errorStatus("Error: unable to delete file", 2*time.Second),
	}
	if name == "" {
		return fail(MalformedArgument, f.other)
	}
	err := in.session.client.Delete(name)
	return settle(err, done(successStatus(fmt.Sprintf("File \"%s\" deleted", name), 6*time.Second)), f)
}

func (in *Interpreter) rename(arg string) (result, error) {
	from, to, err := SplitRename(arg)
	if err != nil {
		return fail(MalformedArgument, errorStatus("Error: invalid file name", 2*time.Second))
	}
	err = in.session.client.Rename(from, to)
	return settle(err,
		done(successStatus(fmt.Sprintf("File name changed from \"%s\" to \"%s\"", from, to), 4*time.Second)),
		failures{
			rejected: errorStatus(fmt.Sprintf("Error: \"%s\" file not found", from), 3*time.Second),
			other:    errorStatus("Error: name change operation failed", 2*time.Second),
		})
}

func (in *Interpreter) makeDir(name string) (result, error) {
	f := failures{other: errorStatus("Error: unable to create directory", 2*time.Second)}
	if name == "" {
		return fail(MalformedArgument, f.other)
	}
	err := in.session.client.MakeDir(name)
	return settle(err, done(successStatus(fmt.Sprintf("Directory \"%s\" successfully created", name), 4*time.Second)), f)
}

func (in *Interpreter) removeDir(name string) (result, error) {
	f := failures{
		rejected: errorStatus(fmt.Sprintf("Error: directory \"%s\" not found or not empty", name), 5*time.Second),
		other:    errorStatus("Error: unable to remove directory", 2*time.Second),
	}
	if name == "" {
		return fail(MalformedArgument, f.other)
	}
	err := in.session.client.RemoveDir(name)
	return settle(err, done(successStatus(fmt.Sprintf("Directory \"%s\" successfully removed", name), 6*time.Second)), f)
}

// open launches a local copy of name, downloading it first when only the
// server has it.
func (in *Interpreter) open(name string) (result, error) {
	f := failures{other: errorStatus("Error: unable to download and open file", 2*time.Second)}
	if name == "" {
		return fail(MalformedArgument, f.other)
	}

	localName := filepath.Base(name)
	if in.local.Exists(localName) {
		if err := in.local.Launch(localName); err != nil {
			logging.Warn("failed to launch file", zap.String("file", localName), zap.Error(err))
			return fail(GenericOperationFailure, f.other)
		}
		return result{status: done(successStatus("Opening file...", 5*time.Second))}, nil
	}

	names, err := in.session.client.NameList()
	if err != nil {
		return settle(err, nil, f)
	}
	if !slices.Contains(names, name) {
		return fail(NotFound, errorStatus(fmt.Sprintf("Error: file \"%s\" not found for download", name), 5*time.Second))
	}

	if err := in.transfer.download(name, localName); err != nil {
		return settle(err, nil, f)
	}
	if err := in.local.Launch(localName); err != nil {
		logging.Warn("failed to launch file", zap.String("file", localName), zap.Error(err))
		return fail(GenericOperationFailure, f.other)
	}
	return result{status: done(successStatus("Downloading and opening file...", 5*time.Second))}, nil
}
