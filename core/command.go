package core

import (
	"errors"
	"strings"
	"unicode"
)

// RenameSeparator divides the old and new names of a rename argument.
const RenameSeparator = " > "

var errMalformedRename = errors.New(`rename needs "old > new"`)

// Command is a parsed command line. Arg is everything after the verb and is
// never split on whitespace.
type Command struct {
	Verb string
	Arg  string
}

// ParseCommand splits off the verb at the first run of whitespace. It
// reports false for blank input.
func ParseCommand(line string) (Command, bool) {
	line = strings.TrimRight(line, "\r\n")
	line = strings.TrimLeftFunc(line, unicode.IsSpace)
	if line == "" {
		return Command{}, false
	}
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return Command{Verb: line}, true
	}
	return Command{
		Verb: line[:i],
		Arg:  strings.TrimLeftFunc(line[i:], unicode.IsSpace),
	}, true
}

// SplitRename splits "old > new". Exactly one separator and two non-empty
// names are accepted.
func SplitRename(arg string) (from, to string, err error) {
	parts := strings.Split(arg, RenameSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errMalformedRename
	}
	return parts[0], parts[1], nil
}
