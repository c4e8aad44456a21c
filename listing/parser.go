// Package listing turns raw long-format directory listing lines into entries
// and lays them out as an aligned text table.
package listing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedLine is returned for listing lines that do not carry the
// nine long-format fields.
var ErrMalformedLine = errors.New("malformed listing line")

// minFields is permissions, links, owner, group, size, month, day, year, name.
const minFields = 9

type Kind int

const (
	File Kind = iota
	Directory
)

func (k Kind) String() string {
	if k == Directory {
		return "directory"
	}
	return "file"
}

// Entry is one remote object from a directory listing.
type Entry struct {
	Kind        Kind
	Permissions string
	Size        int64 // files only
	Name        string
	Modified    string // "Mon D YYYY" or "Mon D HH:MM"
}

// ParseLine splits a long-format line into an Entry. The name and the
// modification date are rebuilt from their tokens joined by single spaces.
func ParseLine(line string) (Entry, error) {
	fields := strings.Fields(line)
	if len(fields) < minFields {
		return Entry{}, fmt.Errorf("%w: %d fields in %q", ErrMalformedLine, len(fields), line)
	}

	entry := Entry{
		Kind:        File,
		Permissions: fields[0],
		Modified:    strings.Join(fields[5:8], " "),
		Name:        strings.Join(fields[8:], " "),
	}
	if fields[0][0] == 'd' {
		entry.Kind = Directory
		return entry, nil
	}

	size, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil || size < 0 {
		return Entry{}, fmt.Errorf("%w: bad size %q", ErrMalformedLine, fields[4])
	}
	entry.Size = size
	return entry, nil
}

// Parse converts lines in server order. Lines that cannot be parsed are
// dropped; the number dropped is returned alongside the entries.
func Parse(lines []string) ([]Entry, int) {
	entries := make([]Entry, 0, len(lines))
	skipped := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entry, err := ParseLine(line)
		if err != nil {
			skipped++
			continue
		}
		entries = append(entries, entry)
	}
	return entries, skipped
}
