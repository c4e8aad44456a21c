package listing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line     string
		kind     Kind
		name     string
		modified string
		size     int64
	}{
		{"drwxrwxr-x 2 0 0 4096 Dec 11 2016 My Photos", Directory, "My Photos", "Dec 11 2016", 0},
		{"-rw-r--r-- 1 0 0 2048 Jan 5 2021 notes.txt", File, "notes.txt", "Jan 5 2021", 2048},
		{"-rw-r--r--   1 ftp   ftp      17 Mar  3 09:15   a   b  c.txt", File, "a b c.txt", "Mar 3 09:15", 17},
		{"lrwxrwxrwx 1 0 0 7 Feb 1 2020 latest -> v1.2", File, "latest -> v1.2", "Feb 1 2020", 7},
	}

	for _, tt := range tests {
		entry, err := ParseLine(tt.line)
		require.NoError(t, err, tt.line)
		assert.Equal(t, tt.kind, entry.Kind, tt.line)
		assert.Equal(t, tt.name, entry.Name, tt.line)
		assert.Equal(t, tt.modified, entry.Modified, tt.line)
		assert.Equal(t, tt.size, entry.Size, tt.line)
		assert.Equal(t, strings.Fields(tt.line)[0], entry.Permissions, tt.line)
	}
}

func TestParseLineNameCanonicalizesWhitespace(t *testing.T) {
	line := "-rw-r--r-- 1 0 0 10 Jan 5 2021 \tquarterly   report\t final.pdf"
	entry, err := ParseLine(line)
	require.NoError(t, err)
	tail := strings.Fields(line)[8:]
	assert.Equal(t, strings.Join(tail, " "), entry.Name)
	assert.Equal(t, "quarterly report final.pdf", entry.Name)
}

func TestParseLineMalformed(t *testing.T) {
	for _, line := range []string{
		"total 12",
		"-rw-r--r-- 1 0 0 2048 Jan 5 2021",
		"-rw-r--r-- 1 0 0 big Jan 5 2021 file",
		"-rw-r--r-- 1 0 0 -4 Jan 5 2021 file",
	} {
		_, err := ParseLine(line)
		assert.ErrorIs(t, err, ErrMalformedLine, line)
	}
}

func TestParseSkipsMalformedAndKeepsOrder(t *testing.T) {
	entries, skipped := Parse([]string{
		"total 3",
		"-rw-r--r-- 1 0 0 1 Jan 5 2021 zeta",
		"",
		"drwxr-xr-x 2 0 0 0 Jan 5 2021 alpha",
		"garbage",
		"-rw-r--r-- 1 0 0 2 Jan 5 2021 mid",
	})
	assert.Equal(t, 2, skipped)
	require.Len(t, entries, 3)
	assert.Equal(t, "zeta", entries[0].Name)
	assert.Equal(t, "alpha", entries[1].Name)
	assert.Equal(t, "mid", entries[2].Name)
}

func TestDirectoryHasNoSize(t *testing.T) {
	entry, err := ParseLine("drwxr-xr-x 5 0 0 32768 Dec 11 2016 archive")
	require.NoError(t, err)
	assert.Equal(t, Directory, entry.Kind)
	assert.Equal(t, "", entry.SizeText())
	assert.Equal(t, "dir", entry.Label())
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1 kB"},
		{1025, "1 kB"},
		{1535, "1 kB"},
		{1536, "2 kB"},
		{2048, "2 kB"},
		{1048575, "1024 kB"},
		{1048576, "1.0 MB"},
		{1572864, "1.5 MB"},
		{1101005, "1.1 MB"},
		{1073741823, "1024.0 MB"},
		{1073741824, "1.0 GB"},
		{1610612736, "1.5 GB"},
		{1127428916, "1.1 GB"},
		{10 * 1073741824, "10.0 GB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSize(tt.n), "FormatSize(%d)", tt.n)
	}
}

func TestRender(t *testing.T) {
	entries, skipped := Parse([]string{
		"drwxrwxr-x 2 0 0 0 Dec 11 2016 My Photos",
		"-rw-r--r-- 1 0 0 2048 Jan 5 2021 notes.txt",
	})
	require.Zero(t, skipped)
	require.Len(t, entries, 2)
	assert.Equal(t, Directory, entries[0].Kind)
	assert.Equal(t, "My Photos", entries[0].Name)
	assert.Equal(t, "", entries[0].SizeText())
	assert.Equal(t, File, entries[1].Kind)
	assert.Equal(t, "notes.txt", entries[1].Name)
	assert.Equal(t, "2 kB", entries[1].SizeText())

	out := Render("/pub", entries)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 7)

	assert.Equal(t, "Current Directory /pub", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "      NAME"+strings.Repeat(" ", 16)+"SIZE"+strings.Repeat(" ", 10)+"DATE MODIFIED", lines[2])
	assert.Equal(t, "      ---------"+strings.Repeat(" ", 6)+"---------"+strings.Repeat(" ", 5)+strings.Repeat("-", 18), lines[3])
	assert.Equal(t, "dir   My Photos"+strings.Repeat(" ", 15)+strings.Repeat(" ", 12)+"Dec 11 2016", lines[4])
	assert.Equal(t, "      notes.txt"+strings.Repeat(" ", 11)+"2 kB"+strings.Repeat(" ", 13)+"Jan 5 2021", lines[5])
	assert.Equal(t, "", lines[6])
}

func TestRenderWidensNameColumn(t *testing.T) {
	entries, _ := Parse([]string{
		"-rw-r--r-- 1 0 0 5 Jan 5 2021 a",
		"-rw-r--r-- 1 0 0 5 Jan 5 2021 a much longer file name.txt",
	})
	out := Render("/", entries)
	lines := strings.Split(out, "\n")
	width := len("a much longer file name.txt")

	// Size columns end at the same offset on every row.
	assert.Equal(t, 6+width+15, strings.Index(lines[5], "5 B")+len("5 B"))
	assert.Equal(t, 6+width+15, strings.Index(lines[4], "5 B")+len("5 B"))
	assert.Equal(t, 6+width+15, strings.Index(lines[2], "SIZE")+len("SIZE"))
}

func TestRenderEmptyDirectory(t *testing.T) {
	out := Render("/empty", nil)
	assert.True(t, strings.HasPrefix(out, "Current Directory /empty\n\n"))
	assert.Equal(t, 4, strings.Count(out, "\n"))
}
