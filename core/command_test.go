package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		line string
		want Command
		ok   bool
	}{
		{"", Command{}, false},
		{"   ", Command{}, false},
		{"\r\n", Command{}, false},
		{"exit", Command{Verb: "exit"}, true},
		{"exit\n", Command{Verb: "exit"}, true},
		{"cd pub", Command{Verb: "cd", Arg: "pub"}, true},
		{"  get   my file.txt", Command{Verb: "get", Arg: "my file.txt"}, true},
		{"put\tnotes.txt\r\n", Command{Verb: "put", Arg: "notes.txt"}, true},
		{"rename a b > c d", Command{Verb: "rename", Arg: "a b > c d"}, true},
	}
	for _, tc := range cases {
		got, ok := ParseCommand(tc.line)
		assert.Equal(t, tc.ok, ok, "line %q", tc.line)
		assert.Equal(t, tc.want, got, "line %q", tc.line)
	}
}

func TestSplitRename(t *testing.T) {
	from, to, err := SplitRename("old name.txt > new name.txt")
	require.NoError(t, err)
	assert.Equal(t, "old name.txt", from)
	assert.Equal(t, "new name.txt", to)

	for _, arg := range []string{"", "a.txt", "a.txt>b.txt", "a > b > c", " > b", "a > "} {
		_, _, err := SplitRename(arg)
		assert.Error(t, err, "arg %q", arg)
	}
}
