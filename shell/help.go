package shell

import (
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/mattn/go-runewidth"
)

type verbHelp struct {
	usage string
	text  string
}

var verbHelps = []verbHelp{
	{"cd [dir]", "access directory"},
	{"cd ..", "move up 1 directory"},
	{"get [file]", "download file"},
	{"put [file]", "upload file"},
	{"rename [old > new]", "change file name using >"},
	{"mkdir [dir]", "create new directory"},
	{"rmdir [dir]", "remove directory"},
	{"delete [file]", "delete file"},
	{"op [file]", "download then open file"},
	{"exit", "close program"},
	{"help", "show this list"},
}

// HelpText is the command list printed by "help" and "?".
func HelpText() string {
	width := 0
	for _, h := range verbHelps {
		width = max(width, runewidth.StringWidth(h.usage))
	}

	var b strings.Builder
	b.WriteString("Commands\n")
	for _, h := range verbHelps {
		b.WriteString("  ")
		b.WriteString(runewidth.FillRight(h.usage, width))
		b.WriteString("  :  ")
		b.WriteString(h.text)
		b.WriteString("\n")
	}
	return b.String()
}

var suggestions = []prompt.Suggest{
	{Text: "cd", Description: "access directory"},
	{Text: "get", Description: "download file"},
	{Text: "put", Description: "upload file"},
	{Text: "rename", Description: "change file name: old > new"},
	{Text: "mkdir", Description: "create new directory"},
	{Text: "rmdir", Description: "remove directory"},
	{Text: "delete", Description: "delete file"},
	{Text: "op", Description: "download then open file"},
	{Text: "exit", Description: "close program"},
	{Text: "help", Description: "show commands"},
}

// completer suggests verbs while the first word is being typed.
func completer(d prompt.Document) []prompt.Suggest {
	before := d.TextBeforeCursor()
	if strings.TrimSpace(before) == "" || strings.ContainsAny(before, " \t") {
		return nil
	}
	return prompt.FilterHasPrefix(suggestions, d.GetWordBeforeCursor(), true)
}
