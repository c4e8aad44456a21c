package listing

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	labelGap      = "   "
	sizeWidth     = 15
	modifiedWidth = 23
	// minNameWidth keeps the column at least as wide as its rule.
	minNameWidth = len(nameRule)
	nameRule     = "---------"
)

// Render lays out entries beneath a header naming the current directory.
// The name column is as wide as the widest name in this listing.
func Render(cwd string, entries []Entry) string {
	width := minNameWidth
	for _, e := range entries {
		if w := runewidth.StringWidth(e.Name); w > width {
			width = w
		}
	}

	var b strings.Builder
	b.WriteString("Current Directory ")
	b.WriteString(cwd)
	b.WriteString("\n\n")

	indent := strings.Repeat(" ", len("dir")+len(labelGap))
	b.WriteString(indent)
	b.WriteString(runewidth.FillRight("NAME", width+sizeWidth-len("SIZE")))
	b.WriteString("SIZE")
	b.WriteString(runewidth.FillLeft("DATE MODIFIED", modifiedWidth))
	b.WriteString("\n")
	b.WriteString(indent)
	b.WriteString(runewidth.FillRight(nameRule, width+sizeWidth-len(nameRule)))
	b.WriteString(nameRule)
	b.WriteString(runewidth.FillLeft(strings.Repeat("-", 18), modifiedWidth))
	b.WriteString("\n")

	for _, e := range entries {
		row := e.Label() + labelGap +
			runewidth.FillRight(e.Name, width) +
			runewidth.FillLeft(e.SizeText(), sizeWidth) +
			runewidth.FillLeft(e.Modified, modifiedWidth)
		b.WriteString(strings.TrimRight(row, " "))
		b.WriteString("\n")
	}
	return b.String()
}
