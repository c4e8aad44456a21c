package shell

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"ftpshell/core"
)

// Display writes everything the shell shows outside the prompt line.
type Display struct {
	out     io.Writer
	success *color.Color
	failure *color.Color
	info    *color.Color
	heading *color.Color
	alert   *color.Color
}

func NewDisplay(out io.Writer) *Display {
	return &Display{
		out:     out,
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		info:    color.New(color.FgWhite),
		heading: color.New(color.FgCyan, color.Bold),
		alert:   color.New(color.FgRed, color.Bold),
	}
}

// Status prints msg in the colour of its severity.
func (d *Display) Status(msg core.StatusMessage) {
	c := d.info
	switch msg.Severity {
	case core.SeveritySuccess:
		c = d.success
	case core.SeverityError:
		c = d.failure
	}
	c.Fprintln(d.out, msg.Text)
}

func (d *Display) Listing(text string) {
	fmt.Fprintln(d.out, strings.TrimRight(text, "\n"))
	fmt.Fprintln(d.out)
}

func (d *Display) Welcome(text string) {
	if text == "" {
		return
	}
	d.heading.Fprintln(d.out, text)
	fmt.Fprintln(d.out)
}

func (d *Display) Help() {
	fmt.Fprint(d.out, HelpText())
}

// Alert prints a framed error that stays on screen after the shell exits.
func (d *Display) Alert(title, text string) {
	rule := strings.Repeat("=", 40)
	d.failure.Fprintln(d.out, rule)
	d.alert.Fprintln(d.out, title)
	for _, line := range strings.Split(text, "\n") {
		d.failure.Fprintln(d.out, line)
	}
	d.failure.Fprintln(d.out, rule)
}

func (d *Display) Prompt(text string) {
	fmt.Fprint(d.out, text)
}
