// Package ui renders charts, aspects, and time maps for the terminal. Tables
// go to the output writer; status lines go to the error writer so output can
// be piped.
package ui

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Printer writes styled terminal output.
type Printer struct {
	out io.Writer
	err io.Writer
	now func() time.Time
}

// New returns a Printer on stdout and stderr.
func New() *Printer {
	return NewWithWriters(os.Stdout, os.Stderr)
}

// NewWithWriters returns a Printer on the given writers.
func NewWithWriters(out, err io.Writer) *Printer {
	return &Printer{out: out, err: err, now: time.Now}
}

// Info prints a dim status line.
func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.err, styleDim.Render(msg))
}

// Success prints a confirmation line.
func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.err, styleSuccess.Render(iconDone+" "+msg))
}

// Warn prints a warning line.
func (p *Printer) Warn(msg string) {
	fmt.Fprintln(p.err, styleWarn.Render(iconWarn+" "+msg))
}

// Error prints an error line.
func (p *Printer) Error(msg string) {
	fmt.Fprintln(p.err, styleError.Render(iconFailed+" error: ")+msg)
}

func (p *Printer) heading(title string) {
	fmt.Fprintln(p.out, styleHeading.Render(title))
}
