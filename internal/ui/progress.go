// Package ui holds small terminal presentation helpers.
package ui

import (
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

const progressInterval = 120 * time.Millisecond

// Progress animates a status line on w while a slow call runs. When w is
// not a terminal it does nothing, so piped and redirected output stays
// clean.
type Progress struct {
	spin *spinner.Spinner
}

// NewProgress builds a Progress writing to w. Only an *os.File connected
// to a terminal gets an animation; any other writer yields a no-op.
func NewProgress(w io.Writer, message string) *Progress {
	f, ok := w.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return &Progress{}
	}

	spin := spinner.New(spinner.CharSets[14], progressInterval, spinner.WithWriter(f))
	spin.Suffix = " " + message
	return &Progress{spin: spin}
}

func (p *Progress) Start() {
	if p.spin != nil {
		p.spin.Start()
	}
}

func (p *Progress) Stop() {
	if p.spin != nil {
		p.spin.Stop()
	}
}
