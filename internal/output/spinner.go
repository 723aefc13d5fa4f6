package output

import (
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner character sets from briandowns/spinner.
const (
	unicodeSpinnerSet = 14 // ⠋ ⠙ ⠹ ⠸ ⠼ ⠴ ⠦ ⠧ ⠇ ⠏
	asciiSpinnerSet   = 9  // | / - \
)

// Spinner shows activity while fraglog waits. A nil *Spinner is valid and
// does nothing, which is what StartSpinner returns off a terminal.
type Spinner struct {
	s *spinner.Spinner
}

// StartSpinner starts a spinner with message on w when w is a terminal.
// Set FRAGLOG_ASCII=1 to use ASCII frames.
func StartSpinner(w io.Writer, message string) *Spinner {
	if !IsTerminal(w) {
		return nil
	}

	set := unicodeSpinnerSet
	if os.Getenv("FRAGLOG_ASCII") == "1" {
		set = asciiSpinnerSet
	}

	s := spinner.New(spinner.CharSets[set], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + message
	s.Start()
	return &Spinner{s: s}
}

// Pause hides the spinner so that other output can be written.
func (s *Spinner) Pause() {
	if s != nil {
		s.s.Stop()
	}
}

// Resume shows the spinner again after Pause.
func (s *Spinner) Resume() {
	if s != nil {
		s.s.Start()
	}
}

// Stop hides the spinner for good.
func (s *Spinner) Stop() {
	s.Pause()
}
