// Package output forwards the program's say and think events to the output
// stream.
package output

import (
	"fmt"
	"io"
)

// Event kinds as the engine reports them.
const (
	KindSay   = "say"
	KindThink = "think"
)

// Sink writes program output. Writes go straight through, there is no
// buffering to flush.
type Sink struct {
	out io.Writer
}

func NewSink(out io.Writer) *Sink {
	return &Sink{out: out}
}

// Say writes text followed by a newline.
func (s *Sink) Say(text string) {
	_, _ = fmt.Fprintln(s.out, text)
}

// Think writes text without a trailing newline. Programs use this for
// prompts that the answer should follow on the same line.
func (s *Sink) Think(text string) {
	_, _ = fmt.Fprint(s.out, text)
}

// OnSay is the engine-facing event hook. Unknown kinds are treated as say.
func (s *Sink) OnSay(target string, kind string, text string) {
	if kind == KindThink {
		s.Think(text)
		return
	}
	s.Say(text)
}
