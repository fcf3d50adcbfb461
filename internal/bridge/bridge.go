// Package bridge adapts the engine's answer and ask-and-wait primitives to
// the input reader.
package bridge

import (
	"errors"

	"github.com/quangloc99/scratch-run/internal/reader"
)

// TokenSentinel is the question text that selects token mode: a program opts
// into word-by-word reading by asking this exact string, any other question
// reads a line. The mode rides on the question's content rather than on a
// separate flag; existing projects depend on the exact value.
const TokenSentinel = "read_token"

// ErrInvalidQuestion means an ask was issued with no question text. That is
// a contract violation in the calling program, not a recoverable condition.
var ErrInvalidQuestion = errors.New("ask issued without a question")

// Bridge exposes the two entry points a running program has into the input
// reader.
type Bridge struct {
	reader *reader.InputReader
}

func New(r *reader.InputReader) *Bridge {
	return &Bridge{reader: r}
}

// Answer returns the most recently produced answer without blocking. Before
// any ask has been answered this is the empty string.
func (b *Bridge) Answer() string {
	return b.reader.Answer()
}

// classify maps question text to a read mode. Keeping the sentinel
// comparison here means nothing else needs to know about it.
func classify(question string) reader.Mode {
	if question == TokenSentinel {
		return reader.ModeToken
	}
	return reader.ModeLine
}

// AskAndWait enqueues an ask and blocks until input satisfies it. Under
// eager delivery all input is already buffered so this returns immediately;
// under incremental delivery it can block for as long as the input source
// stays silent. There is no cancellation and no timeout.
func (b *Bridge) AskAndWait(question string) (string, error) {
	if question == "" {
		return "", ErrInvalidQuestion
	}

	done := make(chan struct{}, 1)
	b.reader.EnqueueAsk(classify(question), func() {
		done <- struct{}{}
	})
	b.reader.TryToAnswer()

	<-done
	return b.reader.Answer(), nil
}
