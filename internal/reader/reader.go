// Package reader synchronizes line-oriented input with a program that asks
// for answers on its own schedule.
//
// Lines and asks arrive in unrelated temporal order: the delivery strategy
// appends lines whenever the input stream produces them, the bridge enqueues
// asks whenever the running program issues them. TryToAnswer is the single
// meeting point, pairing the oldest pending ask with the next available
// token or line, strictly FIFO.
package reader

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/quangloc99/scratch-run/internal/queue"
)

// Mode selects how an answer is cut from the buffered input.
type Mode int

const (
	// ModeToken answers with the next whitespace-delimited word.
	ModeToken Mode = iota

	// ModeLine answers with the rest of the current line.
	ModeLine
)

type pendingRequest struct {
	mode       Mode
	completion func()
}

// InputReader owns the buffered input lines, a cursor into the front line,
// and the queue of not-yet-answered asks.
//
// The lock keeps every mutation atomic; completion callbacks run outside of
// it so they may call back into the reader.
type InputReader struct {
	lock          sync.Mutex
	lines         queue.Queue[string]
	cursor        int
	pending       queue.Queue[pendingRequest]
	currentAnswer string
	exhausted     bool
}

func New() *InputReader {
	return &InputReader{}
}

// AddLine appends one line to the input buffer. The line must not contain
// any line terminator, splitting happens upstream.
func (r *InputReader) AddLine(line string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.lines.Push(line)
}

// AddLines appends lines to the input buffer, preserving their order.
func (r *InputReader) AddLines(lines []string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.lines.PushAll(lines)
}

// EnqueueAsk records an ask to be answered once input is available. The
// completion callback fires at most once, when the ask is answered. This
// method never attempts to answer anything itself; callers follow up with
// TryToAnswer. The separation lets eager delivery buffer all input before
// the first attempt.
func (r *InputReader) EnqueueAsk(mode Mode, completion func()) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.pending.Push(pendingRequest{mode: mode, completion: completion})
}

// MarkExhausted records that the input stream has ended for good. From this
// point asks that cannot be satisfied from what is buffered resolve with the
// empty answer instead of waiting for input that will never come.
func (r *InputReader) MarkExhausted() {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.exhausted = true
}

// Answer returns the most recently produced answer, or the empty string if
// no ask was ever answered.
func (r *InputReader) Answer() string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.currentAnswer
}

// PendingCount returns the number of asks still waiting for input.
func (r *InputReader) PendingCount() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.pending.Len()
}

// TryToAnswer attempts to resolve the oldest pending ask from the buffered
// input. At most one ask is resolved per call even if more could be; callers
// re-invoke whenever new input arrives. Calling with no pending asks is a
// no-op, so it is always safe to trigger redundantly.
func (r *InputReader) TryToAnswer() {
	r.lock.Lock()

	request, ok := r.pending.Front()
	if !ok {
		r.lock.Unlock()
		return
	}

	var answer string
	var found bool
	switch request.mode {
	case ModeToken:
		answer, found = r.readToken()
	case ModeLine:
		answer, found = r.readLine()
	}

	if !found {
		if !r.exhausted {
			// Not enough input yet, the ask stays pending until more
			// lines show up
			r.lock.Unlock()
			return
		}

		// The stream is done, nothing more will ever arrive. Answer empty
		// rather than hang.
		log.Warn("Program asked for input but the input stream is exhausted, answering empty")
		answer = ""
	}

	r.currentAnswer = answer
	r.pending.Shift()
	r.lock.Unlock()

	if request.completion != nil {
		request.completion()
	}
}

// Token separators within a line. Newlines and carriage returns never occur
// here, lines are split and stripped before they reach the buffer.
func isTokenSeparator(b byte) bool {
	switch b {
	case ' ', '\t', '\v', '\f':
		return true
	}
	return false
}

// readToken cuts the next whitespace-delimited word from the buffered lines,
// retiring lines it exhausts along the way. Assumes the lock is held.
func (r *InputReader) readToken() (string, bool) {
	for {
		line, ok := r.lines.Front()
		if !ok {
			return "", false
		}

		start := r.cursor
		for start < len(line) && isTokenSeparator(line[start]) {
			start++
		}
		if start >= len(line) {
			// Nothing but separators left on this line
			r.lines.Shift()
			r.cursor = 0
			continue
		}

		end := start
		for end < len(line) && !isTokenSeparator(line[end]) {
			end++
		}

		if end >= len(line) {
			r.lines.Shift()
			r.cursor = 0
		} else {
			r.cursor = end
		}

		return line[start:end], true
	}
}

// readLine consumes the front line and returns what is left of it after the
// cursor. Assumes the lock is held.
func (r *InputReader) readLine() (string, bool) {
	line, ok := r.lines.Shift()
	if !ok {
		return "", false
	}

	rest := line[r.cursor:]
	r.cursor = 0
	return rest, true
}
