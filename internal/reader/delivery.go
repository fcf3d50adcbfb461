package reader

import (
	"bufio"
	"fmt"
	"io"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
)

// Lines can get long; keep bufio.Scanner from giving up on them too early.
const maxLineBytes = 1024 * 1024

func lineScanner(input io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	// ScanLines strips the trailing \r of CRLF input, so buffered lines
	// never contain any line terminator
	scanner.Split(bufio.ScanLines)

	return scanner
}

// DeliverEagerly reads the whole input stream to the end, then hands all of
// its lines to the reader in one call. After this returns every ask resolves
// synchronously at issuance time; asks beyond the buffered input get the
// empty answer.
func DeliverEagerly(input io.Reader, to *InputReader) error {
	var lines []string

	scanner := lineScanner(input)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	to.AddLines(lines)
	to.MarkExhausted()
	return nil
}

// DeliverIncrementally feeds lines to the reader as they arrive on the
// stream, retrying the oldest pending ask after each one. Returns
// immediately; scanning runs on its own goroutine until the stream ends.
func DeliverIncrementally(input io.Reader, to *InputReader) {
	go func() {
		defer func() {
			panicHandler("DeliverIncrementally", recover(), debug.Stack())
		}()

		scanner := lineScanner(input)
		for scanner.Scan() {
			to.AddLine(scanner.Text())
			to.TryToAnswer()
		}
		if err := scanner.Err(); err != nil {
			log.Warn("Reading input failed: ", err)
		}

		// End of stream. Any ask still pending, and any ask yet to come,
		// resolves with the empty answer.
		to.MarkExhausted()
		for to.PendingCount() > 0 {
			to.TryToAnswer()
		}
	}()
}
